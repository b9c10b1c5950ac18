// Package testutil provides signal fixtures and tolerance assertions for tests.
package testutil
