package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-ecg/dsp/core"
)

func ExampleApplyDisplayOptions() {
	d := core.ApplyDisplayOptions(
		core.WithWidth(600),
		core.WithPixelsPerSecond(200),
	)

	fmt.Printf("window=%.1fs baseline=%.0f\n", d.WindowSeconds(), d.Baseline())

	// Output:
	// window=3.0s baseline=200
}
