package server

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cwbudde/algo-ecg/dsp/core"
	"github.com/cwbudde/algo-ecg/dsp/ecg"
	"github.com/cwbudde/algo-ecg/internal/monitor"
	"github.com/cwbudde/algo-ecg/internal/simulator"
)

type sessionResponse struct {
	ID       string             `json:"id"`
	Display  core.Display       `json:"display"`
	Settings simulator.Settings `json:"settings"`
}

type stateResponse struct {
	Sweep  ecg.CycleState `json:"sweep"`
	Stream ecg.CycleState `json:"stream"`
}

type windowResponse struct {
	Display core.Display   `json:"display"`
	State   ecg.CycleState `json:"state"`
	Points  []ecg.Point    `json:"points"`
}

func abortWithError(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// lookup resolves the :id parameter, writing the error response on failure.
func (s *Server) lookup(c *gin.Context) (uuid.UUID, *simulator.Engine, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, errors.New("invalid session id"))
		return uuid.Nil, nil, false
	}
	eng, err := s.Session(id)
	if err != nil {
		abortWithError(c, http.StatusNotFound, err)
		return uuid.Nil, nil, false
	}
	return id, eng, true
}

func (s *Server) createSession(c *gin.Context) {
	id, eng, err := s.Create()
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err)
		return
	}

	if c.Request.ContentLength > 0 {
		var settings simulator.Settings
		if err := c.ShouldBindJSON(&settings); err != nil {
			_ = s.Remove(id)
			abortWithError(c, http.StatusBadRequest, err)
			return
		}
		if err := eng.SetSettings(settings); err != nil {
			_ = s.Remove(id)
			abortWithError(c, http.StatusBadRequest, err)
			return
		}
		eng.Apply()
	}

	s.log.Info("session created", "session", id)
	c.JSON(http.StatusCreated, sessionResponse{
		ID:       id.String(),
		Display:  eng.Display(),
		Settings: eng.Settings(),
	})
}

func (s *Server) deleteSession(c *gin.Context) {
	id, _, ok := s.lookup(c)
	if !ok {
		return
	}
	if err := s.Remove(id); err != nil {
		abortWithError(c, http.StatusNotFound, err)
		return
	}
	s.log.Info("session removed", "session", id)
	c.Status(http.StatusNoContent)
}

func (s *Server) getSettings(c *gin.Context) {
	_, eng, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, eng.Settings())
}

func (s *Server) putSettings(c *gin.Context) {
	id, eng, ok := s.lookup(c)
	if !ok {
		return
	}

	var settings simulator.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}
	if err := eng.SetSettings(settings); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	current := eng.Settings()
	if err := s.pub.PublishSettings(s.topic(id, "settings"), current); err != nil {
		s.log.Warn("publish settings failed", "session", id, "error", err)
	}
	c.JSON(http.StatusOK, current)
}

func (s *Server) apply(c *gin.Context) {
	_, eng, ok := s.lookup(c)
	if !ok {
		return
	}
	eng.Apply()
	c.JSON(http.StatusOK, windowResponse{
		Display: eng.Display(),
		State:   eng.State(),
		Points:  eng.Window(),
	})
}

// window returns the window being drawn, or the next stream window when
// next=true. Stream windows advance the stream counters and go to the bus.
func (s *Server) window(c *gin.Context) {
	id, eng, ok := s.lookup(c)
	if !ok {
		return
	}

	next, _ := strconv.ParseBool(c.DefaultQuery("next", "false"))
	resp := windowResponse{Display: eng.Display()}
	if next {
		resp.Points = eng.NextWindow()
		resp.State = eng.StreamState()
		if err := s.pub.PublishWindow(s.topic(id, "wave"), resp.Points); err != nil {
			s.log.Warn("publish window failed", "session", id, "error", err)
		}
	} else {
		resp.Points = eng.Window()
		resp.State = eng.State()
	}
	c.JSON(http.StatusOK, resp)
}

// svg renders the current window. With dt set it advances the sweep and
// renders the resulting monitor frame instead.
func (s *Server) svg(c *gin.Context) {
	_, eng, ok := s.lookup(c)
	if !ok {
		return
	}

	frame := monitor.Snapshot(eng.Window())
	if raw, has := c.GetQuery("dt"); has {
		dt, err := strconv.ParseFloat(raw, 64)
		if err != nil || dt < 0 {
			abortWithError(c, http.StatusBadRequest, errors.New("dt must be a non-negative number"))
			return
		}
		frame = eng.Advance(dt)
	}

	var buf bytes.Buffer
	if err := monitor.WriteSVG(&buf, eng.Display(), frame); err != nil {
		abortWithError(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

func (s *Server) state(c *gin.Context) {
	_, eng, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, stateResponse{Sweep: eng.State(), Stream: eng.StreamState()})
}
