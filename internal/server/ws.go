package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/cwbudde/algo-ecg/internal/stream"
)

const writeWait = 200 * time.Millisecond

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamWindows pushes one binary window per window duration until the
// client goes away. Every pushed window is also published to the bus.
func (s *Server) streamWindows(c *gin.Context) {
	id, eng, ok := s.lookup(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "session", id, "error", err)
		return
	}
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	period := time.Duration(eng.Display().WindowSeconds() * float64(time.Second))
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	s.log.Info("stream started", "session", id, "period", period)
	defer s.log.Info("stream stopped", "session", id)

	for {
		if _, err := s.Session(id); err != nil {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "session removed"),
				time.Now().Add(writeWait))
			return
		}

		pts := eng.NextWindow()
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.BinaryMessage, stream.EncodeWindow(pts)); err != nil {
			return
		}
		if err := s.pub.PublishWindow(s.topic(id, "wave"), pts); err != nil {
			s.log.Warn("publish window failed", "session", id, "error", err)
		}

		select {
		case <-done:
			return
		case <-ticker.C:
		}
	}
}
