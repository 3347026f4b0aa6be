// Package handler serves the streaming variant of outreach generation over a
// websocket.
package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/unclebandit/coldreach-backend/internal/auth"
	"github.com/unclebandit/coldreach-backend/internal/controller"
	"github.com/unclebandit/coldreach-backend/internal/service"
)

// Frame types written to the client.
const (
	FrameProgress = "progress"
	FrameResult   = "result"
	FrameError    = "error"
)

const (
	requestTimeout = 10 * time.Second
	writeTimeout   = 10 * time.Second
)

// Frame is one websocket message.
type Frame struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// OutreachStream runs one generation per connection. The client sends the
// request as its first frame and receives a progress frame per stage, then a
// result or error frame, after which the server closes the connection.
type OutreachStream struct {
	OutreachService *service.OutreachService
	Logger          *zap.Logger
	Upgrader        websocket.Upgrader
}

func NewOutreachStream(svc *service.OutreachService, logger *zap.Logger, allowedOrigins []string) *OutreachStream {
	return &OutreachStream{
		OutreachService: svc,
		Logger:          logger,
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// originChecker returns nil for an empty list, which keeps the upgrader's
// same-origin check. "*" allows any origin.
func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(r *http.Request) bool { return true }
		}
		set[o] = true
	}
	return func(r *http.Request) bool {
		return set[r.Header.Get("Origin")]
	}
}

func (h *OutreachStream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.Logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	send := func(f Frame) bool {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(f); err != nil {
			h.Logger.Debug("websocket write failed", zap.Error(err))
			return false
		}
		return true
	}

	var body controller.OutreachBody
	conn.SetReadDeadline(time.Now().Add(requestTimeout))
	if err := conn.ReadJSON(&body); err != nil {
		send(Frame{Type: FrameError, Payload: map[string]string{"error": "invalid request"}})
		return
	}
	conn.SetReadDeadline(time.Time{})

	out, err := h.OutreachService.Run(r.Context(), body.Request(auth.UserID(r.Context())), func(p service.Progress) {
		send(Frame{Type: FrameProgress, Payload: p})
	})
	switch {
	case err != nil:
		send(Frame{Type: FrameError, Payload: map[string]string{"error": err.Error()}})
	case out.Stage == service.StageFailed:
		send(Frame{Type: FrameError, Payload: map[string]string{"error": out.Alert}})
	default:
		send(Frame{Type: FrameResult, Payload: out})
	}

	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}
