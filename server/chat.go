package server

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/xhad/formbot/pkg/dispatch"
)

// Message is a websocket chat frame. Clients send type "message"; the server
// answers with one "response" frame per reply, or an "error" frame.
type Message struct {
	Type             string `json:"type"`
	Content          string `json:"content"`
	MediaURL         string `json:"media_url,omitempty"`
	MediaContentType string `json:"media_content_type,omitempty"`
}

const (
	MessageTypeMessage  = "message"
	MessageTypeResponse = "response"
	MessageTypeError    = "error"
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.L().Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Warn("Error reading message", zap.Error(err))
			}
			return
		}

		if msg.Type != MessageTypeMessage {
			s.send(conn, MessageTypeError, "unsupported message type: "+msg.Type)
			continue
		}

		event := dispatch.Event{
			Body:             msg.Content,
			MediaURL:         msg.MediaURL,
			MediaContentType: msg.MediaContentType,
		}
		replies, err := s.handler.Handle(r.Context(), event)
		if err != nil {
			zap.L().Error("failed to handle chat message",
				zap.Error(err),
				zap.String("request_id", requestID(r)))
			s.send(conn, MessageTypeError, http.StatusText(http.StatusInternalServerError))
			continue
		}

		for _, reply := range replies {
			s.send(conn, MessageTypeResponse, reply)
		}
	}
}

func (s *Server) send(conn *websocket.Conn, msgType, content string) {
	msg := Message{
		Type:    msgType,
		Content: content,
	}
	if err := conn.WriteJSON(msg); err != nil {
		zap.L().Warn("Error sending message", zap.Error(err))
	}
}

func requestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}
