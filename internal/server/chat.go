package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Serhii-Leonenko/ragserver/internal/rag"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// chatRequest is the incoming WebSocket message format.
type chatRequest struct {
	Type    string `json:"type"` // "ask"
	Content string `json:"content"`
	TopK    int    `json:"top_k,omitempty"`
}

// chatResponse is the outgoing WebSocket message format.
type chatResponse struct {
	Type       string         `json:"type"` // "response" or "error"
	Content    string         `json:"content"`
	Sources    []rag.Source   `json:"sources,omitempty"`
	Confidence rag.Confidence `json:"confidence,omitempty"`
}

// handleChat serves an interactive question/answer session over a WebSocket.
// Each "ask" message runs the full query pipeline; errors are reported as
// messages and the connection stays open.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: websocket read: %v", err)
			}
			return
		}

		var req chatRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendChatError(conn, "invalid message format")
			continue
		}

		if req.Type != "ask" {
			s.sendChatError(conn, "unknown message type: "+req.Type)
			continue
		}
		if req.Content == "" {
			s.sendChatError(conn, "content is required")
			continue
		}
		if req.TopK != 0 && (req.TopK < rag.MinTopK || req.TopK > rag.MaxTopK) {
			s.sendChatError(conn, "top_k out of range")
			continue
		}

		answer, err := s.rag.Query(r.Context(), req.Content, req.TopK)
		if err != nil {
			s.sendChatError(conn, "question failed: "+err.Error())
			continue
		}

		s.sendChatMessage(conn, chatResponse{
			Type:       "response",
			Content:    answer.Answer,
			Sources:    answer.Sources,
			Confidence: answer.Confidence,
		})
	}
}

func (s *Server) sendChatMessage(conn *websocket.Conn, resp chatResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("server: websocket write: %v", err)
	}
}

func (s *Server) sendChatError(conn *websocket.Conn, message string) {
	s.sendChatMessage(conn, chatResponse{Type: "error", Content: message})
}
