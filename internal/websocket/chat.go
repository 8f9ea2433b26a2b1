package websocket

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/suracI-invert/mock-frontend/internal/middleware"
	"github.com/suracI-invert/mock-frontend/internal/models"
	"github.com/suracI-invert/mock-frontend/internal/services"
	"github.com/suracI-invert/mock-frontend/internal/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const (
	frameKickoff = "kickoff"
	frameMessage = "message"
	frameToken   = "token"
	frameDone    = "done"
	frameError   = "error"
)

type frame struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// ChatRelay bridges one browser websocket to the chat session controller,
// forwarding stream tokens as they arrive. The read loop runs one turn at
// a time, so a single socket cannot start a second turn mid-stream; the
// controller's own guard covers concurrent sockets on the same session.
type ChatRelay struct {
	chat     *services.ChatService
	store    session.Store
	sessions *middleware.SessionManager
}

func NewChatRelay(chat *services.ChatService, store session.Store, sessions *middleware.SessionManager) *ChatRelay {
	return &ChatRelay{chat: chat, store: store, sessions: sessions}
}

func (relay *ChatRelay) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sid, ok := relay.sessions.SessionID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sess := session.New(relay.store, sid)
	ctx := r.Context()

	for {
		var in frame
		if err := conn.ReadJSON(&in); err != nil {
			return
		}

		onToken := func(token string) {
			conn.WriteJSON(frame{Type: frameToken, Content: token})
		}

		var chat *models.ChatSession
		var turnErr error
		switch in.Type {
		case frameKickoff:
			chat, turnErr = relay.chat.Kickoff(ctx, sess, in.Content, onToken)
		case frameMessage:
			chat, turnErr = relay.chat.Send(ctx, sess, in.Content, onToken)
		default:
			conn.WriteJSON(frame{Type: frameError, Content: "Unknown frame type"})
			continue
		}

		if turnErr != nil {
			conn.WriteJSON(frame{Type: frameError, Content: turnErr.Error()})
			continue
		}

		reply := ""
		if n := len(chat.History); n > 0 {
			reply = chat.History[n-1].Content
		}
		conn.WriteJSON(frame{Type: frameDone, Content: reply})
	}
}
