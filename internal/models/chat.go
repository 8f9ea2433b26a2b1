package models

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatState names where a chat session is in its lifecycle.
type ChatState string

const (
	ChatUninitialized    ChatState = "uninitialized"
	ChatAwaitingLanguage ChatState = "awaiting_language"
	ChatActive           ChatState = "active"
)

// ChatSession holds one conversational session. History is append-only;
// replacing the session id discards the whole session.
type ChatSession struct {
	SessionID        string    `json:"session_id"`
	Lang             string    `json:"lang,omitempty"`
	History          []Message `json:"history"`
	LanguageSelected bool      `json:"language_selected"`
	KickoffDone      bool      `json:"kickoff_done"`
	Streaming        bool      `json:"streaming"`
}

func (s *ChatSession) State() ChatState {
	if s == nil {
		return ChatUninitialized
	}
	if !s.LanguageSelected {
		return ChatAwaitingLanguage
	}
	return ChatActive
}

// ChatStreamRequest is the payload for the backend's streaming chat endpoint.
type ChatStreamRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
	Lang           string `json:"lang"`
	User           string `json:"user"`
}
