package services

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/suracI-invert/mock-frontend/internal/gateway"
	"github.com/suracI-invert/mock-frontend/internal/models"
	"github.com/suracI-invert/mock-frontend/internal/session"
)

// FailedResponseMessage is appended as a synthetic assistant turn when the
// backend stream fails or yields nothing. The session stays usable.
const FailedResponseMessage = "Failed to get response"

var supportedLanguages = map[string]bool{
	"vietnamese": true,
	"english":    true,
}

type chatStreamer interface {
	StreamChat(ctx context.Context, req models.ChatStreamRequest) (gateway.TokenStream, error)
}

// ChatService drives one conversational session per browser session:
// uninitialized -> awaiting language selection -> active. History is
// append-only and strictly ordered by arrival.
type ChatService struct {
	streamer chatStreamer
}

func NewChatService(streamer chatStreamer) *ChatService {
	return &ChatService{streamer: streamer}
}

// Resume returns the session for sessionID, creating a fresh one when no
// session exists or the id changed. A changed id discards the previous
// history wholesale.
func (s *ChatService) Resume(ctx context.Context, sess *session.Session, sessionID string) (*models.ChatSession, error) {
	if sessionID == "" {
		sessionID = newConversationID()
	}

	chat, ok, err := sess.Chat(ctx)
	if err != nil {
		return nil, err
	}
	if ok && chat.SessionID == sessionID {
		return chat, nil
	}

	chat = &models.ChatSession{
		SessionID: sessionID,
		History:   []models.Message{},
	}
	if err := sess.SetChat(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// Current returns the stored session without creating one.
func (s *ChatService) Current(ctx context.Context, sess *session.Session) (*models.ChatSession, error) {
	chat, ok, err := sess.Chat(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Message: "No active chat session"}
	}
	return chat, nil
}

// SelectLanguage moves the session from awaiting-language to active.
func (s *ChatService) SelectLanguage(ctx context.Context, sess *session.Session, lang string) (*models.ChatSession, error) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if !supportedLanguages[lang] {
		return nil, &ValidationError{Fields: map[string]string{"lang": "Unsupported language"}}
	}

	chat, err := s.Current(ctx, sess)
	if err != nil {
		return nil, err
	}

	chat.Lang = lang
	chat.LanguageSelected = true
	if err := sess.SetChat(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// Kickoff synthesizes the opening assistant turn from a context-derived
// prompt. It runs at most once per session; calling it again is a no-op.
func (s *ChatService) Kickoff(ctx context.Context, sess *session.Session, prompt string, onToken func(string)) (*models.ChatSession, error) {
	chat, err := s.Current(ctx, sess)
	if err != nil {
		return nil, err
	}
	if !chat.LanguageSelected {
		return nil, &ConflictError{Message: "Select a language first"}
	}
	if chat.KickoffDone {
		return chat, nil
	}
	if chat.Streaming {
		return nil, ErrStreamInProgress
	}

	chat.Streaming = true
	if err := sess.SetChat(ctx, chat); err != nil {
		return nil, err
	}

	reply := s.streamTurn(ctx, sess, chat, prompt, onToken)

	chat.Streaming = false
	chat.KickoffDone = true
	chat.History = append(chat.History, models.Message{Role: models.RoleAssistant, Content: reply})
	// The guard is cleared even when the client disconnected mid-stream.
	if err := sess.SetChat(context.WithoutCancel(ctx), chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// Send runs one user turn: the user message is appended before the network
// call, then the assistant reply is streamed and appended on completion.
func (s *ChatService) Send(ctx context.Context, sess *session.Session, message string, onToken func(string)) (*models.ChatSession, error) {
	if strings.TrimSpace(message) == "" {
		return nil, &ValidationError{Fields: map[string]string{"message": "Message is required"}}
	}

	chat, err := s.Current(ctx, sess)
	if err != nil {
		return nil, err
	}
	if !chat.LanguageSelected {
		return nil, &ConflictError{Message: "Select a language first"}
	}
	if chat.Streaming {
		return nil, ErrStreamInProgress
	}

	chat.History = append(chat.History, models.Message{Role: models.RoleUser, Content: message})
	chat.Streaming = true
	if err := sess.SetChat(ctx, chat); err != nil {
		return nil, err
	}

	reply := s.streamTurn(ctx, sess, chat, message, onToken)

	chat.Streaming = false
	chat.History = append(chat.History, models.Message{Role: models.RoleAssistant, Content: reply})
	// The guard is cleared even when the client disconnected mid-stream.
	if err := sess.SetChat(context.WithoutCancel(ctx), chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// Reset discards the session entirely and restarts from scratch with a new
// client-generated conversation id.
func (s *ChatService) Reset(ctx context.Context, sess *session.Session) (*models.ChatSession, error) {
	chat := &models.ChatSession{
		SessionID: newConversationID(),
		History:   []models.Message{},
	}
	if err := sess.SetChat(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// streamTurn consumes one backend stream to exhaustion, forwarding each
// chunk to onToken, and returns the concatenated text. Zero chunks or a
// failed call degrade to FailedResponseMessage.
func (s *ChatService) streamTurn(ctx context.Context, sess *session.Session, chat *models.ChatSession, message string, onToken func(string)) string {
	userName := "Anonymous"
	if profile, ok, err := sess.Profile(ctx); err == nil && ok {
		userName = profile.Name
	}

	stream, err := s.streamer.StreamChat(ctx, models.ChatStreamRequest{
		Message:        message,
		ConversationID: chat.SessionID,
		Lang:           chat.Lang,
		User:           userName,
	})
	if err != nil {
		return FailedResponseMessage
	}
	defer stream.Close()

	var reply strings.Builder
	for {
		token, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}
		reply.WriteString(token)
		if onToken != nil {
			onToken(token)
		}
	}

	if reply.Len() == 0 {
		return FailedResponseMessage
	}
	return reply.String()
}

func newConversationID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
