package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/quickchat/chat-server-go/internal/errors"
	"github.com/quickchat/chat-server-go/internal/metrics"
	"github.com/quickchat/chat-server-go/internal/model"
	"github.com/quickchat/chat-server-go/internal/store"
)

// systemUser is the sender name attached to synthetic messages such as join
// notifications.
const systemUser = "SYSTEM"

type JoinResult struct {
	Code     string `json:"code"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

type MessageList struct {
	Messages []model.Message `json:"messages"`
	Users    []model.User    `json:"users"`
}

type SessionSummary struct {
	Code         string       `json:"code"`
	Users        []model.User `json:"users"`
	MessageCount int          `json:"messageCount"`
}

// SessionService implements the session lifecycle on top of the store. Every
// operation is a read-modify-write of the whole record; there is no
// concurrency control across writers, so two concurrent writes to one
// session can lose the earlier one. Accepted for this use case.
type SessionService struct {
	store store.Store
}

func NewSessionService(store store.Store) *SessionService {
	return &SessionService{store: store}
}

// Create starts a new session with the caller as the only member.
func (s *SessionService) Create(ctx context.Context, userName string) (*JoinResult, error) {
	name := strings.TrimSpace(userName)
	if name == "" {
		return nil, apperrors.MissingRequired("Display name")
	}

	code := generateSessionCode()
	userID := generateUserID()

	sess := &model.Session{
		Code:      code,
		Users:     []model.User{{ID: userID, Name: name}},
		Messages:  []model.Message{},
		CreatedAt: time.Now().UnixMilli(),
	}

	if err := s.store.Set(ctx, code, sess); err != nil {
		return nil, apperrors.Backend(err)
	}

	log.Info().Str("code", code).Msg("session created")
	metrics.SessionsCreated.Inc()

	return &JoinResult{Code: code, UserID: userID, UserName: name}, nil
}

// Join adds a new member to an existing session and appends a system message
// announcing them.
func (s *SessionService) Join(ctx context.Context, code, userName string) (*JoinResult, error) {
	name := strings.TrimSpace(userName)
	if code == "" {
		return nil, apperrors.MissingRequired("Code")
	}
	if name == "" {
		return nil, apperrors.MissingRequired("Display name")
	}

	upperCode := normalizeCode(code)
	sess := s.store.Get(ctx, upperCode)
	if sess == nil {
		return nil, apperrors.NotFound("Session")
	}

	userID := generateUserID()
	sess.Users = append(sess.Users, model.User{ID: userID, Name: name})
	sess.Messages = append(sess.Messages, model.Message{
		User:      systemUser,
		Message:   fmt.Sprintf("%s joined the session", name),
		Timestamp: time.Now().UnixMilli(),
	})

	if err := s.store.Set(ctx, upperCode, sess); err != nil {
		return nil, apperrors.Backend(err)
	}

	log.Info().Str("code", upperCode).Int("users", len(sess.Users)).Msg("user joined session")
	metrics.SessionsJoined.Inc()

	return &JoinResult{Code: upperCode, UserID: userID, UserName: name}, nil
}

// PostMessage appends a message from a session member. The stored message
// carries the member's display name at post time.
func (s *SessionService) PostMessage(ctx context.Context, code, userID, text string) error {
	if code == "" {
		return apperrors.MissingRequired("Code")
	}
	if userID == "" {
		return apperrors.MissingRequired("User id")
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return apperrors.MissingRequired("Message")
	}

	upperCode := normalizeCode(code)
	sess := s.store.Get(ctx, upperCode)
	if sess == nil {
		return apperrors.NotFound("Session")
	}

	user := sess.FindUser(userID)
	if user == nil {
		log.Warn().Str("code", upperCode).Msg("message from non-member rejected")
		return apperrors.Forbidden("User not in session")
	}

	sess.Messages = append(sess.Messages, model.Message{
		User:      user.Name,
		Message:   trimmed,
		Timestamp: time.Now().UnixMilli(),
	})

	if err := s.store.Set(ctx, upperCode, sess); err != nil {
		return apperrors.Backend(err)
	}

	metrics.MessagesPosted.Inc()
	return nil
}

// ListMessages returns messages and the current member list. With a cursor,
// only messages strictly newer than it are returned; pollers must track the
// max timestamp seen, since a message exactly at the cursor is never
// re-delivered.
func (s *SessionService) ListMessages(ctx context.Context, code string, since *int64) (*MessageList, error) {
	upperCode := normalizeCode(code)
	sess := s.store.Get(ctx, upperCode)
	if sess == nil {
		return nil, apperrors.NotFound("Session")
	}

	messages := sess.Messages
	if since != nil {
		filtered := make([]model.Message, 0, len(messages))
		for _, m := range messages {
			if m.Timestamp > *since {
				filtered = append(filtered, m)
			}
		}
		messages = filtered
	}
	if messages == nil {
		messages = []model.Message{}
	}

	return &MessageList{Messages: messages, Users: sess.Users}, nil
}

// GetSummary returns session metadata without message bodies.
func (s *SessionService) GetSummary(ctx context.Context, code string) (*SessionSummary, error) {
	upperCode := normalizeCode(code)
	sess := s.store.Get(ctx, upperCode)
	if sess == nil {
		return nil, apperrors.NotFound("Session")
	}

	return &SessionSummary{
		Code:         sess.Code,
		Users:        sess.Users,
		MessageCount: len(sess.Messages),
	}, nil
}

// normalizeCode maps user-supplied codes onto the store's key space. The
// store itself is case-sensitive and unaware of this convention.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
