package model

// User is a participant in a chat session. The ID is an opaque token scoped
// to the session; Name is the display name supplied at create/join time.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Message is a single chat message. User holds the sender's display name as
// it was at post time; Timestamp is wall-clock milliseconds.
type Message struct {
	User      string `json:"user"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// Session is the full session record as persisted in the store. Users and
// Messages are append-only; Code and CreatedAt never change after creation.
type Session struct {
	Code      string    `json:"code"`
	Users     []User    `json:"users"`
	Messages  []Message `json:"messages"`
	CreatedAt int64     `json:"createdAt"`
}

// Clone returns a deep copy so callers can mutate the result without
// touching the stored record.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	clone := &Session{
		Code:      s.Code,
		Users:     make([]User, len(s.Users)),
		Messages:  make([]Message, len(s.Messages)),
		CreatedAt: s.CreatedAt,
	}
	copy(clone.Users, s.Users)
	copy(clone.Messages, s.Messages)
	return clone
}

// FindUser returns the user with the given id, or nil if not a member.
func (s *Session) FindUser(userID string) *User {
	for i := range s.Users {
		if s.Users[i].ID == userID {
			return &s.Users[i]
		}
	}
	return nil
}
