package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClone(t *testing.T) {
	t.Run("nil session clones to nil", func(t *testing.T) {
		var s *Session
		assert.Nil(t, s.Clone())
	})

	t.Run("clone is independent of the original", func(t *testing.T) {
		s := &Session{
			Code:      "ABC123",
			Users:     []User{{ID: "u1", Name: "Alice"}},
			Messages:  []Message{{User: "Alice", Message: "hi", Timestamp: 1}},
			CreatedAt: 1,
		}

		clone := s.Clone()
		clone.Users = append(clone.Users, User{ID: "u2", Name: "Bob"})
		clone.Messages[0].Message = "changed"

		assert.Len(t, s.Users, 1)
		assert.Equal(t, "hi", s.Messages[0].Message)
	})
}

func TestFindUser(t *testing.T) {
	s := &Session{
		Users: []User{
			{ID: "u1", Name: "Alice"},
			{ID: "u2", Name: "Bob"},
		},
	}

	t.Run("finds member by id", func(t *testing.T) {
		user := s.FindUser("u2")
		require.NotNil(t, user)
		assert.Equal(t, "Bob", user.Name)
	})

	t.Run("returns nil for non-member", func(t *testing.T) {
		assert.Nil(t, s.FindUser("u3"))
	})
}
