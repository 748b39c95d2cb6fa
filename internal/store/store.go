// Package store implements the session store: a key-value abstraction over
// one record type keyed by session code, backed by redis with a fixed
// expiration window, or by a process-wide in-memory map when redis is not
// configured or unreachable.
//
// The backend is selected once at construction and never revisited. When a
// redis operation fails mid-process, writes land in the local map so readers
// in the same process still observe them; cross-process visibility during a
// redis outage is not guaranteed. Reads and writes are whole-record
// (read-modify-write at the caller), so concurrent writers to the same
// session can lose updates; the map itself is mutex-guarded, so individual
// operations are safe.
package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/quickchat/chat-server-go/internal/metrics"
	"github.com/quickchat/chat-server-go/internal/model"
)

const keyPrefix = "session:"

// sessionKey builds the persisted key for a session code. Codes are
// upper-cased by callers; the store treats them as opaque.
func sessionKey(code string) string {
	return keyPrefix + code
}

// Mode identifies which backend was selected at startup.
type Mode string

const (
	ModeRedis Mode = "redis"
	ModeLocal Mode = "local"
)

// KV is the string key-value surface the store needs from redis.
type KV interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, key string) error
}

// Store is the session store contract the service layer depends on. Get and
// Has fail softly: backend errors surface as absent/false, never as errors.
type Store interface {
	Get(ctx context.Context, code string) *model.Session
	Set(ctx context.Context, code string, sess *model.Session) error
	Has(ctx context.Context, code string) bool
	Delete(ctx context.Context, code string) error
}

// SessionStore is the two-backend Store implementation. Construct it once
// in main and inject it; the local map must be process-wide to keep
// same-process visibility during a redis outage.
type SessionStore struct {
	kv   KV // nil when running local-only
	ttl  time.Duration
	mode Mode

	mu    sync.Mutex
	local map[string]*model.Session
}

// New builds a SessionStore. Pass a nil kv to run on the in-memory map only.
func New(kv KV, ttl time.Duration) *SessionStore {
	mode := ModeLocal
	if kv != nil {
		mode = ModeRedis
		metrics.BackendRedis.Set(1)
	} else {
		metrics.BackendRedis.Set(0)
	}
	return &SessionStore{
		kv:    kv,
		ttl:   ttl,
		mode:  mode,
		local: make(map[string]*model.Session),
	}
}

// Mode reports which backend was selected at startup.
func (s *SessionStore) Mode() Mode {
	return s.mode
}

// Get returns the session for the code, or nil if absent. On a redis error
// or a malformed record it logs and falls back to the local map.
func (s *SessionStore) Get(ctx context.Context, code string) *model.Session {
	metrics.StoreOps.WithLabelValues("get", string(s.mode)).Inc()

	if s.kv != nil {
		data, found, err := s.kv.Get(ctx, sessionKey(code))
		if err != nil {
			log.Error().Err(err).Str("code", code).Msg("redis get failed, reading local fallback")
			metrics.StoreFallbacks.WithLabelValues("get").Inc()
			return s.getLocal(code)
		}
		if !found {
			return nil
		}
		var sess model.Session
		if err := json.Unmarshal([]byte(data), &sess); err != nil {
			log.Error().Err(err).Str("code", code).Msg("malformed session record")
			return nil
		}
		return &sess
	}

	return s.getLocal(code)
}

// Set persists the full session, replacing any prior value and refreshing
// the expiration window. A redis failure is absorbed by writing to the local
// map instead, so same-process readers still observe the update.
func (s *SessionStore) Set(ctx context.Context, code string, sess *model.Session) error {
	metrics.StoreOps.WithLabelValues("set", string(s.mode)).Inc()

	if s.kv != nil {
		data, err := json.Marshal(sess)
		if err != nil {
			return err
		}
		if err := s.kv.Set(ctx, sessionKey(code), string(data), s.ttl); err != nil {
			log.Error().Err(err).Str("code", code).Msg("redis set failed, writing local fallback")
			metrics.StoreFallbacks.WithLabelValues("set").Inc()
			s.setLocal(code, sess)
		}
		return nil
	}

	s.setLocal(code, sess)
	return nil
}

// Has reports whether a session exists. Backend errors yield false; callers
// must tolerate false negatives during a redis outage.
func (s *SessionStore) Has(ctx context.Context, code string) bool {
	metrics.StoreOps.WithLabelValues("has", string(s.mode)).Inc()

	if s.kv != nil {
		exists, err := s.kv.Exists(ctx, sessionKey(code))
		if err != nil {
			log.Warn().Err(err).Str("code", code).Msg("redis exists failed")
			metrics.StoreFallbacks.WithLabelValues("has").Inc()
			return false
		}
		return exists
	}

	return s.hasLocal(code)
}

// Delete removes the session from both the backend and the local map.
// Idempotent; a redis failure is logged and does not stop the local removal.
func (s *SessionStore) Delete(ctx context.Context, code string) error {
	metrics.StoreOps.WithLabelValues("delete", string(s.mode)).Inc()

	if s.kv != nil {
		if err := s.kv.Del(ctx, sessionKey(code)); err != nil {
			log.Error().Err(err).Str("code", code).Msg("redis delete failed")
			metrics.StoreFallbacks.WithLabelValues("delete").Inc()
		}
	}

	s.deleteLocal(code)
	return nil
}

// LocalSize returns the number of sessions held in the local map.
func (s *SessionStore) LocalSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.local)
}

func (s *SessionStore) getLocal(code string) *model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.local[code].Clone()
}

func (s *SessionStore) setLocal(code string, sess *model.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.local[code] = sess.Clone()
	metrics.LocalSessions.Set(float64(len(s.local)))
}

func (s *SessionStore) hasLocal(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.local[code]
	return ok
}

func (s *SessionStore) deleteLocal(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.local, code)
	metrics.LocalSessions.Set(float64(len(s.local)))
}
