// Package session holds the admin's authentication state for the lifetime of
// the process. The token is persisted to a file so consecutive CLI runs share
// one login; expiry clears it and notifies every subscriber.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Event is broadcast to subscribers when the session changes.
type Event string

const (
	EventLogin   Event = "login"
	EventLogout  Event = "logout"
	EventExpired Event = "expired"
)

type persisted struct {
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken,omitempty"`
	User         json.RawMessage `json:"user,omitempty"`
}

// Session is safe for concurrent use.
type Session struct {
	mu          sync.RWMutex
	path        string
	state       persisted
	subscribers []func(Event)
}

// Load reads the persisted session at path. A missing file yields an empty,
// logged-out session. An empty path keeps the session in memory only.
func Load(path string) (*Session, error) {
	s := &Session{path: path}
	if path == "" {
		return s, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if len(b) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(b, &s.state); err != nil {
		log.Warnf("session file %s is corrupt, starting logged out: %v", path, err)
		s.state = persisted{}
	}
	return s, nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.AccessToken
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.RefreshToken
}

// User returns the raw user document stored at login.
func (s *Session) User() json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Subscribe registers fn to be called on every session event. Callbacks run
// synchronously on the goroutine that changed the session.
func (s *Session) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Set stores a fresh login and persists it. Empty fields keep their old value.
func (s *Session) Set(accessToken, refreshToken string, user json.RawMessage) error {
	s.mu.Lock()
	if accessToken != "" {
		s.state.AccessToken = accessToken
	}
	if refreshToken != "" {
		s.state.RefreshToken = refreshToken
	}
	if len(user) > 0 {
		s.state.User = user
	}
	err := s.saveLocked()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.broadcast(EventLogin)
	return nil
}

// Clear logs out explicitly.
func (s *Session) Clear() error {
	return s.reset(EventLogout)
}

// Expire is called when the backend rejects the token.
func (s *Session) Expire() error {
	return s.reset(EventExpired)
}

func (s *Session) reset(ev Event) error {
	s.mu.Lock()
	s.state = persisted{}
	var err error
	if s.path != "" {
		if rmErr := os.Remove(s.path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			err = fmt.Errorf("remove session file: %w", rmErr)
		}
	}
	s.mu.Unlock()

	s.broadcast(ev)
	return err
}

func (s *Session) saveLocked() error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	b, err := json.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (s *Session) broadcast(ev Event) {
	s.mu.RLock()
	subs := make([]func(Event), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.RUnlock()

	log.Debugf("session event: %s", ev)
	for _, fn := range subs {
		fn(ev)
	}
}
