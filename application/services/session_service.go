package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/C-1995-O1-HALE-POPP/ris-system/application/ports"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
)

// DefaultSessionKey is the slot the signed-in identity is persisted under
const DefaultSessionKey = "ris_user"

// SessionState is the session lifecycle position
type SessionState string

const (
	SessionAnonymous     SessionState = "anonymous"
	SessionAuthenticated SessionState = "authenticated"
)

// ErrNotAuthenticated is returned by operations that need a signed-in user
var ErrNotAuthenticated = errors.New("no authenticated user")

// revokedSuffix names the slot logged-out token ids are kept under
const revokedSuffix = ":revoked"

// SessionService holds the current identity and mirrors it into a key-value
// store. It also remembers the tokens closed by logout until they expire.
type SessionService struct {
	kv     ports.KeyValueStore
	key    string
	logger *zap.Logger
	now    func() time.Time

	mu      sync.RWMutex
	user    *entities.Identity
	revoked map[string]time.Time
}

// NewSessionService restores the persisted identity. A value that cannot be
// decoded or validated leaves the session anonymous and is removed.
func NewSessionService(ctx context.Context, kv ports.KeyValueStore, key string, logger *zap.Logger) *SessionService {
	if key == "" {
		key = DefaultSessionKey
	}
	s := &SessionService{
		kv:      kv,
		key:     key,
		logger:  logger,
		now:     time.Now,
		revoked: map[string]time.Time{},
	}
	s.restore(ctx)
	s.restoreRevoked(ctx)
	return s
}

func (s *SessionService) restore(ctx context.Context) {
	raw, found, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("Failed to read persisted session; starting anonymous", zap.Error(err))
		return
	}
	if !found {
		return
	}

	var user entities.Identity
	err = json.Unmarshal([]byte(raw), &user)
	if err == nil {
		err = user.Validate()
	}
	if err != nil || user.ID == "" {
		s.logger.Warn("Discarding malformed persisted session", zap.String("key", s.key), zap.Error(err))
		if delErr := s.kv.Delete(ctx, s.key); delErr != nil {
			s.logger.Warn("Failed to clear malformed session", zap.Error(delErr))
		}
		return
	}

	s.user = &user
	s.logger.Info("Session restored", zap.String("userID", user.ID), zap.String("role", string(user.Role)))
}

// Login makes user the current identity and persists it
func (s *SessionService) Login(ctx context.Context, user entities.Identity) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("invalid identity: %w", err)
	}
	if err := s.persist(ctx, user); err != nil {
		return err
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()

	s.logger.Info("User logged in", zap.String("userID", user.ID), zap.String("role", string(user.Role)))
	return nil
}

// SetUser replaces the identity of an authenticated session
func (s *SessionService) SetUser(ctx context.Context, user entities.Identity) error {
	if _, ok := s.Current(); !ok {
		return ErrNotAuthenticated
	}
	return s.Login(ctx, user)
}

// Logout drops the identity and its persisted copy
func (s *SessionService) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	if err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.logger.Info("User logged out")
	return nil
}

// Revoke closes tokenID until expiresAt. Empty ids are ignored.
func (s *SessionService) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return nil
	}

	s.mu.Lock()
	s.revoked[tokenID] = expiresAt
	s.pruneLocked()
	raw, err := json.Marshal(s.revoked)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to encode revoked tokens: %w", err)
	}

	if err := s.kv.Set(ctx, s.key+revokedSuffix, string(raw)); err != nil {
		return fmt.Errorf("failed to persist revoked tokens: %w", err)
	}
	s.logger.Debug("Token revoked", zap.String("tokenID", tokenID))
	return nil
}

// IsRevoked reports whether tokenID was closed by logout and has not expired yet
func (s *SessionService) IsRevoked(tokenID string) bool {
	if tokenID == "" {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	until, ok := s.revoked[tokenID]
	return ok && s.now().Before(until)
}

// pruneLocked drops expired entries. Callers hold mu.
func (s *SessionService) pruneLocked() {
	now := s.now()
	for id, until := range s.revoked {
		if !now.Before(until) {
			delete(s.revoked, id)
		}
	}
}

func (s *SessionService) restoreRevoked(ctx context.Context) {
	slot := s.key + revokedSuffix
	raw, found, err := s.kv.Get(ctx, slot)
	if err != nil {
		s.logger.Warn("Failed to read revoked tokens", zap.Error(err))
		return
	}
	if !found {
		return
	}

	revoked := map[string]time.Time{}
	if err := json.Unmarshal([]byte(raw), &revoked); err != nil {
		s.logger.Warn("Discarding malformed revoked tokens", zap.String("key", slot), zap.Error(err))
		if delErr := s.kv.Delete(ctx, slot); delErr != nil {
			s.logger.Warn("Failed to clear revoked tokens", zap.Error(delErr))
		}
		return
	}

	s.mu.Lock()
	s.revoked = revoked
	s.pruneLocked()
	s.mu.Unlock()
}

// Current returns the signed-in identity
func (s *SessionService) Current() (entities.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return entities.Identity{}, false
	}
	return *s.user, true
}

// State reports anonymous or authenticated
func (s *SessionService) State() SessionState {
	if _, ok := s.Current(); ok {
		return SessionAuthenticated
	}
	return SessionAnonymous
}

func (s *SessionService) persist(ctx context.Context, user entities.Identity) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(raw)); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}
