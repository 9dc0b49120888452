// Package session is the single source of truth for "who is logged in". The
// Store holds the in-memory session under a lock and mirrors it to a durable
// file; every other component only reads.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"taskflow/internal/types"
)

// Authenticator is the slice of the backend facade the store needs for
// login.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (types.Principal, string, error)
}

// Store owns the authenticated session. All methods are safe for concurrent
// use; SetCredentials replaces the session wholesale so no reader ever
// observes a half-updated principal.
type Store struct {
	mu     sync.RWMutex
	sess   *Session
	file   *File
	auth   Authenticator
	logger *zap.Logger
}

// NewStore creates a Store, reading the durable session file exactly once.
// A missing or corrupt file just means starting unauthenticated.
func NewStore(file *File, auth Authenticator, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{file: file, auth: auth, logger: logger}

	if file != nil {
		sess, ok, err := file.Load()
		if err != nil {
			logger.Warn("ignoring unreadable session file", zap.Error(err))
		}
		if ok {
			s.sess = &sess
			logger.Info("restored session", zap.String("principal", sess.Principal.ID))
		}
	}
	return s
}

// Login delegates to the auth facade and, on success, stores the session in
// memory and on disk. On failure the prior state is untouched.
func (s *Store) Login(ctx context.Context, email, password string) (Session, error) {
	principal, token, err := s.auth.Authenticate(ctx, email, password)
	if err != nil {
		return Session{}, err
	}

	sess := Session{Token: token, Principal: principal}
	s.SetCredentials(sess)
	s.logger.Info("logged in", zap.String("principal", principal.ID))
	return sess, nil
}

// SetCredentials replaces the session wholesale, in memory and on disk.
// Idempotent; used after login and after a self-targeting update.
func (s *Store) SetCredentials(sess Session) {
	s.mu.Lock()
	s.sess = &sess
	s.mu.Unlock()

	if s.file != nil {
		if err := s.file.Save(sess); err != nil {
			s.logger.Warn("failed to persist session", zap.Error(err))
		}
	}
}

// UpdatePrincipal replaces the current principal while keeping the token.
// Used when a self-targeting update returns the server's authoritative
// entity. No-op when unauthenticated.
func (s *Store) UpdatePrincipal(p types.Principal) {
	s.mu.RLock()
	if s.sess == nil {
		s.mu.RUnlock()
		return
	}
	token := s.sess.Token
	s.mu.RUnlock()

	s.SetCredentials(Session{Token: token, Principal: p})
}

// Logout clears the in-memory session and the durable file. Safe to call
// when already logged out.
func (s *Store) Logout() {
	s.mu.Lock()
	s.sess = nil
	s.mu.Unlock()

	if s.file != nil {
		if err := s.file.Clear(); err != nil {
			s.logger.Warn("failed to clear session file", zap.Error(err))
		}
	}
	s.logger.Info("logged out")
}

// Current returns the authenticated principal, or ok=false when logged out.
func (s *Store) Current() (types.Principal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sess == nil {
		return types.Principal{}, false
	}
	return s.sess.Principal, true
}

// IsAdmin reports whether the current principal is an administrator; false
// when unauthenticated.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess != nil && s.sess.Principal.IsAdmin
}

// Token returns the current bearer token, or "" when unauthenticated.
// Satisfies api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sess == nil {
		return ""
	}
	return s.sess.Token
}

// reloadFromDisk adopts whatever the durable file now holds, without writing
// it back. Called by the watcher when another process changed the file.
// Returns true when the in-memory state actually changed.
func (s *Store) reloadFromDisk() bool {
	if s.file == nil {
		return false
	}
	sess, ok, err := s.file.Load()
	if err != nil {
		s.logger.Warn("session file changed but is unreadable", zap.Error(err))
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case !ok && s.sess == nil:
		return false
	case !ok:
		s.sess = nil
		s.logger.Info("session cleared externally")
		return true
	case s.sess != nil && s.sess.Token == sess.Token && s.sess.Principal == sess.Principal:
		return false
	default:
		s.sess = &sess
		s.logger.Info("session replaced externally", zap.String("principal", sess.Principal.ID))
		return true
	}
}
