package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"time"
)

const tokenBytes = 32

// IssueToken mints a new session token for a caller. Tokens carry 32
// bytes of entropy and expire after the configured session duration; one
// caller may hold any number of tokens.
func (s *Service) IssueToken(callerID int64) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)

	now := s.nowSafe()
	s.mu.Lock()
	s.sessions[token] = session{
		callerID:  callerID,
		createdAt: now,
		expiresAt: now.Add(s.sessionTTL),
	}
	s.mu.Unlock()

	s.audit.Info().Int64("caller_id", callerID).Msg("session token issued")
	return token, nil
}

// ValidateToken resolves a token to its caller id. Expired tokens are
// deleted on the spot; the random 32-byte token space makes the map
// lookup itself safe against timing probes.
func (s *Service) ValidateToken(token string) (int64, bool) {
	s.mu.Lock()
	sess, ok := s.sessions[token]
	if ok && s.nowSafe().After(sess.expiresAt) {
		delete(s.sessions, token)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		s.audit.Warn().Msg("invalid or expired session token")
		return 0, false
	}
	return sess.callerID, true
}

// RevokeToken destroys one token. Reports whether it existed.
func (s *Service) RevokeToken(token string) bool {
	s.mu.Lock()
	sess, ok := s.sessions[token]
	delete(s.sessions, token)
	s.mu.Unlock()

	if ok {
		s.audit.Info().Int64("caller_id", sess.callerID).Msg("session token revoked")
	}
	return ok
}

// RevokeAll destroys every session a caller holds and returns the count.
func (s *Service) RevokeAll(callerID int64) int {
	s.mu.Lock()
	n := 0
	for token, sess := range s.sessions {
		if sess.callerID == callerID {
			delete(s.sessions, token)
			n++
		}
	}
	s.mu.Unlock()

	s.audit.Info().Int64("caller_id", callerID).Int("revoked", n).Msg("caller sessions revoked")
	return n
}

// SweepExpired removes expired sessions and returns how many were
// deleted. Safe to run concurrently with validation: deletion is
// idempotent under the service mutex.
func (s *Service) SweepExpired() int {
	now := s.nowSafe()
	s.mu.Lock()
	n := 0
	for token, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, token)
			n++
		}
	}
	s.mu.Unlock()

	if n > 0 {
		s.log.Info().Int("expired", n).Msg("swept expired sessions")
	}
	return n
}

// RunSweeper periodically sweeps expired sessions until ctx is cancelled.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.SweepExpired()
		case <-ctx.Done():
			return
		}
	}
}

// ValidateSecret compares a provided webhook secret against the
// configured one in constant time. An unset secret means open mode.
func (s *Service) ValidateSecret(provided string) bool {
	if s.secret == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(s.secret)) == 1
}

// nowSafe reads the clock outside the mutex.
func (s *Service) nowSafe() time.Time {
	return s.now()
}
