// Package auth is the access controller: caller allow-lists, failed-attempt
// lockouts, ephemeral session tokens, and the webhook shared-secret check.
// All state is in-memory for the process lifetime and safe for concurrent
// callers.
package auth

import (
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Caller identifies who issued an inbound event. It is supplied by the
// transport per event and never persisted outside session and lockout
// records.
type Caller struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
	Handle      string `json:"handle,omitempty"`
}

// Config holds the access-control policy.
type Config struct {
	// AllowedIDs and AllowedHandles are allow-lists. An empty list means
	// the list is not enforced (open policy), which is distinct from a
	// list that excludes everyone.
	AllowedIDs     []int64
	AllowedHandles []string

	// LockoutThreshold failures within LockoutWindow deny a caller.
	LockoutThreshold int
	LockoutWindow    time.Duration

	// SessionDuration bounds token lifetime.
	SessionDuration time.Duration

	// WebhookSecret guards the inbound event endpoint. Empty means open
	// mode.
	WebhookSecret string
}

const (
	defaultLockoutThreshold = 5
	defaultLockoutWindow    = 15 * time.Minute
	defaultSessionDuration  = 24 * time.Hour
)

type session struct {
	callerID  int64
	createdAt time.Time
	expiresAt time.Time
}

// Service implements the access controller. A single mutex guards the
// session and failure maps; every public method may be called from
// concurrently processed events.
type Service struct {
	allowedIDs     map[int64]struct{}
	allowedHandles map[string]struct{}
	threshold      int
	window         time.Duration
	sessionTTL     time.Duration
	secret         string

	log   zerolog.Logger
	audit zerolog.Logger

	mu       sync.Mutex
	sessions map[string]session
	failures map[string][]time.Time

	now func() time.Time
}

// NewService builds the access controller. audit receives security-relevant
// denials and grants; pass the same logger twice if no separate audit
// stream is configured.
func NewService(cfg Config, logger, audit zerolog.Logger) *Service {
	if cfg.LockoutThreshold <= 0 {
		cfg.LockoutThreshold = defaultLockoutThreshold
	}
	if cfg.LockoutWindow <= 0 {
		cfg.LockoutWindow = defaultLockoutWindow
	}
	if cfg.SessionDuration <= 0 {
		cfg.SessionDuration = defaultSessionDuration
	}

	s := &Service{
		allowedIDs:     make(map[int64]struct{}, len(cfg.AllowedIDs)),
		allowedHandles: make(map[string]struct{}, len(cfg.AllowedHandles)),
		threshold:      cfg.LockoutThreshold,
		window:         cfg.LockoutWindow,
		sessionTTL:     cfg.SessionDuration,
		secret:         cfg.WebhookSecret,
		log:            logger.With().Str("component", "auth").Logger(),
		audit:          audit.With().Str("channel", "audit").Logger(),
		sessions:       make(map[string]session),
		failures:       make(map[string][]time.Time),
		now:            time.Now,
	}
	for _, id := range cfg.AllowedIDs {
		s.allowedIDs[id] = struct{}{}
	}
	for _, h := range cfg.AllowedHandles {
		s.allowedHandles[h] = struct{}{}
	}
	return s
}

// Authorize decides whether a caller may proceed. Locked-out callers are
// denied without recording a new failure; allow-list misses record a
// failure; success clears the caller's failure history.
func (s *Service) Authorize(caller Caller) bool {
	key := strconv.FormatInt(caller.ID, 10)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lockedOutLocked(key) {
		s.audit.Warn().Int64("caller_id", caller.ID).Msg("locked out caller denied")
		return false
	}

	if len(s.allowedIDs) > 0 {
		if _, ok := s.allowedIDs[caller.ID]; !ok {
			s.recordFailureLocked(key)
			s.audit.Warn().Int64("caller_id", caller.ID).Msg("caller id not in allow-list")
			return false
		}
	}

	if len(s.allowedHandles) > 0 && caller.Handle != "" {
		if _, ok := s.allowedHandles[caller.Handle]; !ok {
			s.recordFailureLocked(key)
			s.audit.Warn().Int64("caller_id", caller.ID).Str("handle", caller.Handle).Msg("handle not in allow-list")
			return false
		}
	}

	delete(s.failures, key)
	s.audit.Info().Int64("caller_id", caller.ID).Str("handle", caller.Handle).Msg("caller authorized")
	return true
}

// lockedOutLocked prunes the caller's failures to the trailing window and
// reports whether the threshold is met. Caller must hold s.mu.
func (s *Service) lockedOutLocked(key string) bool {
	attempts, ok := s.failures[key]
	if !ok {
		return false
	}
	cutoff := s.now().Add(-s.window)
	kept := attempts[:0]
	for _, at := range attempts {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	if len(kept) == 0 {
		delete(s.failures, key)
		return false
	}
	s.failures[key] = kept
	return len(kept) >= s.threshold
}

func (s *Service) recordFailureLocked(key string) {
	cutoff := s.now().Add(-s.window)
	attempts := s.failures[key]
	kept := attempts[:0]
	for _, at := range attempts {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	s.failures[key] = append(kept, s.now())
}

// Stats summarizes the controller's security state.
type Stats struct {
	ActiveSessions   int `json:"active_sessions"`
	LockedOutCallers int `json:"locked_out_callers"`
	TotalFailures    int `json:"failed_attempts_total"`
	AllowedIDs       int `json:"allowed_ids"`
	AllowedHandles   int `json:"allowed_handles"`
}

// SecurityStats reports current session/lockout counters.
func (s *Service) SecurityStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{
		ActiveSessions: len(s.sessions),
		AllowedIDs:     len(s.allowedIDs),
		AllowedHandles: len(s.allowedHandles),
	}
	for key := range s.failures {
		if s.lockedOutLocked(key) {
			st.LockedOutCallers++
		}
	}
	for _, attempts := range s.failures {
		st.TotalFailures += len(attempts)
	}
	return st
}
