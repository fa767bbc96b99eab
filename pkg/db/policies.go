package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrPolicyNotFound = errors.New("policy not found")

// Policy is the access and dispatch policy for one profile. The zero
// values of the numeric fields are never stored; Bootstrap seeds the
// defaults and the schema enforces them on insert.
type Policy struct {
	ID                     int64
	ProfileID              int64
	AllowedIDs             []int64
	AllowedHandles         []string
	RateQuota              int
	RatePeriodSeconds      int
	LockoutThreshold       int
	LockoutWindowSeconds   int
	SessionDurationSeconds int
	CommandTimeoutSeconds  int
	WebhookSecret          string
	UpdatedAt              time.Time
}

// RatePeriod returns the rate-limit window as a duration.
func (p *Policy) RatePeriod() time.Duration {
	return time.Duration(p.RatePeriodSeconds) * time.Second
}

// LockoutWindow returns the lockout window as a duration.
func (p *Policy) LockoutWindow() time.Duration {
	return time.Duration(p.LockoutWindowSeconds) * time.Second
}

// SessionDuration returns the session lifetime as a duration.
func (p *Policy) SessionDuration() time.Duration {
	return time.Duration(p.SessionDurationSeconds) * time.Second
}

// CommandTimeout returns the per-command execution deadline.
func (p *Policy) CommandTimeout() time.Duration {
	return time.Duration(p.CommandTimeoutSeconds) * time.Second
}

// PolicyStore provides policy read/write operations.
type PolicyStore interface {
	Get(ctx context.Context, profileID int64) (*Policy, error)
	Upsert(ctx context.Context, p *Policy) error
}

// Policies returns a PolicyStore for this database.
func (db *DB) Policies() PolicyStore {
	return &policyStore{db: db}
}

type policyStore struct {
	db *DB
}

func (s *policyStore) Get(ctx context.Context, profileID int64) (*Policy, error) {
	p := &Policy{}
	var ids, handles, updatedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, profile_id, allowed_ids, allowed_handles,
		       rate_quota, rate_period_seconds,
		       lockout_threshold, lockout_window_seconds,
		       session_duration_seconds, command_timeout_seconds,
		       webhook_secret, updated_at
		FROM policies WHERE profile_id = ?
	`, profileID).Scan(
		&p.ID, &p.ProfileID, &ids, &handles,
		&p.RateQuota, &p.RatePeriodSeconds,
		&p.LockoutThreshold, &p.LockoutWindowSeconds,
		&p.SessionDurationSeconds, &p.CommandTimeoutSeconds,
		&p.WebhookSecret, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(ids), &p.AllowedIDs); err != nil {
		return nil, fmt.Errorf("failed to decode allowed_ids: %w", err)
	}
	if err := json.Unmarshal([]byte(handles), &p.AllowedHandles); err != nil {
		return nil, fmt.Errorf("failed to decode allowed_handles: %w", err)
	}
	p.UpdatedAt, _ = time.Parse(time.DateTime, updatedAt)
	return p, nil
}

func (s *policyStore) Upsert(ctx context.Context, p *Policy) error {
	ids, err := json.Marshal(p.AllowedIDs)
	if err != nil {
		return fmt.Errorf("failed to encode allowed_ids: %w", err)
	}
	handles, err := json.Marshal(p.AllowedHandles)
	if err != nil {
		return fmt.Errorf("failed to encode allowed_handles: %w", err)
	}
	if p.AllowedIDs == nil {
		ids = []byte("[]")
	}
	if p.AllowedHandles == nil {
		handles = []byte("[]")
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO policies (
			profile_id, allowed_ids, allowed_handles,
			rate_quota, rate_period_seconds,
			lockout_threshold, lockout_window_seconds,
			session_duration_seconds, command_timeout_seconds,
			webhook_secret
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(profile_id) DO UPDATE SET
			allowed_ids = excluded.allowed_ids,
			allowed_handles = excluded.allowed_handles,
			rate_quota = excluded.rate_quota,
			rate_period_seconds = excluded.rate_period_seconds,
			lockout_threshold = excluded.lockout_threshold,
			lockout_window_seconds = excluded.lockout_window_seconds,
			session_duration_seconds = excluded.session_duration_seconds,
			command_timeout_seconds = excluded.command_timeout_seconds,
			webhook_secret = excluded.webhook_secret,
			updated_at = datetime('now')
	`,
		p.ProfileID, string(ids), string(handles),
		p.RateQuota, p.RatePeriodSeconds,
		p.LockoutThreshold, p.LockoutWindowSeconds,
		p.SessionDurationSeconds, p.CommandTimeoutSeconds,
		p.WebhookSecret,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert policy: %w", err)
	}
	if id, err := result.LastInsertId(); err == nil && id != 0 {
		p.ID = id
	}
	return nil
}
