package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrListenerNotFound = errors.New("listener config not found")

// Listener represents HTTP listener configuration.
type Listener struct {
	ID        int64
	ProfileID int64
	Host      string
	Port      int
	CreatedAt time.Time
}

// Address returns the listen address (host:port).
func (l *Listener) Address() string {
	return fmt.Sprintf("%s:%d", l.Host, l.Port)
}

// ListenerStore provides listener config CRUD operations.
type ListenerStore interface {
	Get(ctx context.Context, profileID int64) (*Listener, error)
	Create(ctx context.Context, l *Listener) error
	Update(ctx context.Context, l *Listener) error
	Delete(ctx context.Context, profileID int64) error
}

// Listeners returns a ListenerStore for this database.
func (db *DB) Listeners() ListenerStore {
	return &listenerStore{db: db}
}

type listenerStore struct {
	db *DB
}

func (s *listenerStore) Get(ctx context.Context, profileID int64) (*Listener, error) {
	l := &Listener{}
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, profile_id, host, port, created_at
		FROM listeners WHERE profile_id = ?
	`, profileID).Scan(&l.ID, &l.ProfileID, &l.Host, &l.Port, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrListenerNotFound
	}
	if err != nil {
		return nil, err
	}
	l.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
	return l, nil
}

func (s *listenerStore) Create(ctx context.Context, l *Listener) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO listeners (profile_id, host, port)
		VALUES (?, ?, ?)
	`, l.ProfileID, l.Host, l.Port)
	if err != nil {
		return fmt.Errorf("failed to create listener config: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = id
	return nil
}

func (s *listenerStore) Update(ctx context.Context, l *Listener) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE listeners SET host = ?, port = ?
		WHERE profile_id = ?
	`, l.Host, l.Port, l.ProfileID)
	return err
}

func (s *listenerStore) Delete(ctx context.Context, profileID int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM listeners WHERE profile_id = ?`, profileID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrListenerNotFound
	}
	return nil
}
