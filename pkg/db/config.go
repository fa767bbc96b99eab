package db

import (
	"context"
	"errors"
	"fmt"
)

var ErrNoActiveProfile = errors.New("no active profile found")

// Config represents the complete runtime configuration loaded from the database.
type Config struct {
	Profile  *Profile
	Listener *Listener
	Policy   *Policy
}

// Address returns the HTTP listen address.
func (c *Config) Address() string {
	if c.Listener == nil {
		return "0.0.0.0:8080"
	}
	return c.Listener.Address()
}

// Timezone returns the profile timezone.
func (c *Config) Timezone() string {
	if c.Profile == nil {
		return "UTC"
	}
	return c.Profile.Timezone
}

// ActiveConfig loads the complete configuration for the active profile.
func (db *DB) ActiveConfig(ctx context.Context) (*Config, error) {
	profile, err := db.Profiles().GetActive(ctx)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrNoActiveProfile
		}
		return nil, fmt.Errorf("failed to get active profile: %w", err)
	}

	config := &Config{
		Profile: profile,
	}

	listener, err := db.Listeners().Get(ctx, profile.ID)
	if err != nil && !errors.Is(err, ErrListenerNotFound) {
		return nil, fmt.Errorf("failed to get listener config: %w", err)
	}
	config.Listener = listener

	policy, err := db.Policies().Get(ctx, profile.ID)
	if err != nil && !errors.Is(err, ErrPolicyNotFound) {
		return nil, fmt.Errorf("failed to get policy: %w", err)
	}
	config.Policy = policy

	return config, nil
}
