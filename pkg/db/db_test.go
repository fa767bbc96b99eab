package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	ctx := context.Background()
	require.NoError(t, database.Migrate(ctx))
	require.NoError(t, database.Bootstrap(ctx))
	return database
}

func TestBootstrap_SeedsDefaults(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	needs, err := database.NeedsBootstrap(ctx)
	require.NoError(t, err)
	assert.False(t, needs)

	cfg, err := database.ActiveConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.Profile.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())

	require.NotNil(t, cfg.Policy)
	assert.Empty(t, cfg.Policy.AllowedIDs)
	assert.Equal(t, 30, cfg.Policy.RateQuota)
	assert.Equal(t, 60, cfg.Policy.RatePeriodSeconds)
	assert.Equal(t, 5, cfg.Policy.LockoutThreshold)
	assert.Equal(t, 900, cfg.Policy.LockoutWindowSeconds)
	assert.Equal(t, 86400, cfg.Policy.SessionDurationSeconds)
	assert.Equal(t, 30, cfg.Policy.CommandTimeoutSeconds)
	assert.Empty(t, cfg.Policy.WebhookSecret)
}

func TestBootstrap_Idempotent(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, database.Bootstrap(ctx))

	profiles, err := database.Profiles().List(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, 1)
}

func TestPolicy_RoundTrip(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	profile, err := database.Profiles().GetActive(ctx)
	require.NoError(t, err)

	want := &Policy{
		ProfileID:              profile.ID,
		AllowedIDs:             []int64{100, 200},
		AllowedHandles:         []string{"alice", "bob"},
		RateQuota:              10,
		RatePeriodSeconds:      30,
		LockoutThreshold:       3,
		LockoutWindowSeconds:   600,
		SessionDurationSeconds: 3600,
		CommandTimeoutSeconds:  15,
		WebhookSecret:          "s3cret",
	}
	require.NoError(t, database.Policies().Upsert(ctx, want))

	got, err := database.Policies().Get(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, want.AllowedIDs, got.AllowedIDs)
	assert.Equal(t, want.AllowedHandles, got.AllowedHandles)
	assert.Equal(t, 10, got.RateQuota)
	assert.Equal(t, "s3cret", got.WebhookSecret)
	assert.Equal(t, 15*time.Second, got.CommandTimeout())
}

func TestPolicy_GetMissing(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	_, err := database.Policies().Get(ctx, 9999)
	assert.ErrorIs(t, err, ErrPolicyNotFound)
}
