package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func limiterAt(quota int, period time.Duration) (*Limiter, *time.Time) {
	l := New(quota, period)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestAllow_QuotaWithinWindow(t *testing.T) {
	l, now := limiterAt(3, time.Minute)

	got := make([]bool, 0, 4)
	for i := 0; i < 4; i++ {
		got = append(got, l.Allow("u1"))
		*now = now.Add(250 * time.Millisecond)
	}
	assert.Equal(t, []bool{true, true, true, false}, got)
}

func TestAllow_WindowSlides(t *testing.T) {
	l, now := limiterAt(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("u1"))
	}
	assert.False(t, l.Allow("u1"))

	*now = now.Add(61 * time.Second)
	assert.True(t, l.Allow("u1"))
}

func TestAllow_DenialsAreNotRecorded(t *testing.T) {
	l, now := limiterAt(2, time.Minute)

	assert.True(t, l.Allow("u1"))
	assert.True(t, l.Allow("u1"))
	// Hammering while denied must not push the window forward.
	for i := 0; i < 10; i++ {
		assert.False(t, l.Allow("u1"))
		*now = now.Add(time.Second)
	}
	*now = now.Add(51 * time.Second) // first two admits now outside window
	assert.True(t, l.Allow("u1"))
}

func TestAllow_CallersAreIndependent(t *testing.T) {
	l, _ := limiterAt(1, time.Minute)

	assert.True(t, l.Allow("u1"))
	assert.False(t, l.Allow("u1"))
	assert.True(t, l.Allow("u2"))
}

func TestAllow_UnknownCallersShareABucket(t *testing.T) {
	l, _ := limiterAt(2, time.Minute)

	assert.True(t, l.Allow(""))
	assert.True(t, l.Allow(UnknownCaller))
	assert.False(t, l.Allow(""))
}

func TestNew_Defaults(t *testing.T) {
	l := New(0, 0)
	assert.Equal(t, defaultQuota, l.quota)
	assert.Equal(t, defaultPeriod, l.period)
}
