package device

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVacuum(t *testing.T) *Vacuum {
	t.Helper()
	return newVacuum(zerolog.Nop(), instantTransport())
}

func TestVacuum_StartFromEveryRestingState(t *testing.T) {
	ctx := context.Background()
	for _, from := range []VacState{VacCharging, VacIdle, VacPaused, VacReturning} {
		v := testVacuum(t)
		v.state = from

		require.NoError(t, v.Start(ctx), "from %s", from)
		assert.Equal(t, VacCleaning, v.CurrentState(), "from %s", from)
	}
}

func TestVacuum_StartWhileCleaningIsIdempotent(t *testing.T) {
	v := testVacuum(t)
	ctx := context.Background()

	require.NoError(t, v.Start(ctx))
	require.NoError(t, v.Start(ctx))
	assert.Equal(t, VacCleaning, v.CurrentState())
}

func TestVacuum_PauseOnlyWhileCleaning(t *testing.T) {
	ctx := context.Background()
	for _, from := range []VacState{VacCharging, VacIdle, VacPaused, VacReturning} {
		v := testVacuum(t)
		v.state = from

		err := v.Pause(ctx)
		assert.ErrorIs(t, err, ErrNotAllowed, "from %s", from)
		assert.Equal(t, from, v.CurrentState(), "state unchanged from %s", from)
	}

	v := testVacuum(t)
	require.NoError(t, v.Start(ctx))
	require.NoError(t, v.Pause(ctx))
	assert.Equal(t, VacPaused, v.CurrentState())
}

func TestVacuum_StopFromCleaningOrPaused(t *testing.T) {
	ctx := context.Background()

	v := testVacuum(t)
	require.NoError(t, v.Start(ctx))
	require.NoError(t, v.Stop(ctx))
	assert.Equal(t, VacIdle, v.CurrentState())

	v = testVacuum(t)
	require.NoError(t, v.Start(ctx))
	require.NoError(t, v.Pause(ctx))
	require.NoError(t, v.Stop(ctx))
	assert.Equal(t, VacIdle, v.CurrentState())

	err := v.Stop(ctx) // already idle
	assert.ErrorIs(t, err, ErrNotAllowed)
}

func TestVacuum_Dock(t *testing.T) {
	ctx := context.Background()

	v := testVacuum(t)
	require.NoError(t, v.Dock(ctx)) // charging → no-op success
	assert.Equal(t, VacCharging, v.CurrentState())

	require.NoError(t, v.Start(ctx))
	require.NoError(t, v.Dock(ctx))
	assert.Equal(t, VacReturning, v.CurrentState())
}

func TestVacuum_FanPowerBounds(t *testing.T) {
	v := testVacuum(t)
	ctx := context.Background()

	require.NoError(t, v.SetFanPower(ctx, 75))
	st, err := v.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 75, st["fan_power"])

	for _, bad := range []int{-1, 101} {
		assert.ErrorIs(t, v.SetFanPower(ctx, bad), ErrValidation, "power %d", bad)
	}
	st, err = v.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 75, st["fan_power"])
}

func TestVacuum_StartResetsCounters(t *testing.T) {
	v := testVacuum(t)
	ctx := context.Background()

	require.NoError(t, v.Start(ctx))
	for i := 0; i < 3; i++ {
		v.tick()
	}
	st, err := v.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, st["clean_minutes"])
	assert.Equal(t, 6, st["clean_area"])

	require.NoError(t, v.Stop(ctx))
	require.NoError(t, v.Start(ctx))
	st, err = v.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, st["clean_minutes"])
	assert.Equal(t, 0, st["clean_area"])
}

func TestVacuum_TickBattery(t *testing.T) {
	v := testVacuum(t)
	ctx := context.Background()

	require.NoError(t, v.Start(ctx))
	for i := 0; i < 10; i++ {
		v.tick()
	}
	assert.Equal(t, 90, v.Battery())

	// Battery never drains below the reserve floor.
	v.battery = 21
	v.tick()
	v.tick()
	assert.Equal(t, 20, v.Battery())

	// Charging climbs and clamps at 100.
	require.NoError(t, v.Dock(ctx))
	v.state = VacCharging
	v.battery = 99
	v.tick()
	assert.Equal(t, 100, v.Battery())
	v.tick()
	assert.Equal(t, 100, v.Battery())
}
