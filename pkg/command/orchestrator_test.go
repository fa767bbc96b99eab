package command

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urmzd/butler/pkg/auth"
	"github.com/urmzd/butler/pkg/device"
	"github.com/urmzd/butler/pkg/ratelimit"
)

// stubAdapter records executed commands and serves canned status
// snapshots, so orchestrator tests observe the registry boundary without
// simulated network delays.
type stubAdapter struct {
	name        string
	link        *device.Link
	statusState device.State
	statusErr   error
	execErr     error

	mu       sync.Mutex
	executed []string
}

func newStub(name string) *stubAdapter {
	return &stubAdapter{name: name, link: device.NewLink(), statusState: device.State{}}
}

func (s *stubAdapter) Name() string                         { return s.name }
func (s *stubAdapter) Link() *device.Link                   { return s.link }
func (s *stubAdapter) Connect(ctx context.Context) error    { return nil }
func (s *stubAdapter) Disconnect(ctx context.Context) error { return nil }

func (s *stubAdapter) Status(ctx context.Context) (device.State, error) {
	if s.statusErr != nil {
		return nil, s.statusErr
	}
	return s.statusState, nil
}

func (s *stubAdapter) Execute(ctx context.Context, command string, params device.Params) error {
	s.mu.Lock()
	s.executed = append(s.executed, command)
	s.mu.Unlock()
	return s.execErr
}

func (s *stubAdapter) commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.executed...)
}

type fixture struct {
	orch   *Orchestrator
	lights *stubAdapter
	tv     *stubAdapter
	vacuum *stubAdapter
}

func newFixture(t *testing.T, authCfg auth.Config, quota int) *fixture {
	t.Helper()
	log := zerolog.Nop()
	f := &fixture{
		lights: newStub("lights"),
		tv:     newStub("tv"),
		vacuum: newStub("vacuum"),
	}
	reg := device.NewRegistry(log, time.Second, f.lights, f.tv, f.vacuum)
	f.orch = NewOrchestrator(
		auth.NewService(authCfg, log, log),
		ratelimit.New(quota, time.Minute),
		reg,
		log,
	)
	return f
}

func textEvent(callerID int64, text string) Event {
	return Event{Caller: auth.Caller{ID: callerID}, Kind: KindText, Text: text}
}

func TestHandle_UnauthorizedShortCircuits(t *testing.T) {
	f := newFixture(t, auth.Config{AllowedIDs: []int64{1}}, 100)

	out := f.orch.Handle(context.Background(), textEvent(2, "включи свет"))

	assert.False(t, out.Success)
	assert.Equal(t, CodeUnauthorized, out.Code)
	assert.Empty(t, f.lights.commands())
}

func TestHandle_AuthGateRunsBeforeRateLimit(t *testing.T) {
	f := newFixture(t, auth.Config{AllowedIDs: []int64{1}}, 1)

	// Repeated denials stay unauthorized; the limiter is never consulted
	// for a rejected caller.
	for i := 0; i < 3; i++ {
		out := f.orch.Handle(context.Background(), textEvent(2, "включи свет"))
		assert.Equal(t, CodeUnauthorized, out.Code)
	}
}

func TestHandle_RateLimited(t *testing.T) {
	f := newFixture(t, auth.Config{}, 1)

	first := f.orch.Handle(context.Background(), textEvent(1, "включи свет"))
	second := f.orch.Handle(context.Background(), textEvent(1, "включи свет"))

	assert.True(t, first.Success)
	assert.Equal(t, CodeRateLimited, second.Code)
	assert.Len(t, f.lights.commands(), 1)
}

func TestHandle_NotUnderstood(t *testing.T) {
	f := newFixture(t, auth.Config{}, 100)

	out := f.orch.Handle(context.Background(), textEvent(1, "сделай что-нибудь"))

	assert.False(t, out.Success)
	assert.Equal(t, CodeNotUnderstood, out.Code)
	assert.Empty(t, f.lights.commands())
	assert.Empty(t, f.tv.commands())
	assert.Empty(t, f.vacuum.commands())
}

func TestHandle_TextDispatchesLightToggle(t *testing.T) {
	f := newFixture(t, auth.Config{}, 100)

	out := f.orch.Handle(context.Background(), textEvent(1, "выключи свет на кухне"))

	require.True(t, out.Success)
	assert.Equal(t, []string{device.CmdLightToggle}, f.lights.commands())
	assert.Contains(t, out.Message, "kitchen")
}

func TestHandle_CommandTableDispatch(t *testing.T) {
	f := newFixture(t, auth.Config{}, 100)

	out := f.orch.Handle(context.Background(), Event{
		Caller:  auth.Caller{ID: 1},
		Kind:    KindCommand,
		Command: "light_brightness",
		Args:    []string{"bathroom", "40"},
	})

	require.True(t, out.Success)
	assert.Equal(t, []string{device.CmdLightBrightness}, f.lights.commands())
}

func TestHandle_CallbackDispatch(t *testing.T) {
	f := newFixture(t, auth.Config{}, 100)

	out := f.orch.Handle(context.Background(), Event{
		Caller:     auth.Caller{ID: 1},
		Kind:       KindCallback,
		CallbackID: "tv_netflix",
	})

	require.True(t, out.Success)
	assert.Equal(t, []string{device.CmdTVLaunchApp}, f.tv.commands())
}

func TestHandle_UnknownCallbackNotUnderstood(t *testing.T) {
	f := newFixture(t, auth.Config{}, 100)

	out := f.orch.Handle(context.Background(), Event{
		Caller:     auth.Caller{ID: 1},
		Kind:       KindCallback,
		CallbackID: "thermostat_up",
	})

	assert.Equal(t, CodeNotUnderstood, out.Code)
}

func TestHandle_VacuumStartWithFanPower(t *testing.T) {
	f := newFixture(t, auth.Config{}, 100)

	out := f.orch.Handle(context.Background(), textEvent(1, "начни уборку на 75%"))

	require.True(t, out.Success)
	assert.Equal(t, []string{device.CmdVacuumFanPower, device.CmdVacuumStart}, f.vacuum.commands())
}

func TestHandle_ValidationFailureMapped(t *testing.T) {
	f := newFixture(t, auth.Config{}, 100)
	f.lights.execErr = fmt.Errorf("brightness 150: %w", device.ErrValidation)

	out := f.orch.Handle(context.Background(), Event{
		Caller:  auth.Caller{ID: 1},
		Kind:    KindCommand,
		Command: "light_brightness",
		Args:    []string{"kitchen", "150"},
	})

	assert.False(t, out.Success)
	assert.Equal(t, CodeValidationFailure, out.Code)
	// Logical rejections never mark the adapter offline.
	assert.True(t, f.lights.link.Online())
}

func TestHandle_NotAllowedMapped(t *testing.T) {
	f := newFixture(t, auth.Config{}, 100)
	f.vacuum.execErr = fmt.Errorf("pause while charging: %w", device.ErrNotAllowed)

	out := f.orch.Handle(context.Background(), Event{
		Caller:  auth.Caller{ID: 1},
		Kind:    KindCommand,
		Command: "vacuum_pause",
	})

	assert.False(t, out.Success)
	assert.Equal(t, CodeAdapterFailure, out.Code)
}

func TestHandle_StatusSnapshot(t *testing.T) {
	f := newFixture(t, auth.Config{}, 100)
	f.lights.statusState = device.State{
		"kitchen": map[string]any{"on": true, "brightness": 100},
		"hallway": map[string]any{"on": false, "brightness": 100},
	}
	f.tv.statusState = device.State{"on": true, "current_app": "netflix", "volume": 50}
	f.vacuum.statusState = device.State{"state": "charging", "battery": 100}

	out := f.orch.Handle(context.Background(), textEvent(1, "статус"))

	require.True(t, out.Success)
	assert.Contains(t, out.Message, "lights: 1/2 on")
	assert.Contains(t, out.Message, "tv: on (netflix)")
	assert.Contains(t, out.Message, "vacuum: charging (battery 100%)")
	assert.NotNil(t, out.Data)
}

func TestHandle_StatusReportsUnreachableAdapter(t *testing.T) {
	f := newFixture(t, auth.Config{}, 100)
	f.tv.statusErr = fmt.Errorf("socket closed")
	f.vacuum.statusState = device.State{"state": "idle", "battery": 80}

	out := f.orch.Handle(context.Background(), textEvent(1, "статус"))

	require.True(t, out.Success)
	assert.Contains(t, out.Message, "tv: unreachable")
	assert.Contains(t, out.Message, "vacuum: idle")
}

func TestHealth_DegradedWhenAnyAdapterOffline(t *testing.T) {
	f := newFixture(t, auth.Config{}, 100)
	f.tv.statusErr = fmt.Errorf("socket closed")

	out := f.orch.Health(context.Background())

	assert.False(t, out.Success)
	assert.Contains(t, out.Message, "tv")

	f.tv.statusErr = nil
	out = f.orch.Health(context.Background())
	assert.True(t, out.Success)
	assert.Equal(t, "All devices healthy", out.Message)
}
