package device

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Vacuum command names.
const (
	CmdVacuumStart    = "start"
	CmdVacuumPause    = "pause"
	CmdVacuumStop     = "stop"
	CmdVacuumDock     = "dock"
	CmdVacuumFanPower = "set_fan_power"
	CmdVacuumFind     = "find"
)

// VacState is the vacuum's lifecycle state.
type VacState string

const (
	VacCharging  VacState = "charging"
	VacCleaning  VacState = "cleaning"
	VacReturning VacState = "returning"
	VacPaused    VacState = "paused"
	VacIdle      VacState = "idle"
)

// Vacuum controls a robot vacuum with a small command-driven state
// machine. A periodic tick (see Run) simulates the vendor status feed:
// battery drains while cleaning and recharges on the dock.
type Vacuum struct {
	link *Link
	tr   transport
	log  zerolog.Logger

	mu           sync.Mutex
	state        VacState
	battery      int
	fanPower     int
	cleanMinutes int
	cleanArea    int
}

// NewVacuum creates the vacuum adapter, docked and fully charged.
func NewVacuum(logger zerolog.Logger) *Vacuum {
	return newVacuum(logger, simTransport{delay: 200 * time.Millisecond})
}

func newVacuum(logger zerolog.Logger, tr transport) *Vacuum {
	return &Vacuum{
		link:     NewLink(),
		tr:       tr,
		log:      logger.With().Str("device", "vacuum").Logger(),
		state:    VacCharging,
		battery:  100,
		fanPower: 100,
	}
}

func (v *Vacuum) Name() string { return "vacuum" }

func (v *Vacuum) Link() *Link { return v.link }

func (v *Vacuum) Connect(ctx context.Context) error {
	return v.tr.send(ctx, "vacuum", "connect", nil)
}

func (v *Vacuum) Disconnect(ctx context.Context) error {
	return v.tr.send(ctx, "vacuum", "disconnect", nil)
}

func (v *Vacuum) Status(ctx context.Context) (State, error) {
	if err := v.tr.send(ctx, "vacuum", "status", nil); err != nil {
		return nil, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	return State{
		"state":         string(v.state),
		"battery":       v.battery,
		"fan_power":     v.fanPower,
		"clean_minutes": v.cleanMinutes,
		"clean_area":    v.cleanArea,
	}, nil
}

func (v *Vacuum) Execute(ctx context.Context, command string, params Params) error {
	switch command {
	case CmdVacuumStart:
		return v.Start(ctx)
	case CmdVacuumPause:
		return v.Pause(ctx)
	case CmdVacuumStop:
		return v.Stop(ctx)
	case CmdVacuumDock:
		return v.Dock(ctx)
	case CmdVacuumFanPower:
		power, ok := paramInt(params, "power")
		if !ok {
			return fmt.Errorf("set_fan_power: missing power: %w", ErrValidation)
		}
		return v.SetFanPower(ctx, power)
	case CmdVacuumFind:
		return v.Find(ctx)
	default:
		return fmt.Errorf("vacuum command %q: %w", command, ErrUnknownCommand)
	}
}

// Start begins cleaning from any non-cleaning state and resets the
// session counters. Already cleaning is a successful no-op.
func (v *Vacuum) Start(ctx context.Context) error {
	v.mu.Lock()
	if v.state == VacCleaning {
		v.mu.Unlock()
		v.log.Info().Msg("already cleaning")
		return nil
	}
	v.state = VacCleaning
	v.cleanMinutes = 0
	v.cleanArea = 0
	v.mu.Unlock()

	if err := v.tr.send(ctx, "vacuum", "app_start", nil); err != nil {
		return err
	}
	v.log.Info().Msg("cleaning started")
	return nil
}

// Pause suspends cleaning. Fails unless the vacuum is cleaning.
func (v *Vacuum) Pause(ctx context.Context) error {
	v.mu.Lock()
	if v.state != VacCleaning {
		st := v.state
		v.mu.Unlock()
		return fmt.Errorf("cannot pause while %s: %w", st, ErrNotAllowed)
	}
	v.state = VacPaused
	v.mu.Unlock()

	if err := v.tr.send(ctx, "vacuum", "app_pause", nil); err != nil {
		return err
	}
	v.log.Info().Msg("cleaning paused")
	return nil
}

// Stop ends a cleaning session (running or paused) and goes idle.
func (v *Vacuum) Stop(ctx context.Context) error {
	v.mu.Lock()
	if v.state != VacCleaning && v.state != VacPaused {
		st := v.state
		v.mu.Unlock()
		return fmt.Errorf("cannot stop while %s: %w", st, ErrNotAllowed)
	}
	v.state = VacIdle
	v.mu.Unlock()

	if err := v.tr.send(ctx, "vacuum", "app_stop", nil); err != nil {
		return err
	}
	v.log.Info().Msg("cleaning stopped")
	return nil
}

// Dock sends the vacuum home. Already charging is a successful no-op.
func (v *Vacuum) Dock(ctx context.Context) error {
	v.mu.Lock()
	if v.state == VacCharging {
		v.mu.Unlock()
		v.log.Info().Msg("already docked")
		return nil
	}
	v.state = VacReturning
	v.mu.Unlock()

	if err := v.tr.send(ctx, "vacuum", "app_charge", nil); err != nil {
		return err
	}
	v.log.Info().Msg("returning to dock")
	return nil
}

// SetFanPower stores the user-facing percentage. The vendor only knows
// discrete quiet/balanced/turbo/max tiers, so the wire value is bumped to
// the nearest tier floor while status keeps reporting the requested
// percentage.
func (v *Vacuum) SetFanPower(ctx context.Context, power int) error {
	if power < 0 || power > 100 {
		return fmt.Errorf("fan power %d out of range: %w", power, ErrValidation)
	}

	wirePower := power
	if wirePower < 38 {
		wirePower = 38
	}
	if err := v.tr.send(ctx, "vacuum", "set_custom_mode", Params{"value": wirePower}); err != nil {
		return err
	}

	v.mu.Lock()
	v.fanPower = power
	v.mu.Unlock()
	v.log.Info().Int("fan_power", power).Msg("fan power set")
	return nil
}

// Find makes the vacuum play its locator sound.
func (v *Vacuum) Find(ctx context.Context) error {
	return v.tr.send(ctx, "vacuum", "find_me", nil)
}

// CurrentState returns the lifecycle state.
func (v *Vacuum) CurrentState() VacState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Battery returns the charge percentage.
func (v *Vacuum) Battery() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.battery
}

// tick advances the simulated status feed by one step.
func (v *Vacuum) tick() {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch v.state {
	case VacCleaning:
		if v.battery > 20 {
			v.battery--
		}
		v.cleanMinutes++
		v.cleanArea += 2
	case VacCharging:
		v.battery += 2
		if v.battery > 100 {
			v.battery = 100
		}
	}
}

// Run drives the status tick until ctx is cancelled. The caller owns the
// goroutine; cancelling the context stops the loop cleanly.
func (v *Vacuum) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			v.tick()
		case <-ctx.Done():
			return
		}
	}
}
