package device

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// TV command names.
const (
	CmdTVOn        = "on"
	CmdTVOff       = "off"
	CmdTVLaunchApp = "launch_app"
	CmdTVVolume    = "volume"
)

const volumeStep = 5

// appPackages maps friendly app names onto their launcher packages.
var appPackages = map[string]string{
	"netflix": "com.netflix.mediaclient",
	"youtube": "com.google.android.youtube",
}

// TV controls an Android TV. Power commands are idempotent; app launch
// powers the set on first; volume only works while the TV is on.
type TV struct {
	link *Link
	tr   transport
	log  zerolog.Logger

	mu         sync.Mutex
	on         bool
	currentApp string
	volume     int
}

// NewTV creates the TV adapter.
func NewTV(logger zerolog.Logger) *TV {
	return newTV(logger, simTransport{delay: 100 * time.Millisecond})
}

func newTV(logger zerolog.Logger, tr transport) *TV {
	return &TV{
		link:   NewLink(),
		tr:     tr,
		log:    logger.With().Str("device", "tv").Logger(),
		volume: 50,
	}
}

func (t *TV) Name() string { return "tv" }

func (t *TV) Link() *Link { return t.link }

func (t *TV) Connect(ctx context.Context) error {
	return t.tr.send(ctx, "tv", "connect", nil)
}

func (t *TV) Disconnect(ctx context.Context) error {
	return t.tr.send(ctx, "tv", "disconnect", nil)
}

func (t *TV) Status(ctx context.Context) (State, error) {
	if err := t.tr.send(ctx, "tv", "status", nil); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	st := State{
		"on":     t.on,
		"volume": t.volume,
	}
	if t.currentApp != "" {
		st["current_app"] = t.currentApp
	}
	return st, nil
}

func (t *TV) Execute(ctx context.Context, command string, params Params) error {
	switch command {
	case CmdTVOn:
		return t.TurnOn(ctx)
	case CmdTVOff:
		return t.TurnOff(ctx)
	case CmdTVLaunchApp:
		app, ok := paramString(params, "app")
		if !ok {
			return fmt.Errorf("launch_app: missing app: %w", ErrValidation)
		}
		return t.LaunchApp(ctx, app)
	case CmdTVVolume:
		action, ok := paramString(params, "action")
		if !ok {
			return fmt.Errorf("volume: missing action: %w", ErrValidation)
		}
		return t.ControlVolume(ctx, action)
	default:
		return fmt.Errorf("tv command %q: %w", command, ErrUnknownCommand)
	}
}

// TurnOn powers the TV on. Already on is a successful no-op.
func (t *TV) TurnOn(ctx context.Context) error {
	t.mu.Lock()
	if t.on {
		t.mu.Unlock()
		return nil
	}
	t.on = true
	t.mu.Unlock()

	if err := t.tr.send(ctx, "tv", "keyevent_power", nil); err != nil {
		return err
	}
	t.log.Info().Msg("tv turned on")
	return nil
}

// TurnOff powers the TV off and clears the current app. Already off is a
// successful no-op.
func (t *TV) TurnOff(ctx context.Context) error {
	t.mu.Lock()
	if !t.on {
		t.mu.Unlock()
		return nil
	}
	t.on = false
	t.currentApp = ""
	t.mu.Unlock()

	if err := t.tr.send(ctx, "tv", "keyevent_power", nil); err != nil {
		return err
	}
	t.log.Info().Msg("tv turned off")
	return nil
}

// LaunchApp starts a known app, powering the TV on first when needed.
func (t *TV) LaunchApp(ctx context.Context, app string) error {
	pkg, ok := appPackages[app]
	if !ok {
		return fmt.Errorf("unknown app %q: %w", app, ErrValidation)
	}

	if err := t.TurnOn(ctx); err != nil {
		return err
	}
	if err := t.tr.send(ctx, "tv", "launch", Params{"package": pkg}); err != nil {
		return err
	}

	t.mu.Lock()
	t.currentApp = app
	t.mu.Unlock()
	t.log.Info().Str("app", app).Msg("app launched")
	return nil
}

// ControlVolume adjusts volume by a fixed step for "up"/"down", or sets it
// directly when action is a number. Fails while the TV is off; the result
// is always clamped to [0,100].
func (t *TV) ControlVolume(ctx context.Context, action string) error {
	t.mu.Lock()
	if !t.on {
		t.mu.Unlock()
		return fmt.Errorf("tv is off: %w", ErrNotAllowed)
	}

	var target int
	switch action {
	case "up":
		target = t.volume + volumeStep
	case "down":
		target = t.volume - volumeStep
	default:
		v, err := strconv.Atoi(action)
		if err != nil {
			t.mu.Unlock()
			return fmt.Errorf("volume action %q: %w", action, ErrValidation)
		}
		target = v
	}
	target = clamp(target, 0, 100)
	t.volume = target
	t.mu.Unlock()

	if err := t.tr.send(ctx, "tv", "volume", Params{"value": target}); err != nil {
		return err
	}
	t.log.Info().Int("volume", target).Msg("volume changed")
	return nil
}

// Volume returns the current volume level.
func (t *TV) Volume() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.volume
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
