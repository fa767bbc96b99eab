package device

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Light command names.
const (
	CmdLightToggle     = "toggle"
	CmdLightBrightness = "set_brightness"
	CmdLightToggleAll  = "toggle_all"
)

type roomState struct {
	On         bool
	Brightness int
	deviceID   string
}

// Light controls the per-room smart bulbs through a single gateway.
// The room map is shared by ToggleAll's concurrent fan-out, so every
// write goes through the mutex.
type Light struct {
	link *Link
	tr   transport
	log  zerolog.Logger

	mu    sync.Mutex
	rooms map[string]*roomState
}

// NewLight creates the light adapter with the fixed five-room layout.
func NewLight(logger zerolog.Logger) *Light {
	return newLight(logger, simTransport{delay: 100 * time.Millisecond})
}

func newLight(logger zerolog.Logger, tr transport) *Light {
	return &Light{
		link: NewLink(),
		tr:   tr,
		log:  logger.With().Str("device", "lights").Logger(),
		rooms: map[string]*roomState{
			"hallway":  {Brightness: 100, deviceID: "light_001"},
			"kitchen":  {Brightness: 100, deviceID: "light_002"},
			"room":     {Brightness: 100, deviceID: "light_003"},
			"bathroom": {Brightness: 80, deviceID: "light_004"},
			"toilet":   {Brightness: 60, deviceID: "light_005"},
		},
	}
}

func (l *Light) Name() string { return "lights" }

func (l *Light) Link() *Link { return l.link }

func (l *Light) Connect(ctx context.Context) error {
	return l.tr.send(ctx, "gateway", "connect", nil)
}

func (l *Light) Disconnect(ctx context.Context) error {
	return l.tr.send(ctx, "gateway", "disconnect", nil)
}

// Status snapshots every room's power state and brightness.
func (l *Light) Status(ctx context.Context) (State, error) {
	if err := l.tr.send(ctx, "gateway", "status", nil); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	st := State{}
	for room, rs := range l.rooms {
		st[room] = map[string]any{
			"on":         rs.On,
			"brightness": rs.Brightness,
			"device_id":  rs.deviceID,
		}
	}
	return st, nil
}

func (l *Light) Execute(ctx context.Context, command string, params Params) error {
	switch command {
	case CmdLightToggle:
		room, _ := paramString(params, "room")
		on, ok := paramBool(params, "state")
		if !ok {
			return fmt.Errorf("toggle: missing state: %w", ErrValidation)
		}
		return l.Toggle(ctx, room, on)
	case CmdLightBrightness:
		room, _ := paramString(params, "room")
		value, ok := paramInt(params, "brightness")
		if !ok {
			return fmt.Errorf("set_brightness: missing brightness: %w", ErrValidation)
		}
		return l.SetBrightness(ctx, room, value)
	case CmdLightToggleAll:
		on, ok := paramBool(params, "state")
		if !ok {
			return fmt.Errorf("toggle_all: missing state: %w", ErrValidation)
		}
		return l.ToggleAll(ctx, on)
	default:
		return fmt.Errorf("light command %q: %w", command, ErrUnknownCommand)
	}
}

// Toggle switches one room on or off.
func (l *Light) Toggle(ctx context.Context, room string, on bool) error {
	l.mu.Lock()
	rs, ok := l.rooms[room]
	if !ok {
		l.mu.Unlock()
		return fmt.Errorf("unknown room %q: %w", room, ErrValidation)
	}
	rs.On = on
	deviceID := rs.deviceID
	l.mu.Unlock()

	if err := l.tr.send(ctx, deviceID, "power", Params{"on": on}); err != nil {
		return err
	}
	l.log.Info().Str("room", room).Bool("on", on).Msg("light toggled")
	return nil
}

// SetBrightness sets a room's brightness percentage. Values outside
// [0,100] are rejected without changing state.
func (l *Light) SetBrightness(ctx context.Context, room string, value int) error {
	if value < 0 || value > 100 {
		return fmt.Errorf("brightness %d out of range: %w", value, ErrValidation)
	}

	l.mu.Lock()
	rs, ok := l.rooms[room]
	if !ok {
		l.mu.Unlock()
		return fmt.Errorf("unknown room %q: %w", room, ErrValidation)
	}
	rs.Brightness = value
	deviceID := rs.deviceID
	l.mu.Unlock()

	if err := l.tr.send(ctx, deviceID, "brightness", Params{"value": value}); err != nil {
		return err
	}
	l.log.Info().Str("room", room).Int("brightness", value).Msg("brightness set")
	return nil
}

// ToggleAll fans a toggle out to every room concurrently. The overall
// result succeeds only when every per-room toggle succeeded; rooms that
// did toggle before a sibling failed keep their new state.
func (l *Light) ToggleAll(ctx context.Context, on bool) error {
	l.mu.Lock()
	rooms := make([]string, 0, len(l.rooms))
	for room := range l.rooms {
		rooms = append(rooms, room)
	}
	l.mu.Unlock()

	var wg sync.WaitGroup
	errs := make(chan error, len(rooms))
	for _, room := range rooms {
		wg.Add(1)
		go func(room string) {
			defer wg.Done()
			if err := l.Toggle(ctx, room, on); err != nil {
				errs <- fmt.Errorf("%s: %w", room, err)
			}
		}(room)
	}
	wg.Wait()
	close(errs)

	failed := 0
	var first error
	for err := range errs {
		if first == nil {
			first = err
		}
		failed++
	}
	l.log.Info().Int("failed", failed).Int("total", len(rooms)).Bool("on", on).Msg("toggled all rooms")
	if first != nil {
		return fmt.Errorf("toggle all: %d/%d rooms failed: %w", failed, len(rooms), first)
	}
	return nil
}

// RoomCount returns how many rooms are on and the total room count.
func (l *Light) RoomCount() (on, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, rs := range l.rooms {
		if rs.On {
			on++
		}
	}
	return on, len(l.rooms)
}
