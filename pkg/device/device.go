// Package device owns the smart-home adapters (lights, TV, vacuum) and the
// registry that routes commands to them. Each adapter holds its own state
// behind a mutex and talks to its vendor endpoint through a transport seam;
// the registry fans out multi-device operations and contains per-adapter
// failures so one bad device never takes down a sibling call.
package device

import (
	"context"
	"sync"
)

// Params carries command parameters. Values arrive as decoded JSON
// (float64 for numbers), so adapters read them through the param helpers.
type Params map[string]any

// State is a point-in-time status snapshot of one adapter.
type State map[string]any

// Adapter is the capability interface every device controller implements.
type Adapter interface {
	// Name returns the registry key for this adapter.
	Name() string

	// Connect establishes the vendor link.
	Connect(ctx context.Context) error

	// Disconnect tears the vendor link down.
	Disconnect(ctx context.Context) error

	// Status returns a snapshot of the device state. It fails when the
	// device is unreachable.
	Status(ctx context.Context) (State, error)

	// Execute runs one normalized command against the device.
	Execute(ctx context.Context, command string, params Params) error

	// Link exposes the adapter's connectivity record.
	Link() *Link
}

// Link tracks whether an adapter is reachable and the last error seen on
// its wire. The registry flips it offline on execute timeouts/faults and
// ping is the sole mechanism that brings it back online.
type Link struct {
	mu      sync.Mutex
	online  bool
	lastErr string
}

// NewLink returns a link that starts online.
func NewLink() *Link {
	return &Link{online: true}
}

// Online reports current reachability.
func (l *Link) Online() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.online
}

// LastError returns the most recent recorded failure, or "".
func (l *Link) LastError() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

func (l *Link) markOnline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.online = true
}

func (l *Link) markOffline(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.online = false
	if err != nil {
		l.lastErr = err.Error()
	}
}

// --- param helpers ---

func paramString(p Params, key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func paramBool(p Params, key string) (bool, bool) {
	v, ok := p[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// paramInt accepts int and float64 so both native and JSON-decoded params
// work.
func paramInt(p Params, key string) (int, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
