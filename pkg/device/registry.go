package device

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultCommandTimeout bounds a single adapter execute.
const DefaultCommandTimeout = 30 * time.Second

// StatusResult is one adapter's entry in a StatusAll aggregation: either
// a snapshot or the error that prevented one.
type StatusResult struct {
	Online bool   `json:"online"`
	State  State  `json:"state,omitempty"`
	Error  string `json:"error,omitempty"`
}

// DeviceHealth is one adapter's entry in a health report.
type DeviceHealth struct {
	Online    bool   `json:"online"`
	Status    string `json:"status"`
	LastError string `json:"last_error,omitempty"`
}

// HealthReport aggregates every adapter's reachability. Overall is
// "healthy" only when every adapter is online; a single offline adapter
// makes it "degraded".
type HealthReport struct {
	Timestamp time.Time               `json:"timestamp"`
	Devices   map[string]DeviceHealth `json:"devices"`
	Overall   string                  `json:"overall_status"`
}

const (
	HealthHealthy  = "healthy"
	HealthDegraded = "degraded"
)

// Registry holds the fixed set of adapters and routes commands to them.
// Multi-device operations fan out one goroutine per adapter and join all
// results; a failing adapter never aborts its siblings.
type Registry struct {
	adapters map[string]Adapter
	order    []string
	timeout  time.Duration
	log      zerolog.Logger
}

// NewRegistry builds a registry over the given adapters, keyed by
// Adapter.Name. timeout bounds each execute; zero means the default.
func NewRegistry(logger zerolog.Logger, timeout time.Duration, adapters ...Adapter) *Registry {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	r := &Registry{
		adapters: make(map[string]Adapter, len(adapters)),
		timeout:  timeout,
		log:      logger.With().Str("component", "registry").Logger(),
	}
	for _, a := range adapters {
		r.adapters[a.Name()] = a
		r.order = append(r.order, a.Name())
	}
	return r
}

// Adapter returns a registered adapter by name.
func (r *Registry) Adapter(name string) (Adapter, bool) {
	a, ok := r.adapters[name]
	return a, ok
}

// Names returns the adapter names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Execute routes one command to the named adapter under the registry
// timeout. Unknown device types are rejected before touching any adapter.
func (r *Registry) Execute(ctx context.Context, deviceType, command string, params Params) error {
	a, ok := r.adapters[deviceType]
	if !ok {
		r.log.Error().Str("device", deviceType).Str("command", command).Msg("unknown device type")
		return fmt.Errorf("%q: %w", deviceType, ErrUnknownDevice)
	}

	err := r.safeExecute(ctx, a, command, params)
	if err != nil {
		r.log.Warn().Err(err).Str("device", deviceType).Str("command", command).Msg("command failed")
		return err
	}
	r.log.Info().Str("device", deviceType).Str("command", command).Msg("command executed")
	return nil
}

// safeExecute wraps Adapter.Execute with the offline short-circuit, the
// timeout, and error containment. Wire-level faults and timeouts mark the
// adapter offline and record the error; logical rejections (validation,
// illegal state) pass through without touching the link.
func (r *Registry) safeExecute(ctx context.Context, a Adapter, command string, params Params) error {
	link := a.Link()
	if !link.Online() {
		return fmt.Errorf("%s: %w", a.Name(), ErrOffline)
	}

	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- a.Execute(cctx, command, params)
	}()

	select {
	case err := <-done:
		if err != nil && isDeviceFault(err) {
			link.markOffline(err)
		}
		return err
	case <-cctx.Done():
		// The in-flight execute is abandoned; its goroutine exits once the
		// adapter observes the cancelled context.
		err := fmt.Errorf("%s %s: %w", a.Name(), command, ErrTimeout)
		link.markOffline(err)
		return err
	}
}

// ping probes one adapter via Status. Success marks it online, failure
// marks it offline with the error recorded. This is the only path that
// clears the offline flag.
func (r *Registry) ping(ctx context.Context, a Adapter) bool {
	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := a.Status(cctx); err != nil {
		a.Link().markOffline(err)
		r.log.Warn().Err(err).Str("device", a.Name()).Msg("ping failed")
		return false
	}
	a.Link().markOnline()
	return true
}

// fanOut runs op against every adapter concurrently and joins the
// results. A panic or error inside one op becomes that adapter's failure
// entry and never disturbs the others.
func (r *Registry) fanOut(op func(Adapter) bool) map[string]bool {
	results := make(map[string]bool, len(r.adapters))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for name, a := range r.adapters {
		wg.Add(1)
		go func(name string, a Adapter) {
			defer wg.Done()
			ok := false
			func() {
				defer func() {
					if p := recover(); p != nil {
						r.log.Error().Str("device", name).Interface("panic", p).Msg("adapter panicked")
					}
				}()
				ok = op(a)
			}()
			mu.Lock()
			results[name] = ok
			mu.Unlock()
		}(name, a)
	}
	wg.Wait()
	return results
}

// ConnectAll connects every adapter concurrently.
func (r *Registry) ConnectAll(ctx context.Context) map[string]bool {
	return r.fanOut(func(a Adapter) bool {
		if err := a.Connect(ctx); err != nil {
			r.log.Warn().Err(err).Str("device", a.Name()).Msg("connect failed")
			return false
		}
		return true
	})
}

// DisconnectAll disconnects every adapter concurrently.
func (r *Registry) DisconnectAll(ctx context.Context) map[string]bool {
	return r.fanOut(func(a Adapter) bool {
		if err := a.Disconnect(ctx); err != nil {
			r.log.Warn().Err(err).Str("device", a.Name()).Msg("disconnect failed")
			return false
		}
		return true
	})
}

// StatusAll snapshots every adapter concurrently. A single adapter's
// failure is surfaced as its own entry, never as an aggregate error.
func (r *Registry) StatusAll(ctx context.Context) map[string]StatusResult {
	results := make(map[string]StatusResult, len(r.adapters))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for name, a := range r.adapters {
		wg.Add(1)
		go func(name string, a Adapter) {
			defer wg.Done()
			st, err := a.Status(ctx)
			res := StatusResult{Online: a.Link().Online(), State: st}
			if err != nil {
				res.Online = false
				res.Error = err.Error()
			}
			mu.Lock()
			results[name] = res
			mu.Unlock()
		}(name, a)
	}
	wg.Wait()
	return results
}

// PingAll probes every adapter concurrently.
func (r *Registry) PingAll(ctx context.Context) map[string]bool {
	return r.fanOut(func(a Adapter) bool {
		return r.ping(ctx, a)
	})
}

// HealthCheck composes PingAll with each adapter's last recorded error.
func (r *Registry) HealthCheck(ctx context.Context) *HealthReport {
	pings := r.PingAll(ctx)

	report := &HealthReport{
		Timestamp: time.Now().UTC(),
		Devices:   make(map[string]DeviceHealth, len(r.adapters)),
		Overall:   HealthHealthy,
	}
	for name, a := range r.adapters {
		online := pings[name]
		dh := DeviceHealth{
			Online:    online,
			Status:    HealthHealthy,
			LastError: a.Link().LastError(),
		}
		if !online {
			dh.Status = "offline"
			report.Overall = HealthDegraded
		}
		report.Devices[name] = dh
	}
	return report
}
