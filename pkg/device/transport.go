package device

import (
	"context"
	"time"
)

// transport is the seam between an adapter and its vendor endpoint.
// Real vendor bindings (gateway HTTP, ADB, miIO) would implement this;
// the default implementation simulates the round trip.
type transport interface {
	send(ctx context.Context, target, command string, params Params) error
}

// transportFunc adapts a function to the transport interface.
type transportFunc func(ctx context.Context, target, command string, params Params) error

func (f transportFunc) send(ctx context.Context, target, command string, params Params) error {
	return f(ctx, target, command, params)
}

// simTransport fakes a vendor round trip with a fixed network delay.
type simTransport struct {
	delay time.Duration
}

func (t simTransport) send(ctx context.Context, target, command string, params Params) error {
	timer := time.NewTimer(t.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
