package command

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/urmzd/butler/pkg/auth"
	"github.com/urmzd/butler/pkg/device"
	"github.com/urmzd/butler/pkg/intent"
	"github.com/urmzd/butler/pkg/ratelimit"
)

// Orchestrator runs every inbound event through the fixed pipeline:
// authorize, rate limit, resolve an intent, dispatch, format. Each gate
// short-circuits with its own outcome; no failure ever escapes as a
// fault to the transport.
type Orchestrator struct {
	auth     *auth.Service
	limiter  *ratelimit.Limiter
	registry *device.Registry
	log      zerolog.Logger
	audit    zerolog.Logger
}

func NewOrchestrator(authSvc *auth.Service, limiter *ratelimit.Limiter, registry *device.Registry, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		auth:     authSvc,
		limiter:  limiter,
		registry: registry,
		log:      logger.With().Str("component", "orchestrator").Logger(),
		audit:    logger.With().Str("component", "orchestrator").Str("channel", "audit").Logger(),
	}
}

// Handle processes one event end to end and always returns a renderable
// outcome.
func (o *Orchestrator) Handle(ctx context.Context, ev Event) Outcome {
	eventID := uuid.NewString()
	log := o.log.With().
		Str("event_id", eventID).
		Int64("caller_id", ev.Caller.ID).
		Str("kind", string(ev.Kind)).
		Logger()

	if !o.auth.Authorize(ev.Caller) {
		o.audit.Warn().
			Str("event_id", eventID).
			Int64("caller_id", ev.Caller.ID).
			Str("handle", ev.Caller.Handle).
			Msg("caller rejected")
		return fail(CodeUnauthorized, "You are not allowed to use this system")
	}

	if !o.limiter.Allow(callerKey(ev.Caller)) {
		o.audit.Warn().
			Str("event_id", eventID).
			Int64("caller_id", ev.Caller.ID).
			Msg("rate limit exceeded")
		return fail(CodeRateLimited, "Too many requests, slow down")
	}

	in := o.resolve(ev)
	if in.Device == intent.DeviceUnknown {
		log.Info().Str("text", ev.Text).Str("command", ev.Command).Msg("not understood")
		return fail(CodeNotUnderstood, "Sorry, I did not understand that")
	}

	return o.Execute(ctx, in)
}

// Execute dispatches an already resolved intent, bypassing the caller
// gates. Trusted local transports use it directly.
func (o *Orchestrator) Execute(ctx context.Context, in intent.Intent) Outcome {
	if in.Device == intent.DeviceUnknown {
		return fail(CodeNotUnderstood, "Sorry, I did not understand that")
	}

	log := o.log.With().
		Str("device", string(in.Device)).
		Str("action", in.Action).
		Logger()

	if in.Action == intent.ActionHealth {
		return o.Health(ctx)
	}
	// "status" against a specific device still renders the full snapshot,
	// matching how the chat menus behave.
	if in.Device == intent.DeviceStatus || in.Action == intent.ActionStatus {
		return o.statusOutcome(ctx, log)
	}
	return o.dispatch(ctx, log, in)
}

// resolve picks the intent source by event kind. Commands and callbacks
// use the fixed tables; text and transcripts go through the parser.
func (o *Orchestrator) resolve(ev Event) intent.Intent {
	switch ev.Kind {
	case KindCommand:
		return commandIntent(ev.Command, ev.Args)
	case KindCallback:
		return callbackIntent(ev.CallbackID)
	case KindText, KindTranscript:
		return intent.Parse(ev.Text)
	}
	return intent.Intent{Device: intent.DeviceUnknown}
}

func (o *Orchestrator) dispatch(ctx context.Context, log zerolog.Logger, in intent.Intent) Outcome {
	// A start request carrying a percentage sets the fan power first.
	if in.Device == intent.DeviceVacuum && in.Action == intent.ActionStart && in.HasValue() {
		pre := device.Params{"power": *in.Value}
		if err := o.registry.Execute(ctx, adapterVacuum, device.CmdVacuumFanPower, pre); err != nil {
			log.Warn().Err(err).Msg("dispatch failed")
			return errorOutcome(err)
		}
	}

	p, ok := plan(in)
	if !ok {
		log.Info().Msg("intent not dispatchable")
		return fail(CodeNotUnderstood, "Sorry, I did not understand that")
	}

	if err := o.registry.Execute(ctx, p.deviceType, p.command, p.params); err != nil {
		log.Warn().Err(err).Str("command", p.command).Msg("dispatch failed")
		return errorOutcome(err)
	}
	log.Info().Str("command", p.command).Msg("command executed")
	return succeed(p.success)
}

func (o *Orchestrator) statusOutcome(ctx context.Context, log zerolog.Logger) Outcome {
	results := o.registry.StatusAll(ctx)
	log.Info().Msg("status requested")
	out := succeed(formatStatus(results))
	out.Data = results
	return out
}

// Health reports adapter reachability as an outcome, for transports that
// expose it as a command.
func (o *Orchestrator) Health(ctx context.Context) Outcome {
	report := o.registry.HealthCheck(ctx)
	out := succeed(formatHealth(report))
	out.Data = report
	if report.Overall != device.HealthHealthy {
		out.Success = false
		out.Code = CodeAdapterFailure
	}
	return out
}

// errorOutcome maps dispatcher errors onto the outcome taxonomy.
func errorOutcome(err error) Outcome {
	switch {
	case errors.Is(err, device.ErrUnknownDevice):
		return fail(CodeUnknownDevice, "Unknown device")
	case errors.Is(err, device.ErrTimeout):
		return fail(CodeAdapterTimeout, "The device did not respond in time")
	case errors.Is(err, device.ErrValidation):
		return fail(CodeValidationFailure, "Invalid value for this command")
	case errors.Is(err, device.ErrNotAllowed):
		return fail(CodeAdapterFailure, "The device cannot do that right now")
	case errors.Is(err, device.ErrUnknownCommand):
		return fail(CodeNotUnderstood, "Sorry, I did not understand that")
	case errors.Is(err, device.ErrOffline):
		return fail(CodeAdapterFailure, "The device is unreachable")
	default:
		return fail(CodeAdapterFailure, "The command failed")
	}
}

func callerKey(c auth.Caller) string {
	if c.ID == 0 {
		return ratelimit.UnknownCaller
	}
	return strconv.FormatInt(c.ID, 10)
}
