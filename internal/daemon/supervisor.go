package daemon

import (
	"context"
	"errors"
	"log/slog"

	"github.com/thejerf/suture/v4"
)

// Service is a supervised component with a name for log messages.
type Service interface {
	String() string
	suture.Service
}

// NewSupervisor returns a supervisor that reports its events to logger.
func NewSupervisor(name string, logger *slog.Logger) *suture.Supervisor {
	return suture.New(name, suture.Spec{
		EventHook: EventHook(logger),
	})
}

// EventHook logs supervisor events.
func EventHook(logger *slog.Logger) suture.EventHook {
	return func(ei suture.Event) {
		switch e := ei.(type) {
		case suture.EventStopTimeout:
			logger.Warn("service failed to stop in time", "supervisor", e.SupervisorName, "service", e.ServiceName)
		case suture.EventServicePanic:
			logger.Error("service panic", "service", e.ServiceName, "panic", e.PanicMsg)
			logger.Debug(e.Stacktrace)
		case suture.EventServiceTerminate:
			logger.Error("service failed", "supervisor", e.SupervisorName, "service", e.ServiceName, "error", e.Err)
		case suture.EventBackoff:
			logger.Warn("too many service failures, backing off", "supervisor", e.SupervisorName)
		case suture.EventResume:
			logger.Info("leaving backoff", "supervisor", e.SupervisorName)
		default:
			logger.Warn("unknown supervisor event", "type", int(e.Type()))
		}
	}
}

// Run supervises services until ctx is cancelled or one of them ends the
// tree with suture.ErrTerminateSupervisorTree, which counts as a clean exit.
func Run(ctx context.Context, logger *slog.Logger, services ...Service) error {
	super := NewSupervisor("vowin", logger)
	for _, svc := range services {
		super.Add(sanitized{Service: svc})
	}

	err := super.Serve(ctx)
	var fatal fatalError
	switch {
	case errors.As(err, &fatal):
		return fatal.err
	case err == nil, errors.Is(err, suture.ErrTerminateSupervisorTree), errors.Is(err, context.Canceled):
		return nil
	}
	return err
}

// Fatal marks err as ending the whole tree. Run returns err itself
// instead of treating the termination as a clean exit.
func Fatal(err error) error {
	return fatalError{err: err}
}

type fatalError struct {
	err error
}

func (e fatalError) Error() string { return e.err.Error() }

func (e fatalError) Unwrap() []error {
	return []error{e.err, suture.ErrTerminateSupervisorTree}
}

// sanitized stops a context error from a service's own work being taken
// as a shutdown request, since suture does not restart such services.
type sanitized struct {
	Service
}

func (s sanitized) Serve(ctx context.Context) error {
	return sanitizeError(ctx, s.Service.Serve(ctx))
}

func sanitizeError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return errors.New(err.Error())
}
