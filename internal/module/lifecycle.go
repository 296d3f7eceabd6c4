package module

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/flightdrop/internal/ctxlog"
)

// StartAll starts every Starter in mods in order. If one fails, the modules
// already started are stopped in reverse order and the start error is
// returned. On success the returned function stops all started modules in
// reverse order.
func StartAll(ctx context.Context, mods []Module) (stop func(context.Context) error, err error) {
	logger := ctxlog.FromContext(ctx)
	var started []Module

	stop = func(ctx context.Context) error {
		var errs []error
		for i := len(started) - 1; i >= 0; i-- {
			m := started[i]
			s, ok := m.(Stopper)
			if !ok {
				continue
			}
			if err := s.Stop(ctxlog.WithModule(ctx, m.Name())); err != nil {
				errs = append(errs, fmt.Errorf("failed to stop module %q: %w", m.Name(), err))
			}
		}
		started = nil
		return errors.Join(errs...)
	}

	for _, m := range mods {
		s, ok := m.(Starter)
		if !ok {
			started = append(started, m)
			continue
		}
		logger.Debug("Starting module.", "module", m.Name())
		if err := s.Start(ctxlog.WithModule(ctx, m.Name())); err != nil {
			startErr := fmt.Errorf("failed to start module %q: %w", m.Name(), err)
			if stopErr := stop(ctx); stopErr != nil {
				return nil, errors.Join(startErr, stopErr)
			}
			return nil, startErr
		}
		started = append(started, m)
	}

	logger.Debug("All modules started.", "count", len(started))
	return stop, nil
}
