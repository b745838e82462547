package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mrlokans/dataadapter/internal/apperr"
	"github.com/mrlokans/dataadapter/internal/backend"
	"github.com/mrlokans/dataadapter/internal/envelope"
	"github.com/mrlokans/dataadapter/internal/logging"
)

// CallObserver is notified after every facade call.
type CallObserver interface {
	ObserveCall(entity, operation string, kind backend.Kind, code int, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveCall(string, string, backend.Kind, int, time.Duration) {}

type caller struct {
	entity   string
	selector *backend.Selector
	observer CallObserver
	source   bool // BaaS driver available
	target   bool // platform driver available
}

// dispatch fixes the backend for the call, runs the matching driver and
// reports the outcome. Both drivers receive a context pinned to that backend.
func dispatch[R any](ctx context.Context, c caller, op string, source, target func(context.Context) *envelope.Response[R]) *envelope.Response[R] {
	kind := c.selector.Resolve(ctx)
	ctx = backend.WithKind(ctx, kind)
	start := time.Now()

	var resp *envelope.Response[R]
	switch {
	case kind == backend.LowCode && c.target:
		resp = target(ctx)
	case kind == backend.BaaS && c.source:
		resp = source(ctx)
	default:
		resp = envelope.Fail[R](&apperr.ConfigError{
			Backend: string(kind),
			Setting: "driver",
			Reason:  "is not configured",
		})
	}

	elapsed := time.Since(start)
	c.observer.ObserveCall(c.entity, op, kind, resp.Code, elapsed)
	if !resp.Success {
		logging.L.Warn("Facade call failed",
			"entity", c.entity, "op", op, "backend", kind,
			"code", resp.Code, "message", resp.Message)
	} else {
		logging.L.Debug("Facade call",
			"entity", c.entity, "op", op, "backend", kind,
			"elapsed", fmt.Sprint(elapsed))
	}
	return resp
}
