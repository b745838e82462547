// Package backend holds the backend selection: the process-wide default and
// the per-call override carried on a context.
package backend

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mrlokans/dataadapter/internal/logging"
)

// Kind identifies one of the two supported backends.
type Kind string

const (
	// BaaS is the hosted relational store with direct table and storage APIs.
	BaaS Kind = "baas"
	// LowCode is the REST low-code platform with enveloped camelCase responses.
	LowCode Kind = "lowcode"
)

// Kinds lists every supported backend.
var Kinds = []Kind{BaaS, LowCode}

// ParseKind parses a backend name. The legacy names "supabase" and "jeecg"
// are accepted as aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(BaaS), "supabase":
		return BaaS, nil
	case string(LowCode), "jeecg", "jeecgboot":
		return LowCode, nil
	default:
		return "", fmt.Errorf("unknown data source %q (want %q or %q)", s, BaaS, LowCode)
	}
}

// DisplayName returns a human readable backend name.
func (k Kind) DisplayName() string {
	switch k {
	case BaaS:
		return "BaaS"
	case LowCode:
		return "Low-code platform"
	default:
		return string(k)
	}
}

// Valid reports whether k is one of the supported backends.
func (k Kind) Valid() bool {
	return k == BaaS || k == LowCode
}

// Selector holds the process-wide default backend.
type Selector struct {
	mu      sync.RWMutex
	current Kind
}

// NewSelector creates a selector starting at the given backend.
func NewSelector(initial Kind) *Selector {
	if !initial.Valid() {
		initial = BaaS
	}
	return &Selector{current: initial}
}

// Set overwrites the default backend and logs the change.
func (s *Selector) Set(k Kind) error {
	if !k.Valid() {
		return fmt.Errorf("unknown data source %q", k)
	}
	s.mu.Lock()
	prev := s.current
	s.current = k
	s.mu.Unlock()

	logging.L.Info("Data source switched", "from", prev, "to", k)
	return nil
}

// Get returns the default backend.
func (s *Selector) Get() Kind {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

type contextKey struct{}

// WithKind returns a context that pins the backend for calls made with it.
func WithKind(ctx context.Context, k Kind) context.Context {
	return context.WithValue(ctx, contextKey{}, k)
}

// FromContext returns the backend pinned on ctx, if any.
func FromContext(ctx context.Context) (Kind, bool) {
	k, ok := ctx.Value(contextKey{}).(Kind)
	if !ok || !k.Valid() {
		return "", false
	}
	return k, true
}

// Resolve returns the backend for a call: the context override when present,
// else the selector default. Callers resolve once at entry.
func (s *Selector) Resolve(ctx context.Context) Kind {
	if k, ok := FromContext(ctx); ok {
		return k
	}
	return s.Get()
}
