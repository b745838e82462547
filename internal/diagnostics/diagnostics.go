// Package diagnostics reports whether each backend is configured and reachable.
package diagnostics

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mrlokans/dataadapter/internal/apperr"
	"github.com/mrlokans/dataadapter/internal/backend"
	"github.com/mrlokans/dataadapter/internal/envelope"
	"github.com/mrlokans/dataadapter/internal/lowcode"
)

// Status is the configuration state of a backend.
type Status string

const (
	StatusConfigured         Status = "configured"
	StatusNotConfigured      Status = "not configured"
	StatusTokenNotConfigured Status = "token not configured"
)

// probePageSize is the page size of the platform connection probe.
const probePageSize = 5

// CheckLowCode inspects platform settings for missing or placeholder values.
func CheckLowCode(baseURL, token string) error {
	if baseURL == "" || strings.Contains(baseURL, "localhost") || strings.Contains(baseURL, "your") {
		return &apperr.ConfigError{Backend: string(backend.LowCode), Setting: "base URL", Reason: string(StatusNotConfigured)}
	}
	if token == "" || strings.Contains(token, "your") {
		return &apperr.ConfigError{Backend: string(backend.LowCode), Setting: "token", Reason: string(StatusNotConfigured)}
	}
	return nil
}

// Pinger checks that a store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ProbeObserver is notified of every probe outcome.
type ProbeObserver interface {
	ObserveProbe(kind backend.Kind, ok bool)
}

// Report describes one backend.
type Report struct {
	Backend     backend.Kind `json:"backend"`
	DisplayName string       `json:"displayName"`
	Status      Status       `json:"status"`
	Active      bool         `json:"active"`
}

// ProbeResult is the outcome of a connection probe.
type ProbeResult struct {
	Backend   backend.Kind `json:"backend"`
	OK        bool         `json:"ok"`
	Message   string       `json:"message"`
	Records   int          `json:"records"`
	ElapsedMS int64        `json:"elapsedMs"`
}

// Checker runs configuration checks and connection probes.
type Checker struct {
	selector *backend.Selector
	baseURL  string
	token    string
	client   *lowcode.Client
	db       Pinger
	observer ProbeObserver
}

func NewChecker(selector *backend.Selector, baseURL, token string, client *lowcode.Client, db Pinger) *Checker {
	return &Checker{
		selector: selector,
		baseURL:  baseURL,
		token:    token,
		client:   client,
		db:       db,
	}
}

func (c *Checker) SetObserver(o ProbeObserver) {
	c.observer = o
}

// Status reports the configuration status of kind.
func (c *Checker) Status(kind backend.Kind) Status {
	if kind != backend.LowCode {
		return StatusConfigured
	}
	var cfgErr *apperr.ConfigError
	if err := CheckLowCode(c.baseURL, c.token); errors.As(err, &cfgErr) {
		if cfgErr.Setting == "token" {
			return StatusTokenNotConfigured
		}
		return StatusNotConfigured
	}
	return StatusConfigured
}

// Reports describes every backend, marking the selector default as active.
func (c *Checker) Reports() []Report {
	current := c.selector.Get()
	out := make([]Report, 0, len(backend.Kinds))
	for _, k := range backend.Kinds {
		out = append(out, Report{
			Backend:     k,
			DisplayName: k.DisplayName(),
			Status:      c.Status(k),
			Active:      k == current,
		})
	}
	return out
}

// Probe checks that kind answers. The platform is probed by listing a page
// of system configuration entries; the BaaS store by a ping.
func (c *Checker) Probe(ctx context.Context, kind backend.Kind) ProbeResult {
	start := time.Now()
	res := ProbeResult{Backend: kind}

	switch kind {
	case backend.LowCode:
		res.Records, res.Message, res.OK = c.probeLowCode(ctx)
	case backend.BaaS:
		res.Message, res.OK = c.probeBaaS(ctx)
	default:
		res.Message = "unknown backend"
	}

	res.ElapsedMS = time.Since(start).Milliseconds()
	if c.observer != nil {
		c.observer.ObserveProbe(kind, res.OK)
	}
	return res
}

func (c *Checker) probeLowCode(ctx context.Context) (int, string, bool) {
	if c.client == nil {
		return 0, "client is not configured", false
	}
	resp, err := c.client.SystemConfigs(ctx, envelope.PageParams{PageSize: probePageSize})
	if err != nil {
		return 0, err.Error(), false
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "connection failed"
		}
		return 0, msg, false
	}
	return len(resp.Result.Records), "connected", true
}

func (c *Checker) probeBaaS(ctx context.Context) (string, bool) {
	if c.db == nil {
		return "database is not configured", false
	}
	if err := c.db.PingContext(ctx); err != nil {
		return err.Error(), false
	}
	return "connected", true
}
