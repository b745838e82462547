package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/dataadapter/internal/backend"
	"github.com/mrlokans/dataadapter/internal/diagnostics"
	"github.com/mrlokans/dataadapter/internal/envelope"
	"github.com/mrlokans/dataadapter/internal/scheduler"
)

// DataSourceHeader overrides the backend for a single request.
const DataSourceHeader = "X-Data-Source"

// DataSourceMiddleware pins the backend named in DataSourceHeader on the
// request context.
func DataSourceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(DataSourceHeader)
		if raw == "" {
			c.Next()
			return
		}
		kind, err := backend.ParseKind(raw)
		if err != nil {
			abortBadRequest(c, err.Error())
			return
		}
		c.Request = c.Request.WithContext(backend.WithKind(c.Request.Context(), kind))
		c.Next()
	}
}

// BackendStatus is the payload of the backend endpoints.
type BackendStatus struct {
	Current     backend.Kind                             `json:"current"`
	DisplayName string                                   `json:"displayName"`
	Backends    []diagnostics.Report                     `json:"backends"`
	Probes      map[backend.Kind]diagnostics.ProbeResult `json:"probes,omitempty"`
	NextProbe   *time.Time                               `json:"nextProbe,omitempty"`
}

type BackendController struct {
	selector  *backend.Selector
	checker   *diagnostics.Checker
	scheduler *scheduler.ProbeScheduler
}

func NewBackendController(selector *backend.Selector, checker *diagnostics.Checker, probes *scheduler.ProbeScheduler) *BackendController {
	return &BackendController{selector: selector, checker: checker, scheduler: probes}
}

func (h *BackendController) status() BackendStatus {
	current := h.selector.Get()
	st := BackendStatus{
		Current:     current,
		DisplayName: current.DisplayName(),
	}
	if h.checker != nil {
		st.Backends = h.checker.Reports()
	}
	if h.scheduler != nil {
		st.Probes = h.scheduler.Last()
		st.NextProbe = h.scheduler.GetNextRunTime()
	}
	return st
}

func (h *BackendController) Get(c *gin.Context) {
	respond(c, envelope.OK(h.status()))
}

type setBackendRequest struct {
	Backend string `json:"backend" binding:"required"`
}

func (h *BackendController) Set(c *gin.Context) {
	var req setBackendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "backend is required")
		return
	}
	kind, err := backend.ParseKind(req.Backend)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if err := h.selector.Set(kind); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	respond(c, envelope.OK(h.status()))
}

// Probe runs a connection probe against ?backend= or, by default, the backend
// the request resolves to.
func (h *BackendController) Probe(c *gin.Context) {
	if h.checker == nil {
		respondBadRequest(c, "diagnostics are not configured")
		return
	}
	kind := h.selector.Resolve(c.Request.Context())
	if raw := c.Query("backend"); raw != "" {
		k, err := backend.ParseKind(raw)
		if err != nil {
			respondBadRequest(c, err.Error())
			return
		}
		kind = k
	}
	respond(c, envelope.OK(h.checker.Probe(c.Request.Context(), kind)))
}
