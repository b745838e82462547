package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/dataadapter/internal/entities"
	"github.com/mrlokans/dataadapter/internal/envelope"
	"github.com/mrlokans/dataadapter/internal/services"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// EntityService is the facade one entity controller serves.
type EntityService[S any] interface {
	Name() string
	List(ctx context.Context, params envelope.PageParams) *envelope.Response[envelope.PageResult[S]]
	Get(ctx context.Context, id string) *envelope.Response[S]
	Create(ctx context.Context, entity S) *envelope.Response[S]
	Update(ctx context.Context, id string, entity S, fields ...string) *envelope.Response[S]
	Delete(ctx context.Context, id string) *envelope.Response[any]
	DeleteBatch(ctx context.Context, ids []string) *envelope.Response[any]
	Featured(ctx context.Context, limit int) *envelope.Response[[]S]
	Stats(ctx context.Context) *envelope.Response[services.Stats]
}

type EntityController[S any] struct {
	svc EntityService[S]
}

func NewEntityController[S any](svc EntityService[S]) *EntityController[S] {
	return &EntityController[S]{svc: svc}
}

// RegisterEntityRoutes mounts the CRUD routes of svc under group.
func RegisterEntityRoutes[S any](group *gin.RouterGroup, svc EntityService[S]) {
	ctrl := NewEntityController(svc)
	group.GET("", ctrl.List)
	group.POST("", ctrl.Create)
	group.POST("/delete-batch", ctrl.DeleteBatch)
	group.GET("/featured", ctrl.Featured)
	group.GET("/stats", ctrl.Stats)
	group.GET("/:id", ctrl.Get)
	group.PUT("/:id", ctrl.Update)
	group.DELETE("/:id", ctrl.Delete)
}

func (h *EntityController[S]) List(c *gin.Context) {
	var params envelope.PageParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, "invalid paging parameters: "+err.Error())
		return
	}
	respond(c, h.svc.List(c.Request.Context(), params))
}

func (h *EntityController[S]) Get(c *gin.Context) {
	respond(c, h.svc.Get(c.Request.Context(), c.Param("id")))
}

func (h *EntityController[S]) Create(c *gin.Context) {
	var entity S
	if _, err := decodeBody(c, &entity); err != nil {
		respondBadRequest(c, "invalid "+h.svc.Name()+" body: "+err.Error())
		return
	}
	respond(c, h.svc.Create(c.Request.Context(), entity))
}

// Update writes only the JSON keys present in the body.
func (h *EntityController[S]) Update(c *gin.Context) {
	var entity S
	keys, err := decodeBody(c, &entity)
	if err != nil {
		respondBadRequest(c, "invalid "+h.svc.Name()+" body: "+err.Error())
		return
	}
	fields := businessKeys(keys)
	if len(fields) == 0 {
		respondBadRequest(c, "no fields to update")
		return
	}
	respond(c, h.svc.Update(c.Request.Context(), c.Param("id"), entity, fields...))
}

func (h *EntityController[S]) Delete(c *gin.Context) {
	respond(c, h.svc.Delete(c.Request.Context(), c.Param("id")))
}

type deleteBatchRequest struct {
	IDs []string `json:"ids"`
}

func (h *EntityController[S]) DeleteBatch(c *gin.Context) {
	var req deleteBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid body: "+err.Error())
		return
	}
	respond(c, h.svc.DeleteBatch(c.Request.Context(), req.IDs))
}

func (h *EntityController[S]) Featured(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondBadRequest(c, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	respond(c, h.svc.Featured(c.Request.Context(), limit))
}

func (h *EntityController[S]) Stats(c *gin.Context) {
	respond(c, h.svc.Stats(c.Request.Context()))
}

// decodeBody decodes a JSON object into out and returns its top-level keys.
func decodeBody(c *gin.Context, out any) ([]string, error) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(out); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	return keys, nil
}

// businessKeys drops identity keys, which are backend-assigned.
func businessKeys(keys []string) []string {
	identity := make(map[string]bool, len(entities.IdentityColumns))
	for _, col := range entities.IdentityColumns {
		identity[col] = true
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if !identity[k] {
			out = append(out, k)
		}
	}
	return out
}
