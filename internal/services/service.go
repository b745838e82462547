package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/mrlokans/dataadapter/internal/apperr"
	"github.com/mrlokans/dataadapter/internal/backend"
	"github.com/mrlokans/dataadapter/internal/convert"
	"github.com/mrlokans/dataadapter/internal/database"
	"github.com/mrlokans/dataadapter/internal/entities"
	"github.com/mrlokans/dataadapter/internal/envelope"
	"github.com/mrlokans/dataadapter/internal/lowcode"
)

// Entity is the BaaS shape of a business entity.
type Entity[S any] interface {
	Identity() entities.Model
	WithIdentity(entities.Model) S
}

// Record is the platform shape of a business entity.
type Record interface {
	Meta() lowcode.Record
}

// Stats is a set of named counters.
type Stats map[string]int64

// Sort is an ordering on one column.
type Sort struct {
	Column string
	Desc   bool
}

// FeaturedQuery selects the featured rows of an entity on the BaaS side.
type FeaturedQuery struct {
	Filters      []database.Filter
	Sort         Sort
	DefaultLimit int
}

// Endpoints are the platform routes of an entity. Empty routes are unsupported.
type Endpoints struct {
	List        string
	Get         string // id is appended
	Add         string
	Edit        string // id is appended
	Delete      string // id is appended
	DeleteBatch string
	Featured    string
	Stats       string
}

// RestEndpoints derives the standard route set below prefix.
func RestEndpoints(prefix string, featured, stats bool) Endpoints {
	e := Endpoints{
		List:        prefix + "/list",
		Get:         prefix + "/queryById/",
		Add:         prefix + "/add",
		Edit:        prefix + "/edit/",
		Delete:      prefix + "/delete/",
		DeleteBatch: prefix + "/deleteBatch",
	}
	if featured {
		e.Featured = prefix + "/featured"
	}
	if stats {
		e.Stats = prefix + "/stats"
	}
	return e
}

// Descriptor is everything the generic service needs to know about one entity.
type Descriptor[S Entity[S], T Record] struct {
	Name        string
	Fields      convert.Fields
	Endpoints   Endpoints
	DefaultSort Sort
	Featured    *FeaturedQuery
	Stats       func(ctx context.Context, table *database.Table[S]) (Stats, error)
	ToTarget    func(S) (T, error)
	ToSource    func(T) (S, error)
}

// Service routes the CRUD operations of one entity to the active backend.
// Every operation resolves the backend once at entry and reports its outcome
// as an envelope; no operation returns a separate error.
type Service[S Entity[S], T Record] struct {
	desc     Descriptor[S, T]
	selector *backend.Selector
	table    *database.Table[S]
	client   *lowcode.Client
	observer CallObserver
}

func NewService[S Entity[S], T Record](desc Descriptor[S, T], selector *backend.Selector, table *database.Table[S], client *lowcode.Client) *Service[S, T] {
	return &Service[S, T]{
		desc:     desc,
		selector: selector,
		table:    table,
		client:   client,
		observer: nopObserver{},
	}
}

// SetObserver installs a call observer.
func (s *Service[S, T]) SetObserver(o CallObserver) {
	if o == nil {
		o = nopObserver{}
	}
	s.observer = o
}

// Name returns the entity name.
func (s *Service[S, T]) Name() string {
	return s.desc.Name
}

// SupportsFeatured reports whether Featured is defined for the entity.
func (s *Service[S, T]) SupportsFeatured() bool {
	return s.desc.Featured != nil
}

// SupportsStats reports whether Stats is defined for the entity.
func (s *Service[S, T]) SupportsStats() bool {
	return s.desc.Stats != nil
}

func (s *Service[S, T]) call() caller {
	return caller{
		entity:   s.desc.Name,
		selector: s.selector,
		observer: s.observer,
		source:   s.table != nil,
		target:   s.client != nil,
	}
}

// List returns one page of records.
func (s *Service[S, T]) List(ctx context.Context, params envelope.PageParams) *envelope.Response[envelope.PageResult[S]] {
	return dispatch(ctx, s.call(), "list",
		func(ctx context.Context) *envelope.Response[envelope.PageResult[S]] { return s.listSource(ctx, params) },
		func(ctx context.Context) *envelope.Response[envelope.PageResult[S]] { return s.listTarget(ctx, params) },
	)
}

// Get returns the record with the given id.
func (s *Service[S, T]) Get(ctx context.Context, id string) *envelope.Response[S] {
	return dispatch(ctx, s.call(), "get",
		func(ctx context.Context) *envelope.Response[S] { return s.getSource(ctx, id) },
		func(ctx context.Context) *envelope.Response[S] { return s.getTarget(ctx, id) },
	)
}

// Create stores a new record; identity fields of entity are ignored.
func (s *Service[S, T]) Create(ctx context.Context, entity S) *envelope.Response[S] {
	return dispatch(ctx, s.call(), "create",
		func(ctx context.Context) *envelope.Response[S] { return s.createSource(ctx, entity) },
		func(ctx context.Context) *envelope.Response[S] { return s.createTarget(ctx, entity) },
	)
}

// Update writes the named business fields of entity to the record with the
// given id. Field names may use either spelling; with none, every business
// field is written. Fields not named are left unchanged.
func (s *Service[S, T]) Update(ctx context.Context, id string, entity S, fields ...string) *envelope.Response[S] {
	return dispatch(ctx, s.call(), "update",
		func(ctx context.Context) *envelope.Response[S] { return s.updateSource(ctx, id, entity, fields) },
		func(ctx context.Context) *envelope.Response[S] { return s.updateTarget(ctx, id, entity, fields) },
	)
}

// Delete removes the record with the given id.
func (s *Service[S, T]) Delete(ctx context.Context, id string) *envelope.Response[any] {
	return dispatch(ctx, s.call(), "delete",
		func(ctx context.Context) *envelope.Response[any] { return s.deleteSource(ctx, id) },
		func(ctx context.Context) *envelope.Response[any] { return s.deleteTarget(ctx, id) },
	)
}

// DeleteBatch removes every record whose id is listed.
func (s *Service[S, T]) DeleteBatch(ctx context.Context, ids []string) *envelope.Response[any] {
	return dispatch(ctx, s.call(), "delete_batch",
		func(ctx context.Context) *envelope.Response[any] { return s.deleteBatchSource(ctx, ids) },
		func(ctx context.Context) *envelope.Response[any] { return s.deleteBatchTarget(ctx, ids) },
	)
}

// Featured returns up to limit featured records; limit <= 0 uses the entity default.
func (s *Service[S, T]) Featured(ctx context.Context, limit int) *envelope.Response[[]S] {
	return dispatch(ctx, s.call(), "featured",
		func(ctx context.Context) *envelope.Response[[]S] { return s.featuredSource(ctx, limit) },
		func(ctx context.Context) *envelope.Response[[]S] { return s.featuredTarget(ctx, limit) },
	)
}

// Stats returns the entity counters.
func (s *Service[S, T]) Stats(ctx context.Context) *envelope.Response[Stats] {
	return dispatch(ctx, s.call(), "stats",
		func(ctx context.Context) *envelope.Response[Stats] { return s.statsSource(ctx) },
		func(ctx context.Context) *envelope.Response[Stats] { return s.statsTarget(ctx) },
	)
}

// ---- BaaS driver ----

var identitySortColumns = convert.Fields{
	{Source: "id", Target: "id"},
	{Source: "created_at", Target: "createTime"},
	{Source: "updated_at", Target: "updateTime"},
}

// sortFor resolves the BaaS ordering for list params.
func (s *Service[S, T]) sortFor(params envelope.PageParams) (Sort, error) {
	if params.Column == "" {
		sort := s.desc.DefaultSort
		if params.Order != "" {
			sort.Desc = params.Order == envelope.OrderDesc
		}
		return sort, nil
	}
	column, ok := s.desc.Fields.SourceFor(params.Column)
	if !ok {
		column, ok = identitySortColumns.SourceFor(params.Column)
	}
	if !ok {
		return Sort{}, fmt.Errorf("%w: unknown sort column %q", apperr.ErrInvalidInput, params.Column)
	}
	return Sort{Column: column, Desc: params.Order != envelope.OrderAsc}, nil
}

func (s *Service[S, T]) listSource(ctx context.Context, params envelope.PageParams) *envelope.Response[envelope.PageResult[S]] {
	params, err := params.Normalize()
	if err != nil {
		return envelope.Fail[envelope.PageResult[S]](err)
	}
	sort, err := s.sortFor(params)
	if err != nil {
		return envelope.Fail[envelope.PageResult[S]](err)
	}

	total, err := s.table.Count(ctx)
	if err != nil {
		return envelope.Fail[envelope.PageResult[S]](err)
	}
	rows, err := s.table.Find(ctx, database.Query{
		OrderBy: sort.Column,
		Desc:    sort.Desc,
		Offset:  params.Offset(),
		Limit:   params.PageSize,
	})
	if err != nil {
		return envelope.Fail[envelope.PageResult[S]](err)
	}
	return envelope.OK(envelope.Page(rows, total, params))
}

func (s *Service[S, T]) getSource(ctx context.Context, id string) *envelope.Response[S] {
	if err := validID(id); err != nil {
		return envelope.Fail[S](err)
	}
	row, err := s.table.First(ctx, id)
	if err != nil {
		return envelope.Fail[S](err)
	}
	return envelope.OK(*row)
}

func (s *Service[S, T]) createSource(ctx context.Context, entity S) *envelope.Response[S] {
	row := entity.WithIdentity(entities.Model{})
	if err := s.table.Insert(ctx, &row); err != nil {
		return envelope.Fail[S](err)
	}
	return envelope.OK(row)
}

func (s *Service[S, T]) updateSource(ctx context.Context, id string, entity S, fields []string) *envelope.Response[S] {
	if err := validID(id); err != nil {
		return envelope.Fail[S](err)
	}
	columns, err := s.projection(fields, func(f convert.Field) string { return f.Source })
	if err != nil {
		return envelope.Fail[S](err)
	}
	row := entity.WithIdentity(entities.Model{})
	n, err := s.table.Update(ctx, id, &row, columns...)
	if err != nil {
		return envelope.Fail[S](err)
	}
	if n == 0 {
		return envelope.Fail[S](fmt.Errorf("%s %s: %w", s.desc.Name, id, apperr.ErrNotFound))
	}
	return s.getSource(ctx, id)
}

func (s *Service[S, T]) deleteSource(ctx context.Context, id string) *envelope.Response[any] {
	if err := validID(id); err != nil {
		return envelope.Fail[any](err)
	}
	n, err := s.table.Delete(ctx, id)
	if err != nil {
		return envelope.Fail[any](err)
	}
	if n == 0 {
		return envelope.Fail[any](fmt.Errorf("%s %s: %w", s.desc.Name, id, apperr.ErrNotFound))
	}
	return envelope.OK[any](nil)
}

func (s *Service[S, T]) deleteBatchSource(ctx context.Context, ids []string) *envelope.Response[any] {
	if err := validIDs(ids); err != nil {
		return envelope.Fail[any](err)
	}
	if _, err := s.table.DeleteMany(ctx, ids); err != nil {
		return envelope.Fail[any](err)
	}
	return envelope.OK[any](nil)
}

func (s *Service[S, T]) featuredSource(ctx context.Context, limit int) *envelope.Response[[]S] {
	q := s.desc.Featured
	if q == nil {
		return envelope.Fail[[]S](s.unsupported("featured"))
	}
	if limit <= 0 {
		limit = q.DefaultLimit
	}
	rows, err := s.table.Find(ctx, database.Query{
		Filters: q.Filters,
		OrderBy: q.Sort.Column,
		Desc:    q.Sort.Desc,
		Limit:   limit,
	})
	if err != nil {
		return envelope.Fail[[]S](err)
	}
	return envelope.OK(rows)
}

func (s *Service[S, T]) statsSource(ctx context.Context) *envelope.Response[Stats] {
	if s.desc.Stats == nil {
		return envelope.Fail[Stats](s.unsupported("stats"))
	}
	stats, err := s.desc.Stats(ctx, s.table)
	if err != nil {
		return envelope.Fail[Stats](err)
	}
	return envelope.OK(stats)
}

// ---- platform driver ----

func (s *Service[S, T]) toSource(t T) (S, error) {
	src, err := s.desc.ToSource(t)
	if err != nil {
		var zero S
		return zero, err
	}
	return src.WithIdentity(convert.Identity(t.Meta())), nil
}

func (s *Service[S, T]) listTarget(ctx context.Context, params envelope.PageParams) *envelope.Response[envelope.PageResult[S]] {
	var resp envelope.Response[envelope.PageResult[T]]
	if err := s.client.Get(ctx, s.desc.Endpoints.List, params.Query(), &resp); err != nil {
		return envelope.Fail[envelope.PageResult[S]](err)
	}
	if !resp.Success {
		return envelope.Forward[envelope.PageResult[T], envelope.PageResult[S]](&resp)
	}
	records, err := s.toSourceAll(resp.Result.Records)
	if err != nil {
		return envelope.Fail[envelope.PageResult[S]](err)
	}
	page := envelope.PageResult[S]{
		Records: records,
		Total:   resp.Result.Total,
		Size:    resp.Result.Size,
		Current: resp.Result.Current,
		Pages:   resp.Result.Pages,
	}
	return envelope.Map(&resp, page)
}

func (s *Service[S, T]) getTarget(ctx context.Context, id string) *envelope.Response[S] {
	segment, err := pathID(id)
	if err != nil {
		return envelope.Fail[S](err)
	}
	var resp envelope.Response[json.RawMessage]
	if err := s.client.Get(ctx, s.desc.Endpoints.Get+segment, nil, &resp); err != nil {
		return envelope.Fail[S](err)
	}
	if !resp.Success {
		return envelope.Forward[json.RawMessage, S](&resp)
	}
	t, ok, err := decodeRecord[T](resp.Result)
	if err != nil {
		return envelope.Fail[S](err)
	}
	if !ok {
		return envelope.Fail[S](fmt.Errorf("%s %s: %w", s.desc.Name, id, apperr.ErrNotFound))
	}
	src, err := s.toSource(t)
	if err != nil {
		return envelope.Fail[S](err)
	}
	return envelope.Map(&resp, src)
}

func (s *Service[S, T]) createTarget(ctx context.Context, entity S) *envelope.Response[S] {
	body, err := s.desc.ToTarget(entity)
	if err != nil {
		return envelope.Fail[S](err)
	}
	var resp envelope.Response[json.RawMessage]
	if err := s.client.Post(ctx, s.desc.Endpoints.Add, body, &resp); err != nil {
		return envelope.Fail[S](err)
	}
	return s.echoTarget(&resp, entity.WithIdentity(entities.Model{}))
}

func (s *Service[S, T]) updateTarget(ctx context.Context, id string, entity S, fields []string) *envelope.Response[S] {
	segment, err := pathID(id)
	if err != nil {
		return envelope.Fail[S](err)
	}
	names, err := s.projection(fields, func(f convert.Field) string { return f.Target })
	if err != nil {
		return envelope.Fail[S](err)
	}
	t, err := s.desc.ToTarget(entity)
	if err != nil {
		return envelope.Fail[S](err)
	}
	body, err := project(t, names)
	if err != nil {
		return envelope.Fail[S](err)
	}
	var resp envelope.Response[json.RawMessage]
	if err := s.client.Put(ctx, s.desc.Endpoints.Edit+segment, body, &resp); err != nil {
		return envelope.Fail[S](err)
	}
	return s.echoTarget(&resp, entity.WithIdentity(entities.Model{ID: id}))
}

// echoTarget converts the record returned by add/edit. The platform may
// answer with a bare message instead of the record; fallback is reported then.
func (s *Service[S, T]) echoTarget(resp *envelope.Response[json.RawMessage], fallback S) *envelope.Response[S] {
	if !resp.Success {
		return envelope.Forward[json.RawMessage, S](resp)
	}
	t, ok, err := decodeRecord[T](resp.Result)
	if err != nil {
		return envelope.Fail[S](err)
	}
	if !ok {
		return envelope.Map(resp, fallback)
	}
	src, err := s.toSource(t)
	if err != nil {
		return envelope.Fail[S](err)
	}
	return envelope.Map(resp, src)
}

func (s *Service[S, T]) deleteTarget(ctx context.Context, id string) *envelope.Response[any] {
	segment, err := pathID(id)
	if err != nil {
		return envelope.Fail[any](err)
	}
	var resp envelope.Response[json.RawMessage]
	if err := s.client.Delete(ctx, s.desc.Endpoints.Delete+segment, &resp); err != nil {
		return envelope.Fail[any](err)
	}
	return envelope.Map[json.RawMessage, any](&resp, nil)
}

func (s *Service[S, T]) deleteBatchTarget(ctx context.Context, ids []string) *envelope.Response[any] {
	if err := validIDs(ids); err != nil {
		return envelope.Fail[any](err)
	}
	var resp envelope.Response[json.RawMessage]
	if err := s.client.Post(ctx, s.desc.Endpoints.DeleteBatch, map[string]any{"ids": ids}, &resp); err != nil {
		return envelope.Fail[any](err)
	}
	return envelope.Map[json.RawMessage, any](&resp, nil)
}

func (s *Service[S, T]) featuredTarget(ctx context.Context, limit int) *envelope.Response[[]S] {
	if s.desc.Endpoints.Featured == "" || s.desc.Featured == nil {
		return envelope.Fail[[]S](s.unsupported("featured"))
	}
	if limit <= 0 {
		limit = s.desc.Featured.DefaultLimit
	}
	var resp envelope.Response[[]T]
	if err := s.client.Get(ctx, s.desc.Endpoints.Featured, map[string]any{"limit": limit}, &resp); err != nil {
		return envelope.Fail[[]S](err)
	}
	if !resp.Success {
		return envelope.Forward[[]T, []S](&resp)
	}
	records, err := s.toSourceAll(resp.Result)
	if err != nil {
		return envelope.Fail[[]S](err)
	}
	return envelope.Map(&resp, records)
}

func (s *Service[S, T]) statsTarget(ctx context.Context) *envelope.Response[Stats] {
	if s.desc.Endpoints.Stats == "" {
		return envelope.Fail[Stats](s.unsupported("stats"))
	}
	var resp envelope.Response[Stats]
	if err := s.client.Get(ctx, s.desc.Endpoints.Stats, nil, &resp); err != nil {
		return envelope.Fail[Stats](err)
	}
	return &resp
}

func (s *Service[S, T]) toSourceAll(records []T) ([]S, error) {
	out := make([]S, 0, len(records))
	for _, t := range records {
		src, err := s.toSource(t)
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, nil
}

// ---- helpers ----

// projection resolves requested field names to one spelling. No names means
// every business field.
func (s *Service[S, T]) projection(fields []string, pick func(convert.Field) string) ([]string, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, name := range fields {
		source, ok := s.desc.Fields.SourceFor(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown %s field %q", apperr.ErrInvalidInput, s.desc.Name, name)
		}
		for _, f := range s.desc.Fields {
			if f.Source == source && !seen[source] {
				seen[source] = true
				out = append(out, pick(f))
			}
		}
	}
	return out, nil
}

func (s *Service[S, T]) unsupported(op string) error {
	return fmt.Errorf("%s %s: %w", s.desc.Name, op, apperr.ErrUnsupported)
}

// project renders t as a JSON object restricted to names; nil names keeps
// every business property and drops the identity block.
func project(t any, names []string) (map[string]any, error) {
	b, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	var all map[string]any
	if err := json.Unmarshal(b, &all); err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	for _, k := range []string{"id", "createTime", "updateTime"} {
		delete(all, k)
	}
	if names == nil {
		return all, nil
	}
	out := make(map[string]any, len(names))
	for _, n := range names {
		if v, ok := all[n]; ok {
			out[n] = v
		}
	}
	return out, nil
}

// decodeRecord decodes a platform record; ok is false when the result is not
// a JSON object.
func decodeRecord[T any](raw json.RawMessage) (T, bool, error) {
	var t T
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, "{") {
		return t, false, nil
	}
	if err := json.Unmarshal(raw, &t); err != nil {
		return t, false, &apperr.DataError{Err: err}
	}
	return t, true, nil
}

func validID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id is required", apperr.ErrInvalidInput)
	}
	return nil
}

// pathID escapes id as a single segment of a platform route.
func pathID(id string) (string, error) {
	if err := validID(id); err != nil {
		return "", err
	}
	if id == "." || id == ".." {
		return "", fmt.Errorf("%w: invalid id %q", apperr.ErrInvalidInput, id)
	}
	return url.PathEscape(id), nil
}

// pathKey escapes every slash-separated segment of a stored file id.
func pathKey(id string) (string, error) {
	if err := validID(id); err != nil {
		return "", err
	}
	segments := strings.Split(id, "/")
	for i, seg := range segments {
		if seg == "" || seg == "." || seg == ".." {
			return "", fmt.Errorf("%w: invalid file id %q", apperr.ErrInvalidInput, id)
		}
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/"), nil
}

func validIDs(ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one id is required", apperr.ErrInvalidInput)
	}
	for _, id := range ids {
		if err := validID(id); err != nil {
			return err
		}
	}
	return nil
}
