package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/dataadapter/internal/apperr"
)

// Op is a comparison operator usable in a Filter.
type Op string

const (
	OpEq  Op = "="
	OpLte Op = "<="
	OpGt  Op = ">"
	OpIn  Op = "IN"
)

// Filter restricts a query to rows where Column Op Value holds.
type Filter struct {
	Column string
	Op     Op
	Value  any
}

// Eq is shorthand for an equality filter.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Op: OpEq, Value: value}
}

// Query describes a filtered, ordered, windowed read.
type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	Offset  int
	Limit   int // 0 means unlimited
}

// Table is the row-level API over one entity table.
type Table[E any] struct {
	db *gorm.DB
}

func NewTable[E any](db *gorm.DB) *Table[E] {
	return &Table[E]{db: db}
}

func (t *Table[E]) scoped(ctx context.Context, filters []Filter) *gorm.DB {
	tx := t.db.WithContext(ctx).Model(new(E))
	for _, f := range filters {
		op := f.Op
		if op == "" {
			op = OpEq
		}
		if op == OpIn {
			tx = tx.Where(clause.IN{Column: clause.Column{Name: f.Column}, Values: toValues(f.Value)})
			continue
		}
		tx = tx.Where(fmt.Sprintf("%s %s ?", f.Column, op), f.Value)
	}
	return tx
}

// Count returns the number of rows matching filters.
func (t *Table[E]) Count(ctx context.Context, filters ...Filter) (int64, error) {
	var n int64
	if err := t.scoped(ctx, filters).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return n, nil
}

// Find returns the rows selected by q.
func (t *Table[E]) Find(ctx context.Context, q Query) ([]E, error) {
	tx := t.scoped(ctx, q.Filters)
	if q.OrderBy != "" {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: q.OrderBy}, Desc: q.Desc})
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	rows := []E{}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	return rows, nil
}

// First returns the row with the given id.
func (t *Table[E]) First(ctx context.Context, id string) (*E, error) {
	var row E
	err := t.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("id %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get row: %w", err)
	}
	return &row, nil
}

// Insert stores row; backend-assigned identity is written back into it.
func (t *Table[E]) Insert(ctx context.Context, row *E) error {
	if err := t.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to insert row: %w", err)
	}
	return nil
}

// Update writes the named columns of row to the record with the given id.
// With no columns every business column is written. Zero values are written
// as-is. The return value is the number of rows touched.
func (t *Table[E]) Update(ctx context.Context, id string, row *E, columns ...string) (int64, error) {
	tx := t.db.WithContext(ctx).Model(new(E)).Where("id = ?", id)
	if len(columns) > 0 {
		tx = tx.Select(append(columns, "updated_at"))
	} else {
		tx = tx.Select("*").Omit("id", "created_at")
	}
	res := tx.Updates(row)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to update row: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Delete removes the row with the given id.
func (t *Table[E]) Delete(ctx context.Context, id string) (int64, error) {
	res := t.db.WithContext(ctx).Where("id = ?", id).Delete(new(E))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete row: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteMany removes every row whose id is in ids.
func (t *Table[E]) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := t.db.WithContext(ctx).Where("id IN ?", ids).Delete(new(E))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete rows: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func toValues(v any) []any {
	switch vs := v.(type) {
	case []any:
		return vs
	case []string:
		out := make([]any, len(vs))
		for i, s := range vs {
			out[i] = s
		}
		return out
	default:
		return []any{v}
	}
}
