package envelope

import (
	"fmt"
	"strings"

	"github.com/mrlokans/dataadapter/internal/apperr"
)

const (
	DefaultPageNo   = 1
	DefaultPageSize = 10
)

// Sort directions accepted by list queries.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// PageParams are the paging parameters of list operations. Zero values mean unset.
type PageParams struct {
	PageNo   int    `json:"pageNo,omitempty" form:"pageNo"`
	PageSize int    `json:"pageSize,omitempty" form:"pageSize"`
	Column   string `json:"column,omitempty" form:"column"`
	Order    string `json:"order,omitempty" form:"order"`
}

// Normalize fills defaults and validates the order direction.
func (p PageParams) Normalize() (PageParams, error) {
	if p.PageNo < 1 {
		p.PageNo = DefaultPageNo
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	p.Column = strings.TrimSpace(p.Column)
	p.Order = strings.ToLower(strings.TrimSpace(p.Order))
	switch p.Order {
	case "", OrderAsc, OrderDesc:
	default:
		return p, fmt.Errorf("%w: order must be asc or desc, got %q", apperr.ErrInvalidInput, p.Order)
	}
	return p, nil
}

// Offset returns the zero-based offset of the first record of the page.
func (p PageParams) Offset() int {
	return (p.PageNo - 1) * p.PageSize
}

// Query returns the parameters as they are sent to the REST backend; unset
// values are nil so the transport omits them.
func (p PageParams) Query() map[string]any {
	q := map[string]any{
		"pageNo":   nil,
		"pageSize": nil,
		"column":   nil,
		"order":    nil,
	}
	if p.PageNo != 0 {
		q["pageNo"] = p.PageNo
	}
	if p.PageSize != 0 {
		q["pageSize"] = p.PageSize
	}
	if p.Column != "" {
		q["column"] = p.Column
	}
	if p.Order != "" {
		q["order"] = p.Order
	}
	return q
}
