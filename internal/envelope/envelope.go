// Package envelope defines the canonical response shape returned by every
// facade operation regardless of the active backend.
package envelope

import (
	"errors"
	"net/http"
	"time"

	"github.com/mrlokans/dataadapter/internal/apperr"
)

const successMessage = "Success"

// Response is the uniform {success, message, code, result, timestamp} wrapper.
type Response[T any] struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Code      int    `json:"code"`
	Result    T      `json:"result"`
	Timestamp int64  `json:"timestamp"`

	err error
}

// PageResult is the result payload of paged lists.
type PageResult[T any] struct {
	Records []T   `json:"records"`
	Total   int64 `json:"total"`
	Size    int   `json:"size"`
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
}

// Now returns the envelope timestamp (unix milliseconds). Tests may replace it.
var Now = defaultNow

func defaultNow() int64 {
	return time.Now().UnixMilli()
}

// OK wraps a successful native result.
func OK[T any](result T) *Response[T] {
	return &Response[T]{
		Success:   true,
		Message:   successMessage,
		Code:      http.StatusOK,
		Result:    result,
		Timestamp: Now(),
	}
}

// Fail wraps a native failure. The message is the underlying error message.
func Fail[T any](err error) *Response[T] {
	if err == nil {
		err = errors.New("unknown error")
	}
	return &Response[T]{
		Success:   false,
		Message:   err.Error(),
		Code:      apperr.Code(err),
		Timestamp: Now(),
		err:       err,
	}
}

// Err returns the classified error behind a failed response, nil on success.
// A failed envelope decoded from the wire yields an *apperr.EnvelopeError.
func (r *Response[T]) Err() error {
	if r.Success {
		return nil
	}
	if r.err != nil {
		return r.err
	}
	return &apperr.EnvelopeError{Code: r.Code, Message: r.Message}
}

// Page builds a page result, deriving pages = ceil(total/size).
func Page[T any](records []T, total int64, params PageParams) PageResult[T] {
	if records == nil {
		records = []T{}
	}
	return PageResult[T]{
		Records: records,
		Total:   total,
		Size:    params.PageSize,
		Current: params.PageNo,
		Pages:   Pages(total, params.PageSize),
	}
}

// Pages returns ceil(total/size); zero when size is not positive.
func Pages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// Map rebuilds a response around a converted result, preserving the native
// success/message/code/timestamp.
func Map[T, U any](r *Response[T], result U) *Response[U] {
	return &Response[U]{
		Success:   r.Success,
		Message:   r.Message,
		Code:      r.Code,
		Result:    result,
		Timestamp: r.Timestamp,
		err:       r.err,
	}
}

// Forward rebuilds a failed response with a different result type.
func Forward[T, U any](r *Response[T]) *Response[U] {
	var zero U
	return Map(r, zero)
}
