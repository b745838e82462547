package envelope

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/dataadapter/internal/apperr"
)

func TestOK(t *testing.T) {
	Now = func() int64 { return 42 }
	defer func() { Now = defaultNow }()

	resp := OK("value")

	assert.True(t, resp.Success)
	assert.Equal(t, "Success", resp.Message)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "value", resp.Result)
	assert.Equal(t, int64(42), resp.Timestamp)
	assert.NoError(t, resp.Err())
}

func TestFail(t *testing.T) {
	err := fmt.Errorf("get case: %w", apperr.ErrNotFound)
	resp := Fail[string](err)

	assert.False(t, resp.Success)
	assert.Equal(t, err.Error(), resp.Message)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.ErrorIs(t, resp.Err(), apperr.ErrNotFound)
	assert.NotZero(t, resp.Timestamp)
}

func TestResponse_ErrFromDecodedEnvelope(t *testing.T) {
	var resp Response[any]
	require.NoError(t, json.Unmarshal([]byte(`{"success":false,"message":"missing","code":404,"result":null,"timestamp":1}`), &resp))

	err := resp.Err()
	var envErr *apperr.EnvelopeError
	require.True(t, errors.As(err, &envErr))
	assert.Equal(t, "missing", envErr.Message)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestPages(t *testing.T) {
	assert.Equal(t, 0, Pages(0, 10))
	assert.Equal(t, 1, Pages(1, 10))
	assert.Equal(t, 1, Pages(10, 10))
	assert.Equal(t, 2, Pages(11, 10))
	assert.Equal(t, 0, Pages(5, 0))
}

func TestPage(t *testing.T) {
	page := Page[int](nil, 21, PageParams{PageNo: 3, PageSize: 10})

	assert.NotNil(t, page.Records)
	assert.Equal(t, int64(21), page.Total)
	assert.Equal(t, 10, page.Size)
	assert.Equal(t, 3, page.Current)
	assert.Equal(t, 3, page.Pages)
}

func TestMapKeepsNativeMetadata(t *testing.T) {
	native := &Response[int]{Success: true, Message: "操作成功", Code: 0, Result: 7, Timestamp: 99}

	mapped := Map(native, "seven")

	assert.Equal(t, "操作成功", mapped.Message)
	assert.Equal(t, 0, mapped.Code)
	assert.Equal(t, int64(99), mapped.Timestamp)
	assert.Equal(t, "seven", mapped.Result)
}

func TestPageParams_Normalize(t *testing.T) {
	p, err := PageParams{}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, 1, p.PageNo)
	assert.Equal(t, 10, p.PageSize)

	p, err = PageParams{PageNo: -2, PageSize: 0, Order: " ASC "}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, 1, p.PageNo)
	assert.Equal(t, "asc", p.Order)

	_, err = PageParams{Order: "sideways"}.Normalize()
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestPageParams_Offset(t *testing.T) {
	assert.Equal(t, 0, PageParams{PageNo: 1, PageSize: 10}.Offset())
	assert.Equal(t, 20, PageParams{PageNo: 3, PageSize: 10}.Offset())
}

func TestPageParams_Query(t *testing.T) {
	q := PageParams{PageNo: 2, Order: "desc"}.Query()

	assert.Equal(t, 2, q["pageNo"])
	assert.Nil(t, q["pageSize"])
	assert.Nil(t, q["column"])
	assert.Equal(t, "desc", q["order"])
}
