package diagnostics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/dataadapter/internal/apperr"
	"github.com/mrlokans/dataadapter/internal/backend"
	"github.com/mrlokans/dataadapter/internal/lowcode"
)

func TestCheckLowCode(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		token   string
		setting string
	}{
		{"configured", "https://erp.example.com/jeecg-boot", "tok", ""},
		{"empty url", "", "tok", "base URL"},
		{"localhost url", "http://localhost:8080/jeecg-boot", "tok", "base URL"},
		{"placeholder url", "https://your-jeecg-server", "tok", "base URL"},
		{"empty token", "https://erp.example.com", "", "token"},
		{"placeholder token", "https://erp.example.com", "your-token-here", "token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckLowCode(tt.baseURL, tt.token)
			if tt.setting == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *apperr.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.setting, cfgErr.Setting)
			assert.Equal(t, "lowcode", cfgErr.Backend)
		})
	}
}

func TestChecker_Reports(t *testing.T) {
	selector := backend.NewSelector(backend.LowCode)
	c := NewChecker(selector, "https://erp.example.com", "your-token", nil, nil)

	reports := c.Reports()
	require.Len(t, reports, 2)
	assert.Equal(t, StatusConfigured, reports[0].Status)
	assert.False(t, reports[0].Active)
	assert.Equal(t, StatusTokenNotConfigured, reports[1].Status)
	assert.True(t, reports[1].Active)
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

type probeRecorder struct{ outcomes map[backend.Kind]bool }

func (p *probeRecorder) ObserveProbe(k backend.Kind, ok bool) { p.outcomes[k] = ok }

func TestChecker_ProbeLowCode(t *testing.T) {
	var gotPageSize, gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPageSize = r.URL.Query().Get("pageSize")
		gotToken = r.Header.Get(lowcode.TokenHeader)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"code":    200,
			"result": map[string]any{
				"records": []map[string]any{{"configKey": "a"}, {"configKey": "b"}},
				"total":   2,
			},
		})
	}))
	defer server.Close()

	rec := &probeRecorder{outcomes: map[backend.Kind]bool{}}
	c := NewChecker(backend.NewSelector(backend.BaaS), server.URL, "tok", lowcode.NewClient(server.URL, "tok", 0), nil)
	c.SetObserver(rec)

	res := c.Probe(context.Background(), backend.LowCode)
	assert.True(t, res.OK)
	assert.Equal(t, 2, res.Records)
	assert.Equal(t, "5", gotPageSize)
	assert.Equal(t, "tok", gotToken)
	assert.True(t, rec.outcomes[backend.LowCode])
}

func TestChecker_ProbeLowCodeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "code": 401, "message": "Token失效"})
	}))
	defer server.Close()

	c := NewChecker(backend.NewSelector(backend.BaaS), server.URL, "tok", lowcode.NewClient(server.URL, "tok", 0), nil)
	res := c.Probe(context.Background(), backend.LowCode)
	assert.False(t, res.OK)
	assert.Equal(t, "Token失效", res.Message)
}

func TestChecker_ProbeBaaS(t *testing.T) {
	c := NewChecker(backend.NewSelector(backend.BaaS), "", "", nil, fakePinger{})
	assert.True(t, c.Probe(context.Background(), backend.BaaS).OK)

	c = NewChecker(backend.NewSelector(backend.BaaS), "", "", nil, fakePinger{err: errors.New("disk I/O error")})
	res := c.Probe(context.Background(), backend.BaaS)
	assert.False(t, res.OK)
	assert.Equal(t, "disk I/O error", res.Message)

	c = NewChecker(backend.NewSelector(backend.BaaS), "", "", nil, nil)
	assert.False(t, c.Probe(context.Background(), backend.BaaS).OK)
}
