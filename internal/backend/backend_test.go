package backend

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"baas", BaaS, false},
		{"supabase", BaaS, false},
		{"LOWCODE", LowCode, false},
		{" jeecg ", LowCode, false},
		{"mysql", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelector_SetGet(t *testing.T) {
	s := NewSelector(BaaS)
	assert.Equal(t, BaaS, s.Get())

	require.NoError(t, s.Set(LowCode))
	assert.Equal(t, LowCode, s.Get())

	assert.Error(t, s.Set(Kind("other")))
	assert.Equal(t, LowCode, s.Get())
}

func TestNewSelector_InvalidDefaultsToBaaS(t *testing.T) {
	assert.Equal(t, BaaS, NewSelector(Kind("")).Get())
}

func TestSelector_ResolvePrefersContext(t *testing.T) {
	s := NewSelector(BaaS)
	ctx := WithKind(context.Background(), LowCode)

	assert.Equal(t, LowCode, s.Resolve(ctx))
	assert.Equal(t, BaaS, s.Resolve(context.Background()))

	k, ok := FromContext(WithKind(context.Background(), Kind("bogus")))
	assert.False(t, ok)
	assert.Empty(t, k)
}

func TestSelector_ConcurrentAccess(t *testing.T) {
	s := NewSelector(BaaS)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_ = s.Set(LowCode)
			} else {
				_ = s.Set(BaaS)
			}
		}(i)
		go func() {
			defer wg.Done()
			assert.True(t, s.Get().Valid())
		}()
	}
	wg.Wait()
}
