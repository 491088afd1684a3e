package trace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/microfy/trace"
)

func TestAPIConfig_Match(t *testing.T) {
	config, err := trace.NewAPIConfig([]trace.APIEntry{
		{Name: "/user/{int}", Weight: 3},
		{Name: "/search/{str}", Weight: 2},
		{Name: "/health", Weight: 0},
	})
	require.NoError(t, err)

	tests := []struct {
		endpoint string
		wantName string
		wantHit  bool
	}{
		{"/user/42", "/user/{int}", true},
		{"/user/{int}", "/user/{int}", true},
		{"/user/alice", "", false},
		{"/user/42/posts", "", false},
		{"/search/abc123", "/search/{str}", true},
		{"/health", "/health", true},
		{"/unknown", "", false},
	}
	for _, test := range tests {
		entry, ok := config.Match(test.endpoint)
		assert.Equal(t, test.wantHit, ok, test.endpoint)
		if test.wantHit {
			assert.Equal(t, test.wantName, entry.Name, test.endpoint)
		}
	}
}

func TestAPIConfig_MatchAdoptsWeight(t *testing.T) {
	config, err := trace.NewAPIConfig([]trace.APIEntry{{Name: "/order/{int}/items", Weight: 7}})
	require.NoError(t, err)

	entry, ok := config.Match("/order/12/items")
	require.True(t, ok)
	assert.Equal(t, 7, entry.Weight)
}

func TestParseAPIConfig(t *testing.T) {
	data := []byte(`[{"name": "/user/{int}", "weight": 3}]`)
	config, err := trace.ParseAPIConfig(data)
	require.NoError(t, err)
	entry, ok := config.Match("/user/7")
	require.True(t, ok)
	assert.Equal(t, 3, entry.Weight)
}

func TestAPIConfig_NilMatchesNothing(t *testing.T) {
	var config *trace.APIConfig
	_, ok := config.Match("/user/42")
	assert.False(t, ok)
}
