package trace_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/microfy/trace"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var request struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(request.Query, "listServices"):
			assert.Equal(t, "GENERAL", request.Variables["layer"])
			w.Write([]byte(`{"data":{"services":[{"id":"svc-1","value":"user-service"}]}}`))
		case strings.Contains(request.Query, "queryBasicTraces"):
			w.Write([]byte(`{"data":{"data":{"traces":[{"key":"seg-1","traceIds":["trace-1"]}]}}}`))
		case strings.Contains(request.Query, "queryTrace"):
			assert.Equal(t, "trace-1", request.Variables["traceId"])
			w.Write([]byte(`{"data":{"trace":{"spans":[{"traceId":"trace-1","spanId":0,` +
				`"parentSpanId":-1,"endpointName":"/user/1","type":"Entry"}]}}}`))
		default:
			http.Error(w, "unexpected query", http.StatusBadRequest)
		}
	}))
}

func TestCollector_TracesByServiceName(t *testing.T) {
	backend := newBackend(t)
	defer backend.Close()

	collector := trace.NewCollector(backend.URL, trace.WithHTTPClient(backend.Client()))
	traces, err := collector.TracesByServiceName(context.Background(), "user-service")
	require.NoError(t, err)
	require.Len(t, traces, 1)
	require.Len(t, traces[0], 1)
	assert.Equal(t, "/user/1", traces[0][0].EndpointName)
}

func TestCollector_ServiceNotFound(t *testing.T) {
	backend := newBackend(t)
	defer backend.Close()

	collector := trace.NewCollector(backend.URL)
	_, err := collector.TracesByServiceName(context.Background(), "no-such-service")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-service")
}

func TestCollector_BackendError(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer backend.Close()

	collector := trace.NewCollector(backend.URL)
	_, err := collector.ListServices(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
