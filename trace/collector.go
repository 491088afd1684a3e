package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	queryServices = `
query queryServices($layer: String!) {
    services: listServices(layer: $layer) {
        id
        value: name
        group
        normal
        shortName
    }
}`

	queryBasicTraces = `
query queryTraces($condition: TraceQueryCondition) {
    data: queryBasicTraces(condition: $condition) {
        traces {
            key: segmentId
            endpointNames
            duration
            start
            isError
            traceIds
        }
    }
}`

	queryTraceSpans = `
query queryTrace($traceId: ID!) {
    trace: queryTrace(traceId: $traceId) {
        spans {
            traceId
            segmentId
            spanId
            parentSpanId
            serviceCode
            startTime
            endTime
            endpointName
            type
            peer
            component
            isError
            layer
            tags {
                key
                value
            }
        }
    }
}`
)

// Service is one service known to the tracing backend.
type Service struct {
	ID        string `json:"id"`
	Name      string `json:"value"`
	Group     string `json:"group"`
	Normal    bool   `json:"normal"`
	ShortName string `json:"shortName"`
}

// BasicTrace is a trace summary returned by a trace listing query.
type BasicTrace struct {
	SegmentID     string   `json:"key"`
	EndpointNames []string `json:"endpointNames"`
	Duration      int64    `json:"duration"`
	Start         string   `json:"start"`
	IsError       bool     `json:"isError"`
	TraceIDs      []string `json:"traceIds"`
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithHTTPClient replaces the HTTP client used for backend queries.
func WithHTTPClient(client *http.Client) CollectorOption {
	return func(c *Collector) {
		if client != nil {
			c.client = client
		}
	}
}

// WithWindow sets how far back trace listing queries reach.
func WithWindow(window time.Duration) CollectorOption {
	return func(c *Collector) {
		if window > 0 {
			c.window = window
		}
	}
}

// Collector queries a SkyWalking backend over its GraphQL API.
type Collector struct {
	queryURL string
	client   *http.Client
	window   time.Duration
	now      func() time.Time
}

func NewCollector(queryURL string, opts ...CollectorOption) *Collector {
	collector := &Collector{
		queryURL: queryURL,
		client:   http.DefaultClient,
		window:   10 * time.Minute,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(collector)
	}
	return collector
}

func (c *Collector) query(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(map[string]any{"query": query, "variables": variables})
	if err != nil {
		return fmt.Errorf("failed to encode query: %w", err)
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.queryURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")
	response, err := c.client.Do(request)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	defer response.Body.Close()
	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}
	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("query failed: status %d: %s", response.StatusCode, payload)
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

// ListServices returns the backend's GENERAL-layer services.
func (c *Collector) ListServices(ctx context.Context) ([]Service, error) {
	var out struct {
		Services []Service `json:"services"`
	}
	if err := c.query(ctx, queryServices, map[string]any{"layer": "GENERAL"}, &out); err != nil {
		return nil, err
	}
	return out.Services, nil
}

// QueryTraces lists recent trace summaries for a service.
func (c *Collector) QueryTraces(ctx context.Context, serviceID string) ([]BasicTrace, error) {
	end := c.now()
	start := end.Add(-c.window)
	variables := map[string]any{
		"condition": map[string]any{
			"queryDuration": map[string]any{
				"start": start.Format("2006-01-02 1504"),
				"end":   end.Format("2006-01-02 1504"),
				"step":  "MINUTE",
			},
			"traceState": "ALL",
			"queryOrder": "BY_START_TIME",
			"paging": map[string]any{
				"pageNum":  1,
				"pageSize": 100,
			},
			"serviceId": serviceID,
		},
	}
	var out struct {
		Data struct {
			Traces []BasicTrace `json:"traces"`
		} `json:"data"`
	}
	if err := c.query(ctx, queryBasicTraces, variables, &out); err != nil {
		return nil, err
	}
	return out.Data.Traces, nil
}

// QueryTrace fetches the full span list of one trace.
func (c *Collector) QueryTrace(ctx context.Context, traceID string) (Trace, error) {
	var out struct {
		Trace struct {
			Spans Trace `json:"spans"`
		} `json:"trace"`
	}
	if err := c.query(ctx, queryTraceSpans, map[string]any{"traceId": traceID}, &out); err != nil {
		return nil, err
	}
	return out.Trace.Spans, nil
}

// TracesByServiceName lists services, finds the one with the given name and
// fetches full spans for each of its recent traces.
func (c *Collector) TracesByServiceName(ctx context.Context, name string) ([]Trace, error) {
	services, err := c.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	var serviceID string
	for _, service := range services {
		if service.Name == name {
			serviceID = service.ID
			break
		}
	}
	if serviceID == "" {
		return nil, fmt.Errorf("service %q not found", name)
	}
	summaries, err := c.QueryTraces(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	var traces []Trace
	seen := make(map[string]bool)
	for _, summary := range summaries {
		for _, traceID := range summary.TraceIDs {
			if seen[traceID] {
				continue
			}
			seen[traceID] = true
			t, err := c.QueryTrace(ctx, traceID)
			if err != nil {
				return nil, err
			}
			traces = append(traces, t)
		}
	}
	return traces, nil
}
