package trace

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/viant/afs"
)

// Span types and layers as reported by the tracing backend.
const (
	SpanTypeEntry = "Entry"
	SpanTypeExit  = "Exit"
	SpanTypeLocal = "Local"

	LayerDatabase = "Database"
	LayerHTTP     = "Http"
)

// Tag keys attached to database spans.
const (
	TagDBType      = "db.type"
	TagDBInstance  = "db.instance"
	TagDBStatement = "db.statement"
	TagWeight      = "weight"
)

// RootParentSpanID marks a span with no parent within its trace.
const RootParentSpanID = -1

// Tag is one key/value pair attached to a span.
type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Span is one recorded unit of work within a distributed trace.
type Span struct {
	TraceID      string `json:"traceId"`
	SegmentID    string `json:"segmentId"`
	SpanID       int    `json:"spanId"`
	ParentSpanID int    `json:"parentSpanId"`
	StartTime    int64  `json:"startTime"`
	EndTime      int64  `json:"endTime"`
	EndpointName string `json:"endpointName"`
	Type         string `json:"type"`
	Layer        string `json:"layer"`
	Tags         []Tag  `json:"tags"`
}

// TagMap returns the span's tags as a map; later duplicates win.
func (s *Span) TagMap() map[string]string {
	tags := make(map[string]string, len(s.Tags))
	for _, tag := range s.Tags {
		tags[tag.Key] = tag.Value
	}
	return tags
}

// Duration is the span's wall time.
func (s *Span) Duration() int64 {
	return s.EndTime - s.StartTime
}

// IsRoot reports whether the span has no parent within its trace.
func (s *Span) IsRoot() bool {
	return s.ParentSpanID == RootParentSpanID
}

// Trace is the list of spans collected for one request.
type Trace []Span

// FindSpan returns the span with the given id, or nil.
func (t Trace) FindSpan(spanID int) *Span {
	for i := range t {
		if t[i].SpanID == spanID {
			return &t[i]
		}
	}
	return nil
}

// DecodeTraces decodes a JSON list of traces (a list of span lists).
func DecodeTraces(data []byte) ([]Trace, error) {
	var traces []Trace
	if err := json.Unmarshal(data, &traces); err != nil {
		return nil, fmt.Errorf("failed to decode traces: %w", err)
	}
	return traces, nil
}

// LoadTraces reads a JSON trace dump from a file URL.
func LoadTraces(ctx context.Context, URL string) ([]Trace, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load traces from %s: %w", URL, err)
	}
	return DecodeTraces(data)
}
