package trace

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/viant/microfy/graph"
)

// EntryPoint records a root span discovered while folding traces.
type EntryPoint struct {
	Name   string
	Weight int
}

// Option configures a Builder.
type Option func(*Builder)

// WithAPIConfig supplies endpoint patterns used to normalize entry spans.
func WithAPIConfig(config *APIConfig) Option {
	return func(b *Builder) {
		b.api = config
	}
}

// WithTableExtractor replaces the SQL table extractor.
func WithTableExtractor(extractor TableExtractor) Option {
	return func(b *Builder) {
		if extractor != nil {
			b.tables = extractor
		}
	}
}

// WithDenylist replaces the set of skipped endpoint-name prefixes.
func WithDenylist(prefixes ...string) Option {
	return func(b *Builder) {
		b.denylist = prefixes
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Builder folds distributed traces into a weighted service call graph.
// Entry spans become api nodes, Database-layer spans become per-table
// nodes, everything else becomes a service node.
type Builder struct {
	api      *APIConfig
	tables   TableExtractor
	denylist []string
	logger   *slog.Logger
	entries  []EntryPoint
}

func NewBuilder(opts ...Option) *Builder {
	builder := &Builder{
		tables:   NewSQLTableExtractor(),
		denylist: []string{"HikariCP"},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder
}

// EntryPoints returns the root spans seen so far, in discovery order.
func (b *Builder) EntryPoints() []EntryPoint {
	return b.entries
}

// Build folds all traces into a fresh graph.
func (b *Builder) Build(traces []Trace) *graph.Graph {
	g := graph.New()
	for _, t := range traces {
		b.AddTrace(g, t)
	}
	return g
}

// logicalNode is the graph-level identity a span maps to; a database span
// may map to several, one per referenced table.
type logicalNode struct {
	id       string
	category graph.Category
	weight   int
}

// AddTrace folds one trace into the graph. The trace carries a running
// weight: it starts at 1 and each positively-weighted entry node updates
// it for the edges that follow.
func (b *Builder) AddTrace(g *graph.Graph, t Trace) {
	weight := 1
	for i := range t {
		span := &t[i]
		for _, node := range b.spanNodes(span) {
			g.AddNode(node.id, node.category, span.Duration(), node.weight)
			if span.IsRoot() {
				b.entries = append(b.entries, EntryPoint{Name: node.id, Weight: node.weight})
				if node.weight > 0 {
					weight = node.weight
				}
				continue
			}
			parent := t.FindSpan(span.ParentSpanID)
			if parent == nil {
				b.logger.Debug("span parent not found",
					slog.String("trace", span.TraceID),
					slog.Int("parentSpanId", span.ParentSpanID))
				continue
			}
			g.AddEdge(b.parentID(parent), node.id, weight)
		}
	}
}

// parentID is the logical node id a child edge attaches to. Entry
// normalization applies only to the trace's root span.
func (b *Builder) parentID(span *Span) string {
	id := span.EndpointName
	if span.SpanID == 0 {
		if entry, ok := b.api.Match(id); ok {
			id = entry.Name
		}
	}
	return id
}

// spanNodes classifies a span into logical graph nodes. Denylisted spans
// and database spans without usable SQL map to none.
func (b *Builder) spanNodes(span *Span) []logicalNode {
	if b.denied(span.EndpointName) {
		return nil
	}
	tags := span.TagMap()
	weight := 0
	if raw, ok := tags[TagWeight]; ok {
		if parsed, err := strconv.Atoi(raw); err == nil {
			weight = parsed
		}
	}
	switch {
	case span.Type == SpanTypeEntry:
		id := span.EndpointName
		if entry, ok := b.api.Match(id); ok {
			id = entry.Name
			weight = entry.Weight
		}
		return []logicalNode{{id: id, category: graph.CategoryAPI, weight: weight}}
	case span.Layer == LayerDatabase:
		return b.databaseNodes(span, tags, weight)
	default:
		return []logicalNode{{id: span.EndpointName, category: graph.CategoryService, weight: weight}}
	}
}

// databaseNodes maps a database span to one node per referenced table,
// identified as {dbType}.{dbInstance}.{table}.
func (b *Builder) databaseNodes(span *Span, tags map[string]string, weight int) []logicalNode {
	statement, ok := tags[TagDBStatement]
	if !ok || statement == "" {
		b.logger.Debug("dropping database span without statement",
			slog.String("endpoint", span.EndpointName))
		return nil
	}
	statement = strings.ReplaceAll(statement, "\n", " ")
	tables, err := b.tables.Tables(statement)
	if err != nil || len(tables) == 0 {
		b.logger.Debug("dropping database span without tables",
			slog.String("endpoint", span.EndpointName))
		return nil
	}
	nodes := make([]logicalNode, 0, len(tables))
	for _, table := range tables {
		id := fmt.Sprintf("%s.%s.%s", tags[TagDBType], tags[TagDBInstance], table)
		nodes = append(nodes, logicalNode{id: id, category: graph.CategoryDatabase, weight: weight})
	}
	return nodes
}

// denied matches the first path segment of the endpoint name against the
// denylist.
func (b *Builder) denied(endpoint string) bool {
	head := endpoint
	if idx := strings.Index(head, "/"); idx >= 0 {
		head = head[:idx]
	}
	for _, prefix := range b.denylist {
		if head == prefix {
			return true
		}
	}
	return false
}
