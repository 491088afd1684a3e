package graph

// SymbolRecord is one cross-referenced symbol produced by a static analyzer:
// a declared entity plus the full names it depends on. Dependencies may
// repeat; each occurrence contributes edge weight.
type SymbolRecord struct {
	Kind         string   `json:"sym_type"`
	Name         string   `json:"short_name"`
	FullName     string   `json:"full_name"`
	StartLine    int      `json:"start_lineno"`
	StopLine     int      `json:"stop_lineno"`
	Dependencies []string `json:"dependency"`
}

// BuildStatic folds symbol cross-reference records into a graph: one node
// per record keyed by full name, one weighted edge per distinct dependency
// with repeated occurrences counted into the weight.
func BuildStatic(records []SymbolRecord) *Graph {
	g := New()
	for _, record := range records {
		g.AddNode(record.FullName, Category(record.Kind), 0, 0)
	}
	for _, record := range records {
		for _, dependency := range record.Dependencies {
			g.AddEdge(record.FullName, dependency, 1)
		}
	}
	return g
}
