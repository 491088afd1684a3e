package python

import (
	"encoding/json"
	"sort"

	"github.com/viant/microfy/graph"
)

// DependencyRef is the short form a dependency appears in when nested under
// its dependent.
type DependencyRef struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Kind     string `json:"type"`
	Line     int    `json:"lineno"`
}

// DependencyJSON is the export schema for one registry entry.
type DependencyJSON struct {
	Name         string          `json:"name"`
	FullName     string          `json:"full_name"`
	Kind         string          `json:"type"`
	Args         []string        `json:"args"`
	NodeType     string          `json:"node_type"`
	Line         int             `json:"lineno"`
	Dependencies []DependencyRef `json:"dependencies"`
}

func exportNode(node *DependencyNode) DependencyJSON {
	out := DependencyJSON{
		Name:         node.Name,
		FullName:     node.FullName,
		Kind:         string(node.Kind),
		Args:         node.ArgNames(),
		Dependencies: []DependencyRef{},
	}
	if node.Node != nil {
		out.NodeType = node.Node.Kind.String()
		out.Line = node.Node.Line
	}
	for _, dependency := range node.DirectDependencies(false) {
		ref := DependencyRef{
			Name:     dependency.Name,
			FullName: dependency.FullName,
			Kind:     string(dependency.Kind),
		}
		if dependency.Node != nil {
			ref.Line = dependency.Node.Line
		}
		out.Dependencies = append(out.Dependencies, ref)
	}
	return out
}

// MarshalRegistry serializes a dependency registry as a JSON list sorted by
// full name.
func MarshalRegistry(registry map[string]*DependencyNode) ([]byte, error) {
	fullNames := make([]string, 0, len(registry))
	for fullName := range registry {
		fullNames = append(fullNames, fullName)
	}
	sort.Strings(fullNames)
	out := make([]DependencyJSON, 0, len(registry))
	for _, fullName := range fullNames {
		out = append(out, exportNode(registry[fullName]))
	}
	return json.MarshalIndent(out, "", "  ")
}

// RegistryRecords converts a dependency registry into symbol cross-reference
// records so static and trace-driven pipelines share one graph form.
func RegistryRecords(registry map[string]*DependencyNode) []graph.SymbolRecord {
	fullNames := make([]string, 0, len(registry))
	for fullName := range registry {
		fullNames = append(fullNames, fullName)
	}
	sort.Strings(fullNames)
	records := make([]graph.SymbolRecord, 0, len(registry))
	for _, fullName := range fullNames {
		node := registry[fullName]
		record := graph.SymbolRecord{
			Kind:     string(node.Kind),
			Name:     node.Name,
			FullName: node.FullName,
		}
		if node.Node != nil {
			record.StartLine = node.Node.Line
			record.StopLine = node.Node.EndLine
		}
		for _, dependency := range node.DirectDependencies(false) {
			record.Dependencies = append(record.Dependencies, dependency.FullName)
		}
		records = append(records, record)
	}
	return records
}
