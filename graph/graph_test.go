package graph_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/microfy/graph"
)

func TestGraph_NodeAccumulation(t *testing.T) {
	g := graph.New()
	first := g.AddNode("/user/{int}", graph.CategoryAPI, 120, 3)
	assert.Equal(t, 1, first.Count)

	second := g.AddNode("/user/{int}", graph.CategoryAPI, 80, 99)
	assert.Same(t, first, second)
	assert.Equal(t, 2, second.Count)
	assert.Equal(t, int64(200), second.ExecutionTime)
	// category and weight are fixed at first insertion
	assert.Equal(t, 3, second.Weight)
	assert.Equal(t, graph.CategoryAPI, second.Category)
	assert.Equal(t, 1, g.NodeCount())
}

func TestGraph_EdgeAccumulation(t *testing.T) {
	g := graph.New()
	g.AddEdge("a", "b", 1)
	g.AddEdge("a", "b", 2)
	g.AddEdge("b", "a", 5)

	assert.Equal(t, 2, g.EdgeCount())
	assert.Equal(t, 3, g.Edge("a", "b").Weight)
	assert.Equal(t, 5, g.Edge("b", "a").Weight)
	assert.True(t, g.HasEdge("a", "b"))
	assert.False(t, g.HasEdge("a", "c"))
}

func buildSample() *graph.Graph {
	g := graph.New()
	g.AddNode("/user/{int}", graph.CategoryAPI, 120, 2)
	g.AddNode("user-service", graph.CategoryService, 80, 0)
	g.AddNode("mysql.users-db.users", graph.CategoryDatabase, 15, 0)
	g.AddEdge("/user/{int}", "user-service", 2)
	g.AddEdge("user-service", "mysql.users-db.users", 2)
	return g
}

func TestGraph_JSONRoundTrip(t *testing.T) {
	g := buildSample()
	var buffer bytes.Buffer
	require.NoError(t, g.Export(&buffer, graph.FormatJSON))

	restored, err := graph.FromJSON(&buffer)
	require.NoError(t, err)

	require.Equal(t, g.NodeCount(), restored.NodeCount())
	require.Equal(t, g.EdgeCount(), restored.EdgeCount())
	for i, node := range g.Nodes() {
		assert.Equal(t, node, restored.Nodes()[i])
	}
	for i, edge := range g.Edges() {
		assert.Equal(t, edge, restored.Edges()[i])
	}
}

func TestGraph_ExportFormats(t *testing.T) {
	g := buildSample()
	tests := []struct {
		format string
		want   []string
	}{
		{graph.FormatGraphML, []string{"<graphml", `edgedefault="directed"`, `<node id="/user/{int}">`, `<data key="d4">2</data>`}},
		{graph.FormatGEXF, []string{"<gexf", `defaultedgetype="directed"`, `label="/user/{int}"`, `weight="2"`}},
		{graph.FormatGML, []string{"graph [", "directed 1", `label "/user/{int}"`, "weight 2"}},
		{graph.FormatJSON, []string{`"nodes"`, `"edges"`, `"exec_time"`}},
	}
	for _, test := range tests {
		t.Run(test.format, func(t *testing.T) {
			var buffer bytes.Buffer
			require.NoError(t, g.Export(&buffer, test.format))
			for _, fragment := range test.want {
				assert.True(t, strings.Contains(buffer.String(), fragment), "%s missing %q", test.format, fragment)
			}
		})
	}
}

func TestGraph_UnsupportedFormat(t *testing.T) {
	var buffer bytes.Buffer
	err := buildSample().Export(&buffer, "dot")
	var unsupported *graph.UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "dot", unsupported.Format)
}

func TestGraph_Hash(t *testing.T) {
	first, err := buildSample().Hash()
	require.NoError(t, err)
	second, err := buildSample().Hash()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	changed := buildSample()
	changed.AddEdge("/user/{int}", "user-service", 1)
	third, err := changed.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestBuildStatic(t *testing.T) {
	records := []graph.SymbolRecord{
		{Kind: "class", Name: "UserService", FullName: "com.example.UserService",
			Dependencies: []string{"com.example.UserRepo", "com.example.UserRepo", "com.example.User"}},
		{Kind: "class", Name: "UserRepo", FullName: "com.example.UserRepo"},
		{Kind: "class", Name: "User", FullName: "com.example.User"},
	}
	g := graph.BuildStatic(records)

	assert.Equal(t, 3, g.NodeCount())
	// repeated dependencies accumulate into edge weight
	assert.Equal(t, 2, g.Edge("com.example.UserService", "com.example.UserRepo").Weight)
	assert.Equal(t, 1, g.Edge("com.example.UserService", "com.example.User").Weight)
}
