package graph

import "sort"

// Category classifies a node by its role in the call topology.
type Category string

const (
	CategoryAPI      Category = "api"
	CategoryService  Category = "service"
	CategoryDatabase Category = "database"
)

// Node is a single endpoint, service or database table in the call graph.
type Node struct {
	ID            string
	Category      Category
	ExecutionTime int64
	Count         int
	Weight        int
}

// Edge is a directed weighted connection between two nodes.
type Edge struct {
	Source string
	Target string
	Weight int
}

type edgeKey struct {
	source string
	target string
}

// Graph is a directed, node- and edge-weighted call graph. Execution time,
// invocation count and edge weight only ever accumulate; a node's category
// and weight are fixed at first insertion.
type Graph struct {
	nodes map[string]*Node
	edges map[edgeKey]*Edge
}

func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		edges: make(map[edgeKey]*Edge),
	}
}

// AddNode folds a node observation into the graph: an existing node
// accumulates execution time and count, a new one starts with count 1.
func (g *Graph) AddNode(id string, category Category, executionTime int64, weight int) *Node {
	if node, ok := g.nodes[id]; ok {
		node.ExecutionTime += executionTime
		node.Count++
		return node
	}
	node := &Node{ID: id, Category: category, ExecutionTime: executionTime, Count: 1, Weight: weight}
	g.nodes[id] = node
	return node
}

// AddEdge accumulates weight on the directed source→target edge, creating
// it if absent.
func (g *Graph) AddEdge(source, target string, weight int) *Edge {
	key := edgeKey{source: source, target: target}
	if edge, ok := g.edges[key]; ok {
		edge.Weight += weight
		return edge
	}
	edge := &Edge{Source: source, Target: target, Weight: weight}
	g.edges[key] = edge
	return edge
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node {
	return g.nodes[id]
}

func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

func (g *Graph) HasEdge(source, target string) bool {
	_, ok := g.edges[edgeKey{source: source, target: target}]
	return ok
}

// Edge returns the directed source→target edge, or nil.
func (g *Graph) Edge(source, target string) *Edge {
	return g.edges[edgeKey{source: source, target: target}]
}

// Nodes returns all nodes sorted by id.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, node := range g.nodes {
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes
}

// Edges returns all edges sorted by source, then target.
func (g *Graph) Edges() []*Edge {
	edges := make([]*Edge, 0, len(g.edges))
	for _, edge := range g.edges {
		edges = append(edges, edge)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})
	return edges
}

func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

func (g *Graph) EdgeCount() int {
	return len(g.edges)
}
