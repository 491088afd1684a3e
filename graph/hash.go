package graph

import (
	"fmt"

	"github.com/minio/highwayhash"
)

var hashKey = []byte("0123456789ABCDEF0123456789ABCDEF")

// Hash returns a 64-bit content hash over the graph's sorted nodes and
// edges. Two graphs with identical topology and weights hash identically.
func (g *Graph) Hash() (uint64, error) {
	hash, err := highwayhash.New64(hashKey)
	if err != nil {
		return 0, err
	}
	for _, node := range g.Nodes() {
		fmt.Fprintf(hash, "n|%s|%s|%d|%d|%d\n", node.ID, node.Category, node.ExecutionTime, node.Count, node.Weight)
	}
	for _, edge := range g.Edges() {
		fmt.Fprintf(hash, "e|%s|%s|%d\n", edge.Source, edge.Target, edge.Weight)
	}
	return hash.Sum64(), nil
}
