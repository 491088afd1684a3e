package graph

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

// Supported export formats.
const (
	FormatGraphML = "graphml"
	FormatGEXF    = "gexf"
	FormatGML     = "gml"
	FormatJSON    = "json"
)

// UnsupportedFormatError reports an export format the graph cannot be
// serialized to.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported graph format: %s", e.Format)
}

// Export writes the graph to w in the given format. Nodes and edges are
// emitted in sorted order so output is deterministic.
func (g *Graph) Export(w io.Writer, format string) error {
	switch format {
	case FormatGraphML:
		return g.exportGraphML(w)
	case FormatGEXF:
		return g.exportGEXF(w)
	case FormatGML:
		return g.exportGML(w)
	case FormatJSON:
		return g.exportJSON(w)
	default:
		return &UnsupportedFormatError{Format: format}
	}
}

type jsonNode struct {
	ID            string   `json:"id"`
	Category      Category `json:"type"`
	ExecutionTime int64    `json:"exec_time"`
	Count         int      `json:"count"`
	Weight        int      `json:"weight"`
}

type jsonEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

type jsonGraph struct {
	Nodes []jsonNode `json:"nodes"`
	Edges []jsonEdge `json:"edges"`
}

func (g *Graph) exportJSON(w io.Writer) error {
	doc := jsonGraph{Nodes: []jsonNode{}, Edges: []jsonEdge{}}
	for _, node := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, jsonNode{
			ID:            node.ID,
			Category:      node.Category,
			ExecutionTime: node.ExecutionTime,
			Count:         node.Count,
			Weight:        node.Weight,
		})
	}
	for _, edge := range g.Edges() {
		doc.Edges = append(doc.Edges, jsonEdge{Source: edge.Source, Target: edge.Target, Weight: edge.Weight})
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

// FromJSON reconstructs a graph previously exported in the flat JSON form.
func FromJSON(r io.Reader) (*Graph, error) {
	var doc jsonGraph
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode graph: %w", err)
	}
	g := New()
	for _, node := range doc.Nodes {
		restored := g.AddNode(node.ID, node.Category, node.ExecutionTime, node.Weight)
		restored.Count = node.Count
	}
	for _, edge := range doc.Edges {
		g.AddEdge(edge.Source, edge.Target, edge.Weight)
	}
	return g, nil
}

type graphmlKey struct {
	ID       string `xml:"id,attr"`
	For      string `xml:"for,attr"`
	AttrName string `xml:"attr.name,attr"`
	AttrType string `xml:"attr.type,attr"`
}

type graphmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

type graphmlNode struct {
	ID   string        `xml:"id,attr"`
	Data []graphmlData `xml:"data"`
}

type graphmlEdge struct {
	Source string        `xml:"source,attr"`
	Target string        `xml:"target,attr"`
	Data   []graphmlData `xml:"data"`
}

type graphmlGraph struct {
	EdgeDefault string        `xml:"edgedefault,attr"`
	Nodes       []graphmlNode `xml:"node"`
	Edges       []graphmlEdge `xml:"edge"`
}

type graphmlDoc struct {
	XMLName xml.Name     `xml:"graphml"`
	XMLNS   string       `xml:"xmlns,attr"`
	Keys    []graphmlKey `xml:"key"`
	Graph   graphmlGraph `xml:"graph"`
}

func (g *Graph) exportGraphML(w io.Writer) error {
	doc := graphmlDoc{
		XMLNS: "http://graphml.graphdrawing.org/xmlns",
		Keys: []graphmlKey{
			{ID: "d0", For: "node", AttrName: "type", AttrType: "string"},
			{ID: "d1", For: "node", AttrName: "exec_time", AttrType: "long"},
			{ID: "d2", For: "node", AttrName: "count", AttrType: "int"},
			{ID: "d3", For: "node", AttrName: "weight", AttrType: "int"},
			{ID: "d4", For: "edge", AttrName: "weight", AttrType: "int"},
		},
		Graph: graphmlGraph{EdgeDefault: "directed"},
	}
	for _, node := range g.Nodes() {
		doc.Graph.Nodes = append(doc.Graph.Nodes, graphmlNode{
			ID: node.ID,
			Data: []graphmlData{
				{Key: "d0", Value: string(node.Category)},
				{Key: "d1", Value: strconv.FormatInt(node.ExecutionTime, 10)},
				{Key: "d2", Value: strconv.Itoa(node.Count)},
				{Key: "d3", Value: strconv.Itoa(node.Weight)},
			},
		})
	}
	for _, edge := range g.Edges() {
		doc.Graph.Edges = append(doc.Graph.Edges, graphmlEdge{
			Source: edge.Source,
			Target: edge.Target,
			Data:   []graphmlData{{Key: "d4", Value: strconv.Itoa(edge.Weight)}},
		})
	}
	return writeXML(w, doc)
}

type gexfAttValue struct {
	For   string `xml:"for,attr"`
	Value string `xml:"value,attr"`
}

type gexfNode struct {
	ID        string         `xml:"id,attr"`
	Label     string         `xml:"label,attr"`
	AttValues []gexfAttValue `xml:"attvalues>attvalue"`
}

type gexfEdge struct {
	ID     int    `xml:"id,attr"`
	Source string `xml:"source,attr"`
	Target string `xml:"target,attr"`
	Weight int    `xml:"weight,attr"`
}

type gexfAttribute struct {
	ID    string `xml:"id,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

type gexfAttributes struct {
	Class      string          `xml:"class,attr"`
	Attributes []gexfAttribute `xml:"attribute"`
}

type gexfGraph struct {
	DefaultEdgeType string         `xml:"defaultedgetype,attr"`
	Attributes      gexfAttributes `xml:"attributes"`
	Nodes           []gexfNode     `xml:"nodes>node"`
	Edges           []gexfEdge     `xml:"edges>edge"`
}

type gexfDoc struct {
	XMLName xml.Name  `xml:"gexf"`
	XMLNS   string    `xml:"xmlns,attr"`
	Version string    `xml:"version,attr"`
	Graph   gexfGraph `xml:"graph"`
}

func (g *Graph) exportGEXF(w io.Writer) error {
	doc := gexfDoc{
		XMLNS:   "http://www.gexf.net/1.2draft",
		Version: "1.2",
		Graph: gexfGraph{
			DefaultEdgeType: "directed",
			Attributes: gexfAttributes{
				Class: "node",
				Attributes: []gexfAttribute{
					{ID: "0", Title: "type", Type: "string"},
					{ID: "1", Title: "exec_time", Type: "long"},
					{ID: "2", Title: "count", Type: "integer"},
					{ID: "3", Title: "weight", Type: "integer"},
				},
			},
		},
	}
	for _, node := range g.Nodes() {
		doc.Graph.Nodes = append(doc.Graph.Nodes, gexfNode{
			ID:    node.ID,
			Label: node.ID,
			AttValues: []gexfAttValue{
				{For: "0", Value: string(node.Category)},
				{For: "1", Value: strconv.FormatInt(node.ExecutionTime, 10)},
				{For: "2", Value: strconv.Itoa(node.Count)},
				{For: "3", Value: strconv.Itoa(node.Weight)},
			},
		})
	}
	for i, edge := range g.Edges() {
		doc.Graph.Edges = append(doc.Graph.Edges, gexfEdge{
			ID:     i,
			Source: edge.Source,
			Target: edge.Target,
			Weight: edge.Weight,
		})
	}
	return writeXML(w, doc)
}

func (g *Graph) exportGML(w io.Writer) error {
	index := make(map[string]int)
	if _, err := fmt.Fprintln(w, "graph ["); err != nil {
		return err
	}
	fmt.Fprintln(w, "  directed 1")
	for i, node := range g.Nodes() {
		index[node.ID] = i
		fmt.Fprintln(w, "  node [")
		fmt.Fprintf(w, "    id %d\n", i)
		fmt.Fprintf(w, "    label %q\n", node.ID)
		fmt.Fprintf(w, "    type %q\n", string(node.Category))
		fmt.Fprintf(w, "    exectime %d\n", node.ExecutionTime)
		fmt.Fprintf(w, "    count %d\n", node.Count)
		fmt.Fprintf(w, "    weight %d\n", node.Weight)
		fmt.Fprintln(w, "  ]")
	}
	for _, edge := range g.Edges() {
		fmt.Fprintln(w, "  edge [")
		fmt.Fprintf(w, "    source %d\n", index[edge.Source])
		fmt.Fprintf(w, "    target %d\n", index[edge.Target])
		fmt.Fprintf(w, "    weight %d\n", edge.Weight)
		fmt.Fprintln(w, "  ]")
	}
	_, err := fmt.Fprintln(w, "]")
	return err
}

func writeXML(w io.Writer, doc any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode graph: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
