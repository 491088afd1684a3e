package java

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/viant/microfy/graph"
)

// Index assigns dense matrix positions to fully-qualified class names. The
// index is owned by its caller, so independent analyses never share state.
type Index struct {
	positions map[string]int
	names     []string
}

// NewIndex builds an index over the collected classes, ordered by full name
// so positions are deterministic.
func NewIndex(classes map[string]*ClassInfo) *Index {
	names := make([]string, 0, len(classes))
	for name := range classes {
		names = append(names, name)
	}
	sort.Strings(names)
	positions := make(map[string]int, len(names))
	for i, name := range names {
		positions[name] = i
	}
	return &Index{positions: positions, names: names}
}

// Position returns the matrix position of a fully-qualified class name.
func (ix *Index) Position(name string) (int, bool) {
	position, ok := ix.positions[name]
	return position, ok
}

// Name returns the class name at a matrix position.
func (ix *Index) Name(position int) string {
	if position < 0 || position >= len(ix.names) {
		return ""
	}
	return ix.names[position]
}

// Names returns all indexed names in position order.
func (ix *Index) Names() []string {
	return ix.names
}

func (ix *Index) Len() int {
	return len(ix.names)
}

// Matrix is a square structural interaction matrix; cell [i][j] counts how
// often class i references class j.
type Matrix [][]int

func NewMatrix(n int) Matrix {
	matrix := make(Matrix, n)
	for i := range matrix {
		matrix[i] = make([]int, n)
	}
	return matrix
}

// InteractionAnalyzer accumulates structural interactions between collected
// classes: supertype clauses, field types, method parameter types and local
// variable types.
type InteractionAnalyzer struct {
	classes map[string]*ClassInfo
	index   *Index
	matrix  Matrix
	logger  *slog.Logger
}

// InteractionOption configures an InteractionAnalyzer.
type InteractionOption func(*InteractionAnalyzer)

func WithInteractionLogger(logger *slog.Logger) InteractionOption {
	return func(a *InteractionAnalyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

func NewInteractionAnalyzer(classes map[string]*ClassInfo, index *Index, opts ...InteractionOption) *InteractionAnalyzer {
	analyzer := &InteractionAnalyzer{
		classes: classes,
		index:   index,
		matrix:  NewMatrix(index.Len()),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(analyzer)
	}
	return analyzer
}

// Matrix returns the accumulated interaction matrix.
func (a *InteractionAnalyzer) Matrix() Matrix {
	return a.matrix
}

// AnalyzeFile scans one Java source file for structural interactions.
func (a *InteractionAnalyzer) AnalyzeFile(ctx context.Context, filename string) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	if err := a.AnalyzeSource(ctx, src); err != nil {
		return fmt.Errorf("failed to analyze %s: %w", filename, err)
	}
	return nil
}

// AnalyzeSource scans one compilation unit for structural interactions.
func (a *InteractionAnalyzer) AnalyzeSource(ctx context.Context, src []byte) error {
	unit, err := parseUnit(ctx, src)
	if err != nil {
		return err
	}
	pkg := packageName(unit, src)
	imports := importMap(unit, src)
	a.scan(unit, src, "", pkg, imports)
	return nil
}

func (a *InteractionAnalyzer) scan(n *sitter.Node, src []byte, current, pkg string, imports map[string]string) {
	switch n.Type() {
	case "class_declaration", "interface_declaration", "enum_declaration":
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			return
		}
		fullName := qualified(pkg, nameNode.Content(src))
		for _, target := range hierarchyTargets(n, src, pkg, imports) {
			a.addInteraction(fullName, target)
		}
		if body := n.ChildByFieldName("body"); body != nil {
			a.scanChildren(body, src, fullName, pkg, imports)
		}
		return
	case "field_declaration", "local_variable_declaration":
		if typeNode := n.ChildByFieldName("type"); typeNode != nil {
			a.addInteraction(current, resolveType(typeNode.Content(src), pkg, imports))
		}
	case "formal_parameter", "spread_parameter":
		if typeNode := n.ChildByFieldName("type"); typeNode != nil {
			a.addInteraction(current, resolveType(typeNode.Content(src), pkg, imports))
		}
	}
	a.scanChildren(n, src, current, pkg, imports)
}

func (a *InteractionAnalyzer) scanChildren(n *sitter.Node, src []byte, current, pkg string, imports map[string]string) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		a.scan(n.NamedChild(i), src, current, pkg, imports)
	}
}

// addInteraction records one source→target reference. Self references and
// targets outside the collected class set are skipped.
func (a *InteractionAnalyzer) addInteraction(source, target string) {
	if source == "" || target == "" || source == target {
		return
	}
	if _, ok := a.classes[target]; !ok {
		return
	}
	sourcePos, ok := a.index.Position(source)
	if !ok {
		return
	}
	targetPos, ok := a.index.Position(target)
	if !ok {
		return
	}
	a.matrix[sourcePos][targetPos]++
}

// EffectiveMatrix returns a copy of the matrix where each class row also
// folds in the rows of its supertypes, recursively. A hierarchy cycle is
// reported and contributes nothing further.
func (a *InteractionAnalyzer) EffectiveMatrix() Matrix {
	memo := make(map[string][]int)
	result := NewMatrix(a.index.Len())
	for position, name := range a.index.names {
		copy(result[position], a.effectiveRow(name, memo, make(map[string]bool)))
	}
	return result
}

func (a *InteractionAnalyzer) effectiveRow(name string, memo map[string][]int, visiting map[string]bool) []int {
	if row, ok := memo[name]; ok {
		return row
	}
	if visiting[name] {
		a.logger.Warn("hierarchy cycle detected", slog.String("class", name))
		return make([]int, a.index.Len())
	}
	visiting[name] = true
	defer delete(visiting, name)

	row := make([]int, a.index.Len())
	position, ok := a.index.Position(name)
	if !ok {
		return row
	}
	copy(row, a.matrix[position])
	if info := a.classes[name]; info != nil {
		for _, super := range info.Hierarchy {
			if _, known := a.classes[super]; !known {
				continue
			}
			for i, value := range a.effectiveRow(super, memo, visiting) {
				row[i] += value
			}
		}
	}
	memo[name] = row
	return row
}

// Records converts the accumulated interactions into symbol cross-reference
// records; each matrix count becomes that many dependency occurrences.
func (a *InteractionAnalyzer) Records() []graph.SymbolRecord {
	records := make([]graph.SymbolRecord, 0, a.index.Len())
	for position, name := range a.index.names {
		info := a.classes[name]
		if info == nil {
			continue
		}
		record := graph.SymbolRecord{
			Kind:      string(info.Kind),
			Name:      info.Name,
			FullName:  info.FullName,
			StartLine: info.StartLine,
			StopLine:  info.EndLine,
		}
		for targetPos, count := range a.matrix[position] {
			for k := 0; k < count; k++ {
				record.Dependencies = append(record.Dependencies, a.index.Name(targetPos))
			}
		}
		records = append(records, record)
	}
	return records
}
