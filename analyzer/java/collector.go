package java

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

// ClassKind distinguishes collected type declarations.
type ClassKind string

const (
	ClassKindClass     ClassKind = "class"
	ClassKindInterface ClassKind = "interface"
	ClassKindEnum      ClassKind = "enum"
)

// ClassInfo describes one collected Java type.
type ClassInfo struct {
	Index     int
	Name      string
	FullName  string
	Kind      ClassKind
	Package   string
	Hierarchy []string // resolved extends/implements targets
	Methods   []string
	StartLine int
	EndLine   int
}

// Collector gathers type declarations across a set of Java compilation
// units, assigning each a sequential index in discovery order.
type Collector struct {
	classes map[string]*ClassInfo
	order   []string
}

func NewCollector() *Collector {
	return &Collector{classes: make(map[string]*ClassInfo)}
}

// Classes returns collected classes keyed by fully-qualified name.
func (c *Collector) Classes() map[string]*ClassInfo {
	return c.classes
}

// Ordered returns collected classes in discovery order.
func (c *Collector) Ordered() []*ClassInfo {
	out := make([]*ClassInfo, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.classes[name])
	}
	return out
}

// CollectFile parses one Java source file and records its types.
func (c *Collector) CollectFile(ctx context.Context, filename string) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	if err := c.CollectSource(ctx, src); err != nil {
		return fmt.Errorf("failed to collect %s: %w", filename, err)
	}
	return nil
}

// CollectSource parses one compilation unit and records its types.
func (c *Collector) CollectSource(ctx context.Context, src []byte) error {
	unit, err := parseUnit(ctx, src)
	if err != nil {
		return err
	}
	pkg := packageName(unit, src)
	imports := importMap(unit, src)
	c.collectTypes(unit, src, pkg, imports)
	return nil
}

func parseUnit(ctx context.Context, src []byte) (*sitter.Node, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse java source: %w", err)
	}
	return tree.RootNode(), nil
}

func packageName(root *sitter.Node, src []byte) string {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() != "package_declaration" {
			continue
		}
		for j := 0; j < int(child.NamedChildCount()); j++ {
			name := child.NamedChild(j)
			if name.Type() == "scoped_identifier" || name.Type() == "identifier" {
				return name.Content(src)
			}
		}
	}
	return ""
}

// importMap maps short type names to qualified names. Static imports are
// ignored; a wildcard import maps the package to itself so callers can see
// it was present, nothing more.
func importMap(root *sitter.Node, src []byte) map[string]string {
	imports := make(map[string]string)
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() != "import_declaration" {
			continue
		}
		if hasStaticModifier(child) {
			continue
		}
		qualified := ""
		wildcard := false
		for j := 0; j < int(child.ChildCount()); j++ {
			part := child.Child(j)
			switch part.Type() {
			case "scoped_identifier", "identifier":
				qualified = part.Content(src)
			case "asterisk", "*":
				wildcard = true
			}
		}
		if qualified == "" {
			continue
		}
		if wildcard {
			imports[qualified] = qualified
			continue
		}
		short := qualified
		if idx := strings.LastIndex(qualified, "."); idx >= 0 {
			short = qualified[idx+1:]
		}
		imports[short] = qualified
	}
	return imports
}

func hasStaticModifier(importDecl *sitter.Node) bool {
	for i := 0; i < int(importDecl.ChildCount()); i++ {
		if importDecl.Child(i).Type() == "static" {
			return true
		}
	}
	return false
}

func (c *Collector) collectTypes(n *sitter.Node, src []byte, pkg string, imports map[string]string) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "class_declaration":
			c.registerType(child, src, pkg, imports, ClassKindClass)
		case "interface_declaration":
			c.registerType(child, src, pkg, imports, ClassKindInterface)
		case "enum_declaration":
			c.registerType(child, src, pkg, imports, ClassKindEnum)
		default:
			c.collectTypes(child, src, pkg, imports)
		}
	}
}

func (c *Collector) registerType(n *sitter.Node, src []byte, pkg string, imports map[string]string, kind ClassKind) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nameNode.Content(src)
	fullName := qualified(pkg, name)
	info, ok := c.classes[fullName]
	if !ok {
		info = &ClassInfo{
			Index:    len(c.order),
			Name:     name,
			FullName: fullName,
			Kind:     kind,
			Package:  pkg,
		}
		c.classes[fullName] = info
		c.order = append(c.order, fullName)
	}
	info.StartLine = int(n.StartPoint().Row) + 1
	info.EndLine = int(n.EndPoint().Row) + 1
	info.Hierarchy = append(info.Hierarchy, hierarchyTargets(n, src, pkg, imports)...)
	if body := n.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			member := body.NamedChild(i)
			if member.Type() == "method_declaration" {
				if methodName := member.ChildByFieldName("name"); methodName != nil {
					info.Methods = append(info.Methods, methodName.Content(src))
				}
			}
		}
		// nested types
		c.collectTypes(body, src, pkg, imports)
	}
}

// hierarchyTargets resolves the extends and implements clauses of a type
// declaration against the compilation unit's imports.
func hierarchyTargets(n *sitter.Node, src []byte, pkg string, imports map[string]string) []string {
	var targets []string
	if superclass := n.ChildByFieldName("superclass"); superclass != nil {
		for i := 0; i < int(superclass.NamedChildCount()); i++ {
			targets = append(targets, resolveType(superclass.NamedChild(i).Content(src), pkg, imports))
		}
	}
	if interfaces := n.ChildByFieldName("interfaces"); interfaces != nil {
		targets = append(targets, typeListTargets(interfaces, src, pkg, imports)...)
	}
	// interface_declaration puts its extends list in a plain child
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "extends_interfaces" {
			targets = append(targets, typeListTargets(child, src, pkg, imports)...)
		}
	}
	return targets
}

func typeListTargets(n *sitter.Node, src []byte, pkg string, imports map[string]string) []string {
	var targets []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "type_list" {
			targets = append(targets, typeListTargets(child, src, pkg, imports)...)
			continue
		}
		targets = append(targets, resolveType(child.Content(src), pkg, imports))
	}
	return targets
}

// resolveType maps a source type reference to a qualified name: generics
// and array suffixes are stripped, then the import map is consulted; an
// unimported short name is assumed to live in the current package.
func resolveType(raw, pkg string, imports map[string]string) string {
	base := raw
	if idx := strings.Index(base, "<"); idx >= 0 {
		base = base[:idx]
	}
	if idx := strings.Index(base, "["); idx >= 0 {
		base = base[:idx]
	}
	base = strings.TrimSpace(base)
	if base == "" {
		return ""
	}
	if strings.Contains(base, ".") {
		return base
	}
	if qualifiedName, ok := imports[base]; ok {
		return qualifiedName
	}
	return qualified(pkg, base)
}

func qualified(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}
