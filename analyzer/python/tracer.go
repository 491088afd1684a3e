package python

import "sort"

// DependencyNode is one symbol in the dependency graph together with its
// outgoing edges, deduplicated by target full name.
type DependencyNode struct {
	Name         string
	FullName     string
	Kind         SymbolKind
	Node         *Node
	Args         map[string]struct{}
	Dependencies map[string]*DependencyNode
}

func newDependencyNode(symbol *Symbol) *DependencyNode {
	return &DependencyNode{
		Name:         symbol.Name,
		FullName:     symbol.FullName,
		Kind:         symbol.Kind,
		Node:         symbol.Node,
		Args:         make(map[string]struct{}),
		Dependencies: make(map[string]*DependencyNode),
	}
}

// ArgNames returns the recorded argument names, sorted.
func (n *DependencyNode) ArgNames() []string {
	names := make([]string, 0, len(n.Args))
	for name := range n.Args {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DependsOn reports whether the node has an edge to fullName.
func (n *DependencyNode) DependsOn(fullName string) bool {
	_, ok := n.Dependencies[fullName]
	return ok
}

// DirectDependencies lists the node's dependencies sorted by full name.
// When excludeLocal is true, dependencies whose full names are prefixed by
// the node's own full name (its internal state) are omitted, leaving only
// the outward edges relevant for extraction.
func (n *DependencyNode) DirectDependencies(excludeLocal bool) []*DependencyNode {
	dependencies := make([]*DependencyNode, 0, len(n.Dependencies))
	for _, dependency := range n.Dependencies {
		if excludeLocal && hasPrefix(dependency.FullName, n.FullName) {
			continue
		}
		dependencies = append(dependencies, dependency)
	}
	sort.Slice(dependencies, func(i, j int) bool {
		return dependencies[i].FullName < dependencies[j].FullName
	})
	return dependencies
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// TracerOption configures a Tracer.
type TracerOption func(*Tracer)

// WithTargetFunctions flags function declarations by name; their defining
// nodes are collected during tracing so extraction tooling can isolate them.
func WithTargetFunctions(names ...string) TracerOption {
	return func(t *Tracer) {
		for _, name := range names {
			t.targets[name] = true
		}
	}
}

// Tracer resolves every symbol reference in a module against its scope tree
// and records a dependency graph keyed by fully-qualified symbol names. The
// set of nodes responsible for references is threaded explicitly through
// the traversal.
type Tracer struct {
	moduleName string
	targets    map[string]bool
	registry   map[string]*DependencyNode
	flagged    map[string]*Node
	table      *SymbolTable
}

func NewTracer(moduleName string, opts ...TracerOption) *Tracer {
	tracer := &Tracer{
		moduleName: moduleName,
		targets:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(tracer)
	}
	return tracer
}

// traceContext carries the lexical scope and the dependents that own any
// reference encountered below the current node.
type traceContext struct {
	scope      *Scope
	dependents []*DependencyNode
}

// Trace builds the module's symbol table and walks the tree again,
// resolving every reference. It returns the dependency registry keyed by
// full name and the flagged target-function nodes keyed by name.
func (t *Tracer) Trace(module *Node) (map[string]*DependencyNode, map[string]*Node, error) {
	builder := NewSymbolTableBuilder(t.moduleName)
	table, err := builder.Build(module)
	if err != nil {
		return nil, nil, err
	}
	t.table = table
	t.registry = make(map[string]*DependencyNode)
	t.flagged = make(map[string]*Node)
	if err := t.walk(module.Children(), traceContext{scope: table.Root}); err != nil {
		return nil, nil, err
	}
	return t.registry, t.flagged, nil
}

// Registry returns the dependency registry from the last Trace call.
func (t *Tracer) Registry() map[string]*DependencyNode {
	return t.registry
}

func (t *Tracer) walk(nodes []*Node, ctx traceContext) error {
	for _, node := range nodes {
		if err := t.visit(node, ctx); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tracer) visit(n *Node, ctx traceContext) error {
	switch n.Kind {
	case KindFunctionDef:
		if t.targets[n.Name] {
			t.flagged[n.Name] = n
		}
		node, err := t.resolve(n.Name, n, ctx.scope)
		if err != nil {
			return err
		}
		for _, param := range n.Params {
			if param.Positional() {
				node.Args[param.Name] = struct{}{}
			}
		}
		inner := traceContext{scope: t.table.ScopeOf(n), dependents: []*DependencyNode{node}}
		return t.walk(n.Body, inner)
	case KindClassDef:
		node, err := t.resolve(n.Name, n, ctx.scope)
		if err != nil {
			return err
		}
		inner := traceContext{scope: t.table.ScopeOf(n), dependents: []*DependencyNode{node}}
		return t.walk(n.Body, inner)
	case KindAssign:
		var targets []*DependencyNode
		for _, target := range n.Targets {
			if target.Kind != KindName {
				continue
			}
			node, err := t.resolve(target.Name, target, ctx.scope)
			if err != nil {
				return err
			}
			targets = append(targets, node)
		}
		inner := traceContext{scope: ctx.scope, dependents: targets}
		return t.walk(n.Children(), inner)
	case KindImport:
		for _, alias := range n.Aliases {
			if err := t.reference(alias.Bound(true), n, ctx); err != nil {
				return err
			}
		}
	case KindImportFrom:
		for _, alias := range n.Aliases {
			if err := t.reference(alias.Bound(false), n, ctx); err != nil {
				return err
			}
		}
	case KindName:
		if n.Ctx == CtxLoad && !IsBuiltin(n.Name) {
			return t.reference(n.Name, n, ctx)
		}
	case KindGlobal, KindNonlocal:
		// declarations were handled by the symbol-table pass
	default:
		return t.walk(n.Children(), ctx)
	}
	return nil
}

// reference resolves a name, materializes its dependency node and links it
// from every current dependent.
func (t *Tracer) reference(name string, n *Node, ctx traceContext) error {
	node, err := t.resolve(name, n, ctx.scope)
	if err != nil {
		return err
	}
	for _, dependent := range ctx.dependents {
		dependent.Dependencies[node.FullName] = node
	}
	return nil
}

func (t *Tracer) resolve(name string, n *Node, scope *Scope) (*DependencyNode, error) {
	symbol := scope.Resolve(name)
	if symbol == nil {
		return nil, &UndefinedSymbolError{Name: name, Module: t.moduleName, Line: n.Line}
	}
	if node, ok := t.registry[symbol.FullName]; ok {
		return node, nil
	}
	node := newDependencyNode(symbol)
	t.registry[symbol.FullName] = node
	return node, nil
}
