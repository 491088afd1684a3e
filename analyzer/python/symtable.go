package python

// SymbolKind classifies a declared symbol.
type SymbolKind string

const (
	SymbolFunction SymbolKind = "function"
	SymbolClass    SymbolKind = "class"
	SymbolVariable SymbolKind = "variable"
	SymbolArgument SymbolKind = "argument"
	SymbolModule   SymbolKind = "module"
)

// Symbol is a named entity declared within a scope. A symbol is created
// when first encountered and never mutated afterwards.
type Symbol struct {
	Name             string
	FullName         string
	Kind             SymbolKind
	Node             *Node
	IsLocal          bool
	IsDeclaredGlobal bool
	IsNonlocal       bool
}

// Scope is a lexical context (module, function or class body). Ordinary
// symbols live in Symbols; nonlocal and global declarations are tracked in
// separate mappings so assignments to them never shadow the outer binding.
type Scope struct {
	Name            string
	FullName        string
	Node            *Node
	Parent          *Scope
	Children        []*Scope
	Symbols         map[string]*Symbol
	Nonlocals       map[string]*Symbol
	DeclaredGlobals map[string]*Symbol
}

func newScope(name, fullName string, parent *Scope, node *Node) *Scope {
	scope := &Scope{
		Name:            name,
		FullName:        fullName,
		Node:            node,
		Parent:          parent,
		Symbols:         make(map[string]*Symbol),
		Nonlocals:       make(map[string]*Symbol),
		DeclaredGlobals: make(map[string]*Symbol),
	}
	if parent != nil {
		parent.Children = append(parent.Children, scope)
	}
	return scope
}

// AddSymbol registers a symbol in this scope. The full name is the scope's
// full name joined with the symbol name. Re-registering an already present
// name returns the existing symbol.
func (s *Scope) AddSymbol(name string, kind SymbolKind, node *Node, local, declaredGlobal, nonlocal bool) *Symbol {
	target := s.Symbols
	switch {
	case nonlocal:
		target = s.Nonlocals
	case declaredGlobal:
		target = s.DeclaredGlobals
	}
	if existing, ok := target[name]; ok {
		return existing
	}
	symbol := &Symbol{
		Name:             name,
		FullName:         s.FullName + "." + name,
		Kind:             kind,
		Node:             node,
		IsLocal:          local,
		IsDeclaredGlobal: declaredGlobal,
		IsNonlocal:       nonlocal,
	}
	target[name] = symbol
	return symbol
}

// Resolve walks from this scope up the parent chain and returns the first
// ordinary symbol bound to name, or nil.
func (s *Scope) Resolve(name string) *Symbol {
	for scope := s; scope != nil; scope = scope.Parent {
		if symbol, ok := scope.Symbols[name]; ok {
			return symbol
		}
	}
	return nil
}

// ResolveGlobal checks only the root scope's ordinary symbols.
func (s *Scope) ResolveGlobal(name string) *Symbol {
	scope := s
	for scope.Parent != nil {
		scope = scope.Parent
	}
	return scope.Symbols[name]
}

// resolveEnclosing checks the strictly enclosing non-root scopes, the
// binding region a nonlocal declaration may legally refer to.
func (s *Scope) resolveEnclosing(name string) *Symbol {
	for scope := s.Parent; scope != nil && scope.Parent != nil; scope = scope.Parent {
		if symbol, ok := scope.Symbols[name]; ok {
			return symbol
		}
	}
	return nil
}

// SymbolTable is the result of the symbol-table pass: the scope tree plus a
// mapping from each module/function/class node to the scope it introduces.
type SymbolTable struct {
	Root        *Scope
	ModuleName  string
	scopeByNode map[*Node]*Scope
}

// ScopeOf returns the scope a module, function or class node introduces.
func (t *SymbolTable) ScopeOf(node *Node) *Scope {
	return t.scopeByNode[node]
}

// SymbolTableBuilder builds a SymbolTable from a parsed module in a single
// walk. The active scope is threaded explicitly through the traversal.
type SymbolTableBuilder struct {
	moduleName string
}

func NewSymbolTableBuilder(moduleName string) *SymbolTableBuilder {
	if moduleName == "" {
		moduleName = "main"
	}
	return &SymbolTableBuilder{moduleName: moduleName}
}

// Build walks the module and returns the populated scope tree. Validation
// of nonlocal and global declarations fails fast with UndefinedSymbolError.
func (b *SymbolTableBuilder) Build(module *Node) (*SymbolTable, error) {
	root := newScope(b.moduleName, b.moduleName, nil, module)
	table := &SymbolTable{
		Root:        root,
		ModuleName:  b.moduleName,
		scopeByNode: map[*Node]*Scope{module: root},
	}
	if err := b.walk(module.Children(), root, table); err != nil {
		return nil, err
	}
	return table, nil
}

func (b *SymbolTableBuilder) walk(nodes []*Node, scope *Scope, table *SymbolTable) error {
	for _, node := range nodes {
		if err := b.visit(node, scope, table); err != nil {
			return err
		}
	}
	return nil
}

func (b *SymbolTableBuilder) visit(n *Node, scope *Scope, table *SymbolTable) error {
	switch n.Kind {
	case KindFunctionDef:
		scope.AddSymbol(n.Name, SymbolFunction, n, false, false, false)
		child := b.enterScope(n, scope, table)
		for _, param := range n.Params {
			child.AddSymbol(param.Name, SymbolArgument, n, false, false, false)
		}
		return b.walk(n.Body, child, table)
	case KindClassDef:
		scope.AddSymbol(n.Name, SymbolClass, n, false, false, false)
		child := b.enterScope(n, scope, table)
		return b.walk(n.Body, child, table)
	case KindAssign, KindFor, KindWith:
		for _, target := range n.Targets {
			b.registerTarget(target, n, scope)
		}
		return b.walk(n.Body, scope, table)
	case KindImport:
		for _, alias := range n.Aliases {
			scope.AddSymbol(alias.Bound(true), SymbolModule, n, false, false, false)
		}
	case KindImportFrom:
		for _, alias := range n.Aliases {
			scope.AddSymbol(alias.Bound(false), SymbolModule, n, false, false, false)
		}
	case KindGlobal:
		for _, name := range n.Names {
			scope.AddSymbol(name, SymbolVariable, n, false, true, false)
			if scope.ResolveGlobal(name) == nil {
				return &UndefinedSymbolError{Name: name, Module: b.moduleName, Line: n.Line}
			}
		}
	case KindNonlocal:
		for _, name := range n.Names {
			scope.AddSymbol(name, SymbolVariable, n, false, false, true)
			if scope.resolveEnclosing(name) == nil {
				return &UndefinedSymbolError{Name: name, Module: b.moduleName, Line: n.Line}
			}
		}
	case KindExceptHandler:
		if n.Name != "" {
			scope.AddSymbol(n.Name, SymbolVariable, n, false, false, false)
		}
		return b.walk(n.Body, scope, table)
	default:
		return b.walk(n.Children(), scope, table)
	}
	return nil
}

// registerTarget binds an assignment target. Names declared nonlocal or
// global in the current scope keep their outer binding; tuple and list
// patterns recurse; attribute and subscript targets declare nothing.
func (b *SymbolTableBuilder) registerTarget(target *Node, decl *Node, scope *Scope) {
	switch target.Kind {
	case KindName:
		if _, ok := scope.Nonlocals[target.Name]; ok {
			return
		}
		if _, ok := scope.DeclaredGlobals[target.Name]; ok {
			return
		}
		scope.AddSymbol(target.Name, SymbolVariable, decl, true, false, false)
	case KindTuple, KindList:
		for _, element := range target.Targets {
			b.registerTarget(element, decl, scope)
		}
	}
}

func (b *SymbolTableBuilder) enterScope(n *Node, parent *Scope, table *SymbolTable) *Scope {
	child := newScope(n.Name, parent.FullName+"."+n.Name, parent, n)
	table.scopeByNode[n] = child
	return child
}
