package python

import "strings"

// NodeKind identifies one of the closed set of parse-tree node kinds the
// analyzers dispatch on. Everything else collapses into KindBlock, which is
// traversed but never interpreted.
type NodeKind uint8

const (
	KindModule NodeKind = iota
	KindFunctionDef
	KindClassDef
	KindAssign
	KindFor
	KindWith
	KindImport
	KindImportFrom
	KindGlobal
	KindNonlocal
	KindExceptHandler
	KindName
	KindTuple
	KindList
	KindBlock
)

var kindNames = [...]string{
	"Module", "FunctionDef", "ClassDef", "Assign", "For", "With",
	"Import", "ImportFrom", "Global", "Nonlocal", "ExceptHandler",
	"Name", "Tuple", "List", "Block",
}

func (k NodeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// NameCtx distinguishes reads from writes of a Name node.
type NameCtx uint8

const (
	CtxLoad NameCtx = iota
	CtxStore
)

// ParamKind is a function parameter's declaration category.
type ParamKind uint8

const (
	ParamPositionalOnly ParamKind = iota
	ParamPositional
	ParamKeywordOnly
	ParamVarPositional
	ParamVarKeyword
)

// Param is a single function parameter in declaration order.
type Param struct {
	Name string
	Kind ParamKind
	Line int
}

// Positional reports whether the parameter is bindable by position.
func (p Param) Positional() bool {
	return p.Kind == ParamPositionalOnly || p.Kind == ParamPositional
}

// Alias is one imported name with its optional binding alias.
type Alias struct {
	Name   string
	AsName string
}

// Bound returns the name the import binds in the importing scope. A plain
// `import a.b` binds the first segment; `from m import x` binds the whole
// name.
func (a Alias) Bound(plain bool) string {
	if a.AsName != "" {
		return a.AsName
	}
	name := a.Name
	if plain {
		if i := strings.Index(name, "."); i >= 0 {
			name = name[:i]
		}
	}
	return name
}

// Node is one node of the simplified Python parse tree. Fields beyond Kind
// and Line are populated per kind. Targets holds binding positions (assign
// targets, loop variables, with-aliases); Body holds every other nested
// node in source order, so generic traversal needs no per-kind cases.
type Node struct {
	Kind    NodeKind
	Line    int
	EndLine int

	Name    string   // FunctionDef/ClassDef declared name; Name identifier; ExceptHandler bound name
	Ctx     NameCtx  // Name only
	Params  []Param  // FunctionDef only
	Names   []string // Global, Nonlocal declared names
	Aliases []Alias  // Import, ImportFrom
	Module  string   // ImportFrom source module

	Targets []*Node
	Body    []*Node
}

// Children returns every nested node in traversal order: binding targets
// first, then the body.
func (n *Node) Children() []*Node {
	if len(n.Targets) == 0 {
		return n.Body
	}
	children := make([]*Node, 0, len(n.Targets)+len(n.Body))
	children = append(children, n.Targets...)
	return append(children, n.Body...)
}
