package python

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Parser converts Python source into the simplified tagged parse tree. A
// Parser is stateless; each Parse call creates its own tree-sitter parser.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse parses src and returns the module root node.
func (p *Parser) Parse(ctx context.Context, src []byte) (*Node, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse python source: %w", err)
	}
	root := tree.RootNode()
	module := &Node{Kind: KindModule, Line: 1, EndLine: endLine(root)}
	module.Body = convertChildren(root, src)
	return module, nil
}

func line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

func endLine(n *sitter.Node) int {
	return int(n.EndPoint().Row) + 1
}

func convertChildren(n *sitter.Node, src []byte) []*Node {
	var out []*Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, convert(n.NamedChild(i), src)...)
	}
	return out
}

// convert maps one CST node to zero or more tree nodes. Constructs outside
// the closed kind set splice their children through, so statements such as
// if/while/return need no cases of their own.
func convert(n *sitter.Node, src []byte) []*Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "comment":
		return nil
	case "function_definition":
		return []*Node{convertFunction(n, src, nil)}
	case "class_definition":
		return []*Node{convertClass(n, src, nil)}
	case "decorated_definition":
		return convertDecorated(n, src)
	case "assignment":
		return convertAssignment(n, src)
	case "augmented_assignment":
		// x += y both reads and writes x; neither side declares a symbol
		body := append(convert(n.ChildByFieldName("left"), src), convert(n.ChildByFieldName("right"), src)...)
		return body
	case "for_statement":
		return []*Node{convertFor(n, src)}
	case "with_statement":
		return []*Node{convertWith(n, src)}
	case "import_statement":
		return []*Node{convertImport(n, src)}
	case "import_from_statement":
		return []*Node{convertImportFrom(n, src)}
	case "global_statement":
		return []*Node{convertScopeDecl(n, src, KindGlobal)}
	case "nonlocal_statement":
		return []*Node{convertScopeDecl(n, src, KindNonlocal)}
	case "try_statement":
		return convertTry(n, src)
	case "identifier":
		return []*Node{nameNode(n, src, CtxLoad)}
	case "attribute":
		// only the object side is a lexical reference; attribute names
		// resolve at runtime
		return convert(n.ChildByFieldName("object"), src)
	case "keyword_argument":
		return convert(n.ChildByFieldName("value"), src)
	case "lambda":
		// lambda parameters shadow outer names but introduce no tracked
		// scope; only the body is walked
		return convert(n.ChildByFieldName("body"), src)
	default:
		return convertChildren(n, src)
	}
}

func content(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return n.Content(src)
}

func nameNode(n *sitter.Node, src []byte, ctx NameCtx) *Node {
	return &Node{Kind: KindName, Line: line(n), Name: content(n, src), Ctx: ctx}
}

// convertTarget converts a binding position: identifiers become store-context
// names, tuple/list patterns recurse, and anything else (attribute or
// subscript targets) declares nothing and contributes only its reads.
func convertTarget(n *sitter.Node, src []byte) *Node {
	switch n.Type() {
	case "identifier":
		return nameNode(n, src, CtxStore)
	case "pattern_list", "tuple_pattern":
		target := &Node{Kind: KindTuple, Line: line(n)}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if element := convertTarget(n.NamedChild(i), src); element != nil {
				target.Targets = append(target.Targets, element)
			}
		}
		return target
	case "list_pattern":
		target := &Node{Kind: KindList, Line: line(n)}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if element := convertTarget(n.NamedChild(i), src); element != nil {
				target.Targets = append(target.Targets, element)
			}
		}
		return target
	case "list_splat_pattern":
		if n.NamedChildCount() > 0 {
			return convertTarget(n.NamedChild(0), src)
		}
		return nil
	case "parenthesized_expression":
		if n.NamedChildCount() == 1 {
			return convertTarget(n.NamedChild(0), src)
		}
		return nil
	default:
		reads := convert(n, src)
		if len(reads) == 0 {
			return nil
		}
		return &Node{Kind: KindBlock, Line: line(n), Body: reads}
	}
}

func convertAssignment(n *sitter.Node, src []byte) []*Node {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if annotation := n.ChildByFieldName("type"); annotation != nil {
		// annotated assignment declares nothing; annotation and value are
		// plain reads
		return append(convert(annotation, src), convert(right, src)...)
	}
	node := &Node{Kind: KindAssign, Line: line(n)}
	for left != nil {
		if target := convertTarget(left, src); target != nil {
			node.Targets = append(node.Targets, target)
		}
		// a chained a = b = value parses as nested assignments
		if right != nil && right.Type() == "assignment" {
			left = right.ChildByFieldName("left")
			right = right.ChildByFieldName("right")
			continue
		}
		break
	}
	node.Body = convert(right, src)
	return []*Node{node}
}

func convertFunction(n *sitter.Node, src []byte, decorators []*Node) *Node {
	node := &Node{Kind: KindFunctionDef, Line: line(n), EndLine: endLine(n)}
	node.Name = content(n.ChildByFieldName("name"), src)
	params, extras := convertParams(n.ChildByFieldName("parameters"), src)
	node.Params = params
	node.Body = append(node.Body, decorators...)
	node.Body = append(node.Body, extras...)
	if annotation := n.ChildByFieldName("return_type"); annotation != nil {
		node.Body = append(node.Body, convert(annotation, src)...)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		node.Body = append(node.Body, convertChildren(body, src)...)
	}
	return node
}

// convertParams collects declared parameters in order, tracking the
// positional-only and keyword-only separators. Default values and
// annotations are returned separately as plain reads.
func convertParams(params *sitter.Node, src []byte) ([]Param, []*Node) {
	if params == nil {
		return nil, nil
	}
	var (
		out      []Param
		extras   []*Node
		seenStar bool
	)
	plainKind := func() ParamKind {
		if seenStar {
			return ParamKeywordOnly
		}
		return ParamPositional
	}
	addIdent := func(ident *sitter.Node, kind ParamKind) {
		if ident != nil && ident.Type() == "identifier" {
			out = append(out, Param{Name: content(ident, src), Kind: kind, Line: line(ident)})
		}
	}
	for i := 0; i < int(params.ChildCount()); i++ {
		child := params.Child(i)
		switch child.Type() {
		case "identifier":
			addIdent(child, plainKind())
		case "default_parameter":
			addIdent(child.ChildByFieldName("name"), plainKind())
			extras = append(extras, convert(child.ChildByFieldName("value"), src)...)
		case "typed_parameter":
			inner := child.NamedChild(0)
			switch inner.Type() {
			case "list_splat_pattern":
				addIdent(inner.NamedChild(0), ParamVarPositional)
				seenStar = true
			case "dictionary_splat_pattern":
				addIdent(inner.NamedChild(0), ParamVarKeyword)
			default:
				addIdent(inner, plainKind())
			}
			extras = append(extras, convert(child.ChildByFieldName("type"), src)...)
		case "typed_default_parameter":
			addIdent(child.ChildByFieldName("name"), plainKind())
			extras = append(extras, convert(child.ChildByFieldName("type"), src)...)
			extras = append(extras, convert(child.ChildByFieldName("value"), src)...)
		case "list_splat_pattern":
			addIdent(child.NamedChild(0), ParamVarPositional)
			seenStar = true
		case "dictionary_splat_pattern":
			addIdent(child.NamedChild(0), ParamVarKeyword)
		case "keyword_separator", "*":
			seenStar = true
		case "positional_separator", "/":
			for j := range out {
				out[j].Kind = ParamPositionalOnly
			}
		}
	}
	return out, extras
}

func convertClass(n *sitter.Node, src []byte, decorators []*Node) *Node {
	node := &Node{Kind: KindClassDef, Line: line(n), EndLine: endLine(n)}
	node.Name = content(n.ChildByFieldName("name"), src)
	node.Body = append(node.Body, decorators...)
	if superclasses := n.ChildByFieldName("superclasses"); superclasses != nil {
		node.Body = append(node.Body, convertChildren(superclasses, src)...)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		node.Body = append(node.Body, convertChildren(body, src)...)
	}
	return node
}

func convertDecorated(n *sitter.Node, src []byte) []*Node {
	var decorators []*Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "decorator" {
			decorators = append(decorators, convertChildren(child, src)...)
		}
	}
	definition := n.ChildByFieldName("definition")
	if definition == nil {
		return decorators
	}
	switch definition.Type() {
	case "function_definition":
		return []*Node{convertFunction(definition, src, decorators)}
	case "class_definition":
		return []*Node{convertClass(definition, src, decorators)}
	}
	return append(decorators, convert(definition, src)...)
}

func convertFor(n *sitter.Node, src []byte) *Node {
	node := &Node{Kind: KindFor, Line: line(n)}
	if left := n.ChildByFieldName("left"); left != nil {
		if target := convertTarget(left, src); target != nil {
			node.Targets = append(node.Targets, target)
		}
	}
	node.Body = append(node.Body, convert(n.ChildByFieldName("right"), src)...)
	if body := n.ChildByFieldName("body"); body != nil {
		node.Body = append(node.Body, convertChildren(body, src)...)
	}
	if alternative := n.ChildByFieldName("alternative"); alternative != nil {
		node.Body = append(node.Body, convert(alternative, src)...)
	}
	return node
}

func convertWith(n *sitter.Node, src []byte) *Node {
	node := &Node{Kind: KindWith, Line: line(n)}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() != "with_clause" {
			continue
		}
		for j := 0; j < int(child.NamedChildCount()); j++ {
			item := child.NamedChild(j)
			if item.Type() != "with_item" {
				continue
			}
			value := item.ChildByFieldName("value")
			if value == nil && item.NamedChildCount() > 0 {
				value = item.NamedChild(0)
			}
			if value != nil && value.Type() == "as_pattern" {
				node.Body = append(node.Body, convert(value.NamedChild(0), src)...)
				if alias := asPatternTarget(value, src); alias != nil {
					node.Targets = append(node.Targets, alias)
				}
				continue
			}
			node.Body = append(node.Body, convert(value, src)...)
		}
	}
	if body := n.ChildByFieldName("body"); body != nil {
		node.Body = append(node.Body, convertChildren(body, src)...)
	}
	return node
}

// asPatternTarget extracts the bound target of `expr as target`.
func asPatternTarget(n *sitter.Node, src []byte) *Node {
	alias := n.ChildByFieldName("alias")
	if alias == nil {
		return nil
	}
	if alias.Type() == "as_pattern_target" && alias.NamedChildCount() > 0 {
		return convertTarget(alias.NamedChild(0), src)
	}
	return convertTarget(alias, src)
}

func convertImport(n *sitter.Node, src []byte) *Node {
	node := &Node{Kind: KindImport, Line: line(n)}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "dotted_name":
			node.Aliases = append(node.Aliases, Alias{Name: content(child, src)})
		case "aliased_import":
			node.Aliases = append(node.Aliases, Alias{
				Name:   content(child.ChildByFieldName("name"), src),
				AsName: content(child.ChildByFieldName("alias"), src),
			})
		}
	}
	return node
}

func convertImportFrom(n *sitter.Node, src []byte) *Node {
	node := &Node{Kind: KindImportFrom, Line: line(n)}
	moduleName := n.ChildByFieldName("module_name")
	node.Module = content(moduleName, src)
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if moduleName != nil && child.Equal(moduleName) {
			continue
		}
		switch child.Type() {
		case "dotted_name":
			node.Aliases = append(node.Aliases, Alias{Name: content(child, src)})
		case "aliased_import":
			node.Aliases = append(node.Aliases, Alias{
				Name:   content(child.ChildByFieldName("name"), src),
				AsName: content(child.ChildByFieldName("alias"), src),
			})
		case "wildcard_import":
			node.Aliases = append(node.Aliases, Alias{Name: "*"})
		}
	}
	return node
}

func convertScopeDecl(n *sitter.Node, src []byte, kind NodeKind) *Node {
	node := &Node{Kind: kind, Line: line(n)}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "identifier" {
			node.Names = append(node.Names, content(child, src))
		}
	}
	return node
}

func convertTry(n *sitter.Node, src []byte) []*Node {
	var out []*Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "block":
			out = append(out, convertChildren(child, src)...)
		case "except_clause", "except_group_clause":
			out = append(out, convertExcept(child, src))
		default:
			out = append(out, convert(child, src)...)
		}
	}
	return out
}

func convertExcept(n *sitter.Node, src []byte) *Node {
	handler := &Node{Kind: KindExceptHandler, Line: line(n)}
	expectName := false
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if !child.IsNamed() {
			if child.Type() == "as" {
				expectName = true
			}
			continue
		}
		switch {
		case child.Type() == "block":
			handler.Body = append(handler.Body, convertChildren(child, src)...)
		case child.Type() == "as_pattern":
			handler.Body = append(handler.Body, convert(child.NamedChild(0), src)...)
			if alias := asPatternTarget(child, src); alias != nil && alias.Kind == KindName {
				handler.Name = alias.Name
			}
		case expectName && child.Type() == "identifier":
			handler.Name = content(child, src)
			expectName = false
		default:
			handler.Body = append(handler.Body, convert(child, src)...)
		}
	}
	return handler
}
