package cst

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// fieldsByKind enumerates the grammatical field names the lowering pass reads via
// Node.Field, per grammar rule. Grounded on the C tree-sitter grammar's
// node-types.json; only fields the pass actually consults are probed, the
// rest fall back to positional/kind-based lookups the same way the
// Python original's field_names lists were themselves partial.
var fieldsByKind = map[Kind][]string{
	KindPreprocIfdef:       {"name", "condition"},
	KindPreprocDef:         {"name", "value"},
	KindPreprocFunctionDef: {"name", "parameters", "value"},
	KindDeclaration:        {"type", "declarator"},
	KindInitDeclarator:     {"declarator", "value"},
	KindFunctionDefinition: {"type", "declarator", "body"},
	KindFunctionDeclarator: {"declarator", "parameters"},
	KindIfStatement:        {"condition", "consequence", "alternative"},
	KindCallExpression:     {"function", "arguments"},
	KindAssignmentExpr:     {"left", "right"},
}

// Build converts a tree-sitter parse tree into the engine's CST, inserting
// whitespace tokens between siblings whose source ranges are separated by a
// gap. This is the Go analogue of AstNode.reify in the Python original.
func Build(root *sitter.Node, source []byte) *Node {
	return build(root, source)
}

func build(n *sitter.Node, source []byte) *Node {
	if n == nil {
		return nil
	}
	kind := Kind(n.Type())
	childCount := int(n.ChildCount())

	if childCount == 0 {
		return &Node{Kind: kind, Text: n.Content(source), Base: n}
	}

	out := &Node{Kind: kind, Base: n}
	namedChildSet := make(map[*sitter.Node]int, int(n.NamedChildCount()))
	for i := 0; i < int(n.NamedChildCount()); i++ {
		namedChildSet[n.NamedChild(i)] = i
	}

	prevEnd := n.StartPoint()
	for i := 0; i < childCount; i++ {
		child := n.Child(i)
		start := child.StartPoint()
		if gap := whitespaceBetween(prevEnd, start); gap != "" {
			out.Children = append(out.Children, Whitespace(gap))
			out.NamedIdx = append(out.NamedIdx, -1)
		}

		built := build(child, source)
		namedIdx := -1
		if idx, ok := namedChildSet[child]; ok {
			namedIdx = idx
		}
		out.Children = append(out.Children, built)
		out.NamedIdx = append(out.NamedIdx, namedIdx)

		for _, field := range fieldsByKind[kind] {
			if n.ChildByFieldName(field) == child {
				out.SetField(field, built)
			}
		}

		prevEnd = child.EndPoint()
	}

	if gap := whitespaceBetween(prevEnd, n.EndPoint()); gap != "" {
		out.Children = append(out.Children, Whitespace(gap))
		out.NamedIdx = append(out.NamedIdx, -1)
	}

	return out
}

// whitespaceBetween renders the gap between two source points as literal
// whitespace: one newline per row gap, then spaces for the remaining column
// gap, matching the original's row-then-column insertion order.
func whitespaceBetween(from, to sitter.Point) string {
	if to.Row == from.Row && to.Column <= from.Column {
		return ""
	}
	if to.Row > from.Row {
		s := make([]byte, 0, int(to.Row-from.Row)+int(to.Column))
		for i := uint32(0); i < to.Row-from.Row; i++ {
			s = append(s, '\n')
		}
		for i := uint32(0); i < to.Column; i++ {
			s = append(s, ' ')
		}
		return string(s)
	}
	gap := to.Column - from.Column
	if gap == 0 {
		return ""
	}
	s := make([]byte, gap)
	for i := range s {
		s[i] = ' '
	}
	return string(s)
}
