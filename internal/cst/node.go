// Package cst defines the concrete syntax tree model the lowering pass
// operates over: a tagged union of node kinds mirroring the C tree-sitter
// grammar, plus synthetic kinds produced by the engine itself.
package cst

import sitter "github.com/smacker/go-tree-sitter"

// Kind tags a Node the way the Python original's type_name_to_class dict
// maps tree-sitter grammar rule names onto AstNode subclasses.
type Kind string

const (
	KindTranslationUnit Kind = "translation_unit"

	KindPreprocIfdef       Kind = "preproc_ifdef"
	KindPreprocElse        Kind = "preproc_else"
	KindPreprocElif        Kind = "preproc_elif"
	KindPreprocElifdef     Kind = "preproc_elifdef"
	KindPreprocDef         Kind = "preproc_def"
	KindPreprocFunctionDef Kind = "preproc_function_def"
	KindPreprocParams      Kind = "preproc_params"
	KindPreprocInclude     Kind = "preproc_include"
	KindPreprocDefined     Kind = "preproc_defined"

	KindDeclaration         Kind = "declaration"
	KindInitDeclarator      Kind = "init_declarator"
	KindFunctionDefinition  Kind = "function_definition"
	KindFunctionDeclarator  Kind = "function_declarator"
	KindCompoundStatement   Kind = "compound_statement"
	KindExpressionStatement Kind = "expression_statement"
	KindIfStatement         Kind = "if_statement"
	KindCallExpression      Kind = "call_expression"
	KindAssignmentExpr      Kind = "assignment_expression"
	KindIdentifier          Kind = "identifier"
	KindNumberLiteral       Kind = "number_literal"

	// Synthetic kinds, never produced by a parser.
	KindUnnamed    Kind = "$unnamed"
	KindWhitespace Kind = "$whitespace"
	KindCustom     Kind = "$custom"

	// Marker kinds: transient holders for hoisted declarations/defines that
	// have not yet settled into a non-conditional scope (§4.2.3, §4.2.4).
	KindVariableDeclarationMarker Kind = "$marker_variable_declaration"
	KindPreprocDefinitionMarker   Kind = "$marker_preproc_definition"
)

// Node is one tagged-variant CST node. Children are stored in source order;
// NamedIdx holds, per child, the zero-based named-sibling index used for
// grammatical field lookups, or -1 if the child is anonymous/whitespace.
type Node struct {
	Kind     Kind
	Children []*Node
	NamedIdx []int
	Text     string // set iff len(Children) == 0
	Base     *sitter.Node

	// Field names present on this node, keyed the same way tree-sitter
	// field lookups are: "condition", "body", "alternative", etc. Populated
	// by the tree builder from Base.ChildByFieldName probing, and by
	// lowering when it constructs synthetic nodes.
	fields map[string]*Node

	// Marker payloads; non-nil only on the corresponding marker Kind.
	VarMarker *VariableDeclarationMarker
	DefMarker *PreprocDefinitionMarker
}

// IsLeaf reports whether the node carries raw text instead of children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Field returns the named child for a grammatical field such as
// "condition" or "body", or nil if absent.
func (n *Node) Field(name string) *Node {
	if n.fields == nil {
		return nil
	}
	return n.fields[name]
}

// SetField records a grammatical field binding; used by the tree builder
// and by lowering when synthesizing replacement nodes.
func (n *Node) SetField(name string, child *Node) {
	if n.fields == nil {
		n.fields = make(map[string]*Node)
	}
	n.fields[name] = child
}

// NamedChildren returns children in source order, skipping anonymous and
// whitespace tokens.
func (n *Node) NamedChildren() []*Node {
	out := make([]*Node, 0, len(n.Children))
	for i, c := range n.Children {
		if n.NamedIdx[i] >= 0 {
			out = append(out, c)
		}
	}
	return out
}

// Leaf builds a synthetic leaf node (used for whitespace, raw text escape
// hatches, and freshly-synthesized identifiers/literals).
func Leaf(kind Kind, text string) *Node {
	return &Node{Kind: kind, Text: text}
}

// Whitespace builds a synthetic whitespace token.
func Whitespace(text string) *Node {
	return Leaf(KindWhitespace, text)
}

// Custom wraps a raw text blob that the printer should emit verbatim; used
// for synthesized C statements assembled from string templates (the
// prelude, assert guards, if-chains) rather than fully modeled subtrees.
func Custom(text string) *Node {
	return Leaf(KindCustom, text)
}

// IsBlank reports whether the subtree contains only whitespace/nothing,
// mirroring the Python original's "BODY is empty or all-whitespace" check
// in the ifdef rewriter (§4.2.2 step 3).
func (n *Node) IsBlank() bool {
	if n == nil {
		return true
	}
	if n.IsLeaf() {
		return n.Kind == KindWhitespace || n.Text == ""
	}
	for _, c := range n.Children {
		if !c.IsBlank() {
			return false
		}
	}
	return true
}

// DeepCopy clones a subtree, preserving field bindings. Base links are
// shared (read-only source position data), never duplicated.
func (n *Node) DeepCopy() *Node {
	if n == nil {
		return nil
	}
	cp := &Node{
		Kind: n.Kind,
		Text: n.Text,
		Base: n.Base,
	}
	if len(n.Children) > 0 {
		cp.Children = make([]*Node, len(n.Children))
		cp.NamedIdx = make([]int, len(n.NamedIdx))
		copy(cp.NamedIdx, n.NamedIdx)
		childByOrig := make(map[*Node]*Node, len(n.Children))
		for i, c := range n.Children {
			nc := c.DeepCopy()
			cp.Children[i] = nc
			childByOrig[c] = nc
		}
		if n.fields != nil {
			cp.fields = make(map[string]*Node, len(n.fields))
			for name, f := range n.fields {
				if nf, ok := childByOrig[f]; ok {
					cp.fields[name] = nf
				}
			}
		}
	}
	return cp
}

// ReplaceIdent substitutes every leaf identifier named ident with
// replacement, in place, mirroring AstNode.replace_ident in the Python
// original.
func (n *Node) ReplaceIdent(ident, replacement string) {
	if n == nil {
		return
	}
	if n.Kind == KindIdentifier && n.IsLeaf() && n.Text == ident {
		n.Text = replacement
		return
	}
	for _, c := range n.Children {
		c.ReplaceIdent(ident, replacement)
	}
}

// VariableDeclarationMarker holds a hoisted variable descriptor awaiting
// materialization into a real declaration at its settled scope (§4.2.3).
type VariableDeclarationMarker struct {
	Name string
	Type string
}

// PreprocDefinitionMarker holds a hoisted #define awaiting materialization
// at its settled scope (§4.2.4).
type PreprocDefinitionMarker struct {
	Text string // fully rendered "#define NAME VALUE" (or function-like form)
}
