package lower

import "github.com/foursquare/rtpreproc/internal/cst"

// materialize turns a move-up into the real node(s) it should splice in at
// its settled (non-conditional) scope (§4.2.1 "markers → real nodes").
// Plain nodes (e.g. a lifted function_definition, or a Custom assert
// statement) pass through unchanged — only the two marker kinds from
// §4.2.3/§4.2.4 need materialization.
func (p *Pass) materialize(n *cst.Node) []*cst.Node {
	switch n.Kind {
	case cst.KindVariableDeclarationMarker:
		m := n.VarMarker
		decl := m.Type + " " + m.Name + " = UNDEFINED_" + sentinelType(m.Type) + ";"
		return []*cst.Node{cst.Custom(decl), cst.Whitespace("\n")}
	case cst.KindPreprocDefinitionMarker:
		return []*cst.Node{cst.Custom(n.DefMarker.Text), cst.Whitespace("\n")}
	default:
		return []*cst.Node{n}
	}
}
