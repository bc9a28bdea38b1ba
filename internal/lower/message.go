package lower

import (
	"github.com/foursquare/rtpreproc/internal/cst"
	"github.com/foursquare/rtpreproc/internal/symbols"
)

// MoveUpMsg is the per-node message returned by every visit (§4.2.1):
// an optional replacement for the visited node, a list of nodes to lift
// out of any enclosing conditional scope, and the set of identifiers the
// subtree reads. Grounded on data.py's MoveUpMsg, with the defensive
// copy-of-mutable-defaults behavior replaced by Go's ordinary value
// semantics for slices built fresh per call.
type MoveUpMsg struct {
	Replacement *cst.Node
	MoveUps     []*cst.Node
	IdentUses   *symbols.IdentSet
}

// Empty returns a message with no replacement, no move-ups, and an empty
// ident set — the default for nodes the pass has no special handling for.
func Empty() MoveUpMsg {
	return MoveUpMsg{IdentUses: symbols.NewIdentSet()}
}

// WithReplacement returns a copy of m with Replacement set.
func (m MoveUpMsg) WithReplacement(n *cst.Node) MoveUpMsg {
	m.Replacement = n
	return m
}
