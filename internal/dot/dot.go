// Package dot renders a CST as a Graphviz DOT graph (§6 "graphviz"
// subcommand; supplemented from the original's visitors/graphviz.py, which
// spec.md's distillation only summarizes as "emit a DOT graph of the CST
// to stdout"). No DOT/graphviz library exists anywhere in the retrieval
// pack, so this is hand-rolled text emission against the standard library
// — the one clearly stdlib-justified component of the rewriter (see
// DESIGN.md).
package dot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/foursquare/rtpreproc/internal/cst"
)

// Render walks n and returns a complete DOT document. Each node is
// labeled with its grammar-rule kind; leaf nodes additionally get their
// escaped source text as a tooltip and a distinct fill color, matching the
// original visitor's leaf/non-leaf distinction.
func Render(n *cst.Node) string {
	var b strings.Builder
	b.WriteString("digraph cst {\n  node [shape=box, fontname=\"monospace\"];\n")
	id := 0
	var walk func(*cst.Node) int
	walk = func(node *cst.Node) int {
		myID := id
		id++
		if node.IsLeaf() {
			fmt.Fprintf(&b, "  n%d [label=%s, tooltip=%s, style=filled, fillcolor=lightyellow];\n",
				myID, quote(string(node.Kind)), quote(node.Text))
		} else {
			fmt.Fprintf(&b, "  n%d [label=%s];\n", myID, quote(string(node.Kind)))
		}
		for _, c := range node.Children {
			childID := walk(c)
			fmt.Fprintf(&b, "  n%d -> n%d;\n", myID, childID)
		}
		return myID
	}
	walk(n)
	b.WriteString("}\n")
	return b.String()
}

func quote(s string) string {
	return strconv.Quote(s)
}
