// Package printer implements the pretty printer (§4.3): an in-order walk
// that emits leaf text verbatim. Grounded on the Python original's
// print.py, which is itself a trivial universal leaf-concatenation walker
// with no per-kind logic.
package printer

import (
	"strings"

	"github.com/foursquare/rtpreproc/internal/cst"
)

// Print renders a CST subtree back to C source text.
func Print(n *cst.Node) string {
	var b strings.Builder
	write(&b, n)
	return b.String()
}

func write(b *strings.Builder, n *cst.Node) {
	if n == nil {
		return
	}
	if n.IsLeaf() {
		b.WriteString(n.Text)
		return
	}
	for _, c := range n.Children {
		write(b, c)
	}
}
