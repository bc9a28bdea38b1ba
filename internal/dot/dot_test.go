package dot_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/foursquare/rtpreproc/internal/cst"
	"github.com/foursquare/rtpreproc/internal/dot"
)

func TestRenderLeafGetsFillColor(t *testing.T) {
	root := &cst.Node{
		Kind:     cst.KindTranslationUnit,
		Children: []*cst.Node{cst.Leaf(cst.KindIdentifier, "x")},
	}
	out := dot.Render(root)
	require.Contains(t, out, "digraph cst")
	require.Contains(t, out, "fillcolor=lightyellow")
	require.Contains(t, out, `n0 -> n1`)
}
