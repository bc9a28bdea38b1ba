package printer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/foursquare/rtpreproc/internal/cst"
	"github.com/foursquare/rtpreproc/internal/printer"
)

func TestPrintLeafConcatenation(t *testing.T) {
	root := &cst.Node{
		Kind: cst.KindTranslationUnit,
		Children: []*cst.Node{
			cst.Leaf(cst.KindIdentifier, "int"),
			cst.Whitespace(" "),
			cst.Leaf(cst.KindIdentifier, "x"),
			cst.Custom(";"),
		},
	}
	require.Equal(t, "int x;", printer.Print(root))
}

func TestPrintNilNode(t *testing.T) {
	require.Equal(t, "", printer.Print(nil))
}
