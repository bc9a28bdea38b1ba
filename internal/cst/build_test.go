package cst_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/foursquare/rtpreproc/internal/csource"
	"github.com/foursquare/rtpreproc/internal/printer"
)

func TestBuildRoundTripsLeafText(t *testing.T) {
	src := "int main() {\n  int x = 1;\n  return x;\n}\n"

	parser := csource.NewParser()
	root, err := parser.Parse(context.Background(), "roundtrip.c", []byte(src))
	require.NoError(t, err)

	require.Equal(t, src, printer.Print(root))
}

func TestBuildNamedChildrenExcludeWhitespace(t *testing.T) {
	src := "#define FOO 1\n"

	parser := csource.NewParser()
	root, err := parser.Parse(context.Background(), "define.c", []byte(src))
	require.NoError(t, err)

	require.NotEmpty(t, root.NamedChildren())
	for _, c := range root.NamedChildren() {
		require.NotEqual(t, "$whitespace", string(c.Kind))
	}
}
