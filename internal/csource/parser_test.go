package csource_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/foursquare/rtpreproc/internal/csource"
)

func TestParseValidSource(t *testing.T) {
	parser := csource.NewParser()
	root, err := parser.Parse(context.Background(), "ok.c", []byte("int main() { return 0; }\n"))
	require.NoError(t, err)
	require.NotNil(t, root)
}

func TestParseReportsErrorNodes(t *testing.T) {
	parser := csource.NewParser()
	_, err := parser.Parse(context.Background(), "bad.c", []byte("int main( { return )\n"))
	require.Error(t, err)
}
