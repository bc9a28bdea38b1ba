// Package csource wraps the tree-sitter C grammar as the parser
// collaborator named in the external interfaces (§6): it is the only
// package that loads the C grammar and configures a sitter parser;
// internal/cst imports sitter only to read the resulting *sitter.Node tree.
package csource

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"go.uber.org/multierr"

	"github.com/foursquare/rtpreproc/internal/cst"
)

// CLang is the process-wide grammar descriptor; stateless and safe to
// share, unlike the per-rewrite symbol tables (§9 EXPANDED).
var CLang = c.GetLanguage()

// ParseError describes one tree-sitter ERROR node, with source context for
// diagnostics, grounded on scala/parser.go's queryErrors.
type ParseError struct {
	Row, Column int
	Line        string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Row+1, e.Column+1, e.Line)
}

// Parser parses C source into the engine's CST.
type Parser struct {
	parser *sitter.Parser
}

// NewParser configures a tree-sitter parser for the C grammar.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(CLang)
	return &Parser{parser: p}
}

// Parse produces the CST for sourceCode, or a combined error if the parse
// contains ERROR nodes. Accepts a context the way scala/parser.go's
// ParseCtx does, even though this pass itself never cancels (§5 EXPANDED).
func (p *Parser) Parse(ctx context.Context, filePath string, sourceCode []byte) (*cst.Node, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, sourceCode)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filePath, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if errs := p.queryErrors(root, sourceCode); errs != nil {
		return nil, fmt.Errorf("parsing %s: %w", filePath, errs)
	}

	return cst.Build(root, sourceCode), nil
}

var errorQuery = mustErrorQuery()

func mustErrorQuery() *sitter.Query {
	q, err := sitter.NewQuery([]byte(`(ERROR) @error`), CLang)
	if err != nil {
		panic(fmt.Sprintf("compiling built-in ERROR query: %s", err))
	}
	return q
}

// queryErrors walks every ERROR node reachable from root, accumulating one
// ParseError per occurrence via multierr rather than failing on the first.
func (p *Parser) queryErrors(root *sitter.Node, sourceCode []byte) error {
	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(errorQuery, root)

	var combined error
	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, capture := range match.Captures {
			at := capture.Node
			start := at.StartPoint()
			lines := strings.Split(string(sourceCode), "\n")
			line := ""
			if int(start.Row) < len(lines) {
				line = lines[start.Row]
			}
			combined = multierr.Append(combined, &ParseError{
				Row:    int(start.Row),
				Column: int(start.Column),
				Line:   line,
			})
		}
	}
	return combined
}
