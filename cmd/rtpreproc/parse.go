package main

import (
	"context"
	"fmt"
	"os"

	"github.com/foursquare/rtpreproc/internal/cst"
	"github.com/foursquare/rtpreproc/internal/csource"
)

// readAndParse reads filePath and parses it via the tree-sitter C
// collaborator (§6), the shared first step of every subcommand.
func readAndParse(filePath string) (*cst.Node, error) {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filePath, err)
	}

	parser := csource.NewParser()
	root, err := parser.Parse(context.Background(), filePath, source)
	if err != nil {
		return nil, err
	}
	return root, nil
}
