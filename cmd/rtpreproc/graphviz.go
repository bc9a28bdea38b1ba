package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/foursquare/rtpreproc/internal/dot"
)

func init() {
	cmd := &cobra.Command{
		Use:     "graphviz <file>",
		Short:   "Emit a Graphviz DOT graph of a C file's concrete syntax tree",
		Example: `  rtpreproc graphviz orig.c | dot -Tsvg -o tree.svg`,
		Args:    cobra.ExactArgs(1),
		RunE:    runGraphviz,
	}
	rootCmd.AddCommand(cmd)
}

func runGraphviz(cmd *cobra.Command, args []string) error {
	root, err := readAndParse(args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(os.Stdout, dot.Render(root))
	return nil
}
