package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/foursquare/rtpreproc/internal/printer"
)

func init() {
	cmd := &cobra.Command{
		Use:     "print <file>",
		Short:   "Parse and reprint a C file unchanged (sanity check for the CST builder)",
		Example: `  rtpreproc print orig.c`,
		Args:    cobra.ExactArgs(1),
		RunE:    runPrint,
	}
	rootCmd.AddCommand(cmd)
}

func runPrint(cmd *cobra.Command, args []string) error {
	root, err := readAndParse(args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(os.Stdout, printer.Print(root))
	return nil
}
