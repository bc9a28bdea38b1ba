package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rtpreproc",
	Short: "Rewrite compile-time C preprocessor variability into runtime variability",
	Long: `rtpreproc converts #ifdef/#define macro variability in a C translation
unit into runtime variability driven by environment variables, so a program
that previously needed recompilation to select a feature can instead be
compiled once and configured at startup.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		return err
	}
	return nil
}
