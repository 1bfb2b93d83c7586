package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "typeref",
	Short: "typeref validates project references and type resolution",
	Long: `typeref loads a project reference graph, resolves type declarations
through conditional package exports with one unified strategy list, and
reports a build plan or every diagnostic found in a single run.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().Bool("trace", false, "Print resolution trace lines to stderr")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
