package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"typeref"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of typeref",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("typeref version %s\n", strings.TrimSpace(typeref.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
