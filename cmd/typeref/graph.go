package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"typeref/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <root-config>",
	Short: "Export the reference graph visualization",
	Long:  `Loads the project reference graph and outputs a Mermaid diagram (graph TD) with staleness styling.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		eng, err := newEngine(cmd, args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		g, err := eng.Graph(context.Background())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Print(graph.GenerateMermaid(g))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
