package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"typeref"
	"typeref/internal/logging"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <specifier>",
	Short: "Resolve a single module specifier to its type declaration",
	Long: `Runs one specifier through the unified resolution strategy list
(conditional exports first, explicit type roots second) under the root
project's configuration and prints the resolved path.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runResolve(cmd, args[0]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	resolveCmd.Flags().String("project", ".", "Root project configuration path")
	resolveCmd.Flags().String("from", "", "Containing file the lookup originates from")
	resolveCmd.Flags().StringSlice("conditions", nil, "Override condition priority (e.g. types,require)")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, specifier string) error {
	project, _ := cmd.Flags().GetString("project")
	from, _ := cmd.Flags().GetString("from")
	conditions, _ := cmd.Flags().GetStringSlice("conditions")

	eng, err := newResolveEngine(cmd, project, conditions)
	if err != nil {
		return err
	}

	result, err := eng.Resolve(context.Background(), specifier, from)
	printTrace(eng)
	if err != nil {
		return err
	}

	if result.Condition != "" {
		fmt.Printf("%s (%s, condition %q)\n", result.Path, result.Strategy, result.Condition)
	} else {
		fmt.Printf("%s (%s)\n", result.Path, result.Strategy)
	}
	return nil
}

func newResolveEngine(cmd *cobra.Command, project string, conditions []string) (*typeref.Engine, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	traceOn, _ := cmd.Flags().GetBool("trace")

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := []typeref.Option{typeref.WithLogger(logging.New(level))}
	if traceOn {
		opts = append(opts, typeref.WithTrace())
	}
	if len(conditions) > 0 {
		opts = append(opts, typeref.WithConditions(conditions))
	}
	return typeref.New(project, opts...)
}
