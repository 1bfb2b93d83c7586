package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"typeref"
	"typeref/internal/logging"
	"typeref/pkg/domain"
)

var buildCmd = &cobra.Command{
	Use:   "build <root-config>",
	Short: "Validate the reference graph and emit a build plan",
	Long: `Loads the project graph rooted at the given configuration, checks
build order, staleness and type resolution, and prints an ordered build
plan. Exits non-zero with the full diagnostic list on failure.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		asJSON, _ := cmd.Flags().GetBool("json")
		if err := runBuild(cmd, args[0], asJSON); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	buildCmd.Flags().Bool("json", false, "Emit the plan or diagnostics as JSON")
	rootCmd.AddCommand(buildCmd)
}

func newEngine(cmd *cobra.Command, rootConfig string) (*typeref.Engine, error) {
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
	return typeref.New(rootConfig, opts...)
}

func runBuild(cmd *cobra.Command, rootConfig string, asJSON bool) error {
	eng, err := newEngine(cmd, rootConfig)
	if err != nil {
		return err
	}

	plan, diags, err := eng.Validate(context.Background())
	printTrace(eng)
	if err != nil {
		return err
	}

	if len(diags) > 0 {
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(diags); err != nil {
				return err
			}
		} else {
			printDiagnostics(diags)
		}
		return fmt.Errorf("validation failed with %d diagnostic(s)", len(diags))
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	}
	printPlan(plan)
	return nil
}

func printTrace(eng *typeref.Engine) {
	for _, line := range eng.TraceLines() {
		fmt.Fprintln(os.Stderr, line)
	}
}

func printDiagnostics(diags []domain.Diagnostic) {
	out := termenv.NewOutput(os.Stdout)
	for _, d := range diags {
		fmt.Println(out.String(d.String()).Foreground(out.Color("1")))
	}
}

func printPlan(plan *domain.BuildPlan) {
	out := termenv.NewOutput(os.Stdout)
	for _, step := range plan.Steps {
		color := "2" // green: skip
		if step.Action == domain.ActionRebuild {
			color = "3" // yellow: rebuild
		}
		line := fmt.Sprintf("%-8s %-8s %s", step.Action, step.State, step.ConfigPath)
		fmt.Println(out.String(line).Foreground(out.Color(color)))
	}
}
