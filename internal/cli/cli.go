// Package cli wires the callviz subcommands: one per way of invoking the
// visualization pipeline, plus render for re-running the layout stage.
package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"callviz/internal/callgraph"
	"callviz/internal/execx"
	"callviz/internal/pipeline"
	"callviz/internal/ui"
)

// newRunner builds the stage runner for one invocation. Swapped in tests to
// record invocations instead of starting processes.
var newRunner = func(o pipeline.Options, st *ui.Status, out, errOut io.Writer) execx.Runner {
	sys := execx.NewSystem(out, errOut)
	sys.Builtin = func() error {
		st.Step("cleaning %s -> %s", o.GraphPath, o.DotPath())
		return callgraph.Clean(o.GraphPath, o.DotPath(), o.ScoresPath, o.NodeCoveragePath, o.EdgeCoveragePath)
	}
	return sys
}

// Execute parses args, runs the selected pipeline and returns the error of
// the first failing stage, if any.
func Execute(args []string) error {
	root := newRoot()
	root.SetArgs(args)
	return root.Execute()
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "callviz",
		Short:         "Clean Java call graphs and open them as clustered SVG visualizations",
		SilenceErrors: true,
	}
	root.AddCommand(
		newViewCmd(),
		newScoredCmd(),
		newRankCmd(),
		newExportCmd(),
		newCoverageCmd(),
		newRenderCmd(),
	)
	return root
}

func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view <graph>",
		Short: "Clean a call graph and open it under the default base name",
		Args:  mandatoryArgs(1, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			o := pipeline.Options{
				GraphPath: args[0],
				Forward:   []string{args[0]},
			}
			return run(cmd, o)
		},
	}
}

func newScoredCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scored <graph> [scores]",
		Short: "Clean a call graph, annotating nodes with ranking scores when given",
		Args:  mandatoryArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			o := pipeline.Options{
				GraphPath:  args[0],
				ScoresPath: optional(args, 1),
				Forward:    []string{args[0], optional(args, 1)},
			}
			return run(cmd, o)
		},
	}
}

func newRankCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rank <graph> <scores>",
		Short: "Clean a call graph with mandatory ranking scores",
		Args:  mandatoryArgs(2, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			o := pipeline.Options{
				GraphPath:  args[0],
				ScoresPath: args[1],
				Forward:    []string{args[0], args[1]},
			}
			return run(cmd, o)
		},
	}
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <graph> <out> [scores]",
		Short: "Clean a raw call graph under an explicit output base name",
		Args:  mandatoryArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			o := pipeline.Options{
				GraphPath:  args[0],
				OutName:    args[1],
				ScoresPath: optional(args, 2),
				Forward:    []string{args[0], args[1], optional(args, 2)},
			}
			return run(cmd, o)
		},
	}
}

func newCoverageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "coverage <graph> <out> <node-coverage> <edge-coverage> [scores]",
		Short: "Clean a raw call graph with node and edge coverage overlays",
		Args:  mandatoryArgs(4, 5),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			o := pipeline.Options{
				GraphPath:        args[0],
				OutName:          args[1],
				NodeCoveragePath: args[2],
				EdgeCoveragePath: args[3],
				ScoresPath:       optional(args, 4),
				Forward:          []string{args[0], args[1], args[2], args[3], optional(args, 4)},
			}
			return run(cmd, o)
		},
	}
}

func newRenderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render [base]",
		Short: "Re-render an existing out/<base>.dot and open it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			base := optional(args, 0)
			if base == "" {
				var err error
				if base, err = pickBase(); err != nil {
					return err
				}
			}
			o := pipeline.Options{OutName: base}
			st := ui.NewStatus(cmd.OutOrStdout())
			return pipeline.Render(o, newRunner(o, st, cmd.OutOrStdout(), cmd.ErrOrStderr()), st)
		},
	}
}

func run(cmd *cobra.Command, o pipeline.Options) error {
	st := ui.NewStatus(cmd.OutOrStdout())
	return pipeline.Run(o, newRunner(o, st, cmd.OutOrStdout(), cmd.ErrOrStderr()), st)
}

// mandatoryArgs accepts between required and max positional arguments and
// rejects empty strings in the mandatory positions.
func mandatoryArgs(required, max int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.RangeArgs(required, max)(cmd, args); err != nil {
			return err
		}
		for i := 0; i < required; i++ {
			if strings.TrimSpace(args[i]) == "" {
				return fmt.Errorf("argument %d must not be empty", i+1)
			}
		}
		return nil
	}
}

func optional(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// pickBase prompts for one of the already-rendered graphs under out/. Without
// a terminal there is nothing to prompt on, so the base stays mandatory.
func pickBase() (string, error) {
	if !ui.StdinIsTTY() {
		return "", fmt.Errorf("render: base name required")
	}
	matches, err := filepath.Glob(filepath.Join("out", "*.dot"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("render: no graphs under out/")
	}
	bases := make([]string, 0, len(matches))
	for _, m := range matches {
		bases = append(bases, strings.TrimSuffix(filepath.Base(m), ".dot"))
	}
	return ui.PromptBase(bases)
}
