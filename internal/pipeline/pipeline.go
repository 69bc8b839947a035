package pipeline

import (
	"fmt"
	"path/filepath"

	"callviz/internal/execx"
	"callviz/internal/ui"
)

// DefaultBase is the output base name used when the caller does not supply one.
const DefaultBase = "graph_clean_temp"

// Options describe a single pipeline invocation.
type Options struct {
	GraphPath        string
	OutName          string // output base name; empty selects DefaultBase
	ScoresPath       string
	NodeCoveragePath string
	EdgeCoveragePath string

	// Forward is the positional argument vector handed to the processor,
	// exactly as received on the command line. Omitted optional arguments
	// appear as empty strings, never as substituted defaults.
	Forward []string
}

// Base returns the output base name shared by the intermediate and rendered
// artifacts.
func (o Options) Base() string {
	if o.OutName != "" {
		return o.OutName
	}
	return DefaultBase
}

// DotPath is the intermediate graph file written by the processor.
func (o Options) DotPath() string {
	return filepath.Join("out", o.Base()+".dot")
}

// SVGPath is the rendered image written by the layout tool.
func (o Options) SVGPath() string {
	return filepath.Join("out", o.Base()+".svg")
}

// Run drives the process, layout and view stages in order, stopping at the
// first failure. There is no retry and no partial-failure recovery; the error
// of the failing stage propagates to the caller with its exit status intact.
func Run(o Options, r execx.Runner, st *ui.Status) error {
	if err := r.Process(o.Forward); err != nil {
		return fmt.Errorf("process %s: %w", o.GraphPath, err)
	}
	// The processor is trusted to have written DotPath; its absence surfaces
	// as a layout failure.
	return Render(o, r, st)
}

// Render runs the layout and view stages against an existing intermediate
// file for the same base name.
func Render(o Options, r execx.Runner, st *ui.Status) error {
	st.Step("rendering %s", o.SVGPath())
	if err := r.Layout(o.DotPath(), o.SVGPath()); err != nil {
		return fmt.Errorf("render %s: %w", o.DotPath(), err)
	}
	st.Step("opening %s", o.SVGPath())
	if err := r.Open(o.SVGPath()); err != nil {
		return fmt.Errorf("view %s: %w", o.SVGPath(), err)
	}
	return nil
}
