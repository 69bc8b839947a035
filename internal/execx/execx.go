package execx

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Runner abstracts the external stages of the pipeline for testability.
type Runner interface {
	// Process runs the processor stage, forwarding args unchanged and in order.
	Process(args []string) error
	// Layout renders dotPath into svgPath with the layout tool and waits for it.
	Layout(dotPath, svgPath string) error
	// Open hands path to the platform viewer without waiting for it to close.
	Open(path string) error
}

// System implements Runner using real external programs.
type System struct {
	// Processor is the external processor command line. When empty, Builtin
	// runs the stage in-process instead.
	Processor []string
	Builtin   func() error

	// DotCmd is the layout executable, normally "dot".
	DotCmd string
	// Opener is the platform file-opening command.
	Opener []string

	Stdout io.Writer
	Stderr io.Writer
}

// NewSystem builds a System from the environment. CALLVIZ_PROCESSOR selects an
// external processor command, CALLVIZ_DOT overrides the layout executable and
// CALLVIZ_OPENER overrides the platform opener.
func NewSystem(out, errOut io.Writer) *System {
	s := &System{DotCmd: "dot", Opener: openerFor(runtime.GOOS), Stdout: out, Stderr: errOut}
	if v := os.Getenv("CALLVIZ_PROCESSOR"); v != "" {
		s.Processor = strings.Fields(v)
	}
	if v := os.Getenv("CALLVIZ_DOT"); v != "" {
		s.DotCmd = v
	}
	if v := os.Getenv("CALLVIZ_OPENER"); v != "" {
		s.Opener = strings.Fields(v)
	}
	return s
}

func openerFor(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"cmd", "/c", "start", ""}
	default:
		return []string{"xdg-open"}
	}
}

func (s *System) Process(args []string) error {
	if len(s.Processor) == 0 {
		return s.Builtin()
	}
	argv := append(append([]string{}, s.Processor...), args...)
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr
	return cmd.Run()
}

func (s *System) Layout(dotPath, svgPath string) error {
	cmd := exec.Command(s.DotCmd, "-Tsvg", dotPath, "-o", svgPath)
	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr
	return cmd.Run()
}

func (s *System) Open(path string) error {
	argv := append(append([]string{}, s.Opener...), path)
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// ExitCode maps a pipeline error to the process exit status: the failing
// stage's own status when known, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ec interface{ ExitCode() int }
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return 1
}
