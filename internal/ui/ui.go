package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"
)

const (
	ansiBlue = "\033[94m"
	ansiEnd  = "\033[0m"
)

// Status prints short pipeline progress lines, colored when the destination
// is a terminal.
type Status struct {
	W     io.Writer
	Color bool
}

func NewStatus(w io.Writer) *Status {
	s := &Status{W: w}
	if f, ok := w.(*os.File); ok {
		s.Color = term.IsTerminal(int(f.Fd()))
	}
	return s
}

func (s *Status) Step(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if s.Color {
		fmt.Fprint(s.W, ansiBlue, line, ansiEnd, "\n")
	} else {
		fmt.Fprintln(s.W, line)
	}
}

func StdinIsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// PromptBase asks for an output base name, completing over the given
// candidates. An empty answer aborts.
func PromptBase(candidates []string) (string, error) {
	l := liner.NewLiner()
	defer l.Close()
	l.SetCompleter(func(line string) (out []string) {
		for _, c := range candidates {
			if strings.HasPrefix(c, line) {
				out = append(out, c)
			}
		}
		return out
	})
	fmt.Println("Rendered graphs:")
	for _, c := range candidates {
		fmt.Printf("  %s\n", c)
	}
	answer, err := l.Prompt("graph to render: ")
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", fmt.Errorf("no graph selected")
	}
	return answer, nil
}
