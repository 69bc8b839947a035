package main

import (
	"fmt"
	"os"

	"callviz/internal/cli"
	"callviz/internal/execx"
)

func main() {
	if err := cli.Execute(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(execx.ExitCode(err))
	}
}
