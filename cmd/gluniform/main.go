package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/soypat/gluniform/internal/cli"
)

func init() {
	// The ui command requires GL calls from the main thread.
	runtime.LockOSThread()
}

func main() {
	err := cli.NewRootCommand().Execute()
	var exitErr *cli.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		// ExitErrors were already written by the command.
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
