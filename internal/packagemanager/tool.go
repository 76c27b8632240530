// Package packagemanager talks to the yarn CLI: it runs it, detects which
// major version is installed, lists workspaces and discovers subcommands.
// yarn's output is treated as untrusted text and parsed defensively.
package packagemanager

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atinylittleshell/yarn-autocomplete/internal/bash"
)

// ErrUnparseableOutput is returned when yarn ran but printed something that
// could not be interpreted.
var ErrUnparseableOutput = errors.New("unparseable package manager output")

// Tool runs the package manager and returns its combined stdout and stderr.
type Tool interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// ToolError describes a package manager invocation that could not be run or
// exited with a non-zero status.
type ToolError struct {
	Program  string
	Args     []string
	ExitCode int
	Output   string
	Err      error
}

func (e *ToolError) Error() string {
	command := strings.TrimSpace(e.Program + " " + strings.Join(e.Args, " "))
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", command, e.Err)
	}
	return fmt.Sprintf("%s: exit status %d", command, e.ExitCode)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// ShellTool runs a program through the embedded shell interpreter.
type ShellTool struct {
	Program string
}

func NewShellTool(program string) *ShellTool {
	return &ShellTool{Program: program}
}

func (t *ShellTool) Run(ctx context.Context, dir string, args ...string) (string, error) {
	output, exitCode, err := bash.RunCommand(ctx, dir, t.Program, args...)
	if err != nil || exitCode != 0 {
		return output, &ToolError{
			Program:  t.Program,
			Args:     args,
			ExitCode: exitCode,
			Output:   output,
			Err:      err,
		}
	}
	return output, nil
}
