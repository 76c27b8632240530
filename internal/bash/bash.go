package bash

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/term"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// scriptKillTimeout is how long a cancelled script gets between SIGINT and SIGKILL.
const scriptKillTimeout = 2 * time.Second

// commandLine quotes each word so that it reaches the program verbatim.
func commandLine(words ...string) (string, error) {
	quoted := make([]string, 0, len(words))
	for _, word := range words {
		q, err := syntax.Quote(word, syntax.LangBash)
		if err != nil {
			return "", fmt.Errorf("failed to quote %q: %w", word, err)
		}
		quoted = append(quoted, q)
	}
	return strings.Join(quoted, " "), nil
}

func runLine(ctx context.Context, runner *interp.Runner, line string, name string) error {
	prog, err := syntax.NewParser().Parse(strings.NewReader(line), name)
	if err != nil {
		return fmt.Errorf("failed to parse command: %w", err)
	}
	return runner.Run(ctx, prog)
}

// RunCommand runs name with args in dir and captures stdout and stderr
// together. Returns the combined output, exit code, and any execution error.
// A non-zero exit code is NOT treated as an error - check the exit code separately.
func RunCommand(ctx context.Context, dir string, name string, args ...string) (string, int, error) {
	line, err := commandLine(append([]string{name}, args...)...)
	if err != nil {
		return "", 1, err
	}

	out := &threadSafeBuffer{}
	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(nil, out, out),
	}
	if dir != "" {
		opts = append(opts, interp.Dir(dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return "", 1, fmt.Errorf("failed to create shell runner: %w", err)
	}

	err = runLine(ctx, runner, line, name)

	var exitStatus interp.ExitStatus
	if errors.As(err, &exitStatus) {
		return out.String(), int(exitStatus), nil
	}
	if err != nil {
		return out.String(), 1, err
	}

	return out.String(), 0, nil
}

// RunScriptFile executes the program at path with its own directory as the
// working directory, forwarding the given streams. When stdin is a terminal
// the script runs as an interactive foreground job.
// Non-zero exit codes are returned as interp.ExitStatus.
func RunScriptFile(ctx context.Context, path string, stdin io.Reader, stdout, stderr io.Writer) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		return err
	}

	interactive := false
	if f, ok := stdin.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}

	runner, err := interp.New(
		interp.Interactive(interactive),
		interp.Dir(filepath.Dir(abs)),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(stdin, stdout, stderr),
		interp.ExecHandlers(func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
			return NewProcessGroupExecHandler(scriptKillTimeout)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to create shell runner: %w", err)
	}

	line, err := commandLine(abs)
	if err != nil {
		return err
	}
	return runLine(ctx, runner, line, abs)
}
