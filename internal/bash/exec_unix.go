//go:build !windows

package bash

import (
	"context"
	"os"
	"os/exec"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/term"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
)

// NewProcessGroupExecHandler returns an ExecHandlerFunc that starts each
// external program in its own process group. If stdin is a terminal, that
// group becomes the terminal's foreground group for the lifetime of the
// program, so Ctrl+C during an install reaches the script rather than us.
//
// When ctx is cancelled the group receives SIGINT, then SIGKILL after
// killTimeout (immediately if killTimeout is negative).
func NewProcessGroupExecHandler(killTimeout time.Duration) interp.ExecHandlerFunc {
	return func(ctx context.Context, args []string) error {
		hc := interp.HandlerCtx(ctx)
		path, err := interp.LookPathDir(hc.Dir, hc.Env, args[0])
		if err != nil {
			return err
		}

		cmd := exec.Cmd{
			Path:        path,
			Args:        args,
			Dir:         hc.Dir,
			Env:         execEnv(hc.Env),
			Stdin:       hc.Stdin,
			Stdout:      hc.Stdout,
			Stderr:      hc.Stderr,
			SysProcAttr: &syscall.SysProcAttr{Setpgid: true},
		}
		if err := cmd.Start(); err != nil {
			return err
		}

		pgid := cmd.Process.Pid
		restore := takeForeground(hc.Stdin, pgid)
		defer restore()

		waitDone := make(chan error, 1)
		go func() {
			waitDone <- cmd.Wait()
		}()

		select {
		case err := <-waitDone:
			return exitError(err)
		case <-ctx.Done():
		}

		_ = syscall.Kill(-pgid, syscall.SIGINT)
		if killTimeout >= 0 {
			select {
			case err := <-waitDone:
				return exitError(err)
			case <-time.After(killTimeout):
			}
		}
		_ = syscall.Kill(-pgid, syscall.SIGKILL)
		return exitError(<-waitDone)
	}
}

// exitError maps a child's exit code onto the interpreter's exit status.
func exitError(err error) error {
	if exitErr, ok := err.(*exec.ExitError); ok {
		return interp.ExitStatus(uint8(exitErr.ExitCode()))
	}
	return err
}

// takeForeground hands the terminal on stdin to pgid and returns a func that
// gives it back. It is a no-op when stdin is not a terminal.
func takeForeground(stdin any, pgid int) func() {
	f, ok := stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return func() {}
	}

	fd := int(f.Fd())
	original, err := tcgetpgrp(fd)
	if err != nil {
		return func() {}
	}
	_ = tcsetpgrp(fd, pgid)

	return func() {
		if original > 0 {
			_ = tcsetpgrp(fd, original)
		}
	}
}

func tcgetpgrp(fd int) (int, error) {
	var pgrp int32
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, uintptr(fd), syscall.TIOCGPGRP, uintptr(unsafe.Pointer(&pgrp)))
	if errno != 0 {
		return 0, errno
	}
	return int(pgrp), nil
}

func tcsetpgrp(fd int, pgrp int) error {
	pgrp32 := int32(pgrp)
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, uintptr(fd), syscall.TIOCSPGRP, uintptr(unsafe.Pointer(&pgrp32)))
	if errno != 0 {
		return errno
	}
	return nil
}

// execEnv flattens the exported interpreter variables for exec.Cmd.
func execEnv(env expand.Environ) []string {
	var result []string
	env.Each(func(name string, vr expand.Variable) bool {
		if vr.Exported {
			result = append(result, name+"="+vr.String())
		}
		return true
	})
	return result
}
