// Package runner runs external commands behind an interface tests can stub.
package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strconv"
	"strings"
)

// Result holds the outcome of a command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Opts holds optional parameters for a run.
type Opts struct {
	Dir string
	Env map[string]string

	// Stdout and Stderr stream output instead of capturing it. A nil writer
	// captures into Result.
	Stdout io.Writer
	Stderr io.Writer
}

// Runner executes external commands.
//
// Run returns a Result with ExitCode set when the process ran, even when it
// exited non-zero. The error is reserved for failures to execute at all
// (binary missing, context canceled).
type Runner interface {
	Run(ctx context.Context, name string, args []string, opts Opts) (Result, error)
}

// Exec is the os/exec backed Runner.
type Exec struct{}

// New returns the production Runner.
func New() Exec {
	return Exec{}
}

func (Exec) Run(ctx context.Context, name string, args []string, opts Opts) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = opts.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	if opts.Stdout != nil {
		cmd.Stdout = opts.Stdout
	}
	cmd.Stderr = &stderr
	if opts.Stderr != nil {
		cmd.Stderr = opts.Stderr
	}

	if len(opts.Env) > 0 {
		cmd.Env = cmd.Environ()
		for k, v := range opts.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}

	err := cmd.Run()
	result := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}
	return result, nil
}

// ExitError reports a command that ran but exited non-zero.
type ExitError struct {
	Name   string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := e.Name + " exited with status " + strconv.Itoa(e.Code)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Check runs the command and converts a non-zero exit into an *ExitError.
func Check(ctx context.Context, r Runner, name string, args []string, opts Opts) (Result, error) {
	res, err := r.Run(ctx, name, args, opts)
	if err != nil {
		return res, err
	}
	if res.ExitCode != 0 {
		return res, &ExitError{Name: name, Code: res.ExitCode, Stderr: strings.TrimSpace(res.Stderr)}
	}
	return res, nil
}
