package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ErrNoInterpreter is returned when the interpreter is not on PATH.
var ErrNoInterpreter = errors.New("interpreter not found")

// Output is the captured result of one script run.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Lines splits Stdout into trimmed non-empty lines.
func (o Output) Lines() []string {
	var lines []string
	for _, l := range strings.Split(o.Stdout, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// ExitError reports a script that ran but exited non-zero.
type ExitError struct {
	Script string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Script, e.Code)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + firstLine(s)
	}
	return msg
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// Runner runs scripts with Interpreter. A zero Timeout means no limit
// beyond the caller's context.
type Runner struct {
	Interpreter string
	Timeout     time.Duration
	Dir         string
}

// Run is shorthand for a Runner with no timeout or working directory.
func Run(ctx context.Context, interpreter, script string, args ...string) (Output, error) {
	r := &Runner{Interpreter: interpreter}
	return r.Run(ctx, script, args...)
}

// Run executes `Interpreter script args...`. The returned Output is
// populated even on error. A non-zero exit yields an *ExitError; a
// cancelled or expired context yields the context error.
func (r *Runner) Run(ctx context.Context, script string, args ...string) (Output, error) {
	if r.Interpreter == "" {
		return Output{}, fmt.Errorf("run %s: %w", script, ErrNoInterpreter)
	}
	bin, err := exec.LookPath(r.Interpreter)
	if err != nil {
		return Output{}, fmt.Errorf("run %s: %s: %w", script, r.Interpreter, ErrNoInterpreter)
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, bin, append([]string{script}, args...)...)
	cmd.Dir = r.Dir
	// Children of the script may hold the output pipes open after a kill.
	cmd.WaitDelay = time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err = cmd.Run()
	out := Output{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if ctx.Err() != nil {
		out.ExitCode = -1
		return out, fmt.Errorf("run %s: %w", script, ctx.Err())
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return out, nil
	case errors.As(err, &exitErr):
		out.ExitCode = exitErr.ExitCode()
		return out, &ExitError{Script: script, Code: out.ExitCode, Stderr: out.Stderr}
	default:
		out.ExitCode = -1
		return out, fmt.Errorf("run %s: %w", script, err)
	}
}
