package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultTimeout = 10 * time.Second
	DefaultPrelude = "#lang racket\n\n(require racket/control)\n\n"
)

// ExecRunner writes the source to InputFile inside WorkDir, runs Command and
// reads the trace the command leaves in OutputFile.
type ExecRunner struct {
	Command    []string
	WorkDir    string
	InputFile  string
	OutputFile string
	Prelude    string
	Timeout    time.Duration
}

func (e *ExecRunner) inputPath() string {
	return filepath.Join(e.WorkDir, e.InputFile)
}

func (e *ExecRunner) outputPath() string {
	return filepath.Join(e.WorkDir, e.OutputFile)
}

func (e *ExecRunner) Run(ctx context.Context, source string) (string, error) {
	if len(e.Command) == 0 {
		return "", errors.New("no evaluator command configured")
	}
	err := os.MkdirAll(e.WorkDir, 0o755)
	if err != nil {
		return "", fmt.Errorf("creating work dir: %w", err)
	}
	err = os.WriteFile(e.inputPath(), []byte(e.Prelude+source), 0o644)
	if err != nil {
		return "", fmt.Errorf("writing source: %w", err)
	}
	// A trace left by an earlier run must never be read as this run's.
	err = os.Remove(e.outputPath())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("removing stale trace: %w", err)
	}

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	parent := ctx
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.Command[0], e.Command[1:]...)
	cmd.Dir = e.WorkDir
	cmd.WaitDelay = time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug().Strs("command", e.Command).Str("dir", e.WorkDir).Dur("timeout", timeout).Msg("running evaluator")
	err = cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		if errors.Is(parent.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: caller deadline exceeded", ErrTimeout)
		}
		return "", fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}
	if err != nil {
		code := -1
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			code = ee.ExitCode()
		}
		return "", &ExitError{
			Code:   code,
			Stdout: stdout.String(),
			Stderr: stderr.String(),
			Err:    err,
		}
	}

	b, err := os.ReadFile(e.outputPath())
	if err != nil {
		return "", fmt.Errorf("reading trace: %w", err)
	}
	return string(b), nil
}

// LastTrace returns the trace left behind by a previous run, or "" when there
// is none.
func (e *ExecRunner) LastTrace() string {
	b, err := os.ReadFile(e.outputPath())
	if err != nil {
		return ""
	}
	return string(b)
}
