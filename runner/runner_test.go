package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func shRunner(t *testing.T, script string) *ExecRunner {
	return &ExecRunner{
		Command:    []string{"sh", "-c", script},
		WorkDir:    t.TempDir(),
		InputFile:  "input.rkt",
		OutputFile: "output.txt",
		Prelude:    DefaultPrelude,
		Timeout:    5 * time.Second,
	}
}

func TestExecRunnerSuccess(t *testing.T) {
	r := shRunner(t, "cp input.rkt output.txt")
	out, err := Acquire(context.Background(), r, "(+ 1 2)")
	require.NoError(t, err)
	require.Equal(t, DefaultPrelude+"(+ 1 2)", out)
	require.Equal(t, out, r.LastTrace())
}

func TestExecRunnerExitError(t *testing.T) {
	r := shRunner(t, "echo boom >&2; exit 3")
	out, err := Acquire(context.Background(), r, "(f)")
	require.Empty(t, out)
	var ee *ExitError
	require.True(t, errors.As(err, &ee))
	require.Equal(t, 3, ee.Code)
	require.Contains(t, ee.Stderr, "boom")
}

func TestExecRunnerTimeout(t *testing.T) {
	r := shRunner(t, "sleep 5")
	r.Timeout = 50 * time.Millisecond
	out, err := Acquire(context.Background(), r, "(loop)")
	require.Empty(t, out)
	require.ErrorIs(t, err, ErrTimeout)
}

func TestExecRunnerMissingOutput(t *testing.T) {
	r := shRunner(t, "true")
	out, err := Acquire(context.Background(), r, "(f)")
	require.Empty(t, out)
	require.Error(t, err)
	require.Empty(t, r.LastTrace())
}

func TestExecRunnerIgnoresStaleOutput(t *testing.T) {
	r := shRunner(t, "true")
	stale := filepath.Join(r.WorkDir, r.OutputFile)
	require.NoError(t, os.WriteFile(stale, []byte("push (previous run)\n"), 0o644))

	out, err := Acquire(context.Background(), r, "(f)")
	require.Error(t, err)
	require.Empty(t, out)
	require.Empty(t, r.LastTrace())
}

func TestExecRunnerCallerDeadline(t *testing.T) {
	r := shRunner(t, "sleep 5")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	out, err := Acquire(ctx, r, "(loop)")
	require.Empty(t, out)
	require.ErrorIs(t, err, ErrTimeout)
	require.NotContains(t, err.Error(), r.Timeout.String())
}

func TestExecRunnerWritesInput(t *testing.T) {
	r := shRunner(t, "printf 'push (a)\\n' > output.txt")
	out, err := r.Run(context.Background(), "(a)")
	require.NoError(t, err)
	require.Equal(t, "push (a)\n", out)
	b, err := os.ReadFile(filepath.Join(r.WorkDir, "input.rkt"))
	require.NoError(t, err)
	require.Equal(t, DefaultPrelude+"(a)", string(b))
}

func TestAcquireRejects(t *testing.T) {
	_, err := Acquire(context.Background(), StaticRunner{Trace: "x"}, "")
	require.ErrorIs(t, err, ErrEmptySource)

	out, err := Acquire(context.Background(), StaticRunner{Trace: "\xff\xfe"}, "src")
	require.Empty(t, out)
	require.ErrorIs(t, err, ErrMalformedTrace)

	boom := errors.New("boom")
	out, err = Acquire(context.Background(), StaticRunner{Trace: "partial", Err: boom}, "src")
	require.Empty(t, out)
	require.ErrorIs(t, err, boom)
}
