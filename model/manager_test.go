package model

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/contviz-dev/contviz/interp"
	"github.com/contviz-dev/contviz/runner"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestManagerSessionsAreIndependent(t *testing.T) {
	m := NewManager()
	a := m.Create("push (a)\npop (a) => 1\n1")
	b := m.Create("push (b)")
	require.NotEqual(t, a, b)
	require.Equal(t, 2, m.Len())

	for i := 0; i < 3; i++ {
		_, err := m.Step(a)
		require.NoError(t, err)
	}
	pa, err := m.Snapshot(a)
	require.NoError(t, err)
	pb, err := m.Snapshot(b)
	require.NoError(t, err)
	require.Equal(t, []string{"1"}, pa.Output)
	require.Equal(t, 0, pb.Cursor)
	require.Empty(t, pb.Towers)

	m.Drop(a)
	_, err = m.Step(a)
	require.ErrorIs(t, err, ErrUnknownSession)
}

func TestManagerSerializesSteps(t *testing.T) {
	m := NewManager()
	text := ""
	for i := 0; i < 200; i++ {
		text += "push (x)\n"
	}
	id := m.Create(text)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 30; i++ {
				if _, err := m.Step(id); err != nil {
					t.Errorf("step failed: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	p, err := m.Snapshot(id)
	require.NoError(t, err)
	require.Equal(t, 200, p.Cursor)
	require.True(t, p.Finished)
	require.Len(t, p.Towers[0].Frames[0].Items, 200)
}

func TestManagerEvaluate(t *testing.T) {
	m := NewManager()
	id := m.Create("push (old)")

	err := m.Evaluate(context.Background(), id, runner.StaticRunner{Trace: "push (a)\n"}, "(a)")
	require.NoError(t, err)
	p, err := m.Snapshot(id)
	require.NoError(t, err)
	require.Equal(t, 1, p.Total)

	boom := errors.New("boom")
	err = m.Evaluate(context.Background(), id, runner.StaticRunner{Trace: "push (half)", Err: boom}, "(a)")
	require.ErrorIs(t, err, boom)
	p, err = m.Snapshot(id)
	require.NoError(t, err)
	require.Equal(t, 0, p.Total)
	res, err := m.Step(id)
	require.NoError(t, err)
	require.Equal(t, interp.End, res)
}

func TestManagerUnknown(t *testing.T) {
	m := NewManager()
	require.ErrorIs(t, m.Reset(uuid.New()), ErrUnknownSession)
	require.ErrorIs(t, m.LoadTrace(uuid.New(), ""), ErrUnknownSession)
	require.ErrorIs(t, m.Seek(uuid.New(), 1), ErrUnknownSession)
	_, err := m.Snapshot(uuid.New())
	require.ErrorIs(t, err, ErrUnknownSession)
}

func TestManagerSeekAndReset(t *testing.T) {
	m := NewManager()
	id := m.Create("push (a)\npush (b)\npush (c)")
	require.NoError(t, m.Seek(id, 2))
	p, _ := m.Snapshot(id)
	require.Equal(t, 2, p.Cursor)
	require.NoError(t, m.Reset(id))
	p, _ = m.Snapshot(id)
	require.Equal(t, 0, p.Cursor)
	require.Equal(t, 3, p.Total)
}
