package integration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/contviz-dev/contviz/cas"
	"github.com/contviz-dev/contviz/interp"
	"github.com/contviz-dev/contviz/model"
	"github.com/stretchr/testify/require"
)

// expectation is the companion .toml of a testdata trace. Unset lists are
// not checked.
type expectation struct {
	Output        []string `toml:"output"`
	Towers        int      `toml:"towers"`
	Continuations int      `toml:"continuations"`
	History       []string `toml:"history"`
	Primary       []string `toml:"primary"`
	Last          []string `toml:"last"`
}

func frameNames(t *interp.Tower) []string {
	var out []string
	for _, f := range t.Frames {
		if f.IsOutputFrame {
			out = append(out, "=> "+f.DisplayValue)
			continue
		}
		out = append(out, f.Name)
	}
	return out
}

func replayFile(t *testing.T, path string) *model.Session {
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	s := model.NewSession()
	s.Clock = func() time.Time { return time.Unix(0, 0).UTC() }
	s.Store = cas.NewLRUCache(cas.NewMemoryCAS(), 100)
	s.LoadTrace(string(b))
	require.NoError(t, s.RunToEnd())
	return s
}

// TestTraces replays every trace in testdata and checks it against its
// expectation file.
func TestTraces(t *testing.T) {
	testdataDir := filepath.Join("..", "testdata")

	paths, err := filepath.Glob(filepath.Join(testdataDir, "*.trace"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".trace")
		t.Run(name, func(t *testing.T) {
			var want expectation
			_, err := toml.DecodeFile(strings.TrimSuffix(path, ".trace")+".toml", &want)
			require.NoError(t, err, "Failed to load expectation")

			s := replayFile(t, path)
			p := s.Snapshot()
			require.True(t, p.Finished)
			require.Equal(t, p.Total, p.Cursor)
			require.Len(t, p.Towers, want.Towers)
			require.Len(t, p.Continuations, want.Continuations)
			if want.Output != nil {
				require.Equal(t, want.Output, p.Output)
			}
			if want.History != nil {
				var got []string
				for _, h := range p.History {
					got = append(got, h.Action.String())
				}
				require.Equal(t, want.History, got)
			}
			if want.Primary != nil {
				require.Equal(t, want.Primary, frameNames(p.Towers[0]))
			}
			if want.Last != nil {
				require.Equal(t, want.Last, frameNames(p.Towers[len(p.Towers)-1]))
			}
		})
	}
}

// TestTimelineRoundTrip checks that every recorded step can be loaded back
// from the store and matches a fresh replay stopped at the same line.
func TestTimelineRoundTrip(t *testing.T) {
	path := filepath.Join("..", "testdata", "shift_reset.trace")
	s := replayFile(t, path)
	require.Len(t, s.Timeline, len(s.Lines))

	for n := 1; n <= len(s.Lines); n++ {
		stored, err := s.StateAt(n)
		require.NoError(t, err)

		fresh := replayFile(t, path)
		require.NoError(t, fresh.Seek(n))
		require.Equal(t, fresh.State.PrettyPrint(), stored.PrettyPrint(), "step %d", n)
	}
}

// TestIdenticalStatesShareHash replays the same trace twice into one store.
func TestIdenticalStatesShareHash(t *testing.T) {
	b, err := os.ReadFile(filepath.Join("..", "testdata", "dedup.trace"))
	require.NoError(t, err)
	store := cas.NewMemoryCAS()

	var timelines [][]cas.Hash
	for i := 0; i < 2; i++ {
		s := model.NewSession()
		s.Clock = func() time.Time { return time.Unix(0, 0).UTC() }
		s.Store = store
		s.LoadTrace(string(b))
		require.NoError(t, s.RunToEnd())
		timelines = append(timelines, s.Timeline)
	}
	require.Equal(t, timelines[0], timelines[1])
	require.Equal(t, 2, store.Len())
}
