package model

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/contviz-dev/contviz/cas"
	"github.com/stretchr/testify/require"
)

func TestParseConfigKeepsDefaults(t *testing.T) {
	c, err := parseConfig(strings.NewReader(`
[runner]
command = ["racket", "tracer.rkt", "--quiet"]
timeout = "3s"

[replay]
record = false
`))
	require.NoError(t, err)
	require.Equal(t, []string{"racket", "tracer.rkt", "--quiet"}, c.Runner.Command)
	require.Equal(t, 3*time.Second, c.Runner.Timeout)
	require.Equal(t, "input.rkt", c.Runner.Input)
	require.Equal(t, "output.txt", c.Runner.Output)
	require.False(t, c.Replay.Record)
	require.Equal(t, cas.DefaultCacheSize, c.Replay.CacheSize)
	require.Nil(t, c.BuildSession().Store)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contviz.toml")
	err := os.WriteFile(path, []byte("[runner]\nworkdir = \"racket\"\n"), 0o644)
	require.NoError(t, err)

	c, err := LoadConfigFromFile(path)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "racket"), c.Runner.WorkDir)
	r := c.BuildRunner()
	require.Equal(t, c.Runner.WorkDir, r.WorkDir)
	require.NotNil(t, c.BuildSession().Store)

	_, err = LoadConfigFromFile(filepath.Join(dir, "missing.toml"))
	require.Error(t, err)

	d, err := LoadConfigFromFile("")
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), d)
}
