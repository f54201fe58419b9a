package model

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/contviz-dev/contviz/cas"
	"github.com/contviz-dev/contviz/runner"
)

type Config struct {
	Runner RunnerConfig `toml:"runner"`
	Replay ReplayConfig `toml:"replay"`
}

type RunnerConfig struct {
	Command []string      `toml:"command,omitempty"`
	WorkDir string        `toml:"workdir,omitempty"`
	Input   string        `toml:"input,omitempty"`
	Output  string        `toml:"output,omitempty"`
	Prelude string        `toml:"prelude,omitempty"`
	Timeout time.Duration `toml:"timeout,omitempty"`
}

type ReplayConfig struct {
	Record    bool `toml:"record"`
	CacheSize int  `toml:"cache_size,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Runner: RunnerConfig{
			Command: []string{"racket", "transformer.rkt"},
			WorkDir: "src",
			Input:   "input.rkt",
			Output:  "output.txt",
			Prelude: runner.DefaultPrelude,
			Timeout: runner.DefaultTimeout,
		},
		Replay: ReplayConfig{
			Record:    true,
			CacheSize: cas.DefaultCacheSize,
		},
	}
}

// parseConfig decodes over the defaults, so absent keys keep their default.
func parseConfig(f io.Reader) (*Config, error) {
	out := DefaultConfig()
	_, err := toml.NewDecoder(f).Decode(out)
	return out, err
}

// LoadConfigFromFile reads a TOML config. An empty path yields the defaults.
// A relative runner workdir is taken relative to the config file.
func LoadConfigFromFile(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := parseConfig(f)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(c.Runner.WorkDir) {
		c.Runner.WorkDir = filepath.Clean(filepath.Join(filepath.Dir(path), c.Runner.WorkDir))
	}
	return c, nil
}

func (c *Config) BuildRunner() *runner.ExecRunner {
	return &runner.ExecRunner{
		Command:    c.Runner.Command,
		WorkDir:    c.Runner.WorkDir,
		InputFile:  c.Runner.Input,
		OutputFile: c.Runner.Output,
		Prelude:    c.Runner.Prelude,
		Timeout:    c.Runner.Timeout,
	}
}

// BuildSession returns an empty session wired to a snapshot store when
// recording is enabled.
func (c *Config) BuildSession() *Session {
	s := NewSession()
	if c.Replay.Record {
		s.Store = cas.NewLRUCache(cas.NewMemoryCAS(), c.Replay.CacheSize)
	}
	return s
}
