package model

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEncodeFormats(t *testing.T) {
	s := newTestSession(shiftTrace)
	require.NoError(t, s.Seek(6))
	p := s.Snapshot()

	var buf bytes.Buffer
	require.NoError(t, p.Encode(&buf, "json"))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.EqualValues(t, 6, decoded["cursor"])
	require.Len(t, decoded["towers"], 1)

	buf.Reset()
	require.NoError(t, p.Encode(&buf, "yaml"))
	var y struct {
		Cursor        int `yaml:"cursor"`
		Continuations []struct {
			Name string `yaml:"name"`
		} `yaml:"continuations"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &y))
	require.Equal(t, 6, y.Cursor)
	require.Len(t, y.Continuations, 1)
	require.Equal(t, "k", y.Continuations[0].Name)

	buf.Reset()
	require.NoError(t, p.Encode(&buf, "text"))
	require.Contains(t, buf.String(), "(k 100)")

	require.Error(t, p.Encode(&buf, "xml"))
}

func TestWriteTimeline(t *testing.T) {
	s := newTestSession("push (+ 1 2)\npop (+ 1 2) => 3\n3")
	require.NoError(t, s.RunToEnd())
	var buf bytes.Buffer
	WriteTimeline(&buf, s)
	out := buf.String()
	require.Contains(t, out, "Step 1")
	require.Contains(t, out, "Step 3")
	require.Contains(t, out, "(+ 1 2)")
}
