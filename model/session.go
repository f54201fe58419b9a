package model

import (
	"fmt"
	"time"

	"github.com/contviz-dev/contviz/cas"
	"github.com/contviz-dev/contviz/interp"
	"github.com/contviz-dev/contviz/trace"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Clock supplies history timestamps. Tests pin it to make replays
// byte-identical.
type Clock func() time.Time

// Session replays one trace against one stack model, a line per Step. A
// Session is not safe for concurrent use; Manager serializes access.
type Session struct {
	ID       uuid.UUID
	Lines    []string
	Cursor   int
	Finished bool
	// Message is the raw text of the line most recently stepped.
	Message  string
	State    *interp.State
	Clock    Clock
	Reporter Reporter

	// Store, when set, receives every post-step state; Timeline holds the
	// resulting hashes in step order.
	Store    cas.CAS
	Timeline []cas.Hash
}

func NewSession() *Session {
	return &Session{
		ID:       uuid.New(),
		State:    interp.NewState(),
		Clock:    time.Now,
		Reporter: &SilentReporter{},
	}
}

// LoadTrace resets the session and installs a new trace.
func (s *Session) LoadTrace(text string) {
	s.Reset()
	s.Lines = trace.Split(text)
	log.Debug().Str("session", s.ID.String()).Int("lines", len(s.Lines)).Msg("trace loaded")
}

// Reset returns the session to its empty initial state. The loaded trace is
// kept.
func (s *Session) Reset() {
	s.State = interp.NewState()
	s.Cursor = 0
	s.Finished = false
	s.Message = ""
	s.Timeline = nil
	log.Debug().Str("session", s.ID.String()).Msg("session reset")
}

// Done reports whether every line has been stepped.
func (s *Session) Done() bool {
	return s.Cursor >= len(s.Lines)
}

// Step applies exactly one trace line. Past the end it only marks the session
// finished. The returned error comes from recording the timeline; the state
// transition itself cannot fail.
func (s *Session) Step() (interp.StepResult, error) {
	if s.Done() {
		if !s.Finished {
			log.Debug().Str("session", s.ID.String()).Msg("trace finished")
		}
		s.Finished = true
		return interp.End, nil
	}
	line := s.Lines[s.Cursor]
	s.Message = line
	cmd := trace.Classify(line)
	res := interp.Step(s.State, cmd, s.now())
	log.Trace().
		Int("cursor", s.Cursor).
		Str("line", line).
		Str("command", cmd.Kind().String()).
		Str("result", res.String()).
		Msg("Session: stepped")
	s.Cursor++
	s.report(cmd, res)

	if s.Store != nil {
		h, err := s.Store.Put(s.State)
		if err != nil {
			return res, fmt.Errorf("recording step %d: %w", s.Cursor, err)
		}
		s.Timeline = append(s.Timeline, h)
	}
	return res, nil
}

// RunToEnd steps until the trace is exhausted.
func (s *Session) RunToEnd() error {
	for {
		res, err := s.Step()
		if err != nil {
			return err
		}
		if res == interp.End {
			return nil
		}
	}
}

// Seek replays from a clean session up to cursor n. Stepping backwards is a
// Seek to Cursor-1.
func (s *Session) Seek(n int) error {
	if n < 0 {
		n = 0
	}
	if n > len(s.Lines) {
		n = len(s.Lines)
	}
	s.Reset()
	for s.Cursor < n {
		_, err := s.Step()
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}

func (s *Session) report(cmd trace.Command, res interp.StepResult) {
	if s.Reporter == nil {
		return
	}
	s.Reporter.Printf("%d/%d %-11s %-7s %s\n", s.Cursor, len(s.Lines), cmd.Kind(), res, s.Message)
}

// Projection is the read-only view a renderer consumes.
type Projection struct {
	ID            string                `json:"id" yaml:"id"`
	Cursor        int                   `json:"cursor" yaml:"cursor"`
	Total         int                   `json:"total" yaml:"total"`
	Finished      bool                  `json:"finished" yaml:"finished"`
	Message       string                `json:"message,omitempty" yaml:"message,omitempty"`
	Towers        []*interp.Tower       `json:"towers" yaml:"towers"`
	Continuations []*interp.Continuation `json:"continuations" yaml:"continuations"`
	History       []interp.HistoryEntry `json:"history" yaml:"history"`
	Output        []string              `json:"output" yaml:"output"`
	Marker        *interp.ResetMarker   `json:"marker,omitempty" yaml:"marker,omitempty"`
	Effects       interp.Effects        `json:"effects" yaml:"effects"`
}

// Snapshot returns a deep copy of the current model. Only a marker that is
// still valid against tower 0 is reported.
func (s *Session) Snapshot() Projection {
	st := s.State.Clone()
	p := Projection{
		ID:            s.ID.String(),
		Cursor:        s.Cursor,
		Total:         len(s.Lines),
		Finished:      s.Finished,
		Message:       s.Message,
		Towers:        st.Towers,
		Continuations: st.Continuations,
		History:       st.History,
		Output:        st.Output,
		Effects:       st.Effects,
	}
	if m, ok := st.ValidMarker(); ok {
		p.Marker = m
	}
	return p
}

// StateAt loads the recorded state after step n (1-based) from the store.
func (s *Session) StateAt(n int) (*interp.State, error) {
	if s.Store == nil {
		return nil, fmt.Errorf("session %s does not record a timeline", s.ID)
	}
	if n < 1 || n > len(s.Timeline) {
		return nil, fmt.Errorf("step %d not recorded (have %d)", n, len(s.Timeline))
	}
	return cas.Retrieve[*interp.State](s.Store, s.Timeline[n-1])
}
