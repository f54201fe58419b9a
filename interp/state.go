package interp

import (
	"io"
	"slices"

	"github.com/shamaton/msgpack/v2"
)

// Allocator issues session-unique ids for frames, items and towers. Ids are
// never reused.
type Allocator struct {
	Next int
}

func (a *Allocator) Alloc() int {
	id := a.Next
	a.Next++
	return id
}

// State is everything one replay session mutates.
type State struct {
	Towers        []*Tower
	Continuations []*Continuation
	Marker        *ResetMarker
	History       []HistoryEntry
	Output        []string
	IDs           Allocator
	Effects       Effects
}

func NewState() *State {
	return &State{}
}

// Clone copies the state exactly, ids included. It is used for projections
// and snapshots; continuation capture uses the id-reallocating copies in
// continuation.go instead.
func (s *State) Clone() *State {
	out := &State{
		IDs:     s.IDs,
		Output:  slices.Clone(s.Output),
		History: slices.Clone(s.History),
		Effects: s.Effects.Clone(),
	}
	for _, t := range s.Towers {
		out.Towers = append(out.Towers, t.Clone())
	}
	for _, c := range s.Continuations {
		out.Continuations = append(out.Continuations, c.Clone())
	}
	if s.Marker != nil {
		m := *s.Marker
		out.Marker = &m
	}
	return out
}

func (s *State) Serialize(w io.Writer) error {
	return msgpack.MarshalWrite(w, s)
}

func (s *State) Deserialize(r io.Reader) error {
	return msgpack.UnmarshalRead(r, s)
}

func (t *Tower) Clone() *Tower {
	out := &Tower{
		ID:          t.ID,
		Name:        t.Name,
		CaptureType: t.CaptureType,
	}
	for _, f := range t.Frames {
		out.Frames = append(out.Frames, f.Clone())
	}
	return out
}

func (f *Frame) Clone() *Frame {
	out := &Frame{
		ID:            f.ID,
		Name:          f.Name,
		DisplayValue:  f.DisplayValue,
		IsOutputFrame: f.IsOutputFrame,
		CaptureType:   f.CaptureType,
	}
	for _, it := range f.Items {
		c := *it
		out.Items = append(out.Items, &c)
	}
	return out
}

func (e Effects) Clone() Effects {
	return Effects{
		PushedFrames:      slices.Clone(e.PushedFrames),
		PushedItems:       slices.Clone(e.PushedItems),
		RemovedItems:      slices.Clone(e.RemovedItems),
		HighlightedFrames: slices.Clone(e.HighlightedFrames),
		Captured:          e.Captured,
		Invoked:           e.Invoked,
		ClearedPrimary:    e.ClearedPrimary,
	}
}

// Primary returns tower 0, or nil when the tower list is empty.
func (s *State) Primary() *Tower {
	if len(s.Towers) == 0 {
		return nil
	}
	return s.Towers[0]
}

// Last returns the most recently pushed tower, or nil.
func (s *State) Last() *Tower {
	if len(s.Towers) == 0 {
		return nil
	}
	return s.Towers[len(s.Towers)-1]
}

// RealFrames returns the frames that are not synthetic output frames, in
// order.
func (t *Tower) RealFrames() []*Frame {
	var out []*Frame
	for _, f := range t.Frames {
		if !f.IsOutputFrame {
			out = append(out, f)
		}
	}
	return out
}

// OutputFrames returns the synthetic output frames, in order.
func (t *Tower) OutputFrames() []*Frame {
	var out []*Frame
	for _, f := range t.Frames {
		if f.IsOutputFrame {
			out = append(out, f)
		}
	}
	return out
}

// Top returns the last frame of the tower, or nil.
func (t *Tower) Top() *Frame {
	if len(t.Frames) == 0 {
		return nil
	}
	return t.Frames[len(t.Frames)-1]
}

// TopReal returns the last non-output frame, or nil.
func (t *Tower) TopReal() *Frame {
	for i := len(t.Frames) - 1; i >= 0; i-- {
		if !t.Frames[i].IsOutputFrame {
			return t.Frames[i]
		}
	}
	return nil
}

// Lookup returns the most recently stored continuation named name.
func (s *State) Lookup(name string) (*Continuation, int, bool) {
	for i := len(s.Continuations) - 1; i >= 0; i-- {
		if s.Continuations[i].Name == name {
			return s.Continuations[i], i, true
		}
	}
	return nil, -1, false
}

// IsSetTarget reports whether name was bound by a prior Set.
func (s *State) IsSetTarget(name string) bool {
	for _, h := range s.History {
		if h.Action == ActionSet && h.Target == name {
			return true
		}
	}
	return false
}

// ValidMarker returns the marker when it still addresses a real frame of
// tower 0.
func (s *State) ValidMarker() (*ResetMarker, bool) {
	if s.Marker == nil {
		return nil, false
	}
	p := s.Primary()
	if p == nil {
		return nil, false
	}
	if s.Marker.FrameIndex < 0 || s.Marker.FrameIndex >= len(p.RealFrames()) {
		return nil, false
	}
	return s.Marker, true
}
