package interp

import (
	"fmt"
	"time"

	"github.com/contviz-dev/contviz/trace"
	"github.com/rs/zerolog/log"
)

// Captured structure is always copied with fresh ids from the session
// allocator so that later mutation of tower 0 never reaches a stored
// continuation, and vice versa.

func (a *Allocator) copyItem(it *Item, tag bool) *Item {
	return &Item{
		ID:               a.Alloc(),
		Value:            it.Value,
		FromContinuation: it.FromContinuation || tag,
	}
}

func (a *Allocator) copyItems(items []*Item, tag bool) []*Item {
	var out []*Item
	for _, it := range items {
		out = append(out, a.copyItem(it, tag))
	}
	return out
}

func (a *Allocator) copyFrame(f *Frame, tag bool) *Frame {
	out := &Frame{
		ID:            a.Alloc(),
		Name:          f.Name,
		DisplayValue:  f.DisplayValue,
		IsOutputFrame: f.IsOutputFrame,
		CaptureType:   f.CaptureType,
	}
	out.Items = a.copyItems(f.Items, tag)
	return out
}

func (a *Allocator) copyTower(t *Tower, tag bool) *Tower {
	out := &Tower{
		ID:          a.Alloc(),
		Name:        t.Name,
		CaptureType: t.CaptureType,
	}
	for _, f := range t.Frames {
		out.Frames = append(out.Frames, a.copyFrame(f, tag))
	}
	return out
}

// markPrimaryTop points the marker just past the last item of tower 0's top
// real frame. The marker is left alone when there is no such frame.
func (s *State) markPrimaryTop() {
	p := s.Primary()
	if p == nil {
		return
	}
	real := p.RealFrames()
	if len(real) == 0 {
		return
	}
	top := real[len(real)-1]
	s.Marker = &ResetMarker{
		FrameIndex: len(real) - 1,
		ItemIndex:  len(top.Items),
	}
}

// execShift cuts the marker-bounded suffix of tower 0 into a delimited
// continuation. Everything below the marker is left untouched, so the
// boundary survives for further captures.
func execShift(s *State, c trace.Shift, at time.Time) StepResult {
	m, ok := s.ValidMarker()
	if !ok {
		log.Trace().Str("name", c.Name).Msg("shift: no valid reset marker")
		return NoOp
	}
	p := s.Primary()
	real := p.RealFrames()
	marked := real[m.FrameIndex]
	above := real[m.FrameIndex+1:]
	cut := min(max(m.ItemIndex, 0), len(marked.Items))
	captured := marked.Items[cut:]

	cont := &Continuation{
		Name:        c.Name,
		CaptureType: CaptureShift,
	}
	if len(captured) > 0 {
		f := &Frame{
			ID:          s.IDs.Alloc(),
			Name:        marked.Name,
			CaptureType: CaptureShift,
		}
		f.Items = s.IDs.copyItems(captured, false)
		cont.Frames = append(cont.Frames, f)
	}
	for _, fa := range above {
		f := s.IDs.copyFrame(fa, false)
		f.CaptureType = CaptureShift
		cont.Frames = append(cont.Frames, f)
	}
	cont.ID = s.IDs.Alloc()

	for _, it := range captured {
		s.Effects.RemovedItems = append(s.Effects.RemovedItems, it.ID)
	}
	for _, fa := range above {
		for _, it := range fa.Items {
			s.Effects.RemovedItems = append(s.Effects.RemovedItems, it.ID)
		}
	}

	s.Continuations = append(s.Continuations, cont)

	marked.Items = marked.Items[:cut:cut]
	frames := append([]*Frame{}, real[:m.FrameIndex+1]...)
	p.Frames = append(frames, p.OutputFrames()...)
	s.markPrimaryTop()

	s.History = append(s.History, HistoryEntry{
		Action:    ActionShift,
		Timestamp: at,
		Snapshot:  c.Expr,
	})
	s.Effects.Captured = c.Name
	return Applied
}

// execSet binds the most recent continuation to a callable name by standing
// it up as a new tower topped with a `(<name>)` frame.
func execSet(s *State, c trace.Set, at time.Time) StepResult {
	if len(s.Continuations) == 0 {
		log.Trace().Str("name", c.Name).Msg("set: no continuation to bind")
		return NoOp
	}
	cont := s.Continuations[len(s.Continuations)-1]
	t := &Tower{}
	for _, f := range cont.Frames {
		t.Frames = append(t.Frames, s.IDs.copyFrame(f, true))
	}
	fn := &Frame{
		ID:   s.IDs.Alloc(),
		Name: "(" + c.Name + ")",
	}
	t.Frames = append(t.Frames, fn)
	t.ID = s.IDs.Alloc()
	s.Towers = append(s.Towers, t)

	for _, f := range t.Frames {
		s.Effects.PushedFrames = append(s.Effects.PushedFrames, f.ID)
	}
	s.History = append(s.History, HistoryEntry{
		Action:    ActionSet,
		Timestamp: at,
		Snapshot:  fmt.Sprintf("%s => %s", c.Name, c.Expr),
		Target:    c.Name,
	})
	return Applied
}

// execCapture snapshots the whole last tower as an undelimited continuation.
// With no tower at all the continuation is empty.
func execCapture(s *State, c trace.Capture, at time.Time) StepResult {
	src := s.Last()
	if src == nil {
		// Top-level call/cc still needs a continuation to invoke later.
		src = &Tower{}
	}
	cont := s.IDs.copyTower(src, false)
	cont.Name = c.Name
	cont.CaptureType = CaptureNone
	s.Continuations = append(s.Continuations, cont)

	s.History = append(s.History, HistoryEntry{
		Action:    ActionCapture,
		Timestamp: at,
		Snapshot:  fmt.Sprintf("%s => %s", c.Name, c.Expr),
	})
	s.Effects.Captured = c.Name
	return Applied
}

// execInvoke resumes a stored continuation. A shift continuation is composed
// on top of tower 0 and stays available; an undelimited one replaces tower 0
// and is consumed.
func execInvoke(s *State, c trace.Invoke, at time.Time) StepResult {
	cont, idx, ok := s.Lookup(c.Name)
	if !ok {
		log.Trace().Str("name", c.Name).Msg("invoke: unknown continuation")
		return NoOp
	}
	s.History = append(s.History, HistoryEntry{
		Action:    ActionInvoke,
		Timestamp: at,
		Snapshot:  fmt.Sprintf("value:%s %s => %s", c.Value, c.Name, c.Marks),
	})

	f := &Frame{Name: fmt.Sprintf("(%s %s)", c.Name, c.Value)}
	for _, cf := range cont.Frames {
		f.Items = append(f.Items, s.IDs.copyItems(cf.Items, true)...)
	}
	f.ID = s.IDs.Alloc()
	for _, it := range f.Items {
		s.Effects.PushedItems = append(s.Effects.PushedItems, it.ID)
	}
	s.Effects.PushedFrames = append(s.Effects.PushedFrames, f.ID)
	s.Effects.Invoked = c.Name

	if cont.CaptureType == CaptureShift {
		p := s.Primary()
		if p == nil {
			s.Towers = []*Tower{{ID: s.IDs.Alloc(), Frames: []*Frame{f}}}
			return Applied
		}
		frames := append(p.RealFrames(), f)
		p.Frames = append(frames, p.OutputFrames()...)
		return Applied
	}

	t := &Tower{ID: s.IDs.Alloc(), Frames: []*Frame{f}}
	if len(s.Towers) == 0 {
		s.Towers = []*Tower{t}
	} else {
		s.Towers[0] = t
	}
	s.Continuations = append(s.Continuations[:idx:idx], s.Continuations[idx+1:]...)
	s.Effects.ClearedPrimary = true
	return Applied
}
