package interp

import (
	"regexp"
	"strings"
	"time"

	"github.com/contviz-dev/contviz/trace"
	"github.com/rs/zerolog/log"
)

var (
	resetWordRe = regexp.MustCompile(`\breset\b`)
	boundCallRe = regexp.MustCompile(`^(\w+)\s+(.+)$`)
)

// Step applies one classified command to the state. It never fails: a command
// whose preconditions do not hold leaves the state as it was and reports NoOp.
func Step(s *State, cmd trace.Command, at time.Time) StepResult {
	s.Effects = Effects{}
	var res StepResult
	switch c := cmd.(type) {
	case trace.Reset:
		res = execReset(s, c, at)
	case trace.Shift:
		res = execShift(s, c, at)
	case trace.Set:
		res = execSet(s, c, at)
	case trace.Call:
		res = execCall(s, c)
	case trace.Push:
		res = execPush(s, c)
	case trace.FrameOutput:
		res = execFrameOutput(s)
	case trace.Pop:
		res = execPop(s, c)
	case trace.Capture:
		res = execCapture(s, c, at)
	case trace.Invoke:
		res = execInvoke(s, c, at)
	case trace.Output:
		res = execOutput(s, c)
	default:
		res = NoOp
	}
	log.Trace().
		Str("command", cmd.Kind().String()).
		Str("result", res.String()).
		Int("towers", len(s.Towers)).
		Int("continuations", len(s.Continuations)).
		Msg("Step: applied command")
	return res
}

func execReset(s *State, c trace.Reset, at time.Time) StepResult {
	s.History = append(s.History, HistoryEntry{
		Action:    ActionReset,
		Timestamp: at,
		Snapshot:  strings.TrimSpace(resetWordRe.ReplaceAllString(c.Expr, "")),
	})
	s.markPrimaryTop()
	return Applied
}

func execCall(s *State, c trace.Call) StepResult {
	last := s.Last()
	var names []string
	replace := false
	replacement := ""
	for _, expr := range c.Exprs {
		m := boundCallRe.FindStringSubmatch(expr)
		if m == nil || !s.IsSetTarget(m[1]) {
			names = append(names, "("+expr+")")
			continue
		}
		fn, arg := m[1], m[2]
		if last != nil {
			if top := last.Top(); top != nil && top.Name == "("+fn+")" {
				replace = true
				replacement = arg
				continue
			}
		}
		names = append(names, arg)
	}

	if replace {
		// The bound continuation returned; its frame becomes the value it
		// returned. Other calls on the same line are dropped.
		out := &Frame{
			ID:            s.IDs.Alloc(),
			DisplayValue:  replacement,
			IsOutputFrame: true,
		}
		last.Frames[len(last.Frames)-1] = out
		s.Effects.PushedFrames = append(s.Effects.PushedFrames, out.ID)
		return Applied
	}

	if last == nil {
		last = &Tower{ID: s.IDs.Alloc()}
		s.Towers = append(s.Towers, last)
	}
	existing := make(map[string]*Frame)
	for _, f := range last.Frames {
		if _, ok := existing[f.Name]; !ok {
			existing[f.Name] = f
		}
	}
	for _, name := range names {
		if f, ok := existing[name]; ok {
			s.Effects.HighlightedFrames = appendUnique(s.Effects.HighlightedFrames, f.ID)
			continue
		}
		f := &Frame{ID: s.IDs.Alloc(), Name: name}
		last.Frames = append(last.Frames, f)
		existing[name] = f
		s.Effects.PushedFrames = append(s.Effects.PushedFrames, f.ID)
	}
	return Applied
}

func appendUnique(ids []int, id int) []int {
	for _, x := range ids {
		if x == id {
			return ids
		}
	}
	return append(ids, id)
}

func execPush(s *State, c trace.Push) StepResult {
	value := "(" + c.Expr + ")"
	p := s.Primary()
	if p == nil {
		p = &Tower{ID: s.IDs.Alloc()}
		s.Towers = append(s.Towers, p)
	}
	top := p.TopReal()
	if top == nil {
		top = &Frame{ID: s.IDs.Alloc(), Name: "(main)"}
		p.Frames = append([]*Frame{top}, p.Frames...)
		s.Effects.PushedFrames = append(s.Effects.PushedFrames, top.ID)
	}
	it := &Item{ID: s.IDs.Alloc(), Value: value}
	top.Items = append(top.Items, it)
	s.Effects.PushedItems = append(s.Effects.PushedItems, it.ID)
	return Applied
}

func execFrameOutput(s *State) StepResult {
	p := s.Primary()
	if p == nil {
		return NoOp
	}
	real := p.RealFrames()
	if len(real) == 0 {
		log.Trace().Msg("frame output: no real frame on tower 0")
		return NoOp
	}
	top := real[len(real)-1]
	frames := real[:len(real)-1]
	if top.DisplayValue != "" {
		out := &Frame{
			ID:            s.IDs.Alloc(),
			DisplayValue:  top.DisplayValue,
			IsOutputFrame: true,
		}
		frames = append(frames, out)
		s.Effects.PushedFrames = append(s.Effects.PushedFrames, out.ID)
	}
	p.Frames = frames
	return Applied
}

func execPop(s *State, c trace.Pop) StepResult {
	p := s.Primary()
	if p == nil {
		return NoOp
	}
	top := p.TopReal()
	if top == nil || len(top.Items) == 0 {
		log.Trace().Str("expr", c.Expr).Msg("pop: nothing to pop on tower 0")
		return NoOp
	}
	removed := top.Items[len(top.Items)-1]
	top.Items = top.Items[:len(top.Items)-1]
	top.DisplayValue = c.Result
	p.Frames = p.RealFrames()
	s.Effects.RemovedItems = append(s.Effects.RemovedItems, removed.ID)
	return Applied
}

// execOutput records a finished value and shrinks tower 0 to the frames that
// still hold work, dropping the tower when none do.
func execOutput(s *State, c trace.Output) StepResult {
	s.Output = append(s.Output, c.Line)
	p := s.Primary()
	if p == nil {
		return Applied
	}
	var kept []*Frame
	for _, f := range p.Frames {
		if f.IsOutputFrame || len(f.Items) == 0 {
			continue
		}
		kept = append(kept, f)
	}
	if len(kept) == 0 {
		s.Towers = s.Towers[1:]
		s.Effects.ClearedPrimary = true
		return Applied
	}
	p.Frames = kept
	return Applied
}
