package trace

import (
	"regexp"
	"strings"
)

var (
	resetRe   = regexp.MustCompile(`^reset:\s*\((.+)\)`)
	shiftRe   = regexp.MustCompile(`^shift:\s*(\w+)\s*\((.+)\)`)
	setRe     = regexp.MustCompile(`^set:\s*(\S+)\s*=>\s*(.+)`)
	callRe    = regexp.MustCompile(`>\s*\(([^)]+)\)`)
	pushRe    = regexp.MustCompile(`^push\s+\(`)
	popRe     = regexp.MustCompile(`^pop\s+(.+?)\s*=>\s*(.+)`)
	captureRe = regexp.MustCompile(`capture:\s*(\w+)\s*\((.+)\)`)
	invokeRe  = regexp.MustCompile(`call:\s*(\w+)\s*\(value:([^,]+),marks:(.+)\)`)
)

type matcher func(line string) (Command, bool)

// matchers are tried in order; the first hit wins.
var matchers = []matcher{
	matchReset,
	matchShift,
	matchSet,
	matchCall,
	matchPush,
	matchFrameOutput,
	matchPop,
	matchCapture,
	matchInvoke,
}

// Split breaks trace text into trimmed, non-blank lines.
func Split(text string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Classify maps one trace line to its command. It never fails: anything
// unrecognised is an Output.
func Classify(line string) Command {
	line = strings.TrimSpace(line)
	for _, m := range matchers {
		if c, ok := m(line); ok {
			return c
		}
	}
	return Output{Line: line}
}

func matchReset(line string) (Command, bool) {
	m := resetRe.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	return Reset{Expr: m[1]}, true
}

func matchShift(line string) (Command, bool) {
	m := shiftRe.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	return Shift{Name: m[1], Expr: m[2]}, true
}

func matchSet(line string) (Command, bool) {
	m := setRe.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	return Set{Name: m[1], Expr: strings.TrimSpace(m[2])}, true
}

func matchCall(line string) (Command, bool) {
	if !strings.HasPrefix(line, ">") {
		return nil, false
	}
	all := callRe.FindAllStringSubmatch(line, -1)
	if len(all) == 0 {
		return nil, false
	}
	c := Call{}
	for _, m := range all {
		c.Exprs = append(c.Exprs, m[1])
	}
	return c, true
}

func matchPush(line string) (Command, bool) {
	loc := pushRe.FindStringIndex(line)
	if loc == nil {
		return nil, false
	}
	rest := line[loc[1]:]
	end := unmatchedClose(rest)
	if end <= 0 {
		return nil, false
	}
	return Push{Expr: rest[:end]}, true
}

func matchFrameOutput(line string) (Command, bool) {
	if !strings.Contains(line, "<") {
		return nil, false
	}
	return FrameOutput{Line: line}, true
}

func matchPop(line string) (Command, bool) {
	m := popRe.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	return Pop{Expr: m[1], Result: strings.TrimSpace(m[2])}, true
}

func matchCapture(line string) (Command, bool) {
	m := captureRe.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	return Capture{Name: m[1], Expr: m[2]}, true
}

func matchInvoke(line string) (Command, bool) {
	m := invokeRe.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	return Invoke{
		Name:  m[1],
		Value: strings.TrimSpace(m[2]),
		Marks: balancedFromFirstOpen(m[3]),
	}, true
}
