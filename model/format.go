package model

import (
	"fmt"
	"io"
	"strings"

	"github.com/contviz-dev/contviz/interp"
	"github.com/gookit/color"
)

const rule = "--------------------------------------------------------------------------------"

func section(b *strings.Builder, title string) {
	b.WriteString(color.Gray.Sprint(rule))
	b.WriteString("\n")
	b.WriteString(color.Cyan.Sprint(title))
	b.WriteString("\n")
	b.WriteString(color.Gray.Sprint(rule))
	b.WriteString("\n")
}

func formatTower(b *strings.Builder, t *interp.Tower, p Projection) {
	if len(t.Frames) == 0 {
		b.WriteString(color.Gray.Sprint("    (no frames)\n"))
		return
	}
	highlighted := make(map[int]bool)
	for _, id := range p.Effects.HighlightedFrames {
		highlighted[id] = true
	}
	pushed := make(map[int]bool)
	for _, id := range p.Effects.PushedFrames {
		pushed[id] = true
	}
	for _, id := range p.Effects.PushedItems {
		pushed[id] = true
	}

	for i := len(t.Frames) - 1; i >= 0; i-- {
		f := t.Frames[i]
		switch {
		case f.IsOutputFrame:
			b.WriteString("    ")
			b.WriteString(color.Green.Sprintf("=> %s", f.DisplayValue))
		case highlighted[f.ID]:
			b.WriteString("  ! ")
			b.WriteString(color.Bold.Sprint(color.Yellow.Sprint(f.Name)))
		case pushed[f.ID]:
			b.WriteString("  + ")
			b.WriteString(color.Yellow.Sprint(f.Name))
		default:
			b.WriteString("    ")
			b.WriteString(color.Yellow.Sprint(f.Name))
		}
		if !f.IsOutputFrame && f.DisplayValue != "" {
			b.WriteString(color.Green.Sprintf(" [%s]", f.DisplayValue))
		}
		b.WriteString(color.Gray.Sprintf(" #%d\n", f.ID))
		for j := len(f.Items) - 1; j >= 0; j-- {
			it := f.Items[j]
			mark := "      "
			if pushed[it.ID] {
				mark = "    + "
			}
			b.WriteString(mark)
			if it.FromContinuation {
				b.WriteString(color.Magenta.Sprint(it.Value))
			} else {
				b.WriteString(it.Value)
			}
			b.WriteString(color.Gray.Sprintf(" #%d\n", it.ID))
		}
	}
}

// FormatProjection renders a projection for a terminal
func FormatProjection(p Projection) string {
	var b strings.Builder
	b.WriteString(color.Bold.Sprint("Line:     "))
	b.WriteString(fmt.Sprintf("%d/%d", p.Cursor, p.Total))
	if p.Finished {
		b.WriteString(color.Green.Sprint(" (finished)"))
	}
	b.WriteString("\n")
	if p.Message != "" {
		b.WriteString(color.Bold.Sprint("Command:  "))
		b.WriteString(p.Message)
		b.WriteString("\n")
	}

	section(&b, "Stack:")
	if len(p.Towers) == 0 {
		b.WriteString("  (empty)\n")
	}
	for i, t := range p.Towers {
		b.WriteString(color.Bold.Sprintf("  Tower %d", i))
		if t.Name != "" {
			b.WriteString(" " + t.Name)
		}
		b.WriteString("\n")
		formatTower(&b, t, p)
		if i == 0 && p.Marker != nil {
			b.WriteString(color.Red.Sprintf("    reset marker: frame %d, item %d\n", p.Marker.FrameIndex, p.Marker.ItemIndex))
		}
	}

	section(&b, "Continuations:")
	if len(p.Continuations) == 0 {
		b.WriteString("  (none captured)\n")
	}
	for _, c := range p.Continuations {
		kind := "call/cc"
		if c.CaptureType == interp.CaptureShift {
			kind = "shift"
		}
		b.WriteString(color.Magenta.Sprintf("  %s", c.Name))
		b.WriteString(color.Gray.Sprintf(" (%s) #%d\n", kind, c.ID))
		formatTower(&b, c, p)
	}

	section(&b, "History:")
	if len(p.History) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, h := range p.History {
		b.WriteString(fmt.Sprintf("  %-8s ", h.Action))
		snap := h.Snapshot
		if snap == "" {
			snap = "empty"
		}
		b.WriteString(color.Gray.Sprintf("[%s]\n", snap))
	}

	if len(p.Output) > 0 {
		section(&b, "Output:")
		for _, o := range p.Output {
			b.WriteString("  ")
			b.WriteString(color.Green.Sprint(o))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// WriteTimeline writes every recorded step of the session, loading each state
// back from the snapshot store.
func WriteTimeline(w io.Writer, s *Session) {
	for i, h := range s.Timeline {
		line := ""
		if i < len(s.Lines) {
			line = s.Lines[i]
		}
		st, err := s.StateAt(i + 1)
		if err != nil {
			fmt.Fprintf(w, "\n  Step %d: %s → %s (unavailable)\n", i+1, line, h)
			continue
		}
		fmt.Fprintf(w, "\n  Step %d: %s\n", i+1, color.Bold.Sprint(line))
		fmt.Fprintf(w, "  ├─ State: %s\n", h)
		fmt.Fprint(w, "  └─ Model:\n")
		for _, l := range strings.Split(strings.TrimRight(st.PrettyPrint(), "\n"), "\n") {
			fmt.Fprintf(w, "     %s\n", l)
		}
	}
}
