package interp

import (
	"fmt"
	"strings"
)

// FormatFrame formats a frame header for display.
func FormatFrame(f *Frame) string {
	if f.IsOutputFrame {
		return fmt.Sprintf("=> %s", f.DisplayValue)
	}
	s := fmt.Sprintf("%s #%d", f.Name, f.ID)
	if f.DisplayValue != "" {
		s += fmt.Sprintf(" [%s]", f.DisplayValue)
	}
	if f.CaptureType == CaptureShift {
		s += " (shift)"
	}
	return s
}

// FormatItem formats an item for display. Continuation-carried items are
// starred.
func FormatItem(it *Item) string {
	if it.FromContinuation {
		return fmt.Sprintf("*%s #%d", it.Value, it.ID)
	}
	return fmt.Sprintf("%s #%d", it.Value, it.ID)
}

func writeTower(b *strings.Builder, t *Tower, indent string) {
	if len(t.Frames) == 0 {
		b.WriteString(indent + "(no frames)\n")
		return
	}
	// Top of stack first.
	for i := len(t.Frames) - 1; i >= 0; i-- {
		f := t.Frames[i]
		b.WriteString(indent + FormatFrame(f) + "\n")
		for j := len(f.Items) - 1; j >= 0; j-- {
			b.WriteString(indent + "  " + FormatItem(f.Items[j]) + "\n")
		}
	}
}

// PrettyPrint returns a plain-text rendering of the state
func (s *State) PrettyPrint() string {
	var b strings.Builder

	b.WriteString("Towers:\n")
	if len(s.Towers) == 0 {
		b.WriteString("  (empty)\n")
	}
	for i, t := range s.Towers {
		label := fmt.Sprintf("  Tower %d #%d", i, t.ID)
		if t.Name != "" {
			label += " " + t.Name
		}
		b.WriteString(label + ":\n")
		writeTower(&b, t, "    ")
	}

	if s.Marker != nil {
		fmt.Fprintf(&b, "Reset marker: frame %d, item %d\n", s.Marker.FrameIndex, s.Marker.ItemIndex)
	}

	b.WriteString("Continuations:\n")
	if len(s.Continuations) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, c := range s.Continuations {
		fmt.Fprintf(&b, "  %s [%s] #%d:\n", c.Name, c.CaptureType, c.ID)
		writeTower(&b, c, "    ")
	}

	if len(s.History) > 0 {
		b.WriteString("History:\n")
		for _, h := range s.History {
			fmt.Fprintf(&b, "  %-8s %s\n", h.Action, h.Snapshot)
		}
	}

	if len(s.Output) > 0 {
		b.WriteString("Output:\n")
		for _, o := range s.Output {
			b.WriteString("  " + o + "\n")
		}
	}
	return b.String()
}
