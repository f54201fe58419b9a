package interp

import (
	"fmt"
	"time"
)

// CaptureType tags frames, towers and continuations created by a capture.
type CaptureType int

const (
	CaptureNone  CaptureType = iota
	CaptureShift             // delimited, composable, multi-shot
)

func (c CaptureType) String() string {
	switch c {
	case CaptureNone:
		return "None"
	case CaptureShift:
		return "Shift"
	default:
		return fmt.Sprintf("Unknown(%d)", c)
	}
}

// Item is one pushed sub-expression or continuation-carried value.
type Item struct {
	ID               int    `json:"id" yaml:"id"`
	Value            string `json:"value" yaml:"value"`
	FromContinuation bool   `json:"fromContinuation,omitempty" yaml:"fromContinuation,omitempty"`
}

// Frame is one call activation or one materialized result.
type Frame struct {
	ID    int     `json:"id" yaml:"id"`
	Name  string  `json:"name" yaml:"name"`
	Items []*Item `json:"items" yaml:"items"`
	// DisplayValue is a completed return value waiting to be consumed.
	DisplayValue  string      `json:"displayValue,omitempty" yaml:"displayValue,omitempty"`
	IsOutputFrame bool        `json:"isOutputFrame,omitempty" yaml:"isOutputFrame,omitempty"`
	CaptureType   CaptureType `json:"captureType,omitempty" yaml:"captureType,omitempty"`
}

// Tower is one simulated call stack. Index 0 of State.Towers is the live
// primary stack.
type Tower struct {
	ID          int         `json:"id" yaml:"id"`
	Name        string      `json:"name,omitempty" yaml:"name,omitempty"`
	Frames      []*Frame    `json:"frames" yaml:"frames"`
	CaptureType CaptureType `json:"captureType,omitempty" yaml:"captureType,omitempty"`
}

// Continuation is a stored tower snapshot, named after the binding used at
// capture time.
type Continuation = Tower

// ResetMarker points at the nearest enclosing delimiter on tower 0.
type ResetMarker struct {
	FrameIndex int `json:"frameIndex" yaml:"frameIndex"`
	ItemIndex  int `json:"itemIndex" yaml:"itemIndex"`
}

type Action int

const (
	ActionCapture Action = iota
	ActionInvoke
	ActionSet
	ActionReset
	ActionShift
)

func (a Action) String() string {
	switch a {
	case ActionCapture:
		return "Capture"
	case ActionInvoke:
		return "Invoke"
	case ActionSet:
		return "Set"
	case ActionReset:
		return "Reset"
	case ActionShift:
		return "Shift"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

type HistoryEntry struct {
	Action    Action    `json:"action" yaml:"action"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Snapshot  string    `json:"snapshot" yaml:"snapshot"`
	// Target is the bound name for Set entries.
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
}

// Effects lists what the last applied command touched. Presentation layers
// use it to decide what to animate; transitions never read it.
type Effects struct {
	PushedFrames      []int  `json:"pushedFrames,omitempty" yaml:"pushedFrames,omitempty"`
	PushedItems       []int  `json:"pushedItems,omitempty" yaml:"pushedItems,omitempty"`
	RemovedItems      []int  `json:"removedItems,omitempty" yaml:"removedItems,omitempty"`
	HighlightedFrames []int  `json:"highlightedFrames,omitempty" yaml:"highlightedFrames,omitempty"`
	Captured          string `json:"captured,omitempty" yaml:"captured,omitempty"`
	Invoked           string `json:"invoked,omitempty" yaml:"invoked,omitempty"`
	ClearedPrimary    bool   `json:"clearedPrimary,omitempty" yaml:"clearedPrimary,omitempty"`
}

type StepResult int

const (
	Applied StepResult = iota
	NoOp
	End
)

func (r StepResult) String() string {
	switch r {
	case Applied:
		return "Applied"
	case NoOp:
		return "NoOp"
	case End:
		return "End"
	default:
		return fmt.Sprintf("Unknown(%d)", r)
	}
}
