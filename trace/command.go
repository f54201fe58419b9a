package trace

import "fmt"

// Kind names the shape of a classified trace line.
type Kind int

const (
	KindReset Kind = iota
	KindShift
	KindSet
	KindCall
	KindPush
	KindFrameOutput
	KindPop
	KindCapture
	KindInvoke
	KindOutput
)

func (k Kind) String() string {
	switch k {
	case KindReset:
		return "Reset"
	case KindShift:
		return "Shift"
	case KindSet:
		return "Set"
	case KindCall:
		return "Call"
	case KindPush:
		return "Push"
	case KindFrameOutput:
		return "FrameOutput"
	case KindPop:
		return "Pop"
	case KindCapture:
		return "Capture"
	case KindInvoke:
		return "Invoke"
	case KindOutput:
		return "Output"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Command is one classified trace line. The concrete types below are the
// only implementations.
type Command interface {
	Kind() Kind
}

// Reset is `reset: (<expr>)`.
type Reset struct {
	Expr string
}

// Shift is `shift: <name> (<expr>)`.
type Shift struct {
	Name string
	Expr string
}

// Set is `set: <name> => <expr>`.
type Set struct {
	Name string
	Expr string
}

// Call is a line of one or more `> (<call-expr>)` occurrences.
type Call struct {
	Exprs []string
}

// Push is `push (<expr>)`.
type Push struct {
	Expr string
}

// FrameOutput is any line containing `<`.
type FrameOutput struct {
	Line string
}

// Pop is `pop <expr> => <result>`.
type Pop struct {
	Expr   string
	Result string
}

// Capture is `capture: <name> (<expr>)`.
type Capture struct {
	Name string
	Expr string
}

// Invoke is `call: <name> (value:<v>,marks:<expr>)`.
type Invoke struct {
	Name  string
	Value string
	Marks string
}

// Output is any line that matched nothing else.
type Output struct {
	Line string
}

func (Reset) Kind() Kind       { return KindReset }
func (Shift) Kind() Kind       { return KindShift }
func (Set) Kind() Kind         { return KindSet }
func (Call) Kind() Kind        { return KindCall }
func (Push) Kind() Kind        { return KindPush }
func (FrameOutput) Kind() Kind { return KindFrameOutput }
func (Pop) Kind() Kind         { return KindPop }
func (Capture) Kind() Kind     { return KindCapture }
func (Invoke) Kind() Kind      { return KindInvoke }
func (Output) Kind() Kind      { return KindOutput }
