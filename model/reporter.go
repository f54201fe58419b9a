package model

import (
	"fmt"
	"io"

	"github.com/gookit/color"
)

// Reporter receives one line per replayed step
type Reporter interface {
	Printf(format string, args ...interface{})
}

// SilentReporter drops everything
type SilentReporter struct{}

func (r *SilentReporter) Printf(format string, args ...interface{}) {}

// ColorReporter writes step lines to a writer (typically stderr)
type ColorReporter struct {
	Writer io.Writer
}

func (r *ColorReporter) Printf(format string, args ...interface{}) {
	fmt.Fprint(r.Writer, color.Gray.Sprintf(format, args...))
}
