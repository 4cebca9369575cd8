// Package display renders received traffic for the operator.
package display

import (
	"fmt"
	"io"
	"sync"

	"github.com/golang/glog"
)

// Sink accepts two short text lines, a label and a value, the way a
// two-row character display would.
type Sink interface {
	Show(label, value string)
}

// FormatID renders a frame identifier as 3-digit uppercase hex.
func FormatID(id uint16) string {
	return fmt.Sprintf("%03X", id)
}

// FormatPayload renders payload bytes as consecutive 2-digit uppercase
// hex pairs with no separator.
func FormatPayload(data []byte) string {
	out := make([]byte, 0, len(data)*2)
	for _, b := range data {
		out = append(out, fmt.Sprintf("%02X", b)...)
	}
	return string(out)
}

// Console is a Sink writing label/value pairs to a writer.
type Console struct {
	Writer io.Writer

	lock sync.Mutex
}

// NewConsole creates a Console.
func NewConsole(w io.Writer) *Console {
	return &Console{Writer: w}
}

// Show implements Sink.
func (c *Console) Show(label, value string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	fmt.Fprintf(c.Writer, "%-8s %s\n", label, value)
}

// Log is a Sink writing to the process log, for headless runs.
type Log struct{}

// Show implements Sink.
func (Log) Show(label, value string) {
	glog.Infof("%s: %s", label, value)
}
