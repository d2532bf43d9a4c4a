package reply

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// TextWriter renders the event stream in a human-readable form close to
// what redis-cli prints: integers as "(integer) n", bulks quoted, nulls as
// "(nil)", array elements numbered and indented per nesting level.
type TextWriter struct {
	w      io.Writer
	counts []int
	err    error
}

// NewTextWriter returns a TextWriter rendering onto w.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

func (t *TextWriter) line(s string) {
	var b strings.Builder
	if n := len(t.counts); n > 0 {
		t.counts[n-1]++
		b.WriteString(strings.Repeat("   ", n-1))
		b.WriteString(strconv.Itoa(t.counts[n-1]))
		b.WriteString(") ")
	}
	b.WriteString(s)
	b.WriteByte('\n')
	if t.err == nil {
		_, t.err = io.WriteString(t.w, b.String())
	}
}

func (t *TextWriter) WriteBool(v bool) {
	if v {
		t.line("(integer) 1")
		return
	}
	t.line("(nil)")
}

func (t *TextWriter) WriteBulk(s string) {
	t.line(strconv.Quote(s))
}

func (t *TextWriter) WriteDouble(f float64) {
	t.line("(double) " + strconv.FormatFloat(f, 'g', -1, 64))
}

func (t *TextWriter) WriteInt(i int64) {
	t.line(fmt.Sprintf("(integer) %d", i))
}

func (t *TextWriter) StartArray(n int) {
	if n == 0 {
		t.line("(empty array)")
	}
	t.counts = append(t.counts, 0)
}

func (t *TextWriter) EndArray() {
	if n := len(t.counts); n > 0 {
		t.counts = t.counts[:n-1]
	}
}

func (t *TextWriter) WriteNull() {
	t.line("(nil)")
}

func (t *TextWriter) WriteStatus(s string) {
	t.line(s)
}

func (t *TextWriter) WriteError(s string) {
	t.line("(error) " + s)
}

// Flush reports the first write error encountered during the pass.
func (t *TextWriter) Flush() error {
	return t.err
}
