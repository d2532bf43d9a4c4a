package reply

import (
	"bufio"
	"io"
	"strconv"
)

// RESPWriter encodes the event stream as RESP onto an underlying writer.
//
// Booleans have no RESP2 representation and follow the scripting
// convention: true becomes the integer 1, false becomes null. Doubles are
// sent as bulk strings. Output is buffered; call Flush when the value is
// complete.
type RESPWriter struct {
	bw  *bufio.Writer
	err error
}

// NewRESPWriter returns a RESPWriter encoding onto w.
func NewRESPWriter(w io.Writer) *RESPWriter {
	return &RESPWriter{bw: bufio.NewWriter(w)}
}

func (w *RESPWriter) write(p []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.bw.Write(p)
}

func (w *RESPWriter) line(prefix byte, s string) {
	buf := make([]byte, 0, len(s)+3)
	buf = append(buf, prefix)
	buf = append(buf, s...)
	buf = append(buf, '\r', '\n')
	w.write(buf)
}

func (w *RESPWriter) WriteBool(v bool) {
	if v {
		w.WriteInt(1)
		return
	}
	w.WriteNull()
}

func (w *RESPWriter) WriteBulk(s string) {
	w.line('$', strconv.Itoa(len(s)))
	w.write([]byte(s))
	w.write([]byte("\r\n"))
}

func (w *RESPWriter) WriteDouble(f float64) {
	w.WriteBulk(strconv.FormatFloat(f, 'g', 17, 64))
}

func (w *RESPWriter) WriteInt(i int64) {
	w.line(':', strconv.FormatInt(i, 10))
}

func (w *RESPWriter) StartArray(n int) {
	w.line('*', strconv.Itoa(n))
}

// EndArray is a no-op: RESP declares array lengths up front.
func (w *RESPWriter) EndArray() {}

func (w *RESPWriter) WriteNull() {
	w.write([]byte("$-1\r\n"))
}

func (w *RESPWriter) WriteStatus(s string) {
	w.line('+', s)
}

func (w *RESPWriter) WriteError(s string) {
	w.line('-', s)
}

// Flush drains the buffer and reports the first error encountered during
// the pass, if any.
func (w *RESPWriter) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.bw.Flush()
}
