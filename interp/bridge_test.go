package interp_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/skiffdb/luakit/interp"
	"github.com/skiffdb/luakit/reply"
)

// fakeDispatcher replies with a canned event script per command name and
// records every argument vector it sees.
type fakeDispatcher struct {
	calls   [][]string
	replies map[string]func(w reply.Writer)
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{replies: make(map[string]func(w reply.Writer))}
}

func (d *fakeDispatcher) dispatch(args [][]byte, w reply.Writer) {
	call := make([]string, len(args))
	for i, a := range args {
		call[i] = string(a)
	}
	d.calls = append(d.calls, call)

	if fn, ok := d.replies[call[0]]; ok {
		fn(w)
		return
	}
	w.WriteError("ERR unknown command '" + call[0] + "'")
}

func TestCallDeliversReply(t *testing.T) {
	d := newFakeDispatcher()
	d.replies["ping"] = func(w reply.Writer) { w.WriteStatus("PONG") }
	ir := newInterp(t, interp.WithCommandFunc(d.dispatch))

	if _, err := ir.Execute(`return store.call("ping")`); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	events := serialize(t, ir)
	if len(events) != 1 || events[0].Kind != reply.KindStatus || events[0].Str != "PONG" {
		t.Fatalf("unexpected events: %+v", events)
	}
	if len(d.calls) != 1 || d.calls[0][0] != "ping" {
		t.Fatalf("dispatcher saw calls %v", d.calls)
	}
}

func TestCallArgumentConversion(t *testing.T) {
	d := newFakeDispatcher()
	d.replies["echo"] = func(w reply.Writer) { w.WriteStatus("OK") }
	ir := newInterp(t, interp.WithCommandFunc(d.dispatch))

	// Numbers cross the bridge as their string form.
	if _, err := ir.Execute(`return store.call("echo", "a", 42)`); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	want := []string{"echo", "a", "42"}
	if len(d.calls) != 1 {
		t.Fatalf("dispatcher saw %d calls", len(d.calls))
	}
	for i, arg := range want {
		if d.calls[0][i] != arg {
			t.Errorf("arg %d: got %q, want %q", i, d.calls[0][i], arg)
		}
	}
}

func TestCallRejectsNonScalarArguments(t *testing.T) {
	ir := newInterp(t, interp.WithCommandFunc(newFakeDispatcher().dispatch))

	_, err := ir.Execute(`return store.call("get", {})`)
	var rerr *interp.RuntimeError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *RuntimeError, got %T: %v", err, err)
	}
	if !strings.Contains(rerr.Detail, "strings or numbers") {
		t.Errorf("error text %q does not explain the argument constraint", rerr.Detail)
	}
}

func TestCallRaisesOnCommandError(t *testing.T) {
	d := newFakeDispatcher()
	ir := newInterp(t, interp.WithCommandFunc(d.dispatch))

	_, err := ir.Execute(`store.call("nosuch") return "unreached"`)
	var rerr *interp.RuntimeError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *RuntimeError, got %T: %v", err, err)
	}
	if !strings.Contains(rerr.Detail, "unknown command 'nosuch'") {
		t.Errorf("error text %q does not carry the dispatcher's message", rerr.Detail)
	}
	if ir.Depth() != 0 {
		t.Errorf("depth %d after raised command error, want 0", ir.Depth())
	}
}

func TestPCallTrapsCommandError(t *testing.T) {
	d := newFakeDispatcher()
	ir := newInterp(t, interp.WithCommandFunc(d.dispatch))

	// The invocation survives and the error comes back as a value.
	if _, err := ir.Execute(`return store.pcall("nosuch")`); err != nil {
		t.Fatalf("pcall aborted the invocation: %v", err)
	}
	events := serialize(t, ir)
	if len(events) != 1 || events[0].Kind != reply.KindError {
		t.Fatalf("expected a single error-line event, got %+v", events)
	}
	if !strings.Contains(events[0].Str, "unknown command 'nosuch'") {
		t.Errorf("trapped error %q does not carry the dispatcher's message", events[0].Str)
	}
	if ir.Depth() != 0 {
		t.Errorf("depth %d after trapped command error, want 0", ir.Depth())
	}
}

func TestPCallErrorInspectable(t *testing.T) {
	d := newFakeDispatcher()
	ir := newInterp(t, interp.WithCommandFunc(d.dispatch))

	body := `
		local r = store.pcall("nosuch")
		if r.err then return "recovered" end
		return "no error seen"`
	if _, err := ir.Execute(body); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	events := serialize(t, ir)
	if len(events) != 1 || events[0].Str != "recovered" {
		t.Fatalf("script could not inspect the trapped error: %+v", events)
	}
}

func TestCallRebuildsNestedReply(t *testing.T) {
	d := newFakeDispatcher()
	d.replies["range"] = func(w reply.Writer) {
		w.StartArray(3)
		w.WriteBulk("a")
		w.StartArray(2)
		w.WriteInt(7)
		w.WriteNull()
		w.EndArray()
		w.WriteStatus("DONE")
		w.EndArray()
	}
	ir := newInterp(t, interp.WithCommandFunc(d.dispatch))

	body := `
		local r = store.call("range")
		return {r[1], r[2][1], r[2][2] == false, r[3].ok}`
	if _, err := ir.Execute(body); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	events := serialize(t, ir)
	want := []reply.Event{
		{Kind: reply.KindArrayStart, Len: 4},
		{Kind: reply.KindBulk, Str: "a"},
		{Kind: reply.KindInt, Int: 7},
		{Kind: reply.KindBool, Bool: true}, // null replies surface as false
		{Kind: reply.KindBulk, Str: "DONE"},
		{Kind: reply.KindArrayEnd},
	}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(events), len(want), events)
	}
	for i := range events {
		if events[i] != want[i] {
			t.Errorf("event %d: got %+v, want %+v", i, events[i], want[i])
		}
	}
}

func TestCallWithoutDispatcher(t *testing.T) {
	ir := newInterp(t)

	_, err := ir.Execute(`return store.call("get", "k")`)
	var rerr *interp.RuntimeError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *RuntimeError, got %T: %v", err, err)
	}
	if !strings.Contains(rerr.Detail, "disabled") {
		t.Errorf("error text %q does not mention dispatch being disabled", rerr.Detail)
	}
}

func TestDepthVisibleDuringDispatch(t *testing.T) {
	ir := newInterp(t)
	var observed int
	ir.SetCommandFunc(func(args [][]byte, w reply.Writer) {
		observed = ir.Depth()
		w.WriteStatus("OK")
	})

	if _, err := ir.Execute(`return store.call("ping")`); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if observed != 1 {
		t.Errorf("depth during dispatch = %d, want 1", observed)
	}
	if ir.Depth() != 0 {
		t.Errorf("depth after run = %d, want 0", ir.Depth())
	}
}

func TestSetCommandFuncDisables(t *testing.T) {
	d := newFakeDispatcher()
	d.replies["ping"] = func(w reply.Writer) { w.WriteStatus("PONG") }
	ir := newInterp(t, interp.WithCommandFunc(d.dispatch))

	if _, err := ir.Execute(`return store.call("ping")`); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	serialize(t, ir)

	ir.SetCommandFunc(nil)
	if _, err := ir.Execute(`return store.call("ping") .. "x"`); err == nil {
		t.Fatal("expected an error after disabling dispatch")
	}
}
