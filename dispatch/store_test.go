package dispatch

import (
	"testing"

	"github.com/skiffdb/luakit/reply"
)

func storeRegistry() *Registry {
	r := NewRegistry()
	NewStore().RegisterAll(r)
	return r
}

func one(t *testing.T, r *Registry, vals ...string) reply.Event {
	t.Helper()
	events := dispatchTo(r, vals...)
	if len(events) != 1 {
		t.Fatalf("%v: expected 1 event, got %+v", vals, events)
	}
	return events[0]
}

func TestPing(t *testing.T) {
	r := storeRegistry()
	if e := one(t, r, "ping"); e.Kind != reply.KindStatus || e.Str != "PONG" {
		t.Errorf("unexpected reply: %+v", e)
	}
	if e := one(t, r, "ping", "hi"); e.Kind != reply.KindBulk || e.Str != "hi" {
		t.Errorf("unexpected reply: %+v", e)
	}
}

func TestSetGetDel(t *testing.T) {
	r := storeRegistry()

	if e := one(t, r, "set", "k", "v"); e.Kind != reply.KindStatus || e.Str != "OK" {
		t.Fatalf("set: %+v", e)
	}
	if e := one(t, r, "get", "k"); e.Kind != reply.KindBulk || e.Str != "v" {
		t.Fatalf("get: %+v", e)
	}
	if e := one(t, r, "exists", "k", "missing"); e.Kind != reply.KindInt || e.Int != 1 {
		t.Fatalf("exists: %+v", e)
	}
	if e := one(t, r, "del", "k", "missing"); e.Kind != reply.KindInt || e.Int != 1 {
		t.Fatalf("del: %+v", e)
	}
	if e := one(t, r, "get", "k"); e.Kind != reply.KindNull {
		t.Fatalf("get after del: %+v", e)
	}
}

func TestIncr(t *testing.T) {
	r := storeRegistry()

	if e := one(t, r, "incr", "n"); e.Int != 1 {
		t.Fatalf("incr fresh key: %+v", e)
	}
	if e := one(t, r, "incrby", "n", "9"); e.Int != 10 {
		t.Fatalf("incrby: %+v", e)
	}
	if e := one(t, r, "incrby", "n", "-3"); e.Int != 7 {
		t.Fatalf("negative incrby: %+v", e)
	}
}

func TestIncrNonInteger(t *testing.T) {
	r := storeRegistry()
	one(t, r, "set", "s", "abc")

	if e := one(t, r, "incr", "s"); e.Kind != reply.KindError {
		t.Fatalf("incr on non-integer: %+v", e)
	}
	if e := one(t, r, "incrby", "n", "notanumber"); e.Kind != reply.KindError {
		t.Fatalf("incrby with bad delta: %+v", e)
	}
}

func TestStrlen(t *testing.T) {
	r := storeRegistry()
	one(t, r, "set", "k", "hello")

	if e := one(t, r, "strlen", "k"); e.Int != 5 {
		t.Fatalf("strlen: %+v", e)
	}
	if e := one(t, r, "strlen", "missing"); e.Int != 0 {
		t.Fatalf("strlen missing: %+v", e)
	}
}

func TestKeys(t *testing.T) {
	r := storeRegistry()
	one(t, r, "set", "user:1", "a")
	one(t, r, "set", "user:2", "b")
	one(t, r, "set", "other", "c")

	events := dispatchTo(r, "keys", "user:*")
	want := []reply.Event{
		{Kind: reply.KindArrayStart, Len: 2},
		{Kind: reply.KindBulk, Str: "user:1"},
		{Kind: reply.KindBulk, Str: "user:2"},
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

func TestFlushAll(t *testing.T) {
	r := storeRegistry()
	one(t, r, "set", "k", "v")

	if e := one(t, r, "flushall"); e.Kind != reply.KindStatus {
		t.Fatalf("flushall: %+v", e)
	}
	if e := one(t, r, "exists", "k"); e.Int != 0 {
		t.Fatalf("key survived flushall: %+v", e)
	}
}

func TestWrongArity(t *testing.T) {
	r := storeRegistry()
	cases := [][]string{
		{"get"},
		{"get", "a", "b"},
		{"set", "only-key"},
		{"echo"},
		{"del"},
		{"flushall", "extra"},
	}
	for _, c := range cases {
		if e := one(t, r, c...); e.Kind != reply.KindError {
			t.Errorf("%v: expected arity error, got %+v", c, e)
		}
	}
}
