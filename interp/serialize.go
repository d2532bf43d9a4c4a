package interp

import (
	"math"

	lua "github.com/yuin/gopher-lua"

	"github.com/skiffdb/luakit/reply"
)

// Serialize drains the pending result of the last successful run into w,
// consuming it. It fails only when nothing is pending: before any run, or
// after a run that itself failed.
//
// Conversion rules: booleans and strings map to their event kinds; a
// number becomes an integer event when integral, a double event otherwise;
// a table with a string "err" field becomes an error line, with a string
// "ok" field a status line, with a numeric "double" field a double; any
// other table is an array walked from index 1 to the first nil, its length
// declared up front; every remaining Lua type becomes a null event.
func (ir *Interpreter) Serialize(w reply.Writer) error {
	if ir.last == nil {
		return ErrNoResult
	}
	v := ir.last
	ir.last = nil
	writeValue(v, w)
	return nil
}

func writeValue(v lua.LValue, w reply.Writer) {
	switch v := v.(type) {
	case lua.LBool:
		w.WriteBool(bool(v))
	case lua.LNumber:
		f := float64(v)
		if isIntegral(f) {
			w.WriteInt(int64(f))
		} else {
			w.WriteDouble(f)
		}
	case lua.LString:
		w.WriteBulk(string(v))
	case *lua.LTable:
		writeTable(v, w)
	default:
		// nil, functions, userdata, coroutines.
		w.WriteNull()
	}
}

func writeTable(t *lua.LTable, w reply.Writer) {
	if e, ok := t.RawGetString("err").(lua.LString); ok {
		w.WriteError(string(e))
		return
	}
	if s, ok := t.RawGetString("ok").(lua.LString); ok {
		w.WriteStatus(string(s))
		return
	}
	if d, ok := t.RawGetString("double").(lua.LNumber); ok {
		w.WriteDouble(float64(d))
		return
	}

	// Array part only, up to the first hole.
	n := 0
	for t.RawGetInt(n+1) != lua.LNil {
		n++
	}
	w.StartArray(n)
	for i := 1; i <= n; i++ {
		writeValue(t.RawGetInt(i), w)
	}
	w.EndArray()
}

// isIntegral reports whether f fits an int64 exactly.
func isIntegral(f float64) bool {
	return f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64
}
