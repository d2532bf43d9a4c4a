package interp

import (
	lua "github.com/yuin/gopher-lua"
)

// registerBridge installs the command-call built-ins. Scripts see them as
// store.call / store.pcall; the table is also bound as "redis" so scripts
// written against the de-facto scripting API run unchanged.
func (ir *Interpreter) registerBridge() {
	state := ir.state
	mod := state.NewTable()
	state.SetField(mod, "call", state.NewFunction(ir.luaCall))
	state.SetField(mod, "pcall", state.NewFunction(ir.luaPCall))
	state.SetField(mod, "sha1hex", state.NewFunction(luaSha1Hex))
	state.SetField(mod, "error_reply", state.NewFunction(luaErrorReply))
	state.SetField(mod, "status_reply", state.NewFunction(luaStatusReply))
	state.SetGlobal("store", mod)
	state.SetGlobal("redis", mod)
}

// luaCall dispatches a command and raises the reply inside the script when
// the dispatcher reports an error, unwinding the current invocation.
func (ir *Interpreter) luaCall(state *lua.LState) int {
	return ir.bridgeCall(state, true)
}

// luaPCall dispatches a command but traps a command-level error, returning
// it to the script as an {err=...} table it can inspect.
func (ir *Interpreter) luaPCall(state *lua.LState) int {
	return ir.bridgeCall(state, false)
}

func (ir *Interpreter) bridgeCall(state *lua.LState, raise bool) int {
	if ir.cmd == nil {
		state.RaiseError("command dispatch is disabled")
		return 0
	}
	if ir.maxDepth > 0 && ir.depth >= ir.maxDepth {
		state.RaiseError("command calls nested deeper than %d", ir.maxDepth)
		return 0
	}

	top := state.GetTop()
	if top == 0 {
		state.RaiseError("at least one argument is required")
		return 0
	}

	args := make([][]byte, 0, top)
	for i := 1; i <= top; i++ {
		v := state.Get(i)
		switch v.Type() {
		case lua.LTString, lua.LTNumber:
			args = append(args, []byte(v.String()))
		default:
			state.ArgError(i, "command arguments must be strings or numbers")
			return 0
		}
	}

	b := &luaBuilder{state: state}
	ir.depth++
	func() {
		defer func() { ir.depth-- }()
		ir.cmd(args, b)
	}()

	v := b.value()
	if raise && b.errText != "" {
		state.RaiseError("%s", b.errText)
		return 0
	}
	state.Push(v)
	return 1
}

// luaSha1Hex exposes the script identity digest to scripts.
func luaSha1Hex(state *lua.LState) int {
	s := state.CheckString(1)
	state.Push(lua.LString(Digest([]byte(s))))
	return 1
}

// luaErrorReply builds an error-shaped return value.
func luaErrorReply(state *lua.LState) int {
	t := state.CreateTable(0, 1)
	t.RawSetString("err", lua.LString(state.CheckString(1)))
	state.Push(t)
	return 1
}

// luaStatusReply builds a status-shaped return value.
func luaStatusReply(state *lua.LState) int {
	t := state.CreateTable(0, 1)
	t.RawSetString("ok", lua.LString(state.CheckString(1)))
	state.Push(t)
	return 1
}

// luaBuilder is the bridge's reply.Writer: it rebuilds the dispatcher's
// event stream as Lua values. The conversion mirrors serialize.go in
// reverse; both directions share the same nine event kinds.
type luaBuilder struct {
	state   *lua.LState
	stack   []*lua.LTable
	top     lua.LValue
	errText string
}

// place routes a finished value to the innermost open array, or makes it
// the top-level result.
func (b *luaBuilder) place(v lua.LValue) {
	if n := len(b.stack); n > 0 {
		b.stack[n-1].Append(v)
		return
	}
	if b.top == nil {
		b.top = v
	}
}

// value returns the rebuilt top-level value. A dispatcher that emitted no
// events yields nil.
func (b *luaBuilder) value() lua.LValue {
	if b.top == nil {
		return lua.LNil
	}
	return b.top
}

func (b *luaBuilder) WriteBool(v bool) {
	b.place(lua.LBool(v))
}

func (b *luaBuilder) WriteBulk(s string) {
	b.place(lua.LString(s))
}

func (b *luaBuilder) WriteDouble(f float64) {
	b.place(lua.LNumber(f))
}

func (b *luaBuilder) WriteInt(i int64) {
	b.place(lua.LNumber(i))
}

func (b *luaBuilder) StartArray(n int) {
	t := b.state.CreateTable(n, 0)
	b.place(t)
	b.stack = append(b.stack, t)
}

func (b *luaBuilder) EndArray() {
	if n := len(b.stack); n > 0 {
		b.stack = b.stack[:n-1]
	}
}

// WriteNull follows the scripting convention: a null reply reaches the
// script as false.
func (b *luaBuilder) WriteNull() {
	b.place(lua.LFalse)
}

func (b *luaBuilder) WriteStatus(s string) {
	t := b.state.CreateTable(0, 1)
	t.RawSetString("ok", lua.LString(s))
	b.place(t)
}

func (b *luaBuilder) WriteError(s string) {
	if len(b.stack) == 0 && b.errText == "" {
		b.errText = s
	}
	t := b.state.CreateTable(0, 1)
	t.RawSetString("err", lua.LString(s))
	b.place(t)
}
