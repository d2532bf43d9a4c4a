package interp

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/skiffdb/luakit/reply"
)

var (
	// ErrNotFound is returned by RunFunction for an id no AddFunction or
	// Execute call has registered.
	ErrNotFound = errors.New("no script with this id")

	// ErrNoResult is returned by Serialize when no run has left a result
	// pending.
	ErrNoResult = errors.New("no result pending")
)

// CompileError reports a script body the Lua compiler rejected. The body is
// not cached.
type CompileError struct {
	Detail string
}

func (e *CompileError) Error() string {
	return "compile error: " + e.Detail
}

// RuntimeError reports an error raised while a script was running: an
// explicit error() in the script, a fatal store.call failure, or any other
// Lua runtime fault. The interpreter and its cached scripts stay usable.
type RuntimeError struct {
	Detail string
}

func (e *RuntimeError) Error() string {
	return e.Detail
}

// CommandFunc executes one store command on behalf of a running script.
// args holds the command name followed by its arguments; the slices are
// owned by the script's execution frame and must not be retained past the
// call. The reply is delivered through w.
type CommandFunc func(args [][]byte, w reply.Writer)

// AddResult is the outcome of registering a script body.
type AddResult int

const (
	// AddOK means the body compiled and is now cached under its id.
	AddOK AddResult = iota
	// AddAlreadyExists means the id was already cached; nothing was
	// recompiled. Idempotent success, not an error.
	AddAlreadyExists
	// AddCompileErr means the Lua compiler rejected the body.
	AddCompileErr
)

// Interpreter owns one Lua state and the scripts compiled into it.
// Not safe for concurrent use; see the package documentation.
type Interpreter struct {
	state    *lua.LState
	funcs    map[string]*lua.LFunction
	last     lua.LValue
	cmd      CommandFunc
	depth    int
	maxDepth int
}

// New creates an Interpreter. Unless WithFullStdlib is given, scripts see
// only the base, table, string and math libraries.
func New(opts ...Option) *Interpreter {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	var state *lua.LState
	if cfg.fullStdlib {
		state = lua.NewState()
	} else {
		state = lua.NewState(lua.Options{SkipOpenLibs: true})
		openSandboxLibs(state)
	}

	ir := &Interpreter{
		state:    state,
		funcs:    make(map[string]*lua.LFunction),
		cmd:      cfg.cmd,
		maxDepth: cfg.maxDepth,
	}
	ir.registerBridge()
	return ir
}

// openSandboxLibs opens the stdlib slices scripts get by default. io, os
// and friends stay closed.
func openSandboxLibs(state *lua.LState) {
	libs := []struct {
		name string
		open lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
	for _, lib := range libs {
		if err := state.CallByParam(lua.P{
			Fn:      state.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			// Opening a stdlib can only fail on a programming bug.
			panic("open lua stdlib " + lib.name + ": " + err.Error())
		}
	}
}

// Close releases the Lua state and every script compiled into it.
func (ir *Interpreter) Close() {
	ir.state.Close()
}

// Digest returns the script identity for body: the SHA-1 of its exact
// bytes as 40 lowercase hex characters. Pure; identical bodies always get
// identical ids.
func Digest(body []byte) string {
	sum := sha1.Sum(body)
	return hex.EncodeToString(sum[:])
}

// AddFunction registers body under its digest. The id is returned in all
// cases. A previously seen id reports AddAlreadyExists without recompiling
// or comparing bodies; a body the compiler rejects reports AddCompileErr
// with a *CompileError and is not cached.
func (ir *Interpreter) AddFunction(body string) (id string, res AddResult, err error) {
	id = Digest([]byte(body))
	if _, ok := ir.funcs[id]; ok {
		return id, AddAlreadyExists, nil
	}
	fn, err := ir.state.LoadString(body)
	if err != nil {
		return id, AddCompileErr, &CompileError{Detail: luaErrorText(err)}
	}
	ir.funcs[id] = fn
	return id, AddOK, nil
}

// Exists reports whether a script with this id is cached. No side effects.
func (ir *Interpreter) Exists(id string) bool {
	_, ok := ir.funcs[id]
	return ok
}

// RunFunction invokes the cached script id. On success the value the script
// returned becomes the pending result for Serialize. A Lua error is
// returned as a *RuntimeError; the failure is contained to this one
// invocation and leaves the cache and the interpreter intact.
func (ir *Interpreter) RunFunction(id string) error {
	fn, ok := ir.funcs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	ir.depth = 0
	ir.last = nil
	ir.state.Push(fn)
	if err := ir.state.PCall(0, 1, nil); err != nil {
		return &RuntimeError{Detail: luaErrorText(err)}
	}
	ir.last = ir.state.Get(-1)
	ir.state.Pop(1)
	return nil
}

// Execute is AddFunction fused with RunFunction. The id is reported even
// for bodies never seen before, so callers can re-run by id later.
func (ir *Interpreter) Execute(body string) (id string, err error) {
	id, res, err := ir.AddFunction(body)
	if res == AddCompileErr {
		return id, err
	}
	return id, ir.RunFunction(id)
}

// SetGlobalArray binds name to a Lua array of the given byte strings,
// overwriting any prior binding. Used to inject KEYS and ARGV before a run.
func (ir *Interpreter) SetGlobalArray(name string, args [][]byte) {
	t := ir.state.CreateTable(len(args), 0)
	for i, a := range args {
		t.RawSetInt(i+1, lua.LString(string(a)))
	}
	ir.state.SetGlobal(name, t)
}

// SetCommandFunc replaces the dispatcher store.call and store.pcall route
// to. Passing nil disables command dispatch.
func (ir *Interpreter) SetCommandFunc(fn CommandFunc) {
	ir.cmd = fn
}

// Depth returns the number of command dispatches currently in flight. Zero
// whenever no script-issued command call is running.
func (ir *Interpreter) Depth() int {
	return ir.depth
}

// luaErrorText extracts the raised Lua value's text from a protected-call
// error, falling back to the Go error string.
func luaErrorText(err error) string {
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) {
		return apiErr.Object.String()
	}
	return err.Error()
}
