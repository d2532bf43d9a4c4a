// Package interp embeds a Lua interpreter and runs client-submitted
// scripts against the store's command dispatcher.
//
// # Overview
//
// An Interpreter owns one Lua state and a cache of compiled script bodies
// keyed by their SHA-1 digest. A body is compiled at most once; every later
// run of the same bytes reuses the cached function. Scripts reach the store
// through store.call and store.pcall, which hand an argument vector to the
// configured CommandFunc and rebuild its reply as Lua values.
//
// # Basic Usage
//
//	ir := interp.New(interp.WithCommandFunc(registry.Dispatch))
//	defer ir.Close()
//
//	id, err := ir.Execute(`return store.call("get", KEYS[1])`)
//	if err != nil {
//	    // compile or runtime error; the interpreter stays usable
//	}
//	ir.Serialize(reply.NewRESPWriter(conn))
//
//	// Cheap re-run by id, no recompilation:
//	ir.RunFunction(id)
//
// # Ownership
//
// An Interpreter is a confined resource: it is not safe for concurrent use
// and is meant to be owned by exactly one worker, running one script to
// completion before the next. Argument byte slices handed to the
// CommandFunc are borrowed for the duration of the call only.
package interp
