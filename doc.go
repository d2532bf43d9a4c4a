// Package luakit is the Lua scripting-execution core of the skiff
// in-memory data store.
//
// # Overview
//
// luakit bridges an embedded Lua interpreter and the store's command
// dispatcher. Clients submit script bodies; bodies are content-addressed by
// SHA-1 and compiled at most once per interpreter, and a running script
// calls back into the store through store.call and store.pcall. The value a
// script returns is flattened into a typed reply event stream that the wire
// layer encodes.
//
// # Basic Usage
//
//	reg := dispatch.NewRegistry()
//	dispatch.NewStore().RegisterAll(reg)
//
//	ir := interp.New(interp.WithCommandFunc(reg.Dispatch))
//	defer ir.Close()
//
//	ir.SetGlobalArray("KEYS", [][]byte{[]byte("counter")})
//	id, err := ir.Execute(`return store.call("incr", KEYS[1])`)
//	if err != nil {
//	    // compile or runtime error; ir stays usable
//	}
//	ir.Serialize(reply.NewRESPWriter(conn))
//
//	// Later invocations reuse the compiled body:
//	ir.RunFunction(id)
//
// # Confinement
//
// One interpreter owns one Lua state and is never shared across goroutines;
// run one interpreter per worker. A failing script is contained to its own
// invocation: the interpreter, its cached scripts, and every other
// interpreter are unaffected.
//
// See the [interp], [reply], and [dispatch] packages for detailed API
// documentation.
package luakit
