// Package reply defines the typed event stream a serialized value is
// flattened into, and the sinks that consume it.
//
// # The Writer contract
//
// A value is serialized exactly once into an ordered sequence of nine event
// kinds: booleans, bulk strings, doubles, integers, array start/end pairs,
// nulls, status lines, and error lines. Array events nest; the length passed
// to StartArray counts the events emitted at that nesting level before the
// matching EndArray, and must be known before the first element is written.
//
// # Sinks
//
// Three Writer implementations ship with the package:
//
//	w := reply.NewRESPWriter(conn)   // RESP wire encoding
//	w := reply.NewTextWriter(os.Stdout) // human-readable, redis-cli style
//	w := &reply.Recorder{}           // captures events for inspection
//
// A sink never reports errors event by event. RESPWriter and TextWriter keep
// the first underlying write error and surface it from Flush; a failed pass
// is discarded as a whole, there is no partial or resumable serialization.
package reply
