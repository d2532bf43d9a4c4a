// Package dispatch routes command argument vectors to handlers and ships a
// small in-memory string store for scripts to run against.
//
// The Registry's Dispatch method satisfies interp.CommandFunc directly:
//
//	reg := dispatch.NewRegistry()
//	dispatch.NewStore().RegisterAll(reg)
//	ir := interp.New(interp.WithCommandFunc(reg.Dispatch))
package dispatch
