package interp

// Option configures an Interpreter at construction.
type Option func(*config)

type config struct {
	cmd        CommandFunc
	maxDepth   int
	fullStdlib bool
}

// WithCommandFunc sets the dispatcher store.call and store.pcall route to.
// Without one, any command call raises an error inside the script.
func WithCommandFunc(fn CommandFunc) Option {
	return func(c *config) {
		c.cmd = fn
	}
}

// WithMaxCallDepth bounds nested command dispatches. A call that would push
// the in-flight count past n raises an error inside the script. Zero, the
// default, leaves nesting unbounded.
func WithMaxCallDepth(n int) Option {
	return func(c *config) {
		c.maxDepth = n
	}
}

// WithFullStdlib opens every Lua standard library instead of the default
// base/table/string/math sandbox set. Scripts gain io and os access; only
// use this for trusted script sources.
func WithFullStdlib() Option {
	return func(c *config) {
		c.fullStdlib = true
	}
}
