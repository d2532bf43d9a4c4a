package dispatch

import (
	"sort"
	"strings"
	"sync"

	"github.com/skiffdb/luakit/reply"
)

// Handler executes one command. args holds the arguments after the command
// name; the reply is written to w. Argument slices are borrowed for the
// duration of the call and must not be retained.
type Handler func(args [][]byte, w reply.Writer)

// Registry maps command names to handlers. Lookup is case-insensitive.
// Safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	cmds map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]Handler)}
}

func (r *Registry) Register(name string, h Handler) {
	r.mu.Lock()
	r.cmds[strings.ToLower(name)] = h
	r.mu.Unlock()
}

func (r *Registry) Get(name string) (Handler, bool) {
	r.mu.RLock()
	h, ok := r.cmds[strings.ToLower(name)]
	r.mu.RUnlock()
	return h, ok
}

// List returns the registered command names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.cmds))
	for name := range r.cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch executes the command named by args[0]. Unknown names and empty
// vectors become error lines on w, never Go errors: the caller's reply
// stream is the only channel back to the script.
func (r *Registry) Dispatch(args [][]byte, w reply.Writer) {
	if len(args) == 0 {
		w.WriteError("ERR empty command")
		return
	}
	name := strings.ToLower(string(args[0]))
	h, ok := r.Get(name)
	if !ok {
		w.WriteError("ERR unknown command '" + name + "'")
		return
	}
	h(args[1:], w)
}
