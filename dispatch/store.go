package dispatch

import (
	"path"
	"sort"
	"strconv"
	"sync"

	"github.com/skiffdb/luakit/reply"
)

// Store is an in-memory string keyspace with a handler per command. It
// exists so scripts have something real to call; several interpreters may
// share one Store, so access is mutex-guarded.
type Store struct {
	mu   sync.Mutex
	data map[string]string
}

func NewStore() *Store {
	return &Store{data: make(map[string]string)}
}

// RegisterAll wires every Store command into r.
func (s *Store) RegisterAll(r *Registry) {
	r.Register("ping", s.Ping)
	r.Register("echo", s.Echo)
	r.Register("get", s.Get)
	r.Register("set", s.Set)
	r.Register("del", s.Del)
	r.Register("exists", s.Exists)
	r.Register("incr", s.Incr)
	r.Register("incrby", s.IncrBy)
	r.Register("strlen", s.Strlen)
	r.Register("keys", s.Keys)
	r.Register("flushall", s.FlushAll)
}

func wrongArity(w reply.Writer, cmd string) {
	w.WriteError("ERR wrong number of arguments for '" + cmd + "' command")
}

func (s *Store) Ping(args [][]byte, w reply.Writer) {
	switch len(args) {
	case 0:
		w.WriteStatus("PONG")
	case 1:
		w.WriteBulk(string(args[0]))
	default:
		wrongArity(w, "ping")
	}
}

func (s *Store) Echo(args [][]byte, w reply.Writer) {
	if len(args) != 1 {
		wrongArity(w, "echo")
		return
	}
	w.WriteBulk(string(args[0]))
}

func (s *Store) Get(args [][]byte, w reply.Writer) {
	if len(args) != 1 {
		wrongArity(w, "get")
		return
	}
	s.mu.Lock()
	val, ok := s.data[string(args[0])]
	s.mu.Unlock()
	if !ok {
		w.WriteNull()
		return
	}
	w.WriteBulk(val)
}

func (s *Store) Set(args [][]byte, w reply.Writer) {
	if len(args) != 2 {
		wrongArity(w, "set")
		return
	}
	s.mu.Lock()
	s.data[string(args[0])] = string(args[1])
	s.mu.Unlock()
	w.WriteStatus("OK")
}

func (s *Store) Del(args [][]byte, w reply.Writer) {
	if len(args) == 0 {
		wrongArity(w, "del")
		return
	}
	var removed int64
	s.mu.Lock()
	for _, key := range args {
		if _, ok := s.data[string(key)]; ok {
			delete(s.data, string(key))
			removed++
		}
	}
	s.mu.Unlock()
	w.WriteInt(removed)
}

func (s *Store) Exists(args [][]byte, w reply.Writer) {
	if len(args) == 0 {
		wrongArity(w, "exists")
		return
	}
	var found int64
	s.mu.Lock()
	for _, key := range args {
		if _, ok := s.data[string(key)]; ok {
			found++
		}
	}
	s.mu.Unlock()
	w.WriteInt(found)
}

func (s *Store) Incr(args [][]byte, w reply.Writer) {
	if len(args) != 1 {
		wrongArity(w, "incr")
		return
	}
	s.incrBy(string(args[0]), 1, w)
}

func (s *Store) IncrBy(args [][]byte, w reply.Writer) {
	if len(args) != 2 {
		wrongArity(w, "incrby")
		return
	}
	delta, err := strconv.ParseInt(string(args[1]), 10, 64)
	if err != nil {
		w.WriteError("ERR value is not an integer or out of range")
		return
	}
	s.incrBy(string(args[0]), delta, w)
}

func (s *Store) incrBy(key string, delta int64, w reply.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var cur int64
	if val, ok := s.data[key]; ok {
		var err error
		cur, err = strconv.ParseInt(val, 10, 64)
		if err != nil {
			w.WriteError("ERR value is not an integer or out of range")
			return
		}
	}
	cur += delta
	s.data[key] = strconv.FormatInt(cur, 10)
	w.WriteInt(cur)
}

func (s *Store) Strlen(args [][]byte, w reply.Writer) {
	if len(args) != 1 {
		wrongArity(w, "strlen")
		return
	}
	s.mu.Lock()
	val := s.data[string(args[0])]
	s.mu.Unlock()
	w.WriteInt(int64(len(val)))
}

// Keys matches the keyspace against a glob pattern and replies with the
// matches as an array, sorted for determinism.
func (s *Store) Keys(args [][]byte, w reply.Writer) {
	if len(args) != 1 {
		wrongArity(w, "keys")
		return
	}
	pattern := string(args[0])
	var matched []string
	s.mu.Lock()
	for key := range s.data {
		if ok, err := path.Match(pattern, key); err == nil && ok {
			matched = append(matched, key)
		}
	}
	s.mu.Unlock()
	sort.Strings(matched)
	w.StartArray(len(matched))
	for _, key := range matched {
		w.WriteBulk(key)
	}
	w.EndArray()
}

func (s *Store) FlushAll(args [][]byte, w reply.Writer) {
	if len(args) != 0 {
		wrongArity(w, "flushall")
		return
	}
	s.mu.Lock()
	s.data = make(map[string]string)
	s.mu.Unlock()
	w.WriteStatus("OK")
}
