package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/skiffdb/luakit/interp"
	"github.com/skiffdb/luakit/reply"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an HTTP script-evaluation server",
	Long: `Start an HTTP server that evaluates Lua scripts against one shared
in-memory store. Responses are RESP-encoded.

Endpoints:
  POST /eval           Run the request body as a script
  POST /scripts        Load the body without running it, returns its id
  POST /scripts/{id}   Run a previously loaded script by id
  GET  /health         Health check

Repeatable 'key' and 'arg' query parameters populate KEYS and ARGV.`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	addInterpFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

// scriptServer serializes access to one interpreter: the engine is a
// confined resource, so requests take turns.
type scriptServer struct {
	mu sync.Mutex
	ir *interp.Interpreter
}

func newScriptServer(ir *interp.Interpreter) *scriptServer {
	return &scriptServer{ir: ir}
}

func (s *scriptServer) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /eval", s.handleEval)
	mux.HandleFunc("POST /scripts", s.handleLoad)
	mux.HandleFunc("POST /scripts/{id}", s.handleRun)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

func readBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return "", false
	}
	if len(body) == 0 {
		http.Error(w, "empty script body", http.StatusBadRequest)
		return "", false
	}
	return string(body), true
}

// setParams injects KEYS/ARGV from the request's query string.
func (s *scriptServer) setParams(r *http.Request) {
	q := r.URL.Query()
	s.ir.SetGlobalArray("KEYS", toByteSlices(q["key"]))
	s.ir.SetGlobalArray("ARGV", toByteSlices(q["arg"]))
}

// writeResult serializes the pending result as RESP onto the response.
// Script-level failures travel as RESP error lines with status 200; they
// are results, not transport errors.
func (s *scriptServer) writeResult(w http.ResponseWriter, runErr error) {
	w.Header().Set("Content-Type", "application/octet-stream")
	rw := reply.NewRESPWriter(w)
	if runErr != nil {
		rw.WriteError("ERR " + runErr.Error())
	} else {
		s.ir.Serialize(rw)
	}
	rw.Flush()
}

func (s *scriptServer) handleEval(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setParams(r)
	_, err := s.ir.Execute(body)
	s.writeResult(w, err)
}

func (s *scriptServer) handleLoad(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	id, res, err := s.ir.AddFunction(body)
	s.mu.Unlock()
	if res == interp.AddCompileErr {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"id": id})
}

func (s *scriptServer) handleRun(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setParams(r)
	err := s.ir.RunFunction(id)
	if errors.Is(err, interp.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.writeResult(w, err)
}

func (s *scriptServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func runServe(cmd *cobra.Command, args []string) {
	port, _ := cmd.Flags().GetInt("port")

	ir := newInterpreter(cmd)
	defer ir.Close()
	server := newScriptServer(ir)

	addr := fmt.Sprintf(":%d", port)
	fmt.Printf("luakit server listening on %s\n", addr)
	if err := http.ListenAndServe(addr, server.routes()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
