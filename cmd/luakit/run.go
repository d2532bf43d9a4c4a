package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/skiffdb/luakit/dispatch"
	"github.com/skiffdb/luakit/interp"
	"github.com/skiffdb/luakit/reply"
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a script once against a fresh store",
	Long: `Run a Lua script against an empty in-memory store.

The script can be provided via:
  - File argument: luakit run script.lua
  - Inline flag: luakit run -c 'return 1+1'
  - Stdin: echo 'return 1+1' | luakit run

KEYS and ARGV are populated from --key and --arg, in order:

  luakit run -c 'return store.call("set", KEYS[1], ARGV[1])' -k greeting -a hello`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRun,
}

func init() {
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("code", "c", "", "Script to execute")
	cmd.Flags().StringSliceP("key", "k", nil, "Populate KEYS[n] (repeatable)")
	cmd.Flags().StringSliceP("arg", "a", nil, "Populate ARGV[n] (repeatable)")
	cmd.Flags().Bool("resp", false, "Print raw RESP instead of human-readable output")
	cmd.Flags().Bool("show-id", false, "Print the script id before the result")
	addInterpFlags(cmd)
}

func addInterpFlags(cmd *cobra.Command) {
	cmd.Flags().Int("max-call-depth", 0, "Reject command calls nested past this depth (0 = unlimited)")
	cmd.Flags().Bool("full-stdlib", false, "Open io/os Lua libraries inside scripts (trusted scripts only)")
}

// newInterpreter builds an interpreter wired to a fresh store.
func newInterpreter(cmd *cobra.Command) *interp.Interpreter {
	reg := dispatch.NewRegistry()
	dispatch.NewStore().RegisterAll(reg)

	opts := []interp.Option{interp.WithCommandFunc(reg.Dispatch)}
	if depth, _ := cmd.Flags().GetInt("max-call-depth"); depth > 0 {
		opts = append(opts, interp.WithMaxCallDepth(depth))
	}
	if full, _ := cmd.Flags().GetBool("full-stdlib"); full {
		opts = append(opts, interp.WithFullStdlib())
	}
	return interp.New(opts...)
}

// readScript resolves the script body from file argument, -c flag, or stdin.
func readScript(cmd *cobra.Command, args []string) (string, error) {
	if code, _ := cmd.Flags().GetString("code"); code != "" {
		return code, nil
	}
	if len(args) == 1 {
		body, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read script: %w", err)
		}
		return string(body), nil
	}
	body, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(body), nil
}

func toByteSlices(vals []string) [][]byte {
	out := make([][]byte, len(vals))
	for i, v := range vals {
		out[i] = []byte(v)
	}
	return out
}

func runRun(cmd *cobra.Command, args []string) {
	body, err := readScript(cmd, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ir := newInterpreter(cmd)
	defer ir.Close()

	keys, _ := cmd.Flags().GetStringSlice("key")
	argv, _ := cmd.Flags().GetStringSlice("arg")
	ir.SetGlobalArray("KEYS", toByteSlices(keys))
	ir.SetGlobalArray("ARGV", toByteSlices(argv))

	id, err := ir.Execute(body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if showID, _ := cmd.Flags().GetBool("show-id"); showID {
		fmt.Println(id)
	}

	if rawRESP, _ := cmd.Flags().GetBool("resp"); rawRESP {
		w := reply.NewRESPWriter(os.Stdout)
		ir.Serialize(w)
		if err := w.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	w := reply.NewTextWriter(os.Stdout)
	ir.Serialize(w)
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
