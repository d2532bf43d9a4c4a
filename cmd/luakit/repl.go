package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/skiffdb/luakit/reply"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive REPL with a persistent store",
	Long: `Start an interactive REPL session.

Both the store and the interpreter persist across lines: values written by
one script are visible to the next, and every entered body stays cached
under its id. Features:
  - Command history (up/down arrows)
  - History search (Ctrl+R)
  - Multi-line input (end line with \)

Type 'exit' or 'quit' to end the session, or press Ctrl+D.`,
	Run: runRepl,
}

func init() {
	replCmd.Flags().String("history", "", "History file path (default: ~/.luakit_history)")
	addInterpFlags(replCmd)
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, args []string) {
	historyFile, _ := cmd.Flags().GetString("history")
	if historyFile == "" {
		home, _ := os.UserHomeDir()
		historyFile = filepath.Join(home, ".luakit_history")
	}

	ir := newInterpreter(cmd)
	defer ir.Close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "luakit> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Println("luakit REPL. Scripts run against an in-memory store; type 'exit' to quit.")

	var pending strings.Builder
	for {
		prompt := "luakit> "
		if pending.Len() > 0 {
			prompt = "   ...> "
		}
		rl.SetPrompt(prompt)

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			pending.Reset()
			continue
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		if pending.Len() == 0 {
			trimmed := strings.TrimSpace(line)
			if trimmed == "exit" || trimmed == "quit" {
				break
			}
			if trimmed == "" {
				continue
			}
		}

		if strings.HasSuffix(line, "\\") {
			pending.WriteString(strings.TrimSuffix(line, "\\"))
			pending.WriteByte('\n')
			continue
		}
		pending.WriteString(line)
		body := pending.String()
		pending.Reset()

		if _, err := ir.Execute(body); err != nil {
			fmt.Printf("(error) %v\n", err)
			continue
		}
		w := reply.NewTextWriter(os.Stdout)
		ir.Serialize(w)
		if err := w.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
}
