package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "luakit [file]",
	Short: "Lua scripting engine for the skiff in-memory store",
	Long: `luakit - Run Lua scripts against an in-memory data store.

Scripts call store commands through store.call and store.pcall, receive
their parameters via the KEYS and ARGV globals, and their return value is
printed in the store's reply format. Bodies are content-addressed: the same
script text always maps to the same 40-character id and is compiled once.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRun, // Default to run command behavior
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	addRunFlags(rootCmd)
}
