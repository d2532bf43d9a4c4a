package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/skiffdb/luakit/interp"
)

var hashCmd = &cobra.Command{
	Use:   "hash [file]",
	Short: "Print the id a script body would be cached under",
	Long: `Compute the 40-character content id of a script without running it.

The id depends only on the exact bytes of the body, so it can be computed
offline and used later with 'run by id' style protocols.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var body []byte
		var err error
		if len(args) == 1 {
			body, err = os.ReadFile(args[0])
		} else {
			body, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(interp.Digest(body))
	},
}

func init() {
	rootCmd.AddCommand(hashCmd)
}
