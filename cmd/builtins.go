package cmd

import (
	"fmt"

	"github.com/josephlewis42/kesh/core"
	"github.com/spf13/cobra"
)

// builtinsCmd lists the commands run inside the shell process
var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the builtin commands of the shell.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range core.BuiltinNames(core.AllBuiltins) {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
