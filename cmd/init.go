package cmd

import (
	"log"

	"github.com/josephlewis42/kesh/core/config"
	"github.com/spf13/cobra"
)

// initCmd intializes the shell configuration
var initCmd = &cobra.Command{
	Use:   "init [DIR]",
	Short: "Initialize the shell configuration in DIR, the current directory by default.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		logger := log.New(cmd.ErrOrStderr(), "", 0)
		dir := positionalArgs(args, []string{"."})[0]

		_, err := config.Initialize(dir, logger)
		if err == nil {
			logger.Printf("Run the shell with: kesh --config %s", dir)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
