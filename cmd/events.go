package cmd

import (
	"fmt"
	"io"

	"github.com/josephlewis42/kesh/core/logger"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Explore the shell event log.",
}

var reportCommand = &cobra.Command{
	Use:   "report [FILE]",
	Short: "Show a report of events.",
	Long: `Show a report of events.

Reads FILE if given, otherwise the event log of the configuration.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		fd, err := openEventsForReading(args)
		if err != nil {
			return err
		}
		defer fd.Close()

		out, err := renderReport(fd)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(out))

		return nil
	},
}

func openEventsForReading(args []string) (io.ReadCloser, error) {
	if len(args) == 1 {
		return afero.NewOsFs().Open(args[0])
	}

	config, err := loadConfig()
	if err != nil {
		return nil, err
	}

	return config.ReadEventLog()
}

func renderReport(r io.Reader) ([]byte, error) {
	var report logger.Report
	if err := logger.ReadJSONLinesLog(r, report.Update); err != nil {
		return nil, err
	}

	return yaml.Marshal(report)
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(reportCommand)
}
