package cmd

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/josephlewis42/kesh/core"
	"github.com/josephlewis42/kesh/core/config"
	"github.com/josephlewis42/kesh/core/logger"
	"github.com/spf13/cobra"
)

var (
	cfgPath     string
	commandLine string
)

func loadConfig() (*config.Configuration, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}

	configuration, err := config.Load(cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		log.Println("Couldn't load config: did you run init?")
	}

	return configuration, err
}

func newDebugLogger(w io.Writer, debug bool) *log.Logger {
	if !debug {
		return log.New(ioutil.Discard, "", 0)
	}
	return log.New(w, "[kesh] ", log.Lmicroseconds|log.Lshortfile)
}

// openEventLog returns the session recorder for the configuration, or nil if
// events aren't logged. The returned closer is never nil.
func openEventLog(cfg *config.Configuration) (core.EventRecorder, io.Closer, error) {
	if !cfg.EventLogEnabled() {
		return nil, ioutil.NopCloser(nil), nil
	}

	fd, err := cfg.OpenEventLog()
	if err != nil {
		return nil, nil, err
	}

	return logger.NewJsonLinesLogRecorder(fd).NewSession(), fd, nil
}

func positionalArgs(args, defaults []string) (defaulted []string) {
	for i := range defaults {
		if i < len(args) {
			defaulted = append(defaulted, args[i])
		} else {
			defaulted = append(defaulted, defaults[i])
		}
	}
	return
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kesh",
	Short: "A minimal command shell",
	Long: `A minimal interactive command shell.

Lines are split into stages on "|" and into words on spaces, there's no
quoting, expansion or redirection. The prompt shows the status of the last
line followed by user@host:dir.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		debugLog := newDebugLogger(cmd.ErrOrStderr(), cfg.Debug)
		debugLog.Printf("config directory: %q", cfg.Dir())

		events, eventLog, err := openEventLog(cfg)
		if err != nil {
			return err
		}
		defer eventLog.Close()

		sh, err := core.NewShell(core.ShellOptions{
			Stdin:  os.Stdin,
			Stdout: os.Stdout,
			Stderr: os.Stderr,
			Config: cfg,
			Log:    debugLog,
			Events: events,
		})
		if err != nil {
			return err
		}
		defer sh.Close()

		if cmd.Flags().Changed("command") {
			sh.RunLine(cmd.Context(), commandLine)
			return nil
		}

		sh.Run(cmd.Context())
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Children are killed if the shell itself is asked to stop.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	cobra.CheckErr(rootCmd.ExecuteContext(ctx))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config directory, the built-in defaults are used if empty")
	rootCmd.Flags().StringVarP(&commandLine, "command", "c", "", "run a single command line and exit")
}
