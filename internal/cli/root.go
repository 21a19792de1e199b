package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gestalt-labs/gestalt/internal/branding"
	"github.com/gestalt-labs/gestalt/internal/config"
	"github.com/gestalt-labs/gestalt/internal/logging"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	verbose  bool
	logLevel string

	logger    = logr.Discard()
	zapLogger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` scaffolds new GraphQL server projects: it asks which database
adapter to use, writes package.json, installs the server packages and copies
a ready-to-run server.js.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()

		level := logging.ParseLevel(logLevel)
		if verbose {
			level = zapcore.DebugLevel
		}
		logger, zapLogger = logging.New(cmd.ErrOrStderr(), level)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		syncLogger()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print diagnostic logs to stderr")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Diagnostic log level: debug, info, warn or error")
}

// Execute runs the root command with build info injected via ldflags.
// Errors are printed to stderr before being returned.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	// Interrupts cancel the running command, including a package install.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		color.New(color.FgRed).Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		syncLogger()
	}
	return err
}

func syncLogger() {
	if zapLogger != nil {
		_ = zapLogger.Sync()
	}
}

// newCommandError wraps err with the command that produced it.
func newCommandError(command string, err error) error {
	return fmt.Errorf("%s %s failed with the error: %w", branding.CLIName(), command, err)
}
