package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gestalt-labs/gestalt/internal/adapter"
	"github.com/gestalt-labs/gestalt/internal/branding"
	"github.com/gestalt-labs/gestalt/internal/config"
	"github.com/gestalt-labs/gestalt/internal/initializer"
	"github.com/gestalt-labs/gestalt/internal/installer"
	"github.com/gestalt-labs/gestalt/internal/prompt"
	"github.com/gestalt-labs/gestalt/internal/scaffold"
	"github.com/gestalt-labs/gestalt/internal/ui"
)

var (
	initDir            string
	initPackageManager string
	initDefaults       bool
	initForce          bool
)

func init() {
	initCmd.Flags().StringVar(&initDir, "dir", "", "Parent directory for the new project (default: current directory)")
	initCmd.Flags().StringVar(&initPackageManager, "package-manager", "", "Package manager used to install dependencies: npm, yarn or pnpm (default from config)")
	initCmd.Flags().BoolVar(&initDefaults, "defaults", false, "Accept the default answer to every question")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing directory without asking")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Scaffold a new Gestalt project",
	Long: `Create a new Gestalt project in ./<name>.

The name must be a valid identifier (letters, digits, _ and $, not starting
with a digit). You are asked which database adapter to use and for any
settings that adapter needs, then package.json is written, the server
packages are installed and the project files are copied.

Examples:
  gestalt init myapp
  gestalt init myapp --defaults --package-manager yarn`,
	Args: cobra.ExactArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	name := args[0]
	out := cmd.OutOrStdout()

	in, err := newInitializer(cmd)
	if err != nil {
		return newCommandError("init", err)
	}

	workDir := initDir
	if workDir == "" {
		if workDir, err = os.Getwd(); err != nil {
			return newCommandError("init", fmt.Errorf("getting current directory: %w", err))
		}
	}

	result, err := in.Run(cmd.Context(), initializer.Options{Name: name, WorkDir: workDir})
	if errors.Is(err, initializer.ErrCanceled) {
		fmt.Fprintln(out, "Project initialization canceled")
		return nil
	}
	if err != nil {
		logger.V(1).Info("init aborted", "name", name, "errorType", fmt.Sprintf("%T", err))
		return newCommandError("init", err)
	}

	in.Reporter.Success("Created %s at %s", result.Config.ProjectName, result.Config.Root)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintf(out, "  1. cd %s\n", name)
	fmt.Fprintln(out, "  2. Edit schema.graphql to describe your data")
	fmt.Fprintln(out, "  3. Run 'npm start' to launch the server")
	return nil
}

// newInitializer wires the workflow from flags and user configuration.
func newInitializer(cmd *cobra.Command) (*initializer.Initializer, error) {
	manager := initPackageManager
	if manager == "" {
		manager = config.Get(config.KeyPackageManager)
	}

	version, err := installer.PinVersion(buildVersion, config.Get(config.KeyGestaltVersion))
	if err != nil {
		return nil, err
	}

	adapters, err := loadAdapters(config.Get(config.KeyAdaptersFile))
	if err != nil {
		return nil, err
	}

	var p prompt.Prompter
	if initDefaults {
		p = prompt.Defaults{Overwrite: initForce}
	} else {
		p = prompt.NewInteractive(cmd.InOrStdin(), cmd.OutOrStdout())
		if initForce {
			p = forceOverwrite{p}
		}
	}

	logger.V(1).Info("initializer configured",
		"packageManager", manager, "version", version, "adapters", adapters.Names())

	return &initializer.Initializer{
		Prompter:       p,
		Installer:      installer.Dispatch(manager),
		Scaffolder:     scaffold.New(),
		Adapters:       adapters,
		Reporter:       ui.NewReporter(cmd.OutOrStdout()),
		Log:            logger.WithName("init"),
		Version:        version,
		DefaultAdapter: config.Get(config.KeyDefaultAdapter),
		ManagerName:    manager,
	}, nil
}

// loadAdapters returns the built-in adapter table, overlaid with the user's
// table when one is configured.
func loadAdapters(userFile string) (*adapter.Registry, error) {
	builtin, err := adapter.Builtin()
	if err != nil {
		return nil, err
	}
	if userFile == "" {
		return builtin, nil
	}
	user, err := adapter.ParseFile(userFile)
	if err != nil {
		return nil, fmt.Errorf("loading %s adapters: %w", branding.CLIName(), err)
	}
	return builtin.Merge(user), nil
}

// forceOverwrite answers yes to every confirmation and delegates questions.
type forceOverwrite struct {
	prompt.Prompter
}

func (forceOverwrite) Confirm(ctx context.Context, _ string, _ bool) (bool, error) {
	return true, ctx.Err()
}
