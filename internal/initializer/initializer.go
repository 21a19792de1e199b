package initializer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/go-logr/logr"

	"github.com/gestalt-labs/gestalt/internal/adapter"
	"github.com/gestalt-labs/gestalt/internal/branding"
	"github.com/gestalt-labs/gestalt/internal/installer"
	"github.com/gestalt-labs/gestalt/internal/manifest"
	"github.com/gestalt-labs/gestalt/internal/project"
	"github.com/gestalt-labs/gestalt/internal/prompt"
	"github.com/gestalt-labs/gestalt/internal/scaffold"
	"github.com/gestalt-labs/gestalt/internal/ui"
)

// ErrCanceled is returned when the user declines to overwrite an existing
// directory. It is not a failure.
var ErrCanceled = errors.New("project initialization canceled")

// DefaultAdapter is offered at the adapter prompt when none is configured.
const DefaultAdapter = "gestalt-postgres"

var packageNamePattern = regexp.MustCompile(`^(@[a-z0-9~-][a-z0-9._~-]*/)?[a-z0-9~-][a-z0-9._~-]*$`)

// Initializer scaffolds new projects. Prompter, Installer and Scaffolder are
// required; the rest fall back to defaults.
type Initializer struct {
	Prompter   prompt.Prompter
	Installer  installer.Installer
	Scaffolder *scaffold.Scaffolder
	Adapters   *adapter.Registry
	Reporter   *ui.Reporter
	Log        logr.Logger

	// Version is the version the Gestalt packages are pinned to.
	Version string
	// DefaultAdapter overrides the adapter offered at the prompt.
	DefaultAdapter string
	// ManagerName is shown in progress output.
	ManagerName string
}

// Options are the per-run inputs.
type Options struct {
	Name    string
	WorkDir string
}

// Result describes a completed scaffold.
type Result struct {
	Config   project.Config
	Packages []string
	Output   string
	Files    []string

	// Dependencies are the versions recorded in package.json by the
	// package manager.
	Dependencies map[string]string
}

// Run executes the workflow. It returns ErrCanceled when the user declines to
// overwrite an existing directory; any other error is fatal and no cleanup
// is attempted.
func (in *Initializer) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := project.ValidateName(opts.Name); err != nil {
		return nil, err
	}

	root, projectName, err := project.ResolveRoot(opts.WorkDir, opts.Name)
	if err != nil {
		return nil, err
	}
	log := in.Log.WithValues("project", projectName)
	log.V(1).Info("resolved project root", "root", root)

	if err := in.handleExisting(ctx, opts.Name, root); err != nil {
		return nil, err
	}

	cfg, err := in.collectConfig(ctx, opts.Name, projectName, root)
	if err != nil {
		return nil, err
	}
	log.V(1).Info("collected configuration",
		"adapter", cfg.DatabaseAdapter, "adapterFn", cfg.DatabaseAdapterFn,
		"settings", len(cfg.DatabaseAdapterConfig))

	rep := in.reporter()
	rep.Step("Creating a new %s project in %s...", branding.DisplayName(), root)

	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, &scaffold.FileSystemError{Op: "mkdir", Path: root, Err: err}
	}
	manifestPath, err := manifest.Write(root, manifest.New(projectName))
	if err != nil {
		return nil, err
	}
	log.V(1).Info("wrote manifest", "path", manifestPath)

	packages := installer.Packages(branding.ServerPackage(), cfg.DatabaseAdapter, in.version())
	rep.Step("Installing gestalt packages from %s...", in.managerName())
	log.V(1).Info("installing packages", "packages", packages)

	stop := rep.Spin("Installing " + in.managerName() + " packages")
	output, err := in.Installer.Install(ctx, root, packages)
	stop()
	if output != "" {
		rep.Info("%s", output)
	}
	if err != nil {
		return nil, err
	}
	installed, err := manifest.Read(root)
	if err != nil {
		return nil, fmt.Errorf("checking %s after install: %w", manifest.FileName, err)
	}
	log.V(1).Info("installed dependencies", "dependencies", installed.Dependencies)

	rep.Step("Copying files...")
	files := []string{manifest.FileName}
	copied, err := in.Scaffolder.CopyStatic(ctx, root)
	if err != nil {
		return nil, err
	}
	files = append(files, copied...)

	vars := cfg.TemplateVars()
	vars["ServerPackage"] = branding.ServerPackage()
	rendered, err := in.Scaffolder.RenderServer(root, vars)
	if err != nil {
		return nil, err
	}
	files = append(files, rendered)
	log.V(1).Info("scaffold complete", "files", files)

	return &Result{
		Config:   cfg,
		Packages: packages,
		Output:       output,
		Files:        files,
		Dependencies: installed.Dependencies,
	}, nil
}

// handleExisting asks before replacing an existing target. Declining returns
// ErrCanceled without touching the directory.
func (in *Initializer) handleExisting(ctx context.Context, name, root string) error {
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &scaffold.FileSystemError{Op: "stat", Path: root, Err: err}
	}

	overwrite, err := in.Prompter.Confirm(ctx,
		fmt.Sprintf("Directory %s already exists. Continue? [yes/no]", name), false)
	if err != nil {
		return err
	}
	if !overwrite {
		return ErrCanceled
	}

	in.reporter().Warn("Overwriting files in %s", name)
	if err := os.RemoveAll(root); err != nil {
		return &scaffold.FileSystemError{Op: "remove", Path: root, Err: err}
	}
	return nil
}

// collectConfig asks for the adapter and then for each setting the adapter's
// schema declares.
func (in *Initializer) collectConfig(ctx context.Context, name, projectName, root string) (project.Config, error) {
	adapterName, err := in.Prompter.Ask(ctx, prompt.Question{
		Name:     "databaseAdapter",
		Message:  "what database adapter should this project use?",
		Default:  in.defaultAdapter(),
		Validate: validatePackageName,
		Warning:  "Must be a valid npm package name",
	})
	if err != nil {
		return project.Config{}, err
	}

	var settings map[string]string
	if schema, ok := in.Adapters.Lookup(adapterName); ok {
		naming := adapter.Naming{
			Name:      name,
			SnakeName: project.SnakeName(name),
			CamelName: project.CamelName(name),
		}
		settings = make(map[string]string, len(schema.Fields))
		for _, field := range schema.Fields {
			def, err := field.DefaultValue(naming)
			if err != nil {
				return project.Config{}, fmt.Errorf("adapter %s: %w", adapterName, err)
			}
			value, err := in.Prompter.Ask(ctx, prompt.Question{
				Name:    field.Key,
				Message: field.Message,
				Default: def,
			})
			if err != nil {
				return project.Config{}, err
			}
			settings[field.Key] = value
		}
	}

	return project.NewConfig(projectName, root, adapterName, settings), nil
}

func validatePackageName(name string) error {
	if len(name) > 214 || !packageNamePattern.MatchString(name) {
		return fmt.Errorf("%q is not a valid npm package name", name)
	}
	return nil
}

func (in *Initializer) reporter() *ui.Reporter {
	if in.Reporter == nil {
		in.Reporter = ui.Discard()
	}
	return in.Reporter
}

func (in *Initializer) defaultAdapter() string {
	if in.DefaultAdapter != "" {
		return in.DefaultAdapter
	}
	return DefaultAdapter
}

func (in *Initializer) version() string {
	if in.Version != "" {
		return in.Version
	}
	return installer.LatestTag
}

func (in *Initializer) managerName() string {
	if in.ManagerName != "" {
		return in.ManagerName
	}
	return installer.ManagerNPM
}
