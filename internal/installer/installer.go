package installer

import (
	"context"
	"fmt"
	"strings"
)

// Installer installs packages into a project directory and returns the
// package manager's standard output.
type Installer interface {
	Install(ctx context.Context, dir string, packages []string) (string, error)
}

// Supported package manager identifiers.
const (
	ManagerNPM  = "npm"
	ManagerYarn = "yarn"
	ManagerPNPM = "pnpm"
)

// InstallError reports a failed package manager invocation.
type InstallError struct {
	Manager  string
	Packages []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *InstallError) Error() string {
	msg := fmt.Sprintf("%s install of %s failed", e.Manager, strings.Join(e.Packages, " "))
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(" (exit code %d)", e.ExitCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += "\n" + s
	}
	return msg
}

func (e *InstallError) Unwrap() error { return e.Err }

// Dispatch returns the Installer for a package manager name. Unknown names
// yield an installer that always fails.
func Dispatch(manager string) Installer {
	switch manager {
	case ManagerNPM:
		return &Command{Manager: ManagerNPM, Args: []string{"install", "--save", "--save-exact"}}
	case ManagerYarn:
		return &Command{Manager: ManagerYarn, Args: []string{"add", "--exact"}}
	case ManagerPNPM:
		return &Command{Manager: ManagerPNPM, Args: []string{"add", "--save-exact"}}
	default:
		return &unknownInstaller{name: manager}
	}
}

// unknownInstaller is returned when the manager name is not recognized.
type unknownInstaller struct {
	name string
}

func (u *unknownInstaller) Install(_ context.Context, _ string, packages []string) (string, error) {
	return "", &InstallError{
		Manager:  u.name,
		Packages: packages,
		Err: fmt.Errorf("unknown package manager %q: supported managers are %q, %q and %q",
			u.name, ManagerNPM, ManagerYarn, ManagerPNPM),
	}
}

// Packages returns the dependency list for a new project: the web server
// library, the Gestalt server runtime and the chosen database adapter, the
// latter two pinned to version.
func Packages(serverPackage, adapter, version string) []string {
	return []string{
		"express",
		serverPackage + "@" + version,
		adapter + "@" + version,
	}
}
