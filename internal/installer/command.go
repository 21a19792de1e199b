package installer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Command runs a package manager binary with a fixed flag set followed by
// the package list.
type Command struct {
	Manager string
	// Bin overrides the executable; defaults to a PATH lookup of Manager.
	Bin  string
	Args []string
}

// Install runs the package manager in dir. Output is captured rather than
// streamed so the caller can show progress while it runs.
func (c *Command) Install(ctx context.Context, dir string, packages []string) (string, error) {
	bin := c.Bin
	if bin == "" {
		bin = c.Manager
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return "", &InstallError{
			Manager:  c.Manager,
			Packages: packages,
			Err:      fmt.Errorf("%s not found: %w", c.Manager, err),
		}
	}

	args := append(append([]string{}, c.Args...), packages...)
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		ierr := &InstallError{
			Manager:  c.Manager,
			Packages: packages,
			Stderr:   stderr.String(),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			ierr.ExitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			ierr.Err = ctxErr
		}
		return stdout.String(), ierr
	}

	return stdout.String(), nil
}
