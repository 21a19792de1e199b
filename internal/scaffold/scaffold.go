package scaffold

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

//go:embed all:templates
var embeddedFS embed.FS

// Directories created inside every project.
var Dirs = []string{"objects", "mutations"}

// StaticFiles are copied verbatim from the template set. Paths are
// slash-separated and relative to the project root.
var StaticFiles = []string{
	"schema.graphql",
	"objects/session.js",
	"mutations/.gitkeep",
}

// Template and output names for the rendered entry point.
const (
	ServerTemplate = "server.js.tmpl"
	ServerFile     = "server.js"
)

// FileSystemError reports a failed filesystem operation while scaffolding.
type FileSystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileSystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileSystemError) Unwrap() error { return e.Err }

// Scaffolder writes project files from a template set.
type Scaffolder struct {
	Templates fs.FS
	Renderer  Renderer
}

// Templates returns the embedded template set.
func Templates() fs.FS {
	sub, err := fs.Sub(embeddedFS, "templates")
	if err != nil {
		panic(fmt.Sprintf("embedded templates missing: %v", err))
	}
	return sub
}

// New returns a Scaffolder over the embedded templates.
func New() *Scaffolder {
	t := Templates()
	return &Scaffolder{
		Templates: t,
		Renderer:  &TemplateRenderer{FS: t},
	}
}

// CopyStatic creates the project subdirectories and copies every static file
// into root. The copies run concurrently; CopyStatic returns once all of them
// have finished, with the first error if any failed.
func (s *Scaffolder) CopyStatic(ctx context.Context, root string) ([]string, error) {
	for _, dir := range Dirs {
		p := filepath.Join(root, dir)
		if err := os.MkdirAll(p, 0755); err != nil {
			return nil, &FileSystemError{Op: "mkdir", Path: p, Err: err}
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range StaticFiles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return s.copyFile(name, filepath.Join(root, filepath.FromSlash(name)))
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return append([]string(nil), StaticFiles...), nil
}

func (s *Scaffolder) copyFile(name, dst string) error {
	data, err := fs.ReadFile(s.Templates, name)
	if err != nil {
		return &FileSystemError{Op: "read template", Path: name, Err: err}
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return &FileSystemError{Op: "write", Path: dst, Err: err}
	}
	return nil
}

// RenderServer renders server.js into root. The file is only replaced once
// rendering has fully succeeded.
func (s *Scaffolder) RenderServer(root string, vars map[string]any) (string, error) {
	out, err := s.Renderer.Render(ServerTemplate, vars)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(root, ServerFile)
	if err := writeAtomic(dst, []byte(out)); err != nil {
		return "", err
	}
	return ServerFile, nil
}

// writeAtomic writes data to a temp file beside dst and renames it into place.
func writeAtomic(dst string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return &FileSystemError{Op: "create", Path: dst, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &FileSystemError{Op: "write", Path: dst, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &FileSystemError{Op: "write", Path: dst, Err: err}
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return &FileSystemError{Op: "chmod", Path: dst, Err: err}
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return &FileSystemError{Op: "rename", Path: dst, Err: err}
	}
	return nil
}
