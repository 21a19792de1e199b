package initializer

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestalt-labs/gestalt/internal/adapter"
	"github.com/gestalt-labs/gestalt/internal/installer"
	"github.com/gestalt-labs/gestalt/internal/manifest"
	"github.com/gestalt-labs/gestalt/internal/project"
	"github.com/gestalt-labs/gestalt/internal/prompt"
	"github.com/gestalt-labs/gestalt/internal/scaffold"
	"github.com/gestalt-labs/gestalt/internal/ui"
)

// scriptedPrompter answers questions from a fixed list. An empty answer
// selects the question's default.
type scriptedPrompter struct {
	answers  []string
	confirm  []bool
	asked    []prompt.Question
	confirms []string
}

func (p *scriptedPrompter) Ask(_ context.Context, q prompt.Question) (string, error) {
	p.asked = append(p.asked, q)
	answer := ""
	if len(p.answers) > 0 {
		answer, p.answers = p.answers[0], p.answers[1:]
	}
	if answer == "" {
		answer = q.Default
	}
	return answer, nil
}

func (p *scriptedPrompter) Confirm(_ context.Context, message string, def bool) (bool, error) {
	p.confirms = append(p.confirms, message)
	if len(p.confirm) == 0 {
		return def, nil
	}
	answer := p.confirm[0]
	p.confirm = p.confirm[1:]
	return answer, nil
}

// fakeInstaller records its calls instead of running a package manager.
type fakeInstaller struct {
	dir      string
	packages []string
	calls    int
	output   string
	err      error
	// edit, when set, rewrites package.json the way a package manager does.
	edit func(m *manifest.PackageManifest)
}

func (f *fakeInstaller) Install(_ context.Context, dir string, packages []string) (string, error) {
	f.calls++
	f.dir = dir
	f.packages = packages
	if f.edit != nil {
		m, err := manifest.Read(dir)
		if err != nil {
			return "", err
		}
		f.edit(m)
		data, err := manifest.Marshal(m)
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(filepath.Join(dir, manifest.FileName), data, 0644); err != nil {
			return "", err
		}
	}
	return f.output, f.err
}

func newTestInitializer(t *testing.T, p prompt.Prompter, inst installer.Installer) (*Initializer, *bytes.Buffer) {
	t.Helper()
	adapters, err := adapter.Builtin()
	require.NoError(t, err)

	var out bytes.Buffer
	return &Initializer{
		Prompter:   p,
		Installer:  inst,
		Scaffolder: scaffold.New(),
		Adapters:   adapters,
		Reporter:   ui.NewReporter(&out),
		Version:    "1.2.3",
	}, &out
}

// listFiles returns every regular file under root, slash-separated and sorted.
func listFiles(t *testing.T, root string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	require.NoError(t, err)
	sort.Strings(files)
	return files
}

func TestRun_DefaultAnswers(t *testing.T) {
	work := t.TempDir()
	p := &scriptedPrompter{}
	inst := &fakeInstaller{output: "added 3 packages"}
	in, out := newTestInitializer(t, p, inst)

	result, err := in.Run(context.Background(), Options{Name: "myapp", WorkDir: work})
	require.NoError(t, err)

	root := filepath.Join(work, "myapp")
	assert.Equal(t, []string{
		"mutations/.gitkeep",
		"objects/session.js",
		"package.json",
		"schema.graphql",
		"server.js",
	}, listFiles(t, root))

	m, err := manifest.Read(root)
	require.NoError(t, err)
	assert.Equal(t, "myapp", m.Name)
	assert.Equal(t, "0.0.1", m.Version)

	assert.Equal(t, "gestalt-postgres", result.Config.DatabaseAdapter)
	assert.Equal(t, "gestaltPostgres", result.Config.DatabaseAdapterFn)
	assert.Equal(t, map[string]string{"databaseURL": "postgres://localhost/myapp"}, result.Config.DatabaseAdapterConfig)

	assert.Equal(t, 1, inst.calls)
	assert.Equal(t, root, inst.dir)
	assert.Equal(t, []string{"express", "gestalt-server@1.2.3", "gestalt-postgres@1.2.3"}, inst.packages)

	server, err := os.ReadFile(filepath.Join(root, "server.js"))
	require.NoError(t, err)
	assert.Contains(t, string(server), "require('gestalt-postgres')")
	assert.Contains(t, string(server), "const gestaltPostgres =")
	assert.Contains(t, string(server), `gestaltPostgres({"databaseURL":"postgres://localhost/myapp"})`)

	progress := out.String()
	assert.Contains(t, progress, "Creating a new Gestalt project in "+root+"...")
	assert.Contains(t, progress, "Installing gestalt packages from npm...")
	assert.Contains(t, progress, "added 3 packages")
	assert.Contains(t, progress, "Copying files...")

	require.Len(t, p.asked, 2)
	assert.Equal(t, "databaseAdapter", p.asked[0].Name)
	assert.Equal(t, "databaseURL", p.asked[1].Name)
	assert.Empty(t, p.confirms, "no overwrite prompt for a fresh directory")
}

func TestRun_InvalidNameTouchesNothing(t *testing.T) {
	work := filepath.Join(t.TempDir(), "does-not-exist")
	p := &scriptedPrompter{}
	inst := &fakeInstaller{}
	in, _ := newTestInitializer(t, p, inst)

	for _, name := range []string{"", "2fast", "my-app", "a b", "../escape"} {
		_, err := in.Run(context.Background(), Options{Name: name, WorkDir: work})

		var nameErr *project.InvalidNameError
		require.ErrorAs(t, err, &nameErr, name)
	}

	_, statErr := os.Stat(work)
	assert.True(t, os.IsNotExist(statErr), "work dir must not be created")
	assert.Empty(t, p.asked)
	assert.Empty(t, p.confirms)
	assert.Zero(t, inst.calls)
}

func TestRun_ExistingDeclined(t *testing.T) {
	work := t.TempDir()
	root := filepath.Join(work, "myapp")
	require.NoError(t, os.MkdirAll(root, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "keep.txt"), []byte("mine"), 0644))

	p := &scriptedPrompter{confirm: []bool{false}}
	inst := &fakeInstaller{}
	in, _ := newTestInitializer(t, p, inst)

	_, err := in.Run(context.Background(), Options{Name: "myapp", WorkDir: work})
	require.ErrorIs(t, err, ErrCanceled)

	assert.Equal(t, []string{"keep.txt"}, listFiles(t, root))
	assert.Equal(t, []string{"Directory myapp already exists. Continue? [yes/no]"}, p.confirms)
	assert.Empty(t, p.asked)
	assert.Zero(t, inst.calls)
}

func TestRun_ExistingOverwritten(t *testing.T) {
	work := t.TempDir()
	root := filepath.Join(work, "myapp")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "objects"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "old.js"), []byte("old"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "objects", "legacy.js"), []byte("old"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "server.js"), []byte("stale"), 0644))

	p := &scriptedPrompter{confirm: []bool{true}}
	in, out := newTestInitializer(t, p, &fakeInstaller{})

	_, err := in.Run(context.Background(), Options{Name: "myapp", WorkDir: work})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"mutations/.gitkeep",
		"objects/session.js",
		"package.json",
		"schema.graphql",
		"server.js",
	}, listFiles(t, root))
	assert.Contains(t, out.String(), "Overwriting files in myapp")

	server, err := os.ReadFile(filepath.Join(root, "server.js"))
	require.NoError(t, err)
	assert.NotContains(t, string(server), "stale")
}

func TestRun_UnknownAdapterAsksNothingMore(t *testing.T) {
	work := t.TempDir()
	p := &scriptedPrompter{answers: []string{"@acme/gestalt-mysql"}}
	inst := &fakeInstaller{}
	in, _ := newTestInitializer(t, p, inst)

	result, err := in.Run(context.Background(), Options{Name: "shop", WorkDir: work})
	require.NoError(t, err)

	assert.Len(t, p.asked, 1)
	assert.Nil(t, result.Config.DatabaseAdapterConfig)
	assert.Equal(t, "acmeGestaltMysql", result.Config.DatabaseAdapterFn)
	assert.Contains(t, inst.packages, "@acme/gestalt-mysql@1.2.3")

	server, err := os.ReadFile(filepath.Join(work, "shop", "server.js"))
	require.NoError(t, err)
	assert.Contains(t, string(server), "require('@acme/gestalt-mysql')")
	assert.Contains(t, string(server), "acmeGestaltMysql({})")
}

func TestRun_SnakeCasedDatabaseDefault(t *testing.T) {
	p := &scriptedPrompter{}
	in, _ := newTestInitializer(t, p, &fakeInstaller{})

	result, err := in.Run(context.Background(), Options{Name: "MyApp", WorkDir: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/my_app", p.asked[1].Default)
	assert.Equal(t, "MyApp", result.Config.ProjectName)
}

func TestRun_CustomDatabaseURL(t *testing.T) {
	p := &scriptedPrompter{answers: []string{"", "postgres://db.internal/prod"}}
	in, _ := newTestInitializer(t, p, &fakeInstaller{})

	result, err := in.Run(context.Background(), Options{Name: "myapp", WorkDir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "postgres://db.internal/prod", result.Config.DatabaseAdapterConfig["databaseURL"])
}

func TestRun_InstallFailureIsFatal(t *testing.T) {
	work := t.TempDir()
	installErr := &installer.InstallError{Manager: "npm", Packages: []string{"express"}, ExitCode: 1}
	inst := &fakeInstaller{err: installErr}
	in, _ := newTestInitializer(t, &scriptedPrompter{}, inst)

	_, err := in.Run(context.Background(), Options{Name: "myapp", WorkDir: work})

	var ierr *installer.InstallError
	require.ErrorAs(t, err, &ierr)

	root := filepath.Join(work, "myapp")
	assert.Equal(t, []string{"package.json"}, listFiles(t, root), "no rollback, no later steps")
}

func TestRun_InteractiveInput(t *testing.T) {
	work := t.TempDir()
	var screen bytes.Buffer
	// Invalid package name is rejected and asked again; then defaults.
	input := "Not A Package\n\n\n"
	p := prompt.NewInteractive(strings.NewReader(input), &screen)
	in, _ := newTestInitializer(t, p, &fakeInstaller{})

	result, err := in.Run(context.Background(), Options{Name: "myapp", WorkDir: work})
	require.NoError(t, err)

	assert.Equal(t, "gestalt-postgres", result.Config.DatabaseAdapter)
	assert.Equal(t, "postgres://localhost/myapp", result.Config.DatabaseAdapterConfig["databaseURL"])
	assert.Contains(t, screen.String(), "Must be a valid npm package name")
	assert.Contains(t, screen.String(), "what is the url to your database? (postgres://localhost/myapp): ")
}

func TestRun_ConfiguredDefaultAdapter(t *testing.T) {
	p := &scriptedPrompter{}
	in, _ := newTestInitializer(t, p, &fakeInstaller{})
	in.DefaultAdapter = "gestalt-sqlite"

	result, err := in.Run(context.Background(), Options{Name: "myapp", WorkDir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "gestalt-sqlite", result.Config.DatabaseAdapter)
	assert.Len(t, p.asked, 1)
}

func TestRun_TargetIsAFile(t *testing.T) {
	work := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(work, "myapp"), []byte("x"), 0644))

	p := &scriptedPrompter{confirm: []bool{true}}
	in, _ := newTestInitializer(t, p, &fakeInstaller{})

	// The file is removed like a directory would be and replaced by the scaffold.
	_, err := in.Run(context.Background(), Options{Name: "myapp", WorkDir: work})
	require.NoError(t, err)
	info, err := os.Stat(filepath.Join(work, "myapp"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestValidatePackageName(t *testing.T) {
	for _, ok := range []string{"gestalt-postgres", "@scope/pkg", "a.b_c~d"} {
		assert.NoError(t, validatePackageName(ok), ok)
	}
	for _, bad := range []string{"", "Upper", "has space", "@scope/", "/nope"} {
		assert.Error(t, validatePackageName(bad), bad)
	}
}

func TestErrCanceledIsDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrCanceled, context.Canceled))
}

func TestRun_RecordsInstalledDependencies(t *testing.T) {
	work := t.TempDir()
	inst := &fakeInstaller{edit: func(m *manifest.PackageManifest) {
		m.Dependencies = map[string]string{
			"express":          "4.21.2",
			"gestalt-server":   "1.0.0",
			"gestalt-postgres": "1.0.0",
		}
	}}
	in, _ := newTestInitializer(t, &scriptedPrompter{}, inst)

	result, err := in.Run(context.Background(), Options{Name: "myapp", WorkDir: work})
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", result.Dependencies["gestalt-server"])
	assert.Len(t, result.Dependencies, 3)
}

func TestRun_InstallBreaksManifest(t *testing.T) {
	work := t.TempDir()
	inst := &fakeInstaller{edit: func(m *manifest.PackageManifest) {
		m.Scripts.Start = ""
	}}
	in, _ := newTestInitializer(t, &scriptedPrompter{}, inst)

	_, err := in.Run(context.Background(), Options{Name: "myapp", WorkDir: work})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checking package.json after install")

	_, statErr := os.Stat(filepath.Join(work, "myapp", "server.js"))
	assert.True(t, os.IsNotExist(statErr), "files are not copied after a failed check")
}
