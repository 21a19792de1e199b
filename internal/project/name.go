package project

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/stoewer/go-strcase"
)

var (
	namePattern = regexp.MustCompile(`^[$A-Za-z_][0-9A-Za-z_$]*$`)
	// Runs of anything that cannot appear in a JS identifier word.
	separatorPattern = regexp.MustCompile(`[^A-Za-z0-9]+`)
)

// InvalidNameError reports a project name that is not a valid identifier.
type InvalidNameError struct {
	Name string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("%q is not a valid name for a project. Please use a valid identifier name (alphanumeric)", e.Name)
}

// ValidateName checks that name is an identifier: letters, digits, underscore
// and dollar sign, not starting with a digit. It never touches the filesystem.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return &InvalidNameError{Name: name}
	}
	return nil
}

// SnakeName returns the snake_case form of a project name, used for the
// default database name.
func SnakeName(name string) string {
	return strcase.SnakeCase(words(name))
}

// CamelName returns the lowerCamelCase form of an npm package name, used as
// the identifier the adapter is bound to in server.js. Scope markers and
// other punctuation are dropped: "@acme/gestalt-mysql" → "acmeGestaltMysql".
func CamelName(pkg string) string {
	return strcase.LowerCamelCase(words(pkg))
}

// words replaces punctuation with single spaces so strcase splits on it.
func words(s string) string {
	return strings.TrimSpace(separatorPattern.ReplaceAllString(s, " "))
}

// ResolveRoot returns the absolute target directory for name under workDir
// and its base name, which becomes the package.json name.
func ResolveRoot(workDir, name string) (root string, projectName string, err error) {
	root, err = filepath.Abs(filepath.Join(workDir, name))
	if err != nil {
		return "", "", fmt.Errorf("resolving project path: %w", err)
	}
	return root, filepath.Base(root), nil
}
