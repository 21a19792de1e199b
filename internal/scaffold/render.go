package scaffold

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

// Renderer turns a named template and its variables into file contents.
type Renderer interface {
	Render(templatePath string, vars any) (string, error)
}

// TemplateRenderer renders text/template files from FS.
type TemplateRenderer struct {
	FS fs.FS
}

var funcs = template.FuncMap{
	"json": toJSON,
}

// Render parses templatePath from the renderer's FS and executes it with
// vars. Unknown map keys are an error rather than "<no value>".
func (r *TemplateRenderer) Render(templatePath string, vars any) (string, error) {
	src, err := fs.ReadFile(r.FS, templatePath)
	if err != nil {
		return "", &FileSystemError{Op: "read template", Path: templatePath, Err: err}
	}

	tmpl, err := template.New(templatePath).
		Option("missingkey=error").
		Funcs(funcs).
		Parse(string(src))
	if err != nil {
		return "", fmt.Errorf("parsing template %s: %w", templatePath, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("executing template %s: %w", templatePath, err)
	}
	return buf.String(), nil
}

// toJSON encodes v as compact JSON without HTML escaping, for embedding
// values into JavaScript source.
func toJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
