package adapter

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"sync"
	"text/template"

	"go.yaml.in/yaml/v3"
)

//go:embed adapters.yaml
var builtinYAML []byte

// Field is one adapter setting asked for at init time.
type Field struct {
	Key     string `yaml:"key"`
	Message string `yaml:"message"`
	// Default is a text/template rendered against Naming.
	Default string `yaml:"default,omitempty"`
}

// Schema lists the settings of one adapter package.
type Schema struct {
	Name   string  `yaml:"name"`
	Fields []Field `yaml:"fields"`
}

// Naming is the data available to field default templates.
type Naming struct {
	Name      string
	SnakeName string
	CamelName string
}

type document struct {
	Adapters []Schema `yaml:"adapters"`
}

// Registry maps adapter package names to their schemas.
type Registry struct {
	schemas map[string]Schema
}

var (
	builtinOnce sync.Once
	builtin     *Registry
	builtinErr  error
)

// Builtin returns the registry parsed from the embedded adapter table.
func Builtin() (*Registry, error) {
	builtinOnce.Do(func() {
		builtin, builtinErr = Parse(builtinYAML)
	})
	return builtin, builtinErr
}

// Parse reads an adapter table document.
func Parse(data []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing adapter table: %w", err)
	}

	r := &Registry{schemas: make(map[string]Schema, len(doc.Adapters))}
	for i, s := range doc.Adapters {
		if s.Name == "" {
			return nil, fmt.Errorf("adapter %d: name is required", i)
		}
		if _, dup := r.schemas[s.Name]; dup {
			return nil, fmt.Errorf("adapter %q is listed twice", s.Name)
		}
		seen := make(map[string]bool, len(s.Fields))
		for _, f := range s.Fields {
			if f.Key == "" {
				return nil, fmt.Errorf("adapter %q: field key is required", s.Name)
			}
			if seen[f.Key] {
				return nil, fmt.Errorf("adapter %q: field %q is listed twice", s.Name, f.Key)
			}
			seen[f.Key] = true
		}
		r.schemas[s.Name] = s
	}
	return r, nil
}

// ParseFile reads an adapter table from disk.
func ParseFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading adapter table %s: %w", path, err)
	}
	return Parse(data)
}

// Lookup returns the schema for an adapter package, if one is known.
func (r *Registry) Lookup(name string) (Schema, bool) {
	if r == nil {
		return Schema{}, false
	}
	s, ok := r.schemas[name]
	return s, ok
}

// Names returns the known adapter names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.schemas))
	for n := range r.schemas {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Merge returns a new registry holding r's schemas overlaid with other's.
// An adapter present in both takes other's schema.
func (r *Registry) Merge(other *Registry) *Registry {
	merged := &Registry{schemas: make(map[string]Schema)}
	for _, src := range []*Registry{r, other} {
		if src == nil {
			continue
		}
		for name, s := range src.schemas {
			merged.schemas[name] = s
		}
	}
	return merged
}

// DefaultValue renders the field's default for the given project naming.
func (f Field) DefaultValue(n Naming) (string, error) {
	if f.Default == "" {
		return "", nil
	}
	tmpl, err := template.New(f.Key).Option("missingkey=error").Parse(f.Default)
	if err != nil {
		return "", fmt.Errorf("parsing default for %s: %w", f.Key, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, n); err != nil {
		return "", fmt.Errorf("rendering default for %s: %w", f.Key, err)
	}
	return buf.String(), nil
}
