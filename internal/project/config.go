package project

import "maps"

// Config is the configuration of one project, collected once per init run
// and consumed by the server.js template. Build it with NewConfig and treat
// it as read-only afterwards.
type Config struct {
	ProjectName string
	Root        string

	DatabaseAdapter       string
	DatabaseAdapterFn     string
	DatabaseAdapterConfig map[string]string
}

// NewConfig builds a Config, deriving the adapter function identifier from
// the adapter package name. The adapter settings map is copied.
func NewConfig(projectName, root, adapter string, adapterConfig map[string]string) Config {
	var settings map[string]string
	if adapterConfig != nil {
		settings = maps.Clone(adapterConfig)
	}
	return Config{
		ProjectName:           projectName,
		Root:                  root,
		DatabaseAdapter:       adapter,
		DatabaseAdapterFn:     CamelName(adapter),
		DatabaseAdapterConfig: settings,
	}
}

// TemplateVars returns the values available to server.js placeholders.
func (c Config) TemplateVars() map[string]any {
	settings := c.DatabaseAdapterConfig
	if settings == nil {
		settings = map[string]string{}
	}
	return map[string]any{
		"ProjectName":           c.ProjectName,
		"DatabaseAdapter":       c.DatabaseAdapter,
		"DatabaseAdapterFn":     c.DatabaseAdapterFn,
		"DatabaseAdapterConfig": settings,
	}
}
