// Package adapter describes the configuration each known database adapter
// needs at init time. The built-in table is embedded YAML; callers may merge
// additional adapter descriptions from a user file. Registries are never
// mutated after construction.
package adapter
