// Package manifest builds, validates and writes the package.json of a new
// Gestalt project. Documents are checked against an embedded JSON Schema
// before they are written, so a project directory never receives a manifest
// npm would reject.
package manifest
