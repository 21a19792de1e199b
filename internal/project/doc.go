// Package project holds the configuration collected for a new Gestalt
// project and the naming rules that apply to it: which project names are
// accepted, how the target directory is resolved, and how the snake_case
// database name and camelCase adapter identifier are derived.
package project
