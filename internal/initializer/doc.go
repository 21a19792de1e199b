// Package initializer runs the "gestalt init" workflow: validate the project
// name, resolve a clash with an existing directory, collect the project
// configuration, write package.json, install dependencies and copy the
// project files. Steps run strictly in order; a failure aborts the run and
// leaves whatever was already written in place.
package initializer
