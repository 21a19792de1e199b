// Package config manages user-level settings stored at ~/.gestalt/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// the package manager used to install a new project's dependencies and the
// default database adapter offered at the init prompt.
package config
