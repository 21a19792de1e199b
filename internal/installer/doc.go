// Package installer runs a package manager inside a new project to install
// its dependencies. It defines the Installer interface and a Command
// implementation for npm, yarn and pnpm; Dispatch selects one by name.
// PinVersion decides which release of the Gestalt packages to request.
package installer
