// Package scaffold writes the files of a new Gestalt project from embedded
// templates. Static files are copied verbatim and concurrently; server.js is
// rendered with text/template from the collected project configuration.
package scaffold
