// Package cli implements the command-facing plumbing shared by aapctl
// commands: the apply engine driving manifest reconciliation, output
// format handling, gateway connection settings with their
// flag > environment > manifest precedence, and the error types that
// map to semantic exit codes.
package cli
