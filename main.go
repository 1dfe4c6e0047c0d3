// Package main is the entry point for the Orbit CLI application.
// It provides account and session management for the Orbit service.
package main

import (
	"orbit/cli/cmd"
)

// main is the entry point for the Orbit CLI application.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
