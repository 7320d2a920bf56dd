// Package cli defines the Cobra command for the hardhat-create-app CLI.
// The root command generates a project and has no subcommands, so every
// positional argument is a project name. Version, settings and tool checks
// are flags on the same command. The handlers delegate to internal packages
// for the work and only handle flag parsing, settings resolution and output.
package cli
