// Package runner executes external commands for the generator. Every command
// carries its own working directory and environment overrides, so nothing in
// the generator depends on the process's current directory. The Recorder type
// is a test double that captures commands without executing them.
package runner
