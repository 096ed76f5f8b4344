// Package cli defines the Cobra command trees of the emonic-admin and legacy
// emonic binaries. Each file registers one top-level command with its root.
// Command implementations delegate to internal/lifecycle and only handle
// flag parsing, prompting and output.
package cli
