// Package lifecycle implements the project commands of emonic-admin and the
// legacy emonic CLI on top of a Workspace: create, setup --migrate, build,
// manage engine and gradle --production, plus startproject, the legacy
// manage engine and runserver.
//
// Every operation resolves its inputs (records, names, settings) before it
// mutates anything, so a failed precondition leaves the workspace untouched.
package lifecycle
