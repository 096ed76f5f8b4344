// Package logging configures the process-wide slog logger. Diagnostic output
// goes to stderr; user-facing status lines are printed by the commands
// themselves and never pass through here.
package logging
