// Package record reads and writes the source-like text records of an Emonic
// workspace: the root Config Record (config.py), per-project Settings Records
// (settings.py) and Migration Records (Gradle/migration.py).
//
// The records stay human-editable, so values are recovered by locating
// literal markers and delimiters rather than by a structured parser. A marker
// that is missing yields a *MarkerError; a marker whose value is cut short
// (no closing delimiter) yields a *ParseError.
package record
