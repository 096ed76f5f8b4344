// Package manifest handles the modules.json manifest of a legacy Emonic
// project: its typed model, JSON Schema validation against the embedded
// schema, and extension with additional framework modules.
package manifest
