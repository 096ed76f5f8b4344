package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/emonic-labs/emonic-admin/internal/branding"
)

// ErrEmptyManifest means the manifest array has no entries.
var ErrEmptyManifest = errors.New("modules.json has no entries")

// InvalidError reports schema violations.
type InvalidError struct {
	Path   string
	Issues []ValidationIssue
}

func (e *InvalidError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return fmt.Sprintf("%s is invalid: %s", e.Path, strings.Join(parts, "; "))
}

// Parse validates data against the schema and decodes it.
func Parse(data []byte) (Document, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, &InvalidError{Path: FileName, Issues: result.Issues}
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", FileName, err)
	}
	return doc, nil
}

// Load reads and parses the manifest at path.
func Load(fs afero.Fs, path string) (Document, error) {
	data, err := readFile(fs, path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	var invalid *InvalidError
	if errors.As(err, &invalid) {
		invalid.Path = path
	}
	return doc, err
}

// Encode renders doc with four-space indentation. URLs are written without
// HTML escaping so they stay readable.
func Encode(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", FileName, err)
	}
	return buf.Bytes(), nil
}

// Extend appends a module entry for every name not already listed in the
// first entry and returns the names that were added.
func (d Document) Extend(names ...string) ([]string, error) {
	if len(d) == 0 {
		return nil, ErrEmptyManifest
	}

	present := make(map[string]bool, len(d[0].Modules))
	for _, m := range d[0].Modules {
		present[m.Name] = true
	}

	var added []string
	for _, name := range names {
		if present[name] {
			continue
		}
		present[name] = true
		d[0].Modules = append(d[0].Modules, Module{Name: name, URL: branding.ModuleURL(name)})
		added = append(added, name)
	}
	return added, nil
}

// decodeFields reads a JSON object into fields, keeping key order. A repeated
// key keeps its first position and its last value.
func decodeFields(data []byte) (fields, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fields{}, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fields{}, fmt.Errorf("expected a JSON object, got %v", tok)
	}

	f := fields{values: make(map[string]json.RawMessage)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fields{}, err
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fields{}, err
		}
		if !f.has(key) {
			f.keys = append(f.keys, key)
		}
		f.values[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return fields{}, err
	}
	return f, nil
}

// marshalRaw encodes v without HTML escaping.
func marshalRaw(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func readFile(fs afero.Fs, path string) ([]byte, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
