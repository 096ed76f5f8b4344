package manifest

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// FileName is the manifest file name inside a project directory.
const FileName = "modules.json"

// EngineModules are added by the legacy manage engine command.
var EngineModules = []string{"viewengine", "staticengine", "pubsec"}

// Document is the top-level manifest array.
type Document []Entry

// Entry is a single manifest element. Only the modules list is decoded;
// config, database, privilege and any other key are kept verbatim and in
// order, so a rewrite preserves what the user put there.
type Entry struct {
	Modules []Module
	fields  fields
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Entry) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}
	var modules []Module
	if raw, ok := f.values[keyModules]; ok {
		if err := json.Unmarshal(raw, &modules); err != nil {
			return fmt.Errorf("decoding %s: %w", keyModules, err)
		}
	}
	*e = Entry{Modules: modules, fields: f}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (e Entry) MarshalJSON() ([]byte, error) {
	f := e.fields.clone()
	if e.Modules != nil || f.has(keyModules) {
		modules := e.Modules
		if modules == nil {
			modules = []Module{}
		}
		if err := f.set(keyModules, modules); err != nil {
			return nil, err
		}
	}
	return f.MarshalJSON()
}

// Module is a framework module and its download URL. Extra keys on a module
// survive a rewrite.
type Module struct {
	Name   string
	URL    string
	fields fields
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Module) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return err
	}
	var name, url string
	if raw, ok := f.values["name"]; ok {
		if err := json.Unmarshal(raw, &name); err != nil {
			return fmt.Errorf("decoding module name: %w", err)
		}
	}
	if raw, ok := f.values["url"]; ok {
		if err := json.Unmarshal(raw, &url); err != nil {
			return fmt.Errorf("decoding module url: %w", err)
		}
	}
	*m = Module{Name: name, URL: url, fields: f}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (m Module) MarshalJSON() ([]byte, error) {
	f := m.fields.clone()
	if err := f.set("name", m.Name); err != nil {
		return nil, err
	}
	if err := f.set("url", m.URL); err != nil {
		return nil, err
	}
	return f.MarshalJSON()
}

// ModuleNames returns the module names of the first entry in order.
func (d Document) ModuleNames() []string {
	if len(d) == 0 {
		return nil
	}
	names := make([]string, 0, len(d[0].Modules))
	for _, m := range d[0].Modules {
		names = append(names, m.Name)
	}
	return names
}

const keyModules = "modules"

// fields is a JSON object whose keys keep their document order.
type fields struct {
	keys   []string
	values map[string]json.RawMessage
}

func (f fields) clone() fields {
	return fields{keys: slices.Clone(f.keys), values: maps.Clone(f.values)}
}

func (f fields) has(key string) bool {
	_, ok := f.values[key]
	return ok
}

func (f *fields) set(key string, v any) error {
	raw, err := marshalRaw(v)
	if err != nil {
		return err
	}
	if f.values == nil {
		f.values = make(map[string]json.RawMessage)
	}
	if !f.has(key) {
		f.keys = append(f.keys, key)
	}
	f.values[key] = raw
	return nil
}

func (f fields) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, key := range f.keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		k, err := marshalRaw(key)
		if err != nil {
			return nil, err
		}
		buf = append(buf, k...)
		buf = append(buf, ':')
		buf = append(buf, f.values[key]...)
	}
	return append(buf, '}'), nil
}
