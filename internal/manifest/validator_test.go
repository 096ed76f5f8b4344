package manifest

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/emonic-labs/emonic-admin/internal/scaffold"
)

const testdataDir = "testdata"

func testPath(name string) string {
	return filepath.Join(testdataDir, name)
}

func generated(t *testing.T) []byte {
	t.Helper()
	out, err := scaffold.Render(scaffold.Modules, scaffold.NewData("Shop", "/work/Shop"))
	if err != nil {
		t.Fatalf("Render(modules.json) error: %v", err)
	}
	return []byte(out)
}

func TestValidate_Generated(t *testing.T) {
	result, err := Validate(generated(t))
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if !result.Valid {
		for _, issue := range result.Issues {
			t.Errorf("  path=%s keyword=%s message=%s", issue.Path, issue.Keyword, issue.Message)
		}
		t.Fatal("expected generated modules.json to be valid")
	}
}

func TestValidateFile_InvalidManifests(t *testing.T) {
	invalidFiles := []struct {
		file string
		desc string
	}{
		{"invalid-missing-modules.json", "missing required modules list"},
		{"invalid-bad-module-name.json", "module name violates pattern"},
		{"invalid-port-type.json", "port is a string"},
		{"invalid-empty.json", "no entries"},
	}

	fs := afero.NewOsFs()
	for _, tt := range invalidFiles {
		t.Run(tt.file, func(t *testing.T) {
			result, err := ValidateFile(fs, testPath(tt.file))
			if err != nil {
				t.Fatalf("ValidateFile(%s) unexpected error: %v", tt.file, err)
			}
			if result.Valid {
				t.Errorf("expected invalid for %s (%s), but got valid", tt.file, tt.desc)
			}
			if len(result.Issues) == 0 {
				t.Errorf("expected at least one issue for %s (%s)", tt.file, tt.desc)
			}
		})
	}
}

func TestValidateFile_InvalidJSON(t *testing.T) {
	_, err := ValidateFile(afero.NewOsFs(), testPath("invalid-not-json.json"))
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestValidateFile_NotFound(t *testing.T) {
	_, err := ValidateFile(afero.NewOsFs(), testPath("nonexistent.json"))
	if err == nil {
		t.Fatal("expected error for nonexistent file, got nil")
	}
}

func TestValidate_IssueFields(t *testing.T) {
	result, err := ValidateFile(afero.NewOsFs(), testPath("invalid-bad-module-name.json"))
	if err != nil {
		t.Fatalf("ValidateFile error: %v", err)
	}
	if result.Valid || len(result.Issues) == 0 {
		t.Fatal("expected invalid result with issues")
	}

	found := false
	for _, issue := range result.Issues {
		if issue.Path == "/0/modules/0/name" && issue.Keyword == "pattern" && issue.Message != "" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a pattern issue at /0/modules/0/name, got %+v", result.Issues)
	}
}

func TestValidate_SchemaCompiles(t *testing.T) {
	schema, err := getSchema()
	if err != nil {
		t.Fatalf("getSchema() error: %v", err)
	}
	if schema == nil {
		t.Fatal("getSchema() returned nil schema")
	}
}

func TestValidate_OnlyModulesRequired(t *testing.T) {
	result, err := Validate([]byte(`[{"modules": [], "theme": "dark"}]`))
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if !result.Valid {
		t.Errorf("expected a manifest with only modules to be valid, got %+v", result.Issues)
	}
}
