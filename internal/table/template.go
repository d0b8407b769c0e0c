package table

import (
	"fmt"
	"os"
	"path/filepath"
)

// templateBody is the scaffold written for a new config. The main sheet
// carries the documented four-row layout; the reserved instructions sheet
// explains it to editors.
const templateBody = `main:
  - [key, value, description]
  - [key name, value text, what this entry is for]
  - [string, string, string]
  - [example_key_1, example_value_1, first sample entry]
  - [example_key_2, example_value_2, second sample entry]
".DESC":
  - [layout, "row 1: column names (column 1 is the key column)"]
  - [layout, "row 2: human descriptions, ignored by the compiler"]
  - [layout, "row 3: type tags, one of string/int/float/bool/list/json/yaml"]
  - [layout, "rows 4..N: data"]
  - [key column, "the key column type must be string or int"]
  - [list cells, "use bracketed comma-separated values: [a, b, c]"]
  - [json cells, "use a braced object: {\"key\": \"value\"}"]
  - [yaml cells, "use a sequence (- item) or mapping (key: value)"]
`

// WriteTemplate creates a template workbook named after configName in dir.
// It refuses to overwrite an existing source file.
func WriteTemplate(dir, configName string) (string, error) {
	path := filepath.Join(dir, configName+SourceExt)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("source file already exists: %s", path)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(templateBody), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
