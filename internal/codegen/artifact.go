package codegen

import (
	"encoding/json"
	"fmt"
	"os"

	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/neothan-dev/voice-ai-chat-agent-backend/internal/table"
)

// Artifact is the loaded form of one generated file. Sheets keep their
// generation order.
type Artifact struct {
	Version int
	Config  string
	Sheets  []*table.CompiledSheet
}

// Sheet returns the named compiled sheet, or nil when absent.
func (a *Artifact) Sheet(name string) *table.CompiledSheet {
	for _, s := range a.Sheets {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// SheetNames returns the sheet names in generation order.
func (a *Artifact) SheetNames() []string {
	names := make([]string, len(a.Sheets))
	for i, s := range a.Sheets {
		names[i] = s.Name
	}
	return names
}

// artifactDoc mirrors the generated JSON layout. Entry values stay raw
// until their cty type is implied, so load needs no access to the source
// workbook or its type tags.
type artifactDoc struct {
	Version int            `json:"version"`
	Config  string         `json:"config"`
	Sheets  []artifactSheet `json:"sheets"`
}

type artifactSheet struct {
	Name    string                     `json:"name"`
	Columns []string                   `json:"columns"`
	Keys    []string                   `json:"keys"`
	Entries map[string]json.RawMessage `json:"entries"`
}

// LoadArtifact parses a generated file back into compiled sheets.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading artifact %s: %w", path, err)
	}
	return ParseArtifact(data)
}

// ParseArtifact parses artifact bytes.
func ParseArtifact(data []byte) (*Artifact, error) {
	var doc artifactDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing artifact: %w", err)
	}
	if doc.Version != ArtifactVersion {
		return nil, fmt.Errorf("unsupported artifact version %d (want %d)", doc.Version, ArtifactVersion)
	}

	art := &Artifact{Version: doc.Version, Config: doc.Config}
	for _, ds := range doc.Sheets {
		cs := &table.CompiledSheet{
			Name:    ds.Name,
			Columns: ds.Columns,
			Keys:    ds.Keys,
			Entries: make(map[string]table.Attrs, len(ds.Keys)),
		}
		for _, key := range ds.Keys {
			raw, ok := ds.Entries[key]
			if !ok {
				return nil, fmt.Errorf("sheet %q: key %q listed but has no entry", ds.Name, key)
			}
			attrs, err := decodeEntry(raw)
			if err != nil {
				return nil, fmt.Errorf("sheet %q key %q: %w", ds.Name, key, err)
			}
			cs.Entries[key] = attrs
		}
		art.Sheets = append(art.Sheets, cs)
	}
	return art, nil
}

func decodeEntry(raw json.RawMessage) (table.Attrs, error) {
	ty, err := ctyjson.ImpliedType(raw)
	if err != nil {
		return nil, err
	}
	v, err := ctyjson.Unmarshal(raw, ty)
	if err != nil {
		return nil, err
	}
	if v.Type().IsObjectType() && len(v.Type().AttributeTypes()) == 0 {
		return table.Attrs{}, nil
	}
	return v.AsValueMap(), nil
}
