// Package codegen emits and loads the generated artifact for one config:
// a versioned, self-contained JSON table dump of every compiled sheet.
// Generation is deterministic; identical input produces byte-identical
// output, which in turn keeps artifact mtimes and the staleness record
// stable across no-op recompiles.
package codegen

import (
	"bytes"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/neothan-dev/voice-ai-chat-agent-backend/internal/table"
)

// ArtifactVersion identifies the artifact layout. Loaders reject versions
// they do not understand.
const ArtifactVersion = 1

// ArtifactSuffix is appended to the config name to form the generated
// file name, e.g. nlp_config.json.
const ArtifactSuffix = "_config.json"

// ArtifactName returns the generated file name for a config.
func ArtifactName(configName string) string {
	return configName + ArtifactSuffix
}

// ConfigNameFromArtifact recovers the config name from a generated file
// name. The second result is false for files that are not artifacts.
func ConfigNameFromArtifact(fileName string) (string, bool) {
	if len(fileName) <= len(ArtifactSuffix) || fileName[len(fileName)-len(ArtifactSuffix):] != ArtifactSuffix {
		return "", false
	}
	return fileName[:len(fileName)-len(ArtifactSuffix)], true
}

// Generate renders the artifact text for one config. Sheets appear in the
// given order, keys in their insertion order, and attributes in column
// order, so the bytes are a pure function of the compiled data. All
// literals pass through cty's JSON encoding, which round-trips quotes,
// backslashes, newlines, carriage returns, and tabs exactly.
func Generate(configName string, sheets []*table.CompiledSheet) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("{\n")
	fmt.Fprintf(&buf, "  \"version\": %d,\n", ArtifactVersion)
	fmt.Fprintf(&buf, "  \"config\": %s,\n", mustString(configName))
	buf.WriteString("  \"sheets\": [")

	for i, sheet := range sheets {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString("\n")
		if err := writeSheet(&buf, configName, sheet); err != nil {
			return nil, fmt.Errorf("generating sheet %q: %w", sheet.Name, err)
		}
	}
	if len(sheets) > 0 {
		buf.WriteString("\n  ")
	}
	buf.WriteString("]\n}\n")

	return buf.Bytes(), nil
}

func writeSheet(buf *bytes.Buffer, configName string, sheet *table.CompiledSheet) error {
	buf.WriteString("    {\n")
	fmt.Fprintf(buf, "      \"name\": %s,\n", mustString(sheet.Name))
	fmt.Fprintf(buf, "      \"constant\": %s,\n", mustString(table.ConstantName(configName, sheet.Name)))
	fmt.Fprintf(buf, "      \"columns\": %s,\n", mustStrings(sheet.Columns))
	fmt.Fprintf(buf, "      \"keys\": %s,\n", mustStrings(sheet.Keys))
	buf.WriteString("      \"entries\": {")

	for i, key := range sheet.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString("\n")
		fmt.Fprintf(buf, "        %s: {", mustString(key))

		attrs := sheet.Entries[key]
		wrote := false
		for _, col := range sheet.Columns {
			v, ok := attrs[col]
			if !ok {
				continue
			}
			if wrote {
				buf.WriteByte(',')
			}
			wrote = true
			enc, err := ctyjson.Marshal(v, v.Type())
			if err != nil {
				return fmt.Errorf("key %q column %q: %w", key, col, err)
			}
			fmt.Fprintf(buf, "\n          %s: %s", mustString(col), enc)
		}
		if wrote {
			buf.WriteString("\n        ")
		}
		buf.WriteByte('}')
	}
	if len(sheet.Keys) > 0 {
		buf.WriteString("\n      ")
	}
	buf.WriteString("}\n    }")
	return nil
}

// mustString JSON-encodes a string literal. cty's encoder cannot fail for
// plain strings.
func mustString(s string) []byte {
	enc, err := ctyjson.Marshal(cty.StringVal(s), cty.String)
	if err != nil {
		panic(err)
	}
	return enc
}

func mustStrings(items []string) []byte {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.Write(mustString(item))
	}
	buf.WriteByte(']')
	return buf.Bytes()
}
