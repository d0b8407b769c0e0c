package table

import (
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Attrs is the attribute mapping of one compiled row: column name to typed
// value. Columns whose cell was empty are omitted entirely.
type Attrs = map[string]cty.Value

// CompiledSheet is the key-to-attributes mapping produced by validating
// and coercing one sheet. Keys records insertion order so generated output
// stays deterministic; Entries is the lookup map.
type CompiledSheet struct {
	Name    string
	Columns []string
	Keys    []string
	Entries map[string]Attrs
}

// Item returns the attribute mapping for key. The second result is false
// when the key is absent.
func (c *CompiledSheet) Item(key string) (Attrs, bool) {
	attrs, ok := c.Entries[key]
	return attrs, ok
}

// All returns the full key-to-attributes mapping.
func (c *CompiledSheet) All() map[string]Attrs {
	return c.Entries
}

// KeyList returns the keys in insertion order.
func (c *CompiledSheet) KeyList() []string {
	return c.Keys
}

// ConstantName builds the generated-artifact constant name for a sheet,
// e.g. NLP_INTENT_CONFIG for config "nlp" and sheet "Intent".
func ConstantName(configName, sheetName string) string {
	return strings.ToUpper(configName) + "_" + strings.ToUpper(sheetName) + "_CONFIG"
}
