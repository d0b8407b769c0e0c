// Package coerce turns raw cell text into typed cty values according to
// the column's declared cell type. Coercion never fails: values that do
// not parse fall back to a safe default for the type, and the validator is
// responsible for reporting them.
package coerce

import (
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	ctyyaml "github.com/zclconf/go-cty-yaml"

	"github.com/neothan-dev/voice-ai-chat-agent-backend/internal/table"
)

// boolAffirmatives are the cell texts that coerce to true. Everything else
// is false. 是 is the affirmative used by the original config tables.
var boolAffirmatives = map[string]struct{}{
	"true": {},
	"1":    {},
	"yes":  {},
	"是":    {},
}

// Value coerces one raw cell into a typed value. Empty or whitespace-only
// cells coerce to cty.NilVal; callers omit the attribute entirely rather
// than storing an empty string or zero.
func Value(raw string, ct table.CellType) cty.Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return cty.NilVal
	}

	switch ct {
	case table.TypeString:
		return cty.StringVal(trimmed)
	case table.TypeInt:
		n, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return cty.Zero
		}
		return cty.NumberIntVal(n)
	case table.TypeFloat:
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return cty.NumberFloatVal(0)
		}
		return cty.NumberFloatVal(f)
	case table.TypeBool:
		return cty.BoolVal(IsAffirmative(trimmed))
	case table.TypeList:
		return listValue(trimmed)
	case table.TypeJSON:
		return jsonValue(trimmed)
	case table.TypeYAML:
		return yamlValue(trimmed)
	default:
		return cty.StringVal(trimmed)
	}
}

// IsAffirmative reports whether the cell text is a true-like literal.
func IsAffirmative(trimmed string) bool {
	_, ok := boolAffirmatives[strings.ToLower(trimmed)]
	return ok
}

// listValue parses list cells. The primary syntax is bracketed,
// comma-separated "[a, b, c]"; a legacy bare comma-separated string is
// accepted for backward compatibility. Unbalanced brackets degrade to a
// single-element list holding the raw text.
func listValue(trimmed string) cty.Value {
	open := strings.HasPrefix(trimmed, "[")
	closed := strings.HasSuffix(trimmed, "]")

	switch {
	case open && closed:
		content := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
		if content == "" {
			return cty.EmptyTupleVal
		}
		return cty.TupleVal(splitElements(content))
	case open || closed:
		// Unbalanced brackets; the validator warns about these.
		return cty.TupleVal([]cty.Value{cty.StringVal(trimmed)})
	case strings.Contains(trimmed, ","):
		return cty.TupleVal(splitElements(trimmed))
	default:
		return cty.TupleVal([]cty.Value{cty.StringVal(trimmed)})
	}
}

// splitElements splits comma-separated list content and opportunistically
// types each element: int first, float when the text carries a decimal
// point, string otherwise.
func splitElements(content string) []cty.Value {
	parts := strings.Split(content, ",")
	vals := make([]cty.Value, 0, len(parts))
	for _, part := range parts {
		vals = append(vals, Element(strings.TrimSpace(part)))
	}
	return vals
}

// Element types a single list element.
func Element(text string) cty.Value {
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return cty.NumberIntVal(n)
	}
	if strings.Contains(text, ".") {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return cty.NumberFloatVal(f)
		}
	}
	return cty.StringVal(text)
}

// jsonValue parses braced object text. Anything that is not a brace-bound
// object, or fails to parse, is left as the raw string; the validator
// surfaces the parse failure as an error.
func jsonValue(trimmed string) cty.Value {
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return cty.StringVal(trimmed)
	}
	ty, err := ctyjson.ImpliedType([]byte(trimmed))
	if err != nil {
		return cty.StringVal(trimmed)
	}
	v, err := ctyjson.Unmarshal([]byte(trimmed), ty)
	if err != nil {
		return cty.StringVal(trimmed)
	}
	return v
}

// yamlValue parses text that looks like a YAML sequence ("- item") or
// mapping ("key: value"); anything else stays a raw string.
func yamlValue(trimmed string) cty.Value {
	if !looksLikeYAML(trimmed) {
		return cty.StringVal(trimmed)
	}
	ty, err := ctyyaml.Standard.ImpliedType([]byte(trimmed))
	if err != nil {
		return cty.StringVal(trimmed)
	}
	v, err := ctyyaml.Standard.Unmarshal([]byte(trimmed), ty)
	if err != nil {
		return cty.StringVal(trimmed)
	}
	return v
}

func looksLikeYAML(trimmed string) bool {
	return strings.HasPrefix(trimmed, "-") || strings.Contains(trimmed, ":")
}
