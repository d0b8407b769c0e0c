package coerce

import (
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/neothan-dev/voice-ai-chat-agent-backend/internal/table"
)

// Sheet compiles one validated sheet into its key-to-attributes mapping.
// Rows with blank keys are skipped (the validator has already reported
// them); later duplicates of a key are ignored so the first occurrence
// wins deterministically. Column types outside the valid set compile as
// string, matching the validator's warning semantics.
func Sheet(s *table.Sheet) *table.CompiledSheet {
	names := s.ColumnNames()
	tags := s.TypeTags()

	types := make([]table.CellType, len(names))
	for i := range names {
		ct := table.TypeString
		if i < len(tags) {
			if parsed, ok := table.ParseCellType(tags[i]); ok {
				ct = parsed
			}
		}
		types[i] = ct
	}

	compiled := &table.CompiledSheet{
		Name:    s.Name,
		Columns: append([]string(nil), names[1:]...),
		Entries: make(map[string]table.Attrs),
	}

	for r := range s.DataRows() {
		key := Key(s.Cell(r, 0), types[0])
		if key == "" {
			continue
		}
		if _, dup := compiled.Entries[key]; dup {
			continue
		}

		attrs := make(table.Attrs)
		for c := 1; c < len(names); c++ {
			v := Value(s.Cell(r, c), types[c])
			if v == cty.NilVal {
				continue
			}
			attrs[names[c]] = v
		}

		compiled.Keys = append(compiled.Keys, key)
		compiled.Entries[key] = attrs
	}

	return compiled
}

// Key normalizes a raw key cell per the key column's declared type. Int
// keys are canonicalized through a numeric round trip so "007" and "7"
// collide rather than silently coexisting; unparseable int keys keep
// their trimmed text (the validator reports them).
func Key(raw string, ct table.CellType) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || ct != table.TypeInt {
		return trimmed
	}
	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return trimmed
	}
	return strconv.FormatInt(n, 10)
}
