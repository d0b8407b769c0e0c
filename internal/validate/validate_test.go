package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neothan-dev/voice-ai-chat-agent-backend/internal/table"
)

func validSheet() *table.Sheet {
	return &table.Sheet{
		Name: "Intent",
		Rows: [][]string{
			{"id", "Name", "Keywords"},
			{"key", "display name", "matching words"},
			{"string", "string", "list"},
			{"greet", "Greeting", "[你好, 您好]"},
		},
	}
}

func codes(issues []Issue) []IssueCode {
	out := make([]IssueCode, len(issues))
	for i, issue := range issues {
		out[i] = issue.Code
	}
	return out
}

func TestSheet_Valid(t *testing.T) {
	r := Sheet(validSheet())
	assert.True(t, r.OK())
	assert.Empty(t, r.Warnings)
}

func TestSheet_ShapeErrors(t *testing.T) {
	t.Run("too few rows", func(t *testing.T) {
		s := &table.Sheet{Name: "main", Rows: [][]string{
			{"id", "v"}, {"", ""}, {"string", "string"},
		}}
		r := Sheet(s)
		require.False(t, r.OK())
		assert.Contains(t, codes(r.Errors), CodeSchema)
	})

	t.Run("too few columns", func(t *testing.T) {
		s := &table.Sheet{Name: "main", Rows: [][]string{
			{"id"}, {""}, {"string"}, {"a"},
		}}
		r := Sheet(s)
		require.False(t, r.OK())
		assert.Contains(t, codes(r.Errors), CodeSchema)
	})
}

func TestSheet_KeyColumnTypeRestriction(t *testing.T) {
	s := validSheet()

	t.Run("float is a hard error", func(t *testing.T) {
		s.Rows[table.RowTypeTags][0] = "float"
		r := Sheet(s)
		require.False(t, r.OK())
		assert.Contains(t, codes(r.Errors), CodeSchema)
	})

	t.Run("int is accepted", func(t *testing.T) {
		s := &table.Sheet{Name: "codes", Rows: [][]string{
			{"code", "v"}, {"", ""}, {"int", "string"}, {"7", "x"},
		}}
		r := Sheet(s)
		assert.True(t, r.OK())
	})

	t.Run("missing tag is a hard error", func(t *testing.T) {
		s := &table.Sheet{Name: "main", Rows: [][]string{
			{"id", "v"}, {"", ""}, {"", "string"}, {"a", "x"},
		}}
		r := Sheet(s)
		require.False(t, r.OK())
	})
}

func TestSheet_EmptyAndDuplicateKeys(t *testing.T) {
	t.Run("empty keys counted", func(t *testing.T) {
		s := &table.Sheet{Name: "main", Rows: [][]string{
			{"id", "v"}, {"", ""}, {"string", "string"},
			{"", "data but no key"},
			{"ok", "x"},
		}}
		r := Sheet(s)
		require.False(t, r.OK())
		assert.Contains(t, codes(r.Errors), CodeEmptyKey)
	})

	t.Run("fully blank rows tolerated", func(t *testing.T) {
		s := &table.Sheet{Name: "main", Rows: [][]string{
			{"id", "v"}, {"", ""}, {"string", "string"},
			{"ok", "x"},
			{"", ""},
		}}
		r := Sheet(s)
		assert.True(t, r.OK())
	})

	t.Run("duplicates listed", func(t *testing.T) {
		s := &table.Sheet{Name: "main", Rows: [][]string{
			{"id", "v"}, {"", ""}, {"string", "string"},
			{"a", "1"}, {"a", "2"}, {"b", "3"},
		}}
		r := Sheet(s)
		require.False(t, r.OK())
		require.Contains(t, codes(r.Errors), CodeDuplicateKey)
		var dup Issue
		for _, issue := range r.Errors {
			if issue.Code == CodeDuplicateKey {
				dup = issue
			}
		}
		assert.Contains(t, dup.Message, "a")
	})

	t.Run("int keys collide after normalization", func(t *testing.T) {
		s := &table.Sheet{Name: "codes", Rows: [][]string{
			{"code", "v"}, {"", ""}, {"int", "string"},
			{"007", "x"}, {"7", "y"},
		}}
		r := Sheet(s)
		require.False(t, r.OK())
		assert.Contains(t, codes(r.Errors), CodeDuplicateKey)
	})
}

func TestSheet_ValueChecks(t *testing.T) {
	base := func(tag, cell string) *table.Sheet {
		return &table.Sheet{Name: "main", Rows: [][]string{
			{"id", "v"}, {"", ""}, {"string", tag}, {"k", cell},
		}}
	}

	t.Run("bad int is an error", func(t *testing.T) {
		r := Sheet(base("int", "twelve"))
		require.False(t, r.OK())
		assert.Contains(t, codes(r.Errors), CodeType)
	})

	t.Run("int outside 32-bit range warns", func(t *testing.T) {
		r := Sheet(base("int", "3000000000"))
		assert.True(t, r.OK())
		assert.Contains(t, codes(r.Warnings), CodeFormat)
	})

	t.Run("bad float is an error", func(t *testing.T) {
		r := Sheet(base("float", "fast"))
		require.False(t, r.OK())
	})

	t.Run("bad json is an error", func(t *testing.T) {
		r := Sheet(base("json", `{"a": }`))
		require.False(t, r.OK())
		assert.Contains(t, codes(r.Errors), CodeType)
	})

	t.Run("unbraced json warns", func(t *testing.T) {
		r := Sheet(base("json", `[1, 2]`))
		assert.True(t, r.OK())
		assert.Contains(t, codes(r.Warnings), CodeFormat)
	})

	t.Run("bad yaml is an error", func(t *testing.T) {
		r := Sheet(base("yaml", "a: b: c: ["))
		require.False(t, r.OK())
	})

	t.Run("irregular bool warns", func(t *testing.T) {
		r := Sheet(base("bool", "maybe"))
		assert.True(t, r.OK())
		assert.Contains(t, codes(r.Warnings), CodeFormat)
	})

	t.Run("legacy list syntax warns", func(t *testing.T) {
		r := Sheet(base("list", "a, b, c"))
		assert.True(t, r.OK())
		assert.Contains(t, codes(r.Warnings), CodeFormat)
	})

	t.Run("unbalanced list brackets warn", func(t *testing.T) {
		r := Sheet(base("list", "[a, b"))
		assert.True(t, r.OK())
		assert.Contains(t, codes(r.Warnings), CodeFormat)
	})

	t.Run("control characters are an error", func(t *testing.T) {
		r := Sheet(base("string", "bad\x00text"))
		require.False(t, r.OK())
		assert.Contains(t, codes(r.Errors), CodeType)
	})

	t.Run("overlong string warns", func(t *testing.T) {
		r := Sheet(base("string", strings.Repeat("x", 1001)))
		assert.True(t, r.OK())
		assert.Contains(t, codes(r.Warnings), CodeFormat)
	})
}

func TestSheet_IdentifierWarnings(t *testing.T) {
	s := &table.Sheet{Name: "my-sheet", Rows: [][]string{
		{"id", "v"}, {"", ""}, {"string", "string"}, {"some key!", "x"},
	}}
	r := Sheet(s)
	assert.True(t, r.OK(), "identifier issues must not block compilation")

	got := codes(r.Warnings)
	count := 0
	for _, c := range got {
		if c == CodeIdentifier {
			count++
		}
	}
	assert.Equal(t, 2, count, "both the sheet name and the key should warn")
}

func TestSheet_UnknownTypeTagWarns(t *testing.T) {
	s := &table.Sheet{Name: "main", Rows: [][]string{
		{"id", "v"}, {"", ""}, {"string", "decimal"}, {"k", "1.5"},
	}}
	r := Sheet(s)
	assert.True(t, r.OK())
	assert.Contains(t, codes(r.Warnings), CodeUnknownType)
}

func TestWorkbook(t *testing.T) {
	t.Run("any sheet error blocks the whole file", func(t *testing.T) {
		wb := &table.Workbook{Name: "nlp", Sheets: []*table.Sheet{
			validSheet(),
			{Name: "broken", Rows: [][]string{{"id", "v"}}},
		}}
		reports, ok := Workbook(wb)
		assert.False(t, ok)
		assert.Len(t, reports, 2)
	})

	t.Run("reserved sheet is skipped", func(t *testing.T) {
		wb := &table.Workbook{Name: "nlp", Sheets: []*table.Sheet{
			validSheet(),
			{Name: table.DescribeSheetName, Rows: [][]string{{"about"}}},
		}}
		reports, ok := Workbook(wb)
		assert.True(t, ok)
		assert.Len(t, reports, 1)
	})

	t.Run("no valid sheets is an error", func(t *testing.T) {
		wb := &table.Workbook{Name: "empty"}
		reports, ok := Workbook(wb)
		assert.False(t, ok)
		require.NotEmpty(t, reports)
		assert.Contains(t, codes(reports[len(reports)-1].Errors), CodeSchema)
	})
}
