package coerce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/neothan-dev/voice-ai-chat-agent-backend/internal/table"
)

func TestSheet_GreetScenario(t *testing.T) {
	s := &table.Sheet{
		Name: "Intent",
		Rows: [][]string{
			{"id", "Name", "Keywords"},
			{"key", "display name", "matching words"},
			{"string", "string", "list"},
			{"greet", "Greeting", "[你好, 您好]"},
		},
	}

	compiled := Sheet(s)
	require.Equal(t, []string{"greet"}, compiled.Keys)
	require.Equal(t, []string{"Name", "Keywords"}, compiled.Columns)

	attrs, ok := compiled.Item("greet")
	require.True(t, ok)
	assert.True(t, attrs["Name"].RawEquals(cty.StringVal("Greeting")))
	assert.True(t, attrs["Keywords"].RawEquals(cty.TupleVal([]cty.Value{
		cty.StringVal("你好"), cty.StringVal("您好"),
	})))
}

func TestSheet_SkipsBlankKeysAndDuplicates(t *testing.T) {
	s := &table.Sheet{
		Name: "main",
		Rows: [][]string{
			{"id", "value"},
			{"", ""},
			{"string", "int"},
			{"a", "1"},
			{"", "2"},
			{"a", "3"},
			{"b", "4"},
		},
	}

	compiled := Sheet(s)
	assert.Equal(t, []string{"a", "b"}, compiled.Keys)

	// First occurrence wins.
	attrs, ok := compiled.Item("a")
	require.True(t, ok)
	assert.True(t, attrs["value"].RawEquals(cty.NumberIntVal(1)))
}

func TestSheet_IntKeysAreCanonicalized(t *testing.T) {
	s := &table.Sheet{
		Name: "codes",
		Rows: [][]string{
			{"code", "label"},
			{"", ""},
			{"int", "string"},
			{"007", "james"},
			{"12", "dozen"},
		},
	}

	compiled := Sheet(s)
	assert.Equal(t, []string{"7", "12"}, compiled.Keys)

	_, ok := compiled.Item("007")
	assert.False(t, ok)
	attrs, ok := compiled.Item("7")
	require.True(t, ok)
	assert.True(t, attrs["label"].RawEquals(cty.StringVal("james")))
}

func TestSheet_EmptyCellsAreOmitted(t *testing.T) {
	s := &table.Sheet{
		Name: "main",
		Rows: [][]string{
			{"id", "a", "b"},
			{"", "", ""},
			{"string", "string", "int"},
			{"x", "", "5"},
			{"y", "present"}, // ragged row: column b missing entirely
		},
	}

	compiled := Sheet(s)

	attrsX, ok := compiled.Item("x")
	require.True(t, ok)
	_, hasA := attrsX["a"]
	assert.False(t, hasA, "empty cell must be omitted, not stored as empty string")
	assert.True(t, attrsX["b"].RawEquals(cty.NumberIntVal(5)))

	attrsY, ok := compiled.Item("y")
	require.True(t, ok)
	assert.True(t, attrsY["a"].RawEquals(cty.StringVal("present")))
	_, hasB := attrsY["b"]
	assert.False(t, hasB)
}

func TestSheet_UnknownTypeTagCompilesAsString(t *testing.T) {
	s := &table.Sheet{
		Name: "main",
		Rows: [][]string{
			{"id", "v"},
			{"", ""},
			{"string", "decimal"},
			{"k", "3.14"},
		},
	}

	compiled := Sheet(s)
	attrs, ok := compiled.Item("k")
	require.True(t, ok)
	assert.True(t, attrs["v"].RawEquals(cty.StringVal("3.14")))
}
