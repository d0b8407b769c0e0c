// Package validate checks sheet shape and cell values against the
// declared column types before anything is compiled. Validation is purely
// structural and read-only; it never mutates the workbook. Any error in
// any sheet aborts compilation of the entire source file so a previously
// generated artifact is never partially overwritten.
package validate

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	ctyjson "github.com/zclconf/go-cty/cty/json"
	ctyyaml "github.com/zclconf/go-cty-yaml"

	"github.com/neothan-dev/voice-ai-chat-agent-backend/internal/coerce"
	"github.com/neothan-dev/voice-ai-chat-agent-backend/internal/table"
)

var identifierRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Limits past which values draw warnings. They mirror what the config
// tables historically tolerated before editors started abusing them.
const (
	maxKeyRunes    = 50
	maxStringRunes = 1000
	sparseFraction = 0.8
)

// Workbook validates every compilable sheet of a workbook. The boolean
// result is false when compilation of the file must be abandoned: any
// sheet reported an error, or no sheet survived at all.
func Workbook(wb *table.Workbook) ([]Report, bool) {
	sheets := wb.CompilableSheets()
	reports := make([]Report, 0, len(sheets))

	ok := true
	valid := 0
	for _, s := range sheets {
		r := Sheet(s)
		if r.OK() {
			valid++
		} else {
			ok = false
		}
		reports = append(reports, r)
	}

	if valid == 0 {
		reports = append(reports, Report{
			Sheet:  wb.Name,
			Errors: []Issue{{Code: CodeSchema, Message: "workbook has no valid sheets"}},
		})
		ok = false
	}
	return reports, ok
}

// Sheet validates one sheet and returns its ordered findings.
func Sheet(s *table.Sheet) Report {
	r := Report{Sheet: s.Name}

	if !identifierRe.MatchString(s.Name) {
		r.warnf(CodeIdentifier, "sheet name %q contains characters outside letters/digits/underscore", s.Name)
	}

	// 1. Grid shape.
	if len(s.Rows) < table.MinRows {
		r.errorf(CodeSchema, "sheet needs at least %d rows (column names, descriptions, type tags, data), got %d", table.MinRows, len(s.Rows))
		return r
	}
	names := s.ColumnNames()
	if len(names) < table.MinColumns {
		r.errorf(CodeSchema, "sheet needs at least %d columns (key column and one value column), got %d", table.MinColumns, len(names))
		return r
	}

	// 2. Key column type declaration.
	tags := s.TypeTags()
	keyType := table.TypeString
	if len(tags) == 0 || strings.TrimSpace(tags[0]) == "" {
		r.errorf(CodeSchema, "key column has no type tag")
	} else if kt, known := table.ParseCellType(tags[0]); !known {
		r.errorf(CodeSchema, "key column type %q is not valid; key columns support string or int", strings.TrimSpace(tags[0]))
	} else if !table.ValidKeyType(kt) {
		r.errorf(CodeSchema, "key column type %q is not valid; key columns support string or int", kt)
	} else {
		keyType = kt
	}

	// 3 & 4. Empty and duplicate keys.
	checkKeys(s, keyType, &r)

	// 6. Value column type tags; unknown tags compile as string.
	types := make([]table.CellType, len(names))
	types[0] = keyType
	for c := 1; c < len(names); c++ {
		types[c] = table.TypeString
		if c >= len(tags) || strings.TrimSpace(tags[c]) == "" {
			r.warnf(CodeUnknownType, "column %q has no type tag, treating as string", names[c])
			continue
		}
		ct, known := table.ParseCellType(tags[c])
		if !known {
			r.warnf(CodeUnknownType, "column %q type %q is not valid, treating as string", names[c], strings.TrimSpace(tags[c]))
			continue
		}
		types[c] = ct
	}

	// 5. Cell values against declared types.
	checkCells(s, names, types, &r)

	return r
}

// checkKeys enforces the key-column invariants: no empty keys, no
// duplicates, and identifier-safe text.
func checkKeys(s *table.Sheet, keyType table.CellType, r *Report) {
	seen := make(map[string]int)
	var duplicates []string
	empty := 0

	for i, row := range s.DataRows() {
		if len(row) == 0 {
			continue
		}
		key := strings.TrimSpace(row[0])
		if key == "" {
			// A fully blank row is tolerated; a row with data but no key is not.
			if rowHasData(row) {
				empty++
			}
			continue
		}

		norm := coerce.Key(key, keyType)
		if _, dup := seen[norm]; dup {
			duplicates = append(duplicates, norm)
		}
		seen[norm]++

		if !identifierRe.MatchString(key) {
			r.warnf(CodeIdentifier, "key %q (row %d) contains characters outside letters/digits/underscore", key, i+table.RowFirstData+1)
		}
		if utf8.RuneCountInString(key) > maxKeyRunes {
			r.warnf(CodeFormat, "key %q (row %d) is longer than %d characters", key, i+table.RowFirstData+1, maxKeyRunes)
		}
		if keyType == table.TypeInt {
			if _, err := strconv.ParseInt(key, 10, 64); err != nil {
				r.errorf(CodeType, "key %q (row %d) is not a valid int", key, i+table.RowFirstData+1)
			}
		}
	}

	if empty > 0 {
		r.errorf(CodeEmptyKey, "found %d empty keys", empty)
	}
	if len(duplicates) > 0 {
		r.errorf(CodeDuplicateKey, "found duplicate keys: %s", strings.Join(duplicates, ", "))
	}
}

func rowHasData(row []string) bool {
	for _, cell := range row[1:] {
		if strings.TrimSpace(cell) != "" {
			return true
		}
	}
	return false
}

// checkCells runs every non-key cell through the checking-mode parse for
// its column's declared type and tracks sparsity.
func checkCells(s *table.Sheet, names []string, types []table.CellType, r *Report) {
	rows := s.DataRows()
	total := 0
	empty := 0

	for c := 1; c < len(names); c++ {
		for i := range rows {
			total++
			raw := strings.TrimSpace(s.Cell(i, c))
			if raw == "" {
				empty++
				continue
			}
			checkValue(raw, types[c], names[c], i+table.RowFirstData+1, r)
		}
	}

	if total > 0 && float64(empty) > float64(total)*sparseFraction {
		r.warnf(CodeSparseData, "data region is mostly empty (%d of %d cells)", empty, total)
	}
}

// checkValue applies the coercion rules in checking mode: parse failure on
// the structured types (int, float, json, yaml) is an error; format
// irregularities on string, bool, and list are warnings.
func checkValue(raw string, ct table.CellType, col string, rowNum int, r *Report) {
	switch ct {
	case table.TypeString:
		if !utf8.ValidString(raw) {
			r.errorf(CodeType, "column %q row %d: string is not valid UTF-8", col, rowNum)
		} else if containsControl(raw) {
			r.errorf(CodeType, "column %q row %d: string contains control characters", col, rowNum)
		}
		if utf8.RuneCountInString(raw) > maxStringRunes {
			r.warnf(CodeFormat, "column %q row %d: string is longer than %d characters", col, rowNum, maxStringRunes)
		}

	case table.TypeInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			if isRangeError(err) {
				r.warnf(CodeFormat, "column %q row %d: integer out of range", col, rowNum)
				return
			}
			r.errorf(CodeType, "column %q row %d: cannot parse %q as int", col, rowNum, raw)
			return
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			r.warnf(CodeFormat, "column %q row %d: integer outside 32-bit range", col, rowNum)
		}

	case table.TypeFloat:
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			if isRangeError(err) {
				r.warnf(CodeFormat, "column %q row %d: float out of range", col, rowNum)
				return
			}
			r.errorf(CodeType, "column %q row %d: cannot parse %q as float", col, rowNum, raw)
		}

	case table.TypeBool:
		switch strings.ToLower(raw) {
		case "true", "false", "1", "0", "yes", "no", "是", "否":
		default:
			r.warnf(CodeFormat, "column %q row %d: %q is not a recognized bool literal and coerces to false", col, rowNum, raw)
		}

	case table.TypeList:
		open := strings.HasPrefix(raw, "[")
		closed := strings.HasSuffix(raw, "]")
		if open != closed {
			r.warnf(CodeFormat, "column %q row %d: unbalanced brackets in list %q, treating as a single element", col, rowNum, raw)
		} else if !open {
			r.warnf(CodeFormat, "column %q row %d: list should use bracketed syntax [a, b, c], got %q", col, rowNum, raw)
		}

	case table.TypeJSON:
		if !strings.HasPrefix(raw, "{") || !strings.HasSuffix(raw, "}") {
			r.warnf(CodeFormat, "column %q row %d: json should be a braced object {...}", col, rowNum)
			return
		}
		if _, err := ctyjson.ImpliedType([]byte(raw)); err != nil {
			r.errorf(CodeType, "column %q row %d: invalid json: %v", col, rowNum, err)
		}

	case table.TypeYAML:
		if !strings.HasPrefix(raw, "-") && !strings.Contains(raw, ":") {
			r.warnf(CodeFormat, "column %q row %d: yaml should be a sequence (- item) or mapping (key: value)", col, rowNum)
			return
		}
		if _, err := ctyyaml.Standard.ImpliedType([]byte(raw)); err != nil {
			r.errorf(CodeType, "column %q row %d: invalid yaml: %v", col, rowNum, err)
		}
	}
}

func containsControl(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return true
		}
	}
	return false
}

func isRangeError(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}
