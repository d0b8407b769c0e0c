package table

// DescribeSheetName is the reserved instructions sheet. It documents the
// workbook layout for human editors and is never compiled.
const DescribeSheetName = ".DESC"

// Row indexes of the fixed header rows within a sheet grid.
const (
	RowColumnNames  = 0
	RowDescriptions = 1
	RowTypeTags     = 2
	RowFirstData    = 3
)

// MinRows and MinColumns are the smallest grid shape a compilable sheet
// may have: column names, descriptions, type tags, and at least one data
// row; a key column and at least one value column.
const (
	MinRows    = 4
	MinColumns = 2
)

// Sheet is one named grid of raw cell text within a workbook. Row 1 holds
// column names (column 1 is the key column), row 2 human descriptions,
// row 3 type tags, and rows 4..N data.
type Sheet struct {
	Name string
	Rows [][]string
}

// ColumnNames returns the header row, or nil when the grid is too short.
func (s *Sheet) ColumnNames() []string {
	if len(s.Rows) <= RowColumnNames {
		return nil
	}
	return s.Rows[RowColumnNames]
}

// TypeTags returns the raw type-tag row, or nil when the grid is too short.
func (s *Sheet) TypeTags() []string {
	if len(s.Rows) <= RowTypeTags {
		return nil
	}
	return s.Rows[RowTypeTags]
}

// DataRows returns the data portion of the grid.
func (s *Sheet) DataRows() [][]string {
	if len(s.Rows) <= RowFirstData {
		return nil
	}
	return s.Rows[RowFirstData:]
}

// Cell returns the raw text of the given data row and column, or "" when
// the row is ragged and the column is absent.
func (s *Sheet) Cell(dataRow, col int) string {
	rows := s.DataRows()
	if dataRow >= len(rows) || col >= len(rows[dataRow]) {
		return ""
	}
	return rows[dataRow][col]
}

// Workbook is one source file: a named, ordered collection of sheets. The
// config name is the file stem.
type Workbook struct {
	Name   string
	Path   string
	Sheets []*Sheet
}

// CompilableSheets returns the sheets that take part in compilation, in
// document order, excluding the reserved instructions sheet.
func (w *Workbook) CompilableSheets() []*Sheet {
	out := make([]*Sheet, 0, len(w.Sheets))
	for _, s := range w.Sheets {
		if s.Name == DescribeSheetName {
			continue
		}
		out = append(out, s)
	}
	return out
}
