package table

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/neothan-dev/voice-ai-chat-agent-backend/internal/ctxlog"
)

// SourceExt is the extension of workbook source files.
const SourceExt = ".yaml"

// Loader is the interface for a container-format-specific workbook reader.
// The compiler only ever sees the format-agnostic Workbook model.
type Loader interface {
	// Load reads one workbook file and translates it into the model. The
	// config name is derived from the file stem.
	Load(ctx context.Context, path string) (*Workbook, error)
}

// YAMLLoader reads workbooks serialized as YAML documents: a mapping from
// sheet name to a sequence of rows, each row a sequence of scalar cells.
// Cell text is taken verbatim from the scalar node, so "0x10" stays
// exactly as the editor wrote it.
type YAMLLoader struct{}

// NewYAMLLoader creates a workbook loader for the YAML container format.
func NewYAMLLoader() *YAMLLoader {
	return &YAMLLoader{}
}

// Load implements Loader.
func (l *YAMLLoader) Load(ctx context.Context, path string) (*Workbook, error) {
	logger := ctxlog.FromContext(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workbook %s: %w", path, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing workbook %s: %w", path, err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("workbook %s is empty", path)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("workbook %s: top level must be a mapping of sheet name to rows", path)
	}

	stem := strings.TrimSuffix(filepath.Base(path), SourceExt)
	wb := &Workbook{Name: stem, Path: path}

	for i := 0; i+1 < len(root.Content); i += 2 {
		nameNode := root.Content[i]
		rowsNode := root.Content[i+1]

		sheet, err := decodeSheet(nameNode.Value, rowsNode)
		if err != nil {
			return nil, fmt.Errorf("workbook %s: %w", path, err)
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}

	logger.Debug("Workbook loaded.", "config", wb.Name, "sheets", len(wb.Sheets))
	return wb, nil
}

// decodeSheet translates one sheet node into a raw cell grid.
func decodeSheet(name string, rowsNode *yaml.Node) (*Sheet, error) {
	if rowsNode.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("sheet %q: expected a sequence of rows, got %s", name, nodeKindName(rowsNode.Kind))
	}

	sheet := &Sheet{Name: name}
	for r, rowNode := range rowsNode.Content {
		if rowNode.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("sheet %q row %d: expected a sequence of cells, got %s", name, r+1, nodeKindName(rowNode.Kind))
		}
		row := make([]string, 0, len(rowNode.Content))
		for c, cellNode := range rowNode.Content {
			if cellNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("sheet %q row %d col %d: cells must be scalar text, got %s", name, r+1, c+1, nodeKindName(cellNode.Kind))
			}
			if cellNode.Tag == "!!null" {
				row = append(row, "")
				continue
			}
			row = append(row, cellNode.Value)
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

func nodeKindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
