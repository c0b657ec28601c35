package spreadsheet

import (
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"
)

// ReadDelimitedRows flattens the first worksheet of an XLSX workbook into
// the comma-delimited line format the import engine consumes, so
// spreadsheet and CSV inputs share one analysis path. Cells keep their
// formatted string values; a team-name cell containing commas survives the
// round trip because the importer parses fixed fields from both row ends.
func ReadDelimitedRows(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", gerrors.Wrapf(err, "open workbook %s", path)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", gerrors.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", gerrors.Wrapf(err, "read sheet %q", sheets[0])
	}

	lines := make([]string, 0, len(rows))
	for _, cells := range rows {
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		line := strings.Join(cells, ",")
		if strings.Trim(line, ",") == "" {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}
