package services

import "strings"

// CsvRow is one parsed line of the import extract. The documented row shape
// is: Portfolio, Group, TeamName (may contain commas), Role, Location,
// Vendor, Name.
type CsvRow struct {
	Portfolio string
	Group     string
	TeamName  string
	Role      string
	Location  string
	Vendor    string
	Name      string
	Line      int
}

// ParseImportCSV splits raw delimited text into rows. Team names are free
// text that may legitimately contain the delimiter, so rows are parsed from
// both fixed ends: the first 2 and last 4 fields are positional and every
// field in between, rejoined with the delimiter, is the team name. Rows with
// fewer than 7 fields are returned as skipped rows rather than dropped.
func ParseImportCSV(text string) ([]CsvRow, []SkippedRow) {
	var rows []CsvRow
	var skipped []SkippedRow
	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < 7 {
			skipped = append(skipped, SkippedRow{
				Line:   i + 1,
				Row:    line,
				Reason: "Malformed row: expected at least 7 comma-separated fields",
			})
			continue
		}
		n := len(fields)
		rows = append(rows, CsvRow{
			Portfolio: strings.TrimSpace(fields[0]),
			Group:     strings.TrimSpace(fields[1]),
			TeamName:  strings.TrimSpace(strings.Join(fields[2:n-4], ",")),
			Role:      strings.TrimSpace(fields[n-4]),
			Location:  strings.TrimSpace(fields[n-3]),
			Vendor:    strings.TrimSpace(fields[n-2]),
			Name:      strings.TrimSpace(fields[n-1]),
			Line:      i + 1,
		})
	}
	return rows, skipped
}
