package importer

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// CSVToTable converts RFC4180-style CSV text into a markdown table.
// The first record is the header; a separator row of "---" cells matching
// the header width follows. Quoted fields may contain commas and escaped
// double quotes. Cell whitespace is trimmed, and pipe characters are
// escaped so cells cannot break the table grammar.
func CSVToTable(text string) (string, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1 // ragged rows tolerated, padded below

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parsing CSV: %w", err)
	}
	if len(records) == 0 {
		return "", nil
	}

	width := len(records[0])
	var b strings.Builder

	writeRow := func(cells []string) {
		b.WriteByte('|')
		for i := 0; i < width; i++ {
			cell := ""
			if i < len(cells) {
				cell = strings.TrimSpace(cells[i])
			}
			b.WriteByte(' ')
			b.WriteString(strings.ReplaceAll(cell, "|", `\|`))
			b.WriteString(" |")
		}
		b.WriteByte('\n')
	}

	writeRow(records[0])

	b.WriteByte('|')
	for i := 0; i < width; i++ {
		b.WriteString(" --- |")
	}
	b.WriteByte('\n')

	for _, rec := range records[1:] {
		writeRow(rec)
	}

	return strings.TrimRight(b.String(), "\n"), nil
}
