// Package csvio implements the comma-separated text bridge: best-effort
// decoding of the fixed external export formats and encoding of
// finalized records for upload. It deliberately does not implement
// general CSV quoting; the formats it reads never quote commas.
package csvio

import (
	"strconv"
	"strings"
)

// DecodeOptions controls how Decode interprets the first line.
type DecodeOptions struct {
	// Headers treats the first line as column names. When false, columns
	// are named by ordinal index ("0", "1", ...).
	Headers bool
}

// Column pairs an internal field name with the header emitted for it.
// Encode preserves slice order, standing in for an ordered map.
type Column struct {
	Field  string
	Header string
}

// Decode splits delimited text into flat string-keyed rows. Lines split
// on newline, cells on comma; there is no quoted-comma escaping. A cell
// wrapped in matching double quotes with no internal space is unwrapped.
// Blank lines produce no row. Duplicate header names are not
// de-duplicated: a later column silently overwrites an earlier one with
// the same name (known limitation of the fixed source format, kept
// as-is).
func Decode(text string, opts DecodeOptions) []map[string]string {
	lines := strings.Split(text, "\n")

	var headers []string
	start := 0
	if opts.Headers {
		if len(lines) == 0 {
			return nil
		}
		headers = splitLine(lines[0])
		start = 1
	}

	var rows []map[string]string
	for _, line := range lines[start:] {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}

		cells := splitLine(line)
		row := make(map[string]string, len(cells))
		for i, cell := range cells {
			row[columnName(headers, i)] = cell
		}
		rows = append(rows, row)
	}

	return rows
}

// Encode emits a header line from the column headers in order, then one
// line per record joining the mapped fields in the same order. A record
// missing a mapped field emits an empty cell.
func Encode(records []map[string]string, columns []Column) string {
	var b strings.Builder

	for i, col := range columns {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(col.Header)
	}
	b.WriteByte('\n')

	for _, record := range records {
		for i, col := range columns {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(record[col.Field])
		}
		b.WriteByte('\n')
	}

	return b.String()
}

func splitLine(line string) []string {
	line = strings.TrimRight(line, "\r")
	cells := strings.Split(line, ",")
	for i, cell := range cells {
		cells[i] = unwrapQuotes(cell)
	}
	return cells
}

// unwrapQuotes strips matching double quotes from a cell when the quoted
// content has no internal space. Quoted cells containing spaces (such as
// the type-annotated headers of the request export) are kept verbatim.
func unwrapQuotes(cell string) string {
	if len(cell) < 2 || cell[0] != '"' || cell[len(cell)-1] != '"' {
		return cell
	}
	inner := cell[1 : len(cell)-1]
	if strings.Contains(inner, " ") {
		return cell
	}
	return inner
}

func columnName(headers []string, i int) string {
	if i < len(headers) {
		return headers[i]
	}
	return strconv.Itoa(i)
}
