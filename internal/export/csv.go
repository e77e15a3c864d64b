// Package export renders entity collections as CSV, XLSX, PDF and ZIP
// downloads.
package export

import (
	"bytes"
	"strings"
)

// SerializeRows renders a header row followed by rows. Every field is
// quoted; embedded quotes are doubled.
func SerializeRows(header []string, rows [][]string) []byte {
	var buf bytes.Buffer
	writeRecord(&buf, header)
	for _, row := range rows {
		writeRecord(&buf, row)
	}
	return buf.Bytes()
}

func writeRecord(buf *bytes.Buffer, fields []string) {
	for i, field := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(field, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteByte('\n')
}
