package converter

import "strings"

// importCommentLines document the bulk import field constraints. Ruckus One
// ignores lines starting with # when importing.
var importCommentLines = []string{
	`# AP name is mandatory. The name can only contain between 2 and 32 characters. Only the following characters are allowed: 'a-z' 'A-Z' '0-9' space and other special characters (!""#$%'()*+,-./:;<=>?@[]^_{|}~) except & backtick or $(`,
	`# Description - maximal length is 180 characters`,
	`# Serial number is mandatory`,
	`# AP Group - must match an existing AP group`,
	`# Tags - separated by semicolon ';'`,
	`# Latitude - between -90 and 90, and contains a maximum of 6-digit decimal`,
	`# Longitude - between -180 and 180, and contains a maximum of 6-digit decimal`,
	``,
}

// Export renders converted data as downloadable CSV text, prefixed with the
// fixed comment lines documenting the import constraints
func Export(data *Data) string {
	lines := make([]string, 0, len(importCommentLines)+1+len(data.Rows))
	lines = append(lines, importCommentLines...)
	lines = append(lines, strings.Join(data.Headers, ","))
	for _, row := range data.Rows {
		lines = append(lines, strings.Join(row, ","))
	}
	return strings.Join(lines, "\n")
}
