package assets

import "strings"

var apCsvHeaders = []string{"serial number", "name", "type", "ip address", "status"}

// ExportAccessPointsCsv renders the normalized AP list as CSV text for
// download
func ExportAccessPointsCsv(aps []AccessPoint) string {
	lines := make([]string, 0, len(aps)+1)
	lines = append(lines, strings.Join(apCsvHeaders, ","))
	for _, ap := range aps {
		cells := []string{ap.SerialNumber, ap.Name, ap.Model, ap.IPAddress, ap.Status}
		for i, cell := range cells {
			cells[i] = csvValue(cell)
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, "\n")
}

// csvValue quotes a cell when it carries embedded quotes, commas or line
// breaks; embedded quotes are doubled
func csvValue(value string) string {
	if strings.Contains(value, `"`) {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	if strings.ContainsAny(value, ",\n\r") {
		return `"` + value + `"`
	}
	return value
}
