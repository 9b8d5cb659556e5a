package converter

import "strings"

// Data holds a parsed CSV as a header row plus positional data rows
type Data struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Settings are the batch-level values applied to every converted row
type Settings struct {
	ApGroup   string `json:"ap_group"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// OutputHeaders is the fixed Ruckus One bulk import header order
var OutputHeaders = []string{"AP Name", "Description", "Serial Number", "AP Group", "Tags", "Latitude", "Longitude"}

// Output column indexes (match OutputHeaders)
const (
	ColName = iota
	ColDescription
	ColSerial
	ColGroup
	ColTags
	ColLatitude
	ColLongitude
)

// ValidationErrors aggregates every violation found in a conversion attempt.
// Conversion is all-or-nothing: any entry here means zero output rows.
type ValidationErrors struct {
	Errors []string `json:"errors"`
}

func (e *ValidationErrors) Error() string {
	items := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		items[i] = "• " + err
	}
	return "Validation errors found:\n" + strings.Join(items, "\n")
}
