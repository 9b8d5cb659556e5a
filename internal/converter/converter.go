package converter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// Source column positions fixed by the SmartZone export convention
	srcColName        = 1
	srcColDescription = 2

	apNameMinLen   = 2
	apNameMaxLen   = 32
	descriptionMax = 180
	maxGpsDecimals = 6
)

// Ruckus One allows letters, digits, space and a restricted special set in
// AP names. & and ` are excluded from the allowed set below.
func isAllowedNameChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ':
		return true
	}
	return strings.ContainsRune(`!"#$%'()*+,-./:;<=>?@[]^_{|}~`, r)
}

// Parse splits raw CSV text into a header row and data rows. Quoting is
// handled naively (quotes stripped, no RFC4180 quoted-comma support) to match
// the SmartZone export format. Entirely blank lines are dropped before
// parsing and never counted as rows.
func Parse(text string) (*Data, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, errors.New("CSV file is empty")
	}

	parseLine := func(line string) []string {
		cells := strings.Split(line, ",")
		for i, cell := range cells {
			cells[i] = strings.ReplaceAll(strings.TrimSpace(cell), `"`, "")
		}
		return cells
	}

	data := &Data{Headers: parseLine(lines[0]), Rows: make([][]string, 0, len(lines)-1)}
	for _, line := range lines[1:] {
		data.Rows = append(data.Rows, parseLine(line))
	}
	return data, nil
}

// Convert validates a SmartZone AP export and produces Ruckus One bulk
// import rows. All violations are accumulated into a single ValidationErrors
// result; no output is produced if any violation exists. On success the
// output preserves input row order 1:1, with AP Group/Latitude/Longitude
// taken from the batch settings and Tags left empty.
func Convert(src *Data, settings Settings) (*Data, error) {
	serialIdx := findSerialColumn(src.Headers)
	if serialIdx == -1 {
		return nil, &ValidationErrors{Errors: []string{
			`Serial column not found in CSV. Please enable the "Serial" column in SmartZone before exporting the CSV file.`,
		}}
	}

	var validationErrors []string

	for i, row := range src.Rows {
		apName := cell(row, srcColName)
		description := cell(row, srcColDescription)
		serialNumber := cell(row, serialIdx)

		if apName == "" {
			validationErrors = append(validationErrors, fmt.Sprintf("Row %d: AP name is mandatory", i+1))
		} else if len(apName) < apNameMinLen || len(apName) > apNameMaxLen {
			validationErrors = append(validationErrors, fmt.Sprintf("Row %d: AP name must be between 2 and 32 characters", i+1))
		} else if bad := offendingNameChars(apName); bad != "" {
			validationErrors = append(validationErrors, fmt.Sprintf("Row %d: AP name contains invalid characters: %s", i+1, bad))
		}

		if description != "" && len(description) > descriptionMax {
			validationErrors = append(validationErrors, fmt.Sprintf("Row %d: Description exceeds maximum length of 180 characters", i+1))
		}

		if serialNumber == "" {
			validationErrors = append(validationErrors, fmt.Sprintf("Row %d: Serial number is mandatory", i+1))
		}
	}

	// Cross-row duplicate detection for AP names and serial numbers
	if dupes := findDuplicates(src.Rows, srcColName); len(dupes) > 0 {
		validationErrors = append(validationErrors, fmt.Sprintf("Duplicate AP names: %s", strings.Join(dupes, ", ")))
	}
	if dupes := findDuplicates(src.Rows, serialIdx); len(dupes) > 0 {
		validationErrors = append(validationErrors, fmt.Sprintf("Duplicate serial numbers: %s", strings.Join(dupes, ", ")))
	}

	validationErrors = append(validationErrors, validateSettings(settings)...)

	if len(validationErrors) > 0 {
		return nil, &ValidationErrors{Errors: validationErrors}
	}

	out := &Data{Headers: OutputHeaders, Rows: make([][]string, 0, len(src.Rows))}
	for _, row := range src.Rows {
		out.Rows = append(out.Rows, []string{
			cell(row, srcColName),
			cell(row, srcColDescription),
			cell(row, serialIdx),
			settings.ApGroup,
			"", // Tags are reserved, never populated by the converter
			settings.Latitude,
			settings.Longitude,
		})
	}
	return out, nil
}

// findSerialColumn locates the serial column by case-insensitive substring
// match on the header names. Returns -1 if no header matches.
func findSerialColumn(headers []string) int {
	for i, header := range headers {
		if strings.Contains(strings.ToLower(header), "serial") {
			return i
		}
	}
	return -1
}

// cell returns the value at index idx, or "" for short rows
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// offendingNameChars returns the deduplicated set of characters in name that
// are outside the allowed AP name charset, joined with ", "
func offendingNameChars(name string) string {
	seen := make(map[rune]bool)
	var bad []string
	for _, r := range name {
		if !isAllowedNameChar(r) && !seen[r] {
			seen[r] = true
			bad = append(bad, string(r))
		}
	}
	return strings.Join(bad, ", ")
}

// findDuplicates returns values appearing more than once in the given column,
// deduplicated, in first-encounter order. Blank cells are ignored.
func findDuplicates(rows [][]string, idx int) []string {
	seen := make(map[string]int)
	var order []string
	for _, row := range rows {
		value := cell(row, idx)
		if value == "" {
			continue
		}
		if seen[value] == 0 {
			order = append(order, value)
		}
		seen[value]++
	}
	var dupes []string
	for _, value := range order {
		if seen[value] > 1 {
			dupes = append(dupes, value)
		}
	}
	return dupes
}

// validateSettings checks the batch-level latitude/longitude once (they apply
// to every row identically)
func validateSettings(settings Settings) []string {
	var errs []string
	if msg := validateCoordinate("Latitude", settings.Latitude, 90); msg != "" {
		errs = append(errs, msg)
	}
	if msg := validateCoordinate("Longitude", settings.Longitude, 180); msg != "" {
		errs = append(errs, msg)
	}
	return errs
}

func validateCoordinate(label, value string, bound float64) string {
	if value == "" {
		return ""
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed < -bound || parsed > bound {
		return fmt.Sprintf("%s must be between -%.0f and %.0f degrees.", label, bound, bound)
	}
	if _, frac, ok := strings.Cut(value, "."); ok && len(frac) > maxGpsDecimals {
		return fmt.Sprintf("%s can contain a maximum of 6 total digits.", label)
	}
	return ""
}
