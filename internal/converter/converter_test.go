package converter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCsv = `MAC Address,AP Name,Description,Serial Number
00:11:22:33:44:55,AP-Lobby,Front desk,SN0001
66:77:88:99:AA:BB,AP-Cafe,,SN0002`

func TestParse(t *testing.T) {
	t.Run("Should parse headers and rows", func(t *testing.T) {
		data, err := Parse(sampleCsv)
		require.NoError(t, err)

		assert.Equal(t, []string{"MAC Address", "AP Name", "Description", "Serial Number"}, data.Headers)
		require.Len(t, data.Rows, 2)
		assert.Equal(t, []string{"00:11:22:33:44:55", "AP-Lobby", "Front desk", "SN0001"}, data.Rows[0])
	})

	t.Run("Should fail on empty input", func(t *testing.T) {
		_, err := Parse("")
		require.Error(t, err)
		assert.Equal(t, "CSV file is empty", err.Error())

		_, err = Parse("\n  \n\t\n")
		require.Error(t, err)
	})

	t.Run("Should skip blank lines", func(t *testing.T) {
		data, err := Parse("AP Name,Serial\n\nAP-1,SN1\n   \nAP-2,SN2\n")
		require.NoError(t, err)
		assert.Len(t, data.Rows, 2)
	})

	t.Run("Should strip quotes from cells", func(t *testing.T) {
		data, err := Parse(`"AP Name","Serial"` + "\n" + `"AP-1","SN1"`)
		require.NoError(t, err)
		assert.Equal(t, []string{"AP Name", "Serial"}, data.Headers)
		assert.Equal(t, []string{"AP-1", "SN1"}, data.Rows[0])
	})
}

func TestConvert(t *testing.T) {
	t.Run("Should convert valid rows preserving order", func(t *testing.T) {
		src, err := Parse(sampleCsv)
		require.NoError(t, err)

		settings := Settings{ApGroup: "West", Latitude: "47.6", Longitude: "-122.3"}
		out, err := Convert(src, settings)
		require.NoError(t, err)

		assert.Equal(t, OutputHeaders, out.Headers)
		require.Len(t, out.Rows, 2)
		assert.Equal(t, []string{"AP-Lobby", "Front desk", "SN0001", "West", "", "47.6", "-122.3"}, out.Rows[0])
		assert.Equal(t, []string{"AP-Cafe", "", "SN0002", "West", "", "47.6", "-122.3"}, out.Rows[1])
	})

	t.Run("Should fail when serial column is missing", func(t *testing.T) {
		src := &Data{
			Headers: []string{"MAC Address", "AP Name", "Description"},
			Rows:    [][]string{{"aa", "AP-1", ""}},
		}

		_, err := Convert(src, Settings{})
		var validationErrs *ValidationErrors
		require.ErrorAs(t, err, &validationErrs)
		require.Len(t, validationErrs.Errors, 1)
		assert.Equal(t, `Serial column not found in CSV. Please enable the "Serial" column in SmartZone before exporting the CSV file.`, validationErrs.Errors[0])
	})

	t.Run("Should find serial column case-insensitively by substring", func(t *testing.T) {
		src := &Data{
			Headers: []string{"MAC", "AP Name", "Description", "AP SERIAL NUMBER"},
			Rows:    [][]string{{"aa", "AP-1", "", "SN1"}},
		}

		out, err := Convert(src, Settings{})
		require.NoError(t, err)
		assert.Equal(t, "SN1", out.Rows[0][ColSerial])
	})

	t.Run("Should enforce AP name length boundaries", func(t *testing.T) {
		cases := []struct {
			name  string
			valid bool
		}{
			{"A", false},
			{"AB", true},
			{strings.Repeat("A", 32), true},
			{strings.Repeat("A", 33), false},
		}

		for _, tc := range cases {
			src := &Data{
				Headers: []string{"MAC", "AP Name", "Description", "Serial"},
				Rows:    [][]string{{"aa", tc.name, "", "SN1"}},
			}
			_, err := Convert(src, Settings{})
			if tc.valid {
				assert.NoError(t, err, "name of length %d should pass", len(tc.name))
			} else {
				var validationErrs *ValidationErrors
				require.ErrorAs(t, err, &validationErrs)
				assert.Contains(t, validationErrs.Errors[0], "AP name must be between 2 and 32 characters")
			}
		}
	})

	t.Run("Should report missing AP name and serial", func(t *testing.T) {
		src := &Data{
			Headers: []string{"MAC", "AP Name", "Description", "Serial"},
			Rows: [][]string{
				{"aa", "", "", "SN1"},
				{"bb", "AP-2", "", ""},
			},
		}

		_, err := Convert(src, Settings{})
		var validationErrs *ValidationErrors
		require.ErrorAs(t, err, &validationErrs)
		assert.Contains(t, validationErrs.Errors, "Row 1: AP name is mandatory")
		assert.Contains(t, validationErrs.Errors, "Row 2: Serial number is mandatory")
	})

	t.Run("Should reject disallowed AP name characters", func(t *testing.T) {
		src := &Data{
			Headers: []string{"MAC", "AP Name", "Description", "Serial"},
			Rows:    [][]string{{"aa", "AP&Lobby`x&", "", "SN1"}},
		}

		_, err := Convert(src, Settings{})
		var validationErrs *ValidationErrors
		require.ErrorAs(t, err, &validationErrs)
		require.Len(t, validationErrs.Errors, 1)
		// Offending characters are deduplicated
		assert.Equal(t, "Row 1: AP name contains invalid characters: &, `", validationErrs.Errors[0])
	})

	t.Run("Should allow the permitted special characters", func(t *testing.T) {
		src := &Data{
			Headers: []string{"MAC", "AP Name", "Description", "Serial"},
			Rows:    [][]string{{"aa", `AP!"#$%'()+,-.:;<=>?@[]^_{|}~ 9`, "", "SN1"}},
		}

		_, err := Convert(src, Settings{})
		assert.NoError(t, err)
	})

	t.Run("Should reject descriptions over 180 characters", func(t *testing.T) {
		src := &Data{
			Headers: []string{"MAC", "AP Name", "Description", "Serial"},
			Rows: [][]string{
				{"aa", "AP-1", strings.Repeat("d", 180), "SN1"},
				{"bb", "AP-2", strings.Repeat("d", 181), "SN2"},
			},
		}

		_, err := Convert(src, Settings{})
		var validationErrs *ValidationErrors
		require.ErrorAs(t, err, &validationErrs)
		require.Len(t, validationErrs.Errors, 1)
		assert.Equal(t, "Row 2: Description exceeds maximum length of 180 characters", validationErrs.Errors[0])
	})

	t.Run("Should detect duplicate AP names and serial numbers", func(t *testing.T) {
		src := &Data{
			Headers: []string{"MAC", "AP Name", "Description", "Serial"},
			Rows: [][]string{
				{"aa", "AP-1", "", "SN1"},
				{"bb", "AP-2", "", "SN2"},
				{"cc", "AP-1", "", "SN2"},
				{"dd", "AP-2", "", "SN3"},
			},
		}

		_, err := Convert(src, Settings{})
		var validationErrs *ValidationErrors
		require.ErrorAs(t, err, &validationErrs)
		assert.Contains(t, validationErrs.Errors, "Duplicate AP names: AP-1, AP-2")
		assert.Contains(t, validationErrs.Errors, "Duplicate serial numbers: SN2")
	})

	t.Run("Should validate coordinate range and precision", func(t *testing.T) {
		base := func() *Data {
			return &Data{
				Headers: []string{"MAC", "AP Name", "Description", "Serial"},
				Rows:    [][]string{{"aa", "AP-1", "", "SN1"}},
			}
		}

		// Boundary values pass
		_, err := Convert(base(), Settings{Latitude: "90", Longitude: "-180"})
		assert.NoError(t, err)
		_, err = Convert(base(), Settings{Latitude: "-90", Longitude: "180"})
		assert.NoError(t, err)

		// Out of range
		_, err = Convert(base(), Settings{Latitude: "90.0000001"})
		var validationErrs *ValidationErrors
		require.ErrorAs(t, err, &validationErrs)
		assert.Contains(t, validationErrs.Errors, "Latitude must be between -90 and 90 degrees.")

		_, err = Convert(base(), Settings{Longitude: "181"})
		require.ErrorAs(t, err, &validationErrs)
		assert.Contains(t, validationErrs.Errors, "Longitude must be between -180 and 180 degrees.")

		// Too many decimal digits
		_, err = Convert(base(), Settings{Latitude: "12.1234567"})
		require.ErrorAs(t, err, &validationErrs)
		assert.Contains(t, validationErrs.Errors, "Latitude can contain a maximum of 6 total digits.")

		// Non-numeric
		_, err = Convert(base(), Settings{Latitude: "north"})
		require.ErrorAs(t, err, &validationErrs)
		assert.Contains(t, validationErrs.Errors, "Latitude must be between -90 and 90 degrees.")

		// Empty coordinates are fine
		_, err = Convert(base(), Settings{})
		assert.NoError(t, err)
	})

	t.Run("Should aggregate all violations into one error", func(t *testing.T) {
		src := &Data{
			Headers: []string{"MAC", "AP Name", "Description", "Serial"},
			Rows: [][]string{
				{"aa", "", "", ""},
				{"bb", "A", "", "SN1"},
			},
		}

		_, err := Convert(src, Settings{Latitude: "91"})
		var validationErrs *ValidationErrors
		require.ErrorAs(t, err, &validationErrs)
		assert.Len(t, validationErrs.Errors, 4)

		// Error() renders a bulleted list
		message := validationErrs.Error()
		assert.True(t, strings.HasPrefix(message, "Validation errors found:\n"))
		assert.Contains(t, message, "• Row 1: AP name is mandatory")
	})

	t.Run("Should handle short rows without panicking", func(t *testing.T) {
		src := &Data{
			Headers: []string{"MAC", "AP Name", "Description", "Serial"},
			Rows:    [][]string{{"aa"}},
		}

		_, err := Convert(src, Settings{})
		var validationErrs *ValidationErrors
		require.ErrorAs(t, err, &validationErrs)
		assert.Contains(t, validationErrs.Errors, "Row 1: AP name is mandatory")
		assert.Contains(t, validationErrs.Errors, "Row 1: Serial number is mandatory")
	})
}
