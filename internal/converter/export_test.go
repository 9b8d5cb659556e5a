package converter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport(t *testing.T) {
	t.Run("Should prefix output with import comment lines", func(t *testing.T) {
		data := &Data{
			Headers: OutputHeaders,
			Rows: [][]string{
				{"AP-1", "Lobby", "SN1", "West", "", "47.6", "-122.3"},
				{"AP-2", "", "SN2", "West", "", "47.6", "-122.3"},
			},
		}

		out := Export(data)
		lines := strings.Split(out, "\n")

		// Seven comment lines, one blank separator, header, two rows
		require.Len(t, lines, 11)
		for _, line := range lines[:7] {
			assert.True(t, strings.HasPrefix(line, "# "), "expected comment line, got %q", line)
		}
		assert.Equal(t, "", lines[7])
		assert.Equal(t, "AP Name,Description,Serial Number,AP Group,Tags,Latitude,Longitude", lines[8])
		assert.Equal(t, "AP-1,Lobby,SN1,West,,47.6,-122.3", lines[9])
		assert.Equal(t, "AP-2,,SN2,West,,47.6,-122.3", lines[10])
	})

	t.Run("Should render header only for empty data", func(t *testing.T) {
		out := Export(&Data{Headers: OutputHeaders})
		lines := strings.Split(out, "\n")
		assert.Equal(t, "AP Name,Description,Serial Number,AP Group,Tags,Latitude,Longitude", lines[len(lines)-1])
	})
}
