package export_test

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/landscape/pkg/export"
	"github.com/Sumatoshi-tech/landscape/pkg/landscape"
)

func sampleLevels() []landscape.Level {
	return landscape.Compute([]landscape.Pair{{Birth: 0, Death: 4}, {Birth: 1, Death: 5}}, 2).Levels
}

func render(t *testing.T, format export.Format, opts export.Options) string {
	t.Helper()

	var buf bytes.Buffer

	require.NoError(t, export.Write(&buf, sampleLevels(), format, opts))

	return buf.String()
}

// TestWrite_JSON verifies the document round-trips.
func TestWrite_JSON(t *testing.T) {
	t.Parallel()

	stats := landscape.Stats{Mountains: 2, Intersections: 1}
	opts := export.DefaultOptions()
	opts.Stats = &stats

	var doc export.Document

	require.NoError(t, json.Unmarshal([]byte(render(t, export.FormatJSON, opts)), &doc))

	assert.Equal(t, 2, doc.K)
	assert.Equal(t, sampleLevels(), doc.Levels)
	require.NotNil(t, doc.Stats)
	assert.Equal(t, stats, *doc.Stats)
}

// TestWrite_YAML verifies the YAML document.
func TestWrite_YAML(t *testing.T) {
	t.Parallel()

	var doc export.Document

	require.NoError(t, yaml.Unmarshal([]byte(render(t, export.FormatYAML, export.DefaultOptions())), &doc))

	assert.Equal(t, 2, doc.K)
	assert.Equal(t, sampleLevels(), doc.Levels)
	assert.Nil(t, doc.Stats)
}

// TestWrite_CSV verifies rows and precision.
func TestWrite_CSV(t *testing.T) {
	t.Parallel()

	out := render(t, export.FormatCSV, export.DefaultOptions())
	lines := strings.Split(strings.TrimSpace(out), "\n")

	require.Len(t, lines, 9)
	assert.Equal(t, "level,x,y", lines[0])
	assert.Equal(t, "0,0,0", lines[1])
	assert.Equal(t, "0,2.5,1.5", lines[3])
	assert.Equal(t, "1,4,0", lines[8])

	opts := export.DefaultOptions()
	opts.Precision = 2

	fixed := render(t, export.FormatCSV, opts)
	assert.Contains(t, fixed, "0,2.50,1.50\n")
}

// TestWrite_Table verifies the table contains every vertex.
func TestWrite_Table(t *testing.T) {
	t.Parallel()

	opts := export.DefaultOptions()
	opts.Title = "demo"

	out := render(t, export.FormatTable, opts)

	assert.Contains(t, out, "demo")
	assert.Contains(t, out, "2.5")
	assert.Contains(t, out, "LEVELS")
}

// TestWrite_HTML verifies a chart page with one series per level.
func TestWrite_HTML(t *testing.T) {
	t.Parallel()

	out := render(t, export.FormatHTML, export.DefaultOptions())

	assert.Contains(t, out, "<html>")
	assert.Contains(t, out, "Persistence landscape")
	assert.Contains(t, out, "level 0")
	assert.Contains(t, out, "level 1")
}

// TestWrite_Compressed verifies LZ4 framing round-trips.
func TestWrite_Compressed(t *testing.T) {
	t.Parallel()

	opts := export.DefaultOptions()
	opts.Compress = true

	var buf bytes.Buffer

	require.NoError(t, export.Write(&buf, sampleLevels(), export.FormatCSV, opts))

	plain, err := io.ReadAll(export.OpenReader(&buf, true))
	require.NoError(t, err)
	assert.Equal(t, render(t, export.FormatCSV, export.DefaultOptions()), string(plain))
}

// TestWrite_UnknownFormat verifies the sentinel error.
func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	err := export.Write(io.Discard, sampleLevels(), export.Format("svg"), export.DefaultOptions())
	require.ErrorIs(t, err, export.ErrUnknownFormat)
}

// TestParseFormat verifies names, aliases and extensions.
func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := export.ParseFormat(" YML ")
	require.NoError(t, err)
	assert.Equal(t, export.FormatYAML, f)

	f, err = export.ParseFormat("table")
	require.NoError(t, err)
	assert.Equal(t, ".txt", f.Extension())
	assert.Equal(t, ".html", export.FormatHTML.Extension())

	_, err = export.ParseFormat("png")
	require.ErrorIs(t, err, export.ErrUnknownFormat)
}
