package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/landscape/cmd/landscape/commands"
	"github.com/Sumatoshi-tech/landscape/pkg/config"
	"github.com/Sumatoshi-tech/landscape/pkg/diagram"
	"github.com/Sumatoshi-tech/landscape/pkg/export"
	"github.com/Sumatoshi-tech/landscape/pkg/landscape"
)

const overlappingPairs = "0 4\n1 5\n"

type result struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()

	var stdout, stderr bytes.Buffer

	root := commands.NewRootCommand()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	err := root.Execute()

	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	res := execute(t, "", "version")
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "landscape "))
}

func TestGenerate_StdinToStdout(t *testing.T) {
	t.Parallel()

	res := execute(t, overlappingPairs, "generate", "-k", "2", "-")
	require.NoError(t, res.err)

	var doc export.Document

	require.NoError(t, json.Unmarshal([]byte(res.stdout), &doc))
	assert.Equal(t, 2, doc.K)
	assert.Equal(t, landscape.Level{{X: 1, Y: 0}, {X: 2.5, Y: 1.5}, {X: 4, Y: 0}}, doc.Levels[1])
	assert.Contains(t, res.stderr, "landscape computed")
}

func TestGenerate_TableToFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "bars.txt", overlappingPairs)
	output := filepath.Join(dir, "bars.txt.out")

	res := execute(t, "", "generate", "--format", "table", "-o", output, "--quiet", input)
	require.NoError(t, res.err)
	assert.Empty(t, res.stdout)
	assert.Empty(t, res.stderr)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "bars")
	assert.Contains(t, string(data), "2.5")
}

func TestGenerate_ConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "landscape.yaml", "landscape:\n  levels: 1\noutput:\n  format: csv\n")

	res := execute(t, "0 2\n", "--config", cfgPath, "generate", "-")
	require.NoError(t, res.err)
	assert.Equal(t, "level,x,y\n0,0,0\n0,1,1\n0,2,0\n", res.stdout)
}

func TestGenerate_InvalidFlag(t *testing.T) {
	t.Parallel()

	res := execute(t, overlappingPairs, "generate", "--format", "pdf", "-")
	require.ErrorIs(t, res.err, config.ErrInvalidFormat)
	assert.Empty(t, res.stdout)

	res = execute(t, overlappingPairs, "generate", "-k", "-1", "-")
	require.ErrorIs(t, res.err, config.ErrInvalidLevels)
}

func TestSweepFlags_DimensionDefaultsToAll(t *testing.T) {
	t.Parallel()

	want := strconv.Itoa(diagram.AllDimensions)

	for _, name := range []string{"generate", "batch", "sample"} {
		cmd, _, err := commands.NewRootCommand().Find([]string{name})
		require.NoError(t, err)

		flag := cmd.Flags().Lookup("dimension")
		require.NotNil(t, flag, name)
		assert.Equal(t, want, flag.DefValue, name)
	}

	res := execute(t, "", "generate", "--help")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "(-1 = all) (default -1)")
}

func TestGenerate_DebugTrace(t *testing.T) {
	t.Parallel()

	res := execute(t, overlappingPairs, "generate", "--debug", "-")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "event kind=Intersection")
	assert.Contains(t, res.stderr, "status [")
}

func TestBatch_Summary(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outDir := t.TempDir()

	first := writeFile(t, dir, "first.txt", overlappingPairs)
	second := writeFile(t, dir, "second.json", "[[0, 6], [1, 7], [2, 8]]")

	res := execute(t, "", "batch", "--out-dir", outDir, "--workers", "2", "--format", "yaml", first, second)
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, first)
	assert.Contains(t, res.stdout, second)
	assert.Contains(t, strings.ToLower(res.stdout), "2/2 ok")

	assert.FileExists(t, filepath.Join(outDir, "first.yaml"))
	assert.FileExists(t, filepath.Join(outDir, "second.yaml"))
}

func TestBatch_PartialFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	good := writeFile(t, dir, "good.txt", overlappingPairs)
	bad := writeFile(t, dir, "bad.txt", "1 2 3 4\n")

	res := execute(t, "", "batch", good, bad)
	require.Error(t, res.err)

	assert.Contains(t, res.stdout, "failed")
	assert.Contains(t, strings.ToLower(res.stdout), "1/2 ok")
	assert.FileExists(t, filepath.Join(dir, "good.json"))
}

func TestBatch_Quiet(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "only.txt", overlappingPairs)

	res := execute(t, "", "batch", "-q", "--compress", input)
	require.NoError(t, res.err)
	assert.Empty(t, res.stdout)
	assert.FileExists(t, filepath.Join(dir, "only.json.lz4"))
}

func TestSample_CSV(t *testing.T) {
	t.Parallel()

	res := execute(t, overlappingPairs, "sample", "-k", "2", "--csv", "--at", "2.5,10", "-")
	require.NoError(t, res.err)

	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "x,level 0,level 1", strings.ToLower(lines[0]))
	assert.Equal(t, "2.5,1.5,1.5", lines[1])
	assert.Equal(t, "10,0,0", lines[2])
}

func TestSample_RequiresPositions(t *testing.T) {
	t.Parallel()

	res := execute(t, overlappingPairs, "sample", "-")
	require.ErrorIs(t, res.err, commands.ErrNoPositions)
}
