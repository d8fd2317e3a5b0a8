package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/forPelevin/viralcut/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	cfgPath := filepath.Join(t.TempDir(), "missing.toml")
	root.SetArgs(append([]string{"--config", cfgPath, "--workdir", t.TempDir()}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestSelectCommand(t *testing.T) {
	dir := t.TempDir()
	tsv := filepath.Join(dir, "input.tsv")
	content := "start\tend\ttext\n" +
		"0.000\t12.000\tvocê sabia que isso é incrível?\n" +
		"12.000\t24.000\tsegundo trecho normal\n" +
		"24.000\t36.000\tterceiro trecho\n"
	require.NoError(t, os.WriteFile(tsv, []byte(content), 0o644))
	outPath := filepath.Join(dir, "segments.json")

	out, err := execute(t, "select", tsv, "--segments", "2", "--min", "5", "--max", "15", "--seed", "7", "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Você sabia que isso é")
	assert.Contains(t, out, "Wrote 2 segments")

	b, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var sf types.SegmentsFile
	require.NoError(t, json.Unmarshal(b, &sf))
	require.Len(t, sf.Segments, 2)
	assert.Equal(t, "00:00:00", sf.Segments[0].StartTime)
	assert.Equal(t, 12, sf.Segments[0].Duration)
}

func TestSelectCommand_InvalidBounds(t *testing.T) {
	tsv := filepath.Join(t.TempDir(), "input.tsv")
	require.NoError(t, os.WriteFile(tsv, []byte("start\tend\ttext\n0\t1\tx\n"), 0o644))
	_, err := execute(t, "select", tsv, "--min", "90", "--max", "10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_seconds")
}

func TestSelectCommand_EmptyTranscript(t *testing.T) {
	tsv := filepath.Join(t.TempDir(), "input.tsv")
	require.NoError(t, os.WriteFile(tsv, []byte("start\tend\ttext\n"), 0o644))
	_, err := execute(t, "select", tsv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no segments")
}

func TestConfigInit(t *testing.T) {
	target := filepath.Join(t.TempDir(), "viralcut.toml")
	out, err := execute(t, "config", "init", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote sample configuration")
	_, err = os.Stat(target)
	require.NoError(t, err)

	_, err = execute(t, "config", "init", target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "config", "init", target, "--overwrite")
	require.NoError(t, err)
}

func TestConfigValidate(t *testing.T) {
	out, err := execute(t, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "defaults were used")
	assert.Contains(t, out, "Configuration valid")
}

func TestDoctorReportsMissingTools(t *testing.T) {
	t.Setenv("VIRALCUT_YTDLP", "definitely-not-a-real-yt-dlp")
	out, err := execute(t, "doctor")
	require.Error(t, err)
	assert.Contains(t, out, "definitely-not-a-real-yt-dlp")
	assert.Contains(t, out, "DEPENDENCY")
	assert.Contains(t, out, "yt-dlp")
}

func TestCleanCommand(t *testing.T) {
	out, err := execute(t, "clean")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 0 entries")
}

func TestRunCommand_MissingInput(t *testing.T) {
	_, err := execute(t, "run", filepath.Join(t.TempDir(), "missing.mp4"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "neither a URL nor an existing file")
}

func TestRunCommand_RequiresArg(t *testing.T) {
	_, err := execute(t, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s), received 0")
}

func TestRenderTable(t *testing.T) {
	assert.Empty(t, renderTable(nil, nil))

	out := renderTable(
		[]column{{title: "Name"}, {title: "Secs", numeric: true}},
		[][]string{{"clip", "7"}, {"longer clip", "12"}},
	)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "longer clip")
	assert.Contains(t, out, "│    7 │")
}
