package transcript

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/forPelevin/viralcut/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTSV(t *testing.T) {
	in := strings.Join([]string{
		"start\tend\ttext",
		"0.000\t5.000\tIsso é incrível!",
		"5.000\t9.000",
		"",
		"abc\t9.000\tbad start",
		"9.000\t40.500\tum texto\tcom tab",
	}, "\n")

	tr, err := ReadTSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, tr.Segments, 2)

	assert.Equal(t, types.Segment{Start: 0, End: 5, Text: "Isso é incrível!"}, tr.Segments[0])
	assert.Equal(t, 9.0, tr.Segments[1].Start)
	assert.Equal(t, 40.5, tr.Segments[1].End)
	assert.Equal(t, "um texto com tab", tr.Segments[1].Text)
}

func TestReadTSV_SkipsNonFiniteTimes(t *testing.T) {
	in := strings.Join([]string{
		"start\tend\ttext",
		"NaN\tInf\tuau!",
		"1.0\t+Inf\tsem fim",
		"-inf\t2.0\tsem começo",
		"2.0\tnan\tnada",
		"3.0\t4.0\tok",
	}, "\n")

	tr, err := ReadTSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, tr.Segments, 1)
	assert.Equal(t, types.Segment{Start: 3, End: 4, Text: "ok"}, tr.Segments[0])
}

func TestReadTSV_HeaderOnly(t *testing.T) {
	tr, err := ReadTSV(strings.NewReader("start\tend\ttext\n"))
	require.NoError(t, err)
	assert.Empty(t, tr.Segments)
}

func TestLoadTSV_Missing(t *testing.T) {
	_, err := LoadTSV(filepath.Join(t.TempDir(), "nope.tsv"))
	require.ErrorIs(t, err, ErrNoInput)
}

func TestWriteTSV_RoundTripsText(t *testing.T) {
	tr := types.Transcript{Segments: []types.Segment{
		{Start: 1.25, End: 3.5, Text: " tab\tinside "},
	}}
	var buf bytes.Buffer
	require.NoError(t, WriteTSV(&buf, tr))
	assert.Equal(t, "start\tend\ttext\n1.250\t3.500\ttab inside\n", buf.String())

	path := filepath.Join(t.TempDir(), "in.tsv")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	got, err := LoadTSV(path)
	require.NoError(t, err)
	require.Len(t, got.Segments, 1)
	assert.Equal(t, "tab inside", got.Segments[0].Text)
}
