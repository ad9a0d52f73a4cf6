package plot

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/medprep-cli/internal/analysis"
	"github.com/KaramelBytes/medprep-cli/internal/dataset"
	"github.com/KaramelBytes/medprep-cli/internal/logging"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestHistogram(t *testing.T) {
	bins := Histogram([]float64{0, 1, 2, 3, 4, 10}, 5)
	require.Len(t, bins, 5)
	assert.Equal(t, 0.0, bins[0].Lo)
	assert.Equal(t, 2, bins[0].Count)
	assert.Equal(t, 2, bins[1].Count)
	assert.Equal(t, 1, bins[4].Count)

	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, 6, total)

	flat := Histogram([]float64{7, 7, 7}, 10)
	require.Len(t, flat, 1)
	assert.Equal(t, 3, flat[0].Count)
	assert.Nil(t, Histogram(nil, 10))
}

func TestBars(t *testing.T) {
	data, err := Bars("Cinsiyet", "Count", []string{"Kadın", "Erkek"}, []float64{12, 8})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))

	_, err = Bars("empty", "Count", []string{"a"}, []float64{0})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "categorical_Kan_Grubu.png", FileName("categorical_Kan Grubu"))
	assert.Equal(t, "chart.png", FileName(""))
}

func TestWriteAll(t *testing.T) {
	vals := make([]dataset.Value, 40)
	target := make([]dataset.Value, 40)
	for i := range vals {
		vals[i] = dataset.Num(float64(20 + i))
		target[i] = dataset.Num(float64(i%7 + 1))
	}
	vals[3] = dataset.Missing()
	tb, err := dataset.FromColumns(
		dataset.NewColumn("Yas", dataset.RoleNumeric, vals),
		dataset.NewColumn("TedaviSuresi", dataset.RoleTarget, target),
	)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "plots")
	r := analysis.Analyze("x", tb, analysis.DefaultOptions())
	paths := WriteAll(dir, tb, r, logging.Discard())
	require.Len(t, paths, 3)
	for _, p := range paths {
		_, err := os.Stat(p)
		assert.NoError(t, err)
	}
	assert.FileExists(t, filepath.Join(dir, "target_TedaviSuresi.png"))
	assert.FileExists(t, filepath.Join(dir, "numeric_Yas.png"))
	assert.FileExists(t, filepath.Join(dir, "missing_values.png"))
}
