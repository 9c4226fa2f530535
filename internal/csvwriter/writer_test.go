package csvwriter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shayanthavi/FitTrack-AI/internal/dataset"
)

func TestWriter_WritePrepared(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cleaned.csv")
	w, err := NewWriter(path, nil)
	require.NoError(t, err)

	p := &dataset.Prepared{
		Features:     [][]float64{{12000, 8, 2000}, {3000, 6.5, 1450.5}},
		Targets:      []float64{100, 55},
		Rows:         2,
		FeatureOrder: []string{"steps", "sleep_hours", "calories"},
	}
	require.NoError(t, w.WritePrepared(p))
	require.NoError(t, w.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "steps,sleep_hours,calories,health_score\n12000,8,2000,100\n3000,6.5,1450.5,55\n", string(content))

	// round trip through the reader
	table, err := dataset.LoadCSV(path)
	require.NoError(t, err)
	assert.Len(t, table.Rows, 2)
}

func TestNewWriter_BadPath(t *testing.T) {
	_, err := NewWriter(filepath.Join(t.TempDir(), "missing", "out.csv"), nil)
	assert.Error(t, err)
}
