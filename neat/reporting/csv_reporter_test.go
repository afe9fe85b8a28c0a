package reporting

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arcadvance/neat-go/neat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVReporterWritesHeaderOnceThenAppends(t *testing.T) {
	dir := t.TempDir()
	r, err := NewCSVReporter(dir)
	require.NoError(t, err)

	for gen := 0; gen < 3; gen++ {
		stats := neat.Stats{
			RunID:          "run-1",
			Generation:     gen,
			PopulationSize: 10,
			SpeciesCount:   2,
			BestFitness:    float64(gen) / 10,
			Species: []neat.SpeciesStats{
				{ID: 1, Size: 5, BestFitness: 0.1},
				{ID: 2, Size: 5, BestFitness: 0.2},
			},
		}
		require.NoError(t, r.OnGeneration(stats))
	}
	require.NoError(t, r.Close())

	genData, err := os.ReadFile(filepath.Join(dir, "generations.csv"))
	require.NoError(t, err)
	genLines := strings.Split(strings.TrimRight(string(genData), "\n"), "\n")
	require.Lenf(t, genLines, 4, "expected 1 header + 3 data rows in generations.csv, got %q", genData) // 1 header + 3 generations
	assert.Contains(t, genLines[0], "run_id")

	specData, err := os.ReadFile(filepath.Join(dir, "species.csv"))
	require.NoError(t, err)
	specLines := strings.Split(strings.TrimRight(string(specData), "\n"), "\n")
	require.Lenf(t, specLines, 7, "expected 1 header + 6 data rows in species.csv, got %q", specData) // 1 header + 2 species * 3 generations
}

func TestCSVReporterOnNewBestGenomeIsNoop(t *testing.T) {
	dir := t.TempDir()
	r, err := NewCSVReporter(dir)
	require.NoError(t, err)
	defer r.Close()

	assert.NoError(t, r.OnNewBestGenome(&neat.Genome{ID: 1}, 0))
}
