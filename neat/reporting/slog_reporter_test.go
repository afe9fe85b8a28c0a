package reporting

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/arcadvance/neat-go/neat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSlogReporter() (*SlogReporter, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	return NewSlogReporter(logger), &buf
}

func TestSlogReporterOnGenerationLogsGenerationAndSpecies(t *testing.T) {
	r, buf := newTestSlogReporter()

	err := r.OnGeneration(neat.Stats{
		RunID:       "run-9",
		Generation:  2,
		BestFitness: 0.75,
		Species: []neat.SpeciesStats{
			{ID: 1, Size: 10, BestFitness: 0.75},
		},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "generation report")
	assert.Contains(t, out, "species report")
	assert.Contains(t, out, "run-9")
}

func TestSlogReporterOnNewBestGenomeHandlesNil(t *testing.T) {
	r, _ := newTestSlogReporter()
	assert.NoError(t, r.OnNewBestGenome(nil, 0))
}

func TestSlogReporterOnNewBestGenomeLogsFields(t *testing.T) {
	r, buf := newTestSlogReporter()
	require.NoError(t, r.OnNewBestGenome(&neat.Genome{ID: 7, SpeciesID: 3, Fitness: 0.9}, 4))
	assert.Contains(t, buf.String(), "new best genome found")
}

func TestNewSlogReporterDefaultsToSlogDefault(t *testing.T) {
	r := NewSlogReporter(nil)
	assert.NotNil(t, r.Logger)
}
