package neat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, TopologySparse, cfg.Topology.InitialTopology)
	assert.Equal(t, DistanceEuclidean, cfg.Distance.DistanceMethod)
}

func TestValidateRejectsNonPositiveTopology(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Topology.NumInputs = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsOutOfRangeRate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mutation.WeightRate = 1.5
	assert.Error(t, cfg.Validate())
}

func TestLoadConfigAppliesDefaultsForOmittedSections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.ini")
	content := "[Topology]\nnum_inputs = 5\nnum_outputs = 2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Topology.NumInputs)
	assert.Equal(t, 2, cfg.Topology.NumOutputs)
	assert.Equal(t, DefaultConfig().Population.PopulationSize, cfg.Population.PopulationSize)
}

func TestWriteYAMLAndLoadConfigYAMLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Topology.NumInputs = 7
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := LoadConfigYAML(path)
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.Topology.NumInputs)
	assert.Equal(t, DistanceEuclidean, loaded.Distance.DistanceMethod)
}
