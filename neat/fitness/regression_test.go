package fitness

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeanAbsoluteErrorPerfectMatchScoresOne(t *testing.T) {
	assert.Equal(t, 1.0, MeanAbsoluteError([]float64{0, 1, 0.5}, []float64{0, 1, 0.5}))
}

func TestMeanAbsoluteErrorDegradesWithError(t *testing.T) {
	assert.Equal(t, 0.0, MeanAbsoluteError([]float64{1, 1}, []float64{0, 0}))
}

func TestMeanAbsoluteErrorMismatchedLengthsScoreZero(t *testing.T) {
	assert.Zero(t, MeanAbsoluteError([]float64{1}, []float64{1, 2}))
	assert.Zero(t, MeanAbsoluteError(nil, nil))
}

func TestMeanSquaredErrorPerfectMatchScoresOne(t *testing.T) {
	assert.Equal(t, 1.0, MeanSquaredError([]float64{0.2, 0.8}, []float64{0.2, 0.8}))
}

func TestMeanSquaredErrorPenalizesLargerGapsMoreThanMAE(t *testing.T) {
	mae := MeanAbsoluteError([]float64{2}, []float64{0})
	mse := MeanSquaredError([]float64{2}, []float64{0})
	assert.Less(t, mse, mae, "expected squared error to penalize a gap of 2 more harshly than absolute error")
}
