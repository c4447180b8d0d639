package suggestion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateGas(t *testing.T) {
	tests := []struct {
		n    int
		want Estimate
	}{
		{n: 0, want: Estimate{}},
		{n: 1, want: Estimate{IndividualGas: 55000, BatchGas: 57500}},
		{n: 2, want: Estimate{IndividualGas: 110000, BatchGas: 94000, SavedGas: 16000, Batch: true}},
		{n: 5, want: Estimate{IndividualGas: 275000, BatchGas: 203500, SavedGas: 71500, Batch: true}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EstimateGas(tt.n), "n=%d", tt.n)
	}
}

func TestLocalEstimator_SingleTransfer(t *testing.T) {
	res, err := NewLocalEstimator().Suggest(context.Background(), sampleRequest(1))
	require.NoError(t, err)
	assert.NotEmpty(t, res.Suggestion)
	assert.Nil(t, res.EstimatedGasSavings)
}

func TestLocalEstimator_Batch(t *testing.T) {
	res, err := NewLocalEstimator().Suggest(context.Background(), sampleRequest(2))
	require.NoError(t, err)
	require.NotNil(t, res.EstimatedGasSavings)
	assert.Equal(t, 8000.0, *res.EstimatedGasSavings)
	assert.Contains(t, res.Suggestion, "Batch these 2 transfers")
}

func TestLocalEstimator_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLocalEstimator().Suggest(ctx, sampleRequest(2))
	assert.Error(t, err)
}
