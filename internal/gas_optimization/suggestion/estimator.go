package suggestion

import (
	"context"
	"fmt"
	"strconv"

	"github.com/chaincanvas/chaincanvas-backend/internal/gas_optimization/domain"
)

// Gas figures for an ERC-721 transfer on Base.
const (
	TxBaseGas        uint64 = 21000
	TransferExecGas  uint64 = 34000
	BatchOverheadGas uint64 = 2500

	// MinSavingRatio is the smallest saving, relative to individual
	// transfers, that makes batching worth recommending.
	MinSavingRatio = 0.10
)

// Estimate is the outcome of the local cost model.
type Estimate struct {
	IndividualGas uint64
	BatchGas      uint64
	SavedGas      uint64
	Batch         bool
}

// EstimateGas compares n individual transfers against one batched call.
func EstimateGas(n int) Estimate {
	if n <= 0 {
		return Estimate{}
	}
	count := uint64(n)
	est := Estimate{
		IndividualGas: count * (TxBaseGas + TransferExecGas),
		BatchGas:      TxBaseGas + count*(TransferExecGas+BatchOverheadGas),
	}
	if est.BatchGas < est.IndividualGas {
		est.SavedGas = est.IndividualGas - est.BatchGas
	}
	est.Batch = n >= 2 && float64(est.SavedGas) >= MinSavingRatio*float64(est.IndividualGas)
	return est
}

// LocalEstimator answers from the fixed cost model without a network call.
type LocalEstimator struct{}

func NewLocalEstimator() *LocalEstimator { return &LocalEstimator{} }

func (l *LocalEstimator) Suggest(ctx context.Context, req domain.OptimizationRequest) (domain.OptimizationResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.OptimizationResult{}, &domain.BackendError{Op: "estimate", Err: err}
	}

	n := len(req.PendingTransfers)
	est := EstimateGas(n)
	price := strconv.FormatFloat(req.CurrentGasPrice, 'f', -1, 64)

	if !est.Batch {
		if n < 2 {
			return domain.OptimizationResult{
				Suggestion: "Only one transfer is pending, so batching brings no benefit. Send it as an individual transaction.",
			}, nil
		}
		return domain.OptimizationResult{
			Suggestion: fmt.Sprintf("Batching these %d transfers would save less than 10%% of the gas cost. Individual transfers are fine.", n),
		}, nil
	}

	savings := float64(est.SavedGas) * req.CurrentGasPrice
	return domain.OptimizationResult{
		Suggestion: fmt.Sprintf(
			"Batch these %d transfers into a single transaction. It needs about %d gas instead of %d, saving roughly %s gwei at %s gwei.",
			n, est.BatchGas, est.IndividualGas, strconv.FormatFloat(savings, 'f', -1, 64), price,
		),
		EstimatedGasSavings: domain.Savings(savings),
	}, nil
}
