package suggestion

import (
	"fmt"

	"github.com/chaincanvas/chaincanvas-backend/internal/gas_optimization/domain"
	"github.com/chaincanvas/chaincanvas-backend/internal/llm"
)

const (
	fieldSuggestion = "suggestion"
	fieldSavings    = "estimatedGasSavings"
)

// ResultSchema is the output contract every backend must satisfy.
var ResultSchema = llm.Schema{
	Name:        "gas_optimization_result",
	Description: "A batching recommendation for a set of pending NFT transfers.",
	Fields: []llm.Field{
		{
			Name:        fieldSuggestion,
			Type:        llm.TypeString,
			Required:    true,
			NonEmpty:    true,
			Description: "Whether to batch the transfers, e.g. 'Batch these 3 transfers into one transaction to save gas.'",
		},
		{
			Name:        fieldSavings,
			Type:        llm.TypeNumber,
			Minimum:     llm.Min(0),
			Description: "Estimated saving in gwei if batching is used, e.g. 150000. Only present when batching is recommended.",
		},
	},
}

// decodeResult validates raw backend output and converts it to a result.
func decodeResult(raw []byte) (domain.OptimizationResult, error) {
	fields, err := ResultSchema.Validate(raw)
	if err != nil {
		return domain.OptimizationResult{}, fmt.Errorf("%w: %v", domain.ErrSchemaMismatch, err)
	}

	res := domain.OptimizationResult{Suggestion: fields[fieldSuggestion].(string)}
	if v, ok := fields[fieldSavings].(float64); ok {
		res.EstimatedGasSavings = domain.Savings(v)
	}
	return res, nil
}
