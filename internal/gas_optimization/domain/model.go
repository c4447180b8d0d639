package domain

// Address is a 0x-prefixed, 40 hex digit account or contract address.
// It is kept as the validated string and never decoded to bytes.
type Address string

// PendingTransfer is one proposed NFT movement.
type PendingTransfer struct {
	ContractAddress Address `json:"nftContractAddress"`
	TokenID         string  `json:"tokenId"`
	ToAddress       Address `json:"toAddress"`
}

// OptimizationRequest is the validated input of one suggestion run.
type OptimizationRequest struct {
	UserAddress      Address           `json:"userAddress"`
	CurrentGasPrice  float64           `json:"currentGasPrice"` // gwei
	PendingTransfers []PendingTransfer `json:"pendingTransactions"`
}

// OptimizationResult is the schema-checked recommendation.
// EstimatedGasSavings is only set when batching is recommended.
type OptimizationResult struct {
	Suggestion          string   `json:"suggestion"`
	EstimatedGasSavings *float64 `json:"estimatedGasSavings,omitempty"` // gwei
}

// Issue is one field-level validation failure.
type Issue struct {
	FieldPath string `json:"fieldPath"`
	Message   string `json:"message"`
}

// RawInput carries untyped values as received from a form.
// PendingTransactions is a JSON-encoded array.
type RawInput struct {
	UserAddress         string
	CurrentGasPrice     string
	PendingTransactions string
}

// Envelope is the uniform result returned to the caller.
type Envelope struct {
	Success bool                `json:"success"`
	Data    *OptimizationResult `json:"data,omitempty"`
	Error   string              `json:"error,omitempty"`
	Issues  []Issue             `json:"issues,omitempty"`
}

// Savings is a small helper for building results with a savings figure.
func Savings(v float64) *float64 {
	return &v
}
