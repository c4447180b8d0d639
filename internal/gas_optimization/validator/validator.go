// Package validator turns raw form values into an OptimizationRequest.
//
// Every field is checked independently and all problems are reported
// together, so a caller can show them at once. Validation is pure.
package validator

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/chaincanvas/chaincanvas-backend/internal/gas_optimization/domain"
	"github.com/ethereum/go-ethereum/common"
)

const (
	fieldUserAddress = "userAddress"
	fieldGasPrice    = "currentGasPrice"
	fieldTransfers   = "pendingTransactions"

	keyContract = "nftContractAddress"
	keyTokenID  = "tokenId"
	keyTo       = "toAddress"
)

// Validator holds the canonical minimum gas price (gwei, inclusive).
// Prices must also be strictly positive regardless of the minimum.
type Validator struct {
	minGasPrice float64
}

func New(minGasPrice float64) *Validator {
	if minGasPrice < 0 {
		minGasPrice = 0
	}
	return &Validator{minGasPrice: minGasPrice}
}

// IsAddress reports whether s is "0x" followed by exactly 40 hex digits.
func IsAddress(s string) bool {
	return strings.HasPrefix(s, "0x") && common.IsHexAddress(s)
}

// Validate returns the typed request, or a *domain.ValidationError listing
// every failing field.
func (v *Validator) Validate(raw domain.RawInput) (domain.OptimizationRequest, error) {
	var issues []domain.Issue
	add := func(path, msg string) {
		issues = append(issues, domain.Issue{FieldPath: path, Message: msg})
	}

	user := strings.TrimSpace(raw.UserAddress)
	if !IsAddress(user) {
		add(fieldUserAddress, "Invalid wallet address")
	}

	price, msg := v.parseGasPrice(raw.CurrentGasPrice)
	if msg != "" {
		add(fieldGasPrice, msg)
	}

	transfers, tIssues := parseTransfers(raw.PendingTransactions)
	issues = append(issues, tIssues...)

	if len(issues) > 0 {
		return domain.OptimizationRequest{}, &domain.ValidationError{Issues: issues}
	}

	return domain.OptimizationRequest{
		UserAddress:      domain.Address(user),
		CurrentGasPrice:  price,
		PendingTransfers: transfers,
	}, nil
}

func (v *Validator) parseGasPrice(s string) (float64, string) {
	s = strings.TrimSpace(s)
	price, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, "Gas price must be a number"
	}
	if price <= 0 {
		return 0, "Gas price must be positive"
	}
	if price < v.minGasPrice {
		return 0, fmt.Sprintf("Gas price must be at least %s gwei", strconv.FormatFloat(v.minGasPrice, 'f', -1, 64))
	}
	return price, ""
}

// parseTransfers decodes the JSON-encoded list. A list that is not valid
// JSON, or not an array of objects, is reported as one top-level issue.
func parseTransfers(s string) ([]domain.PendingTransfer, []domain.Issue) {
	s = strings.TrimSpace(s)
	if s == "" {
		s = "[]"
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, []domain.Issue{{FieldPath: fieldTransfers, Message: "Pending transactions must be a JSON array"}}
	}

	objs := make([]map[string]json.RawMessage, 0, len(items))
	for _, item := range items {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(item, &obj); err != nil || obj == nil {
			return nil, []domain.Issue{{FieldPath: fieldTransfers, Message: "Pending transactions must be an array of transfer objects"}}
		}
		objs = append(objs, obj)
	}

	if len(objs) == 0 {
		return nil, []domain.Issue{{FieldPath: fieldTransfers, Message: "At least one transaction is required."}}
	}

	var issues []domain.Issue
	out := make([]domain.PendingTransfer, 0, len(objs))
	for i, obj := range objs {
		path := func(key string) string {
			return fmt.Sprintf("%s[%d].%s", fieldTransfers, i, key)
		}

		contract, msg := stringField(obj, keyContract)
		if msg == "" && !IsAddress(contract) {
			msg = "Invalid contract address"
		}
		if msg != "" {
			issues = append(issues, domain.Issue{FieldPath: path(keyContract), Message: msg})
		}

		tokenID, msg := stringField(obj, keyTokenID)
		if msg == "" && tokenID == "" {
			msg = "Token ID is required"
		}
		if msg != "" {
			issues = append(issues, domain.Issue{FieldPath: path(keyTokenID), Message: msg})
		}

		to, msg := stringField(obj, keyTo)
		if msg == "" && !IsAddress(to) {
			msg = "Invalid recipient address"
		}
		if msg != "" {
			issues = append(issues, domain.Issue{FieldPath: path(keyTo), Message: msg})
		}

		out = append(out, domain.PendingTransfer{
			ContractAddress: domain.Address(contract),
			TokenID:         tokenID,
			ToAddress:       domain.Address(to),
		})
	}

	if len(issues) > 0 {
		return nil, issues
	}
	return out, nil
}

func stringField(obj map[string]json.RawMessage, key string) (string, string) {
	raw, ok := obj[key]
	if !ok || string(raw) == "null" {
		return "", "Required"
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", "Expected a string"
	}
	return strings.TrimSpace(s), ""
}
