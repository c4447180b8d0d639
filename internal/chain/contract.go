// Package chain talks to Base: the ChainCanvas contract and the gas price.
package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// ChainCanvasABI covers the contract methods the backend reads or encodes.
const ChainCanvasABI = `[
	{"type":"function","name":"mintMeme","stateMutability":"nonpayable",
	 "inputs":[{"name":"metadataUrl","type":"string"},{"name":"_name","type":"string"},{"name":"_symbol","type":"string"}],
	 "outputs":[]},
	{"type":"function","name":"getPoints","stateMutability":"view",
	 "inputs":[{"name":"user","type":"address"}],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"totalSupply","stateMutability":"view",
	 "inputs":[],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"POINTS_PER_MINT","stateMutability":"view",
	 "inputs":[],
	 "outputs":[{"name":"","type":"uint256"}]}
]`

var ErrInvalidAddress = errors.New("invalid address")

// Contract is a read-only binding plus calldata encoder for ChainCanvas.
type Contract struct {
	abi      abi.ABI
	address  common.Address
	contract *bind.BoundContract
}

func NewContract(address string, caller bind.ContractCaller) (*Contract, error) {
	if !IsAddress(address) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	parsed, err := abi.JSON(strings.NewReader(ChainCanvasABI))
	if err != nil {
		return nil, fmt.Errorf("parse abi: %w", err)
	}
	addr := common.HexToAddress(address)
	return &Contract{
		abi:      parsed,
		address:  addr,
		contract: bind.NewBoundContract(addr, parsed, caller, nil, nil),
	}, nil
}

// IsAddress reports whether s is a 0x-prefixed 20-byte hex address.
func IsAddress(s string) bool {
	return strings.HasPrefix(s, "0x") && common.IsHexAddress(s)
}

func (c *Contract) Address() string { return c.address.Hex() }

// Points returns the reward points held by user.
func (c *Contract) Points(ctx context.Context, user string) (*big.Int, error) {
	if !IsAddress(user) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, user)
	}
	return c.callUint(ctx, "getPoints", common.HexToAddress(user))
}

func (c *Contract) TotalSupply(ctx context.Context) (*big.Int, error) {
	return c.callUint(ctx, "totalSupply")
}

func (c *Contract) PointsPerMint(ctx context.Context) (*big.Int, error) {
	return c.callUint(ctx, "POINTS_PER_MINT")
}

// MintCalldata encodes a mintMeme call for a wallet to sign and send.
func (c *Contract) MintCalldata(metadataURL, name, symbol string) ([]byte, error) {
	data, err := c.abi.Pack("mintMeme", metadataURL, name, symbol)
	if err != nil {
		return nil, fmt.Errorf("pack mintMeme: %w", err)
	}
	return data, nil
}

func (c *Contract) callUint(ctx context.Context, method string, params ...interface{}) (*big.Int, error) {
	var out []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, method, params...); err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("call %s: empty result", method)
	}
	v, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("call %s: unexpected result type %T", method, out[0])
	}
	return v, nil
}
