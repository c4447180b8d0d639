package chain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	gasPriceKey = "chain:gas_price"
	gasPriceTTL = 2 * time.Minute
)

// GasPriceSuggester is satisfied by *ethclient.Client.
type GasPriceSuggester interface {
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
}

type GasPrice struct {
	Gwei      float64   `json:"gwei"`
	Wei       string    `json:"wei"`
	ChainID   int64     `json:"chainId"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GasPriceOracle serves the latest Base gas price from redis, falling back
// to the RPC endpoint when the cached value is missing or expired.
type GasPriceOracle struct {
	rpc     GasPriceSuggester
	client  *redis.Client
	chainID int64
	logger  *zap.Logger
	now     func() time.Time
}

func NewGasPriceOracle(rpc GasPriceSuggester, client *redis.Client, chainID int64, logger *zap.Logger) *GasPriceOracle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GasPriceOracle{
		rpc:     rpc,
		client:  client,
		chainID: chainID,
		logger:  logger,
		now:     time.Now,
	}
}

// Current returns the cached price or fetches a fresh one.
func (o *GasPriceOracle) Current(ctx context.Context) (GasPrice, error) {
	if o.client != nil {
		data, err := o.client.Get(ctx, gasPriceKey).Result()
		switch {
		case err == nil:
			var gp GasPrice
			if err := json.Unmarshal([]byte(data), &gp); err == nil {
				return gp, nil
			}
			o.logger.Warn("discarding unreadable cached gas price")
		case !errors.Is(err, redis.Nil):
			o.logger.Warn("gas price cache read failed", zap.Error(err))
		}
	}
	return o.Refresh(ctx)
}

// Refresh queries the RPC endpoint and updates the cache.
func (o *GasPriceOracle) Refresh(ctx context.Context) (GasPrice, error) {
	wei, err := o.rpc.SuggestGasPrice(ctx)
	if err != nil {
		return GasPrice{}, fmt.Errorf("suggest gas price: %w", err)
	}

	gp := GasPrice{
		Gwei:      WeiToGwei(wei),
		Wei:       wei.String(),
		ChainID:   o.chainID,
		UpdatedAt: o.now().UTC(),
	}

	if o.client != nil {
		data, err := json.Marshal(gp)
		if err != nil {
			return GasPrice{}, fmt.Errorf("failed to marshal gas price: %w", err)
		}
		if err := o.client.Set(ctx, gasPriceKey, data, gasPriceTTL).Err(); err != nil {
			o.logger.Warn("gas price cache write failed", zap.Error(err))
		}
	}
	return gp, nil
}

// WeiToGwei converts wei to gwei as a float.
func WeiToGwei(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(1e9)).Float64()
	return f
}
