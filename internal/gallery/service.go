package gallery

import (
	"context"
	"errors"
	"fmt"

	"github.com/chaincanvas/chaincanvas-backend/internal/chain"
	"github.com/chaincanvas/chaincanvas-backend/internal/logging"
	"go.uber.org/zap"
)

// Source fetches the NFTs held by an owner.
type Source interface {
	OwnedNFTs(ctx context.Context, owner string) ([]NFT, error)
}

type Service struct {
	source Source
	cache  *Cache
	logger *zap.Logger
}

// NewService accepts a nil cache, in which case every call hits source.
func NewService(source Source, cache *Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, cache: cache, logger: logger}
}

// ListOwned returns the owner's NFTs, preferring a cached copy.
func (s *Service) ListOwned(ctx context.Context, owner string) ([]NFT, error) {
	if !chain.IsAddress(owner) {
		return nil, ErrInvalidOwner
	}
	log := logging.FromContext(ctx, s.logger)

	if s.cache != nil {
		nfts, err := s.cache.Get(ctx, owner)
		if err == nil {
			return nfts, nil
		}
		if !errors.Is(err, ErrNotFound) {
			log.Warn("gallery cache read failed", zap.Error(err))
		}
	}

	nfts, err := s.source.OwnedNFTs(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list owned nfts: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, owner, nfts); err != nil {
			log.Warn("gallery cache write failed", zap.Error(err))
		}
	}
	return nfts, nil
}

// Refresh drops the cached copy so the next read goes to the source.
func (s *Service) Refresh(ctx context.Context, owner string) error {
	if !chain.IsAddress(owner) {
		return ErrInvalidOwner
	}
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx, owner)
}
