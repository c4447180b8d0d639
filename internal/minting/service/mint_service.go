// Package service prepares ChainCanvas mints: it pins the image and the
// metadata, records the mint and encodes the contract call the owner's
// wallet signs.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"

	"github.com/chaincanvas/chaincanvas-backend/internal/chain"
	"github.com/chaincanvas/chaincanvas-backend/internal/logging"
	"github.com/chaincanvas/chaincanvas-backend/internal/minting/domain"
	"github.com/chaincanvas/chaincanvas-backend/internal/minting/ipfs"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
)

var ErrChainUnavailable = errors.New("chain access is not configured")

// Pinner stores content on IPFS.
type Pinner interface {
	PinFile(ctx context.Context, filename, contentType string, content io.Reader) (string, error)
	PinJSON(ctx context.Context, name string, v interface{}) (string, error)
	GatewayURL(cid string) string
}

// RecordStore persists mint records.
type RecordStore interface {
	Create(ctx context.Context, rec *domain.MintRecord) error
	GetByID(ctx context.Context, id string) (*domain.MintRecord, error)
	MarkSubmitted(ctx context.Context, id, txHash string) (*domain.MintRecord, error)
	ListByOwner(ctx context.Context, owner string, limit int) ([]*domain.MintRecord, error)
}

// ContractReader reads and encodes calls against the ChainCanvas contract.
type ContractReader interface {
	Address() string
	Points(ctx context.Context, user string) (*big.Int, error)
	TotalSupply(ctx context.Context) (*big.Int, error)
	PointsPerMint(ctx context.Context) (*big.Int, error)
	MintCalldata(metadataURL, name, symbol string) ([]byte, error)
}

type MintService struct {
	pinner   Pinner
	records  RecordStore
	contract ContractReader
	chainID  int64
	logger   *zap.Logger
}

// NewMintService accepts a nil contract; chain reads then fail with
// ErrChainUnavailable.
func NewMintService(pinner Pinner, records RecordStore, contract ContractReader, chainID int64, logger *zap.Logger) *MintService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MintService{
		pinner:   pinner,
		records:  records,
		contract: contract,
		chainID:  chainID,
		logger:   logger,
	}
}

// UploadImage pins an image of at most domain.MaxImageBytes.
func (s *MintService) UploadImage(ctx context.Context, filename, contentType string, content io.Reader) (*domain.ImageUpload, error) {
	data, err := io.ReadAll(io.LimitReader(content, domain.MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) > domain.MaxImageBytes {
		return nil, domain.ErrImageTooLarge
	}

	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, domain.ErrNotImage
	}
	if filename == "" {
		filename = "image"
	}

	cid, err := s.pinner.PinFile(ctx, filename, contentType, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("pin image: %w", err)
	}

	logging.FromContext(ctx, s.logger).Info("image pinned",
		zap.String("cid", cid),
		zap.Int("bytes", len(data)),
	)
	return &domain.ImageUpload{
		CID:        cid,
		IPFSURL:    ipfs.URI(cid),
		GatewayURL: s.pinner.GatewayURL(cid),
	}, nil
}

// PrepareMint pins the metadata document, stores a pending record and
// returns the unsigned mintMeme call.
func (s *MintService) PrepareMint(ctx context.Context, req domain.PrepareMintRequest) (*domain.PreparedMint, error) {
	if err := validatePrepare(&req); err != nil {
		return nil, err
	}
	if s.contract == nil {
		return nil, ErrChainUnavailable
	}

	meta := domain.Metadata{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.ImageURL,
		Attributes:  req.Attributes,
	}
	if meta.Description == "" {
		meta.Description = req.Name + " NFT"
	}

	cid, err := s.pinner.PinJSON(ctx, req.Name+"-metadata.json", meta)
	if err != nil {
		return nil, fmt.Errorf("pin metadata: %w", err)
	}
	metadataURL := ipfs.URI(cid)

	data, err := s.contract.MintCalldata(metadataURL, req.Name, req.Symbol)
	if err != nil {
		return nil, fmt.Errorf("encode mint call: %w", err)
	}

	rec := &domain.MintRecord{
		Owner:       req.Owner,
		Name:        req.Name,
		Symbol:      req.Symbol,
		ImageURL:    req.ImageURL,
		MetadataURL: metadataURL,
		Status:      domain.StatusPending,
	}
	if err := s.records.Create(ctx, rec); err != nil {
		return nil, err
	}

	logging.FromContext(ctx, s.logger).Info("mint prepared",
		zap.String("record_id", rec.ID),
		zap.String("owner", rec.Owner),
		zap.String("metadata_url", metadataURL),
	)
	return &domain.PreparedMint{
		Record:   rec,
		Metadata: meta,
		Tx: domain.MintTx{
			ChainID: s.chainID,
			To:      s.contract.Address(),
			Data:    hexutil.Encode(data),
		},
	}, nil
}

// ConfirmMint attaches the hash of the broadcast transaction to a record.
func (s *MintService) ConfirmMint(ctx context.Context, id, txHash string) (*domain.MintRecord, error) {
	if !IsTxHash(txHash) {
		return nil, &domain.InvalidRequestError{Fields: map[string]string{"txHash": "must be a 0x-prefixed 32-byte hex hash"}}
	}
	rec, err := s.records.MarkSubmitted(ctx, id, strings.ToLower(txHash))
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx, s.logger).Info("mint submitted",
		zap.String("record_id", id),
		zap.String("tx_hash", rec.TxHash),
	)
	return rec, nil
}

func (s *MintService) ListRecords(ctx context.Context, owner string, limit int) ([]*domain.MintRecord, error) {
	if !chain.IsAddress(owner) {
		return nil, &domain.InvalidRequestError{Fields: map[string]string{"owner": "invalid wallet address"}}
	}
	return s.records.ListByOwner(ctx, owner, limit)
}

// Points returns the reward points of address as a decimal string.
func (s *MintService) Points(ctx context.Context, address string) (string, error) {
	if !chain.IsAddress(address) {
		return "", &domain.InvalidRequestError{Fields: map[string]string{"address": "invalid wallet address"}}
	}
	if s.contract == nil {
		return "", ErrChainUnavailable
	}
	points, err := s.contract.Points(ctx, address)
	if err != nil {
		return "", err
	}
	return points.String(), nil
}

func (s *MintService) Stats(ctx context.Context) (*domain.ContractStats, error) {
	if s.contract == nil {
		return nil, ErrChainUnavailable
	}
	supply, err := s.contract.TotalSupply(ctx)
	if err != nil {
		return nil, err
	}
	perMint, err := s.contract.PointsPerMint(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.ContractStats{
		Address:       s.contract.Address(),
		ChainID:       s.chainID,
		TotalSupply:   supply.String(),
		PointsPerMint: perMint.String(),
	}, nil
}

// IsTxHash reports whether s is a 0x-prefixed 32-byte hex string.
func IsTxHash(s string) bool {
	b, err := hexutil.Decode(s)
	return err == nil && len(b) == 32
}

func validatePrepare(req *domain.PrepareMintRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Symbol = strings.TrimSpace(req.Symbol)
	req.Description = strings.TrimSpace(req.Description)
	req.ImageURL = strings.TrimSpace(req.ImageURL)

	fields := map[string]string{}
	if !chain.IsAddress(req.Owner) {
		fields["owner"] = "invalid wallet address"
	}
	if req.Name == "" {
		fields["name"] = "required"
	}
	if req.Symbol == "" {
		fields["symbol"] = "required"
	}
	switch {
	case req.ImageURL == "":
		fields["imageUrl"] = "required"
	case !strings.HasPrefix(req.ImageURL, "ipfs://") && !strings.HasPrefix(req.ImageURL, "https://"):
		fields["imageUrl"] = "must be an ipfs:// or https:// URL"
	}
	if len(fields) > 0 {
		return &domain.InvalidRequestError{Fields: fields}
	}
	return nil
}
