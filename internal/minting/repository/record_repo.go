package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/chaincanvas/chaincanvas-backend/internal/minting/domain"
	"github.com/google/uuid"
)

const recordColumns = `id, owner, name, symbol, image_url, metadata_url, status, tx_hash, created_at, updated_at`

// RecordRepository handles PostgreSQL operations for mint records
type RecordRepository struct {
	db *sql.DB
}

// NewRecordRepository creates a new RecordRepository
func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Create inserts a pending record. Owners are stored lowercased.
func (r *RecordRepository) Create(ctx context.Context, rec *domain.MintRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	rec.Owner = strings.ToLower(rec.Owner)
	if rec.Status == "" {
		rec.Status = domain.StatusPending
	}

	query := `
		INSERT INTO mint_records (id, owner, name, symbol, image_url, metadata_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		rec.ID,
		rec.Owner,
		rec.Name,
		rec.Symbol,
		rec.ImageURL,
		rec.MetadataURL,
		string(rec.Status),
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create mint record: %w", err)
	}
	return nil
}

// GetByID retrieves a record by id
func (r *RecordRepository) GetByID(ctx context.Context, id string) (*domain.MintRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM mint_records WHERE id = $1`

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mint record: %w", err)
	}
	return rec, nil
}

// MarkSubmitted stores the transaction hash of a pending record.
func (r *RecordRepository) MarkSubmitted(ctx context.Context, id, txHash string) (*domain.MintRecord, error) {
	query := `
		UPDATE mint_records
		SET status = $3, tx_hash = $2, updated_at = NOW()
		WHERE id = $1 AND status = $4
		RETURNING ` + recordColumns

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query,
		id, txHash, string(domain.StatusSubmitted), string(domain.StatusPending)))
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to update mint record: %w", err)
	}

	// Either the record is missing or it was already submitted.
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, domain.ErrAlreadySubmitted
}

// ListByOwner returns the owner's records, newest first.
func (r *RecordRepository) ListByOwner(ctx context.Context, owner string, limit int) ([]*domain.MintRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + recordColumns + `
		FROM mint_records
		WHERE owner = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, strings.ToLower(owner), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list mint records: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.MintRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mint record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate mint records: %w", err)
	}
	return records, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner) (*domain.MintRecord, error) {
	var rec domain.MintRecord
	var status string
	var txHash sql.NullString
	err := s.Scan(
		&rec.ID,
		&rec.Owner,
		&rec.Name,
		&rec.Symbol,
		&rec.ImageURL,
		&rec.MetadataURL,
		&status,
		&txHash,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Status = domain.RecordStatus(status)
	if txHash.Valid {
		rec.TxHash = txHash.String
	}
	return &rec, nil
}
