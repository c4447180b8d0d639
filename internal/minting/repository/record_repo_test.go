package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/chaincanvas/chaincanvas-backend/internal/minting/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "owner", "name", "symbol", "image_url", "metadata_url", "status", "tx_hash", "created_at", "updated_at"}

func setupRecordRepo(t *testing.T) (*RecordRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRecordRepository(db), mock
}

func TestRecordRepository_Create(t *testing.T) {
	repo, mock := setupRecordRepo(t)
	now := time.Now()

	rec := &domain.MintRecord{
		Owner:       "0xAbCdEf0000000000000000000000000000000001",
		Name:        "Pepe",
		Symbol:      "PEPE",
		ImageURL:    "ipfs://QmImage",
		MetadataURL: "ipfs://QmMeta",
	}

	mock.ExpectQuery(`INSERT INTO mint_records`).
		WithArgs(
			sqlmock.AnyArg(), // id (UUID)
			"0xabcdef0000000000000000000000000000000001",
			"Pepe",
			"PEPE",
			"ipfs://QmImage",
			"ipfs://QmMeta",
			"pending",
		).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, repo.Create(context.Background(), rec))
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, domain.StatusPending, rec.Status)
	assert.Equal(t, now, rec.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_Create_DBError(t *testing.T) {
	repo, mock := setupRecordRepo(t)
	mock.ExpectQuery(`INSERT INTO mint_records`).WillReturnError(errors.New("connection refused"))

	err := repo.Create(context.Background(), &domain.MintRecord{Name: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create mint record")
}

func TestRecordRepository_GetByID(t *testing.T) {
	repo, mock := setupRecordRepo(t)
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM mint_records WHERE id = \$1`).
			WithArgs("rec-1").
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("rec-1", "0xowner", "Pepe", "PEPE", "ipfs://a", "ipfs://b", "submitted", "0xhash", now, now))

		rec, err := repo.GetByID(context.Background(), "rec-1")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusSubmitted, rec.Status)
		assert.Equal(t, "0xhash", rec.TxHash)
	})

	t.Run("pending has no hash", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM mint_records`).
			WithArgs("rec-2").
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("rec-2", "0xowner", "Pepe", "PEPE", "ipfs://a", "ipfs://b", "pending", nil, now, now))

		rec, err := repo.GetByID(context.Background(), "rec-2")
		require.NoError(t, err)
		assert.Empty(t, rec.TxHash)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM mint_records`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), "missing")
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_MarkSubmitted(t *testing.T) {
	repo, mock := setupRecordRepo(t)
	now := time.Now()
	hash := "0x" + "ab12" + "00000000000000000000000000000000000000000000000000000000000"

	t.Run("pending record", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE mint_records`).
			WithArgs("rec-1", hash, "submitted", "pending").
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("rec-1", "0xowner", "Pepe", "PEPE", "ipfs://a", "ipfs://b", "submitted", hash, now, now))

		rec, err := repo.MarkSubmitted(context.Background(), "rec-1", hash)
		require.NoError(t, err)
		assert.Equal(t, hash, rec.TxHash)
	})

	t.Run("already submitted", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE mint_records`).
			WithArgs("rec-1", hash, "submitted", "pending").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`SELECT (.+) FROM mint_records`).
			WithArgs("rec-1").
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("rec-1", "0xowner", "Pepe", "PEPE", "ipfs://a", "ipfs://b", "submitted", hash, now, now))

		_, err := repo.MarkSubmitted(context.Background(), "rec-1", hash)
		assert.ErrorIs(t, err, domain.ErrAlreadySubmitted)
	})

	t.Run("missing record", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE mint_records`).
			WithArgs("nope", hash, "submitted", "pending").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`SELECT (.+) FROM mint_records`).
			WithArgs("nope").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.MarkSubmitted(context.Background(), "nope", hash)
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_ListByOwner(t *testing.T) {
	repo, mock := setupRecordRepo(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM mint_records\s+WHERE owner = \$1`).
		WithArgs("0xabc", 50).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("rec-2", "0xabc", "B", "B", "ipfs://a", "ipfs://b", "pending", nil, now, now).
			AddRow("rec-1", "0xabc", "A", "A", "ipfs://a", "ipfs://b", "submitted", "0xh", now.Add(-time.Hour), now))

	records, err := repo.ListByOwner(context.Background(), "0xABC", 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "rec-2", records[0].ID)

	mock.ExpectQuery(`SELECT (.+) FROM mint_records`).
		WithArgs("0xempty", 10).
		WillReturnRows(sqlmock.NewRows(columns))

	records, err = repo.ListByOwner(context.Background(), "0xempty", 10)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)

	require.NoError(t, mock.ExpectationsWereMet())
}
