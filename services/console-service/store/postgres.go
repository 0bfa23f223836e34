package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

const receiptsSchema = `
CREATE TABLE IF NOT EXISTS shipment_receipts (
    id               UUID PRIMARY KEY,
    shipment_id      TEXT NOT NULL,
    shipment_code    TEXT NOT NULL DEFAULT '',
    batch_id         TEXT NOT NULL DEFAULT '',
    drug_name        TEXT NOT NULL DEFAULT '',
    quantity         BIGINT NOT NULL DEFAULT 0,
    wallet           TEXT NOT NULL,
    role             TEXT NOT NULL,
    transaction_hash TEXT NOT NULL DEFAULT '',
    confirmed_at     TIMESTAMPTZ NOT NULL,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS shipment_receipts_wallet_idx ON shipment_receipts (lower(wallet), confirmed_at DESC);`

// PostgresStore keeps the receipt audit trail in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens the database, checks it is reachable and makes sure
// the receipts table exists.
func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres db: %w", err)
	}
	if _, err := db.ExecContext(ctx, receiptsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate receipts table: %w", err)
	}
	return NewPostgresStoreWithDB(db), nil
}

// NewPostgresStoreWithDB wraps an open handle.
func NewPostgresStoreWithDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Ping is used by the health check.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) AppendReceipt(ctx context.Context, r Receipt) error {
	query := `
        INSERT INTO shipment_receipts
            (id, shipment_id, shipment_code, batch_id, drug_name, quantity, wallet, role, transaction_hash, confirmed_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (id) DO NOTHING`

	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.ShipmentID, r.ShipmentCode, r.BatchID, r.DrugName, r.Quantity,
		r.Wallet, r.Role, r.TransactionHash, r.ConfirmedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert receipt: %w", err)
	}
	return nil
}

const receiptColumns = `id, shipment_id, shipment_code, batch_id, drug_name, quantity, wallet, role, transaction_hash, confirmed_at, created_at`

func (s *PostgresStore) GetReceipt(ctx context.Context, id string) (Receipt, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+receiptColumns+` FROM shipment_receipts WHERE id = $1`, id)
	r, err := scanReceipt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Receipt{}, ErrReceiptNotFound
	}
	return r, err
}

func (s *PostgresStore) ListReceipts(ctx context.Context, wallet string, limit, offset int32) ([]Receipt, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + receiptColumns + `
        FROM shipment_receipts
        WHERE lower(wallet) = lower($1)
        ORDER BY confirmed_at DESC, id
        LIMIT $2 OFFSET $3`

	rows, err := s.db.QueryContext(ctx, query, wallet, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query receipts: %w", err)
	}
	defer rows.Close()

	var receipts []Receipt
	for rows.Next() {
		r, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return receipts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReceipt(sc scanner) (Receipt, error) {
	var r Receipt
	err := sc.Scan(&r.ID, &r.ShipmentID, &r.ShipmentCode, &r.BatchID, &r.DrugName, &r.Quantity,
		&r.Wallet, &r.Role, &r.TransactionHash, &r.ConfirmedAt, &r.CreatedAt)
	if err != nil {
		return Receipt{}, err
	}
	r.ConfirmedAt = r.ConfirmedAt.UTC()
	r.CreatedAt = r.CreatedAt.UTC()
	return r, nil
}
