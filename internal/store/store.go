// Package store keeps a local cache of uploaded receipts so the
// dashboard can list and filter them without a round trip.
package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/complicopilot/ccp-cli/internal/receipt"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS receipts (
    id          TEXT PRIMARY KEY,
    vendor      TEXT NOT NULL DEFAULT '',
    date        TEXT NOT NULL DEFAULT '',
    amount      REAL NOT NULL DEFAULT 0,
    currency    TEXT NOT NULL DEFAULT 'INR',
    category    TEXT NOT NULL DEFAULT 'uncategorized',
    gstin       TEXT NOT NULL DEFAULT '',
    tax_amount  REAL NOT NULL DEFAULT 0,
    status      TEXT NOT NULL DEFAULT 'pending',
    created_at  TEXT NOT NULL DEFAULT '',
    filename    TEXT NOT NULL DEFAULT ''
);`

// Store is a sqlite-backed receipt cache
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Filter narrows a listing. GSTIN matching ignores whitespace and case,
// the same way the dashboard search box does.
type Filter struct {
	GSTIN string
}

// Open opens (and if needed initializes) the cache database
func Open(path string, logger *zap.Logger) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open receipt cache: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping receipt cache: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize receipt cache: %w", err)
	}

	logger.Info("Receipt cache opened", zap.String("path", path))
	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Put inserts or replaces a record by id
func (s *Store) Put(rec receipt.Record) error {
	if rec.ID == "" {
		return fmt.Errorf("refusing to cache receipt without id")
	}
	_, err := s.db.Exec(`
		INSERT INTO receipts (id, vendor, date, amount, currency, category, gstin, tax_amount, status, created_at, filename)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			vendor = excluded.vendor,
			date = excluded.date,
			amount = excluded.amount,
			currency = excluded.currency,
			category = excluded.category,
			gstin = excluded.gstin,
			tax_amount = excluded.tax_amount,
			status = excluded.status,
			created_at = excluded.created_at,
			filename = excluded.filename`,
		rec.ID, rec.Vendor, rec.Date, rec.Amount, rec.Currency, rec.Category,
		rec.GSTIN, rec.TaxAmount, rec.Status, rec.CreatedAt, rec.Filename)
	if err != nil {
		return fmt.Errorf("failed to cache receipt %s: %w", rec.ID, err)
	}
	return nil
}

// List returns cached receipts matching the filter, newest first
func (s *Store) List(filter Filter) ([]receipt.Record, error) {
	rows, err := s.db.Query(`
		SELECT id, vendor, date, amount, currency, category, gstin, tax_amount, status, created_at, filename
		FROM receipts ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	defer rows.Close()

	needle := normalizeGSTIN(filter.GSTIN)
	var records []receipt.Record
	for rows.Next() {
		var rec receipt.Record
		if err := rows.Scan(&rec.ID, &rec.Vendor, &rec.Date, &rec.Amount,
			&rec.Currency, &rec.Category, &rec.GSTIN, &rec.TaxAmount,
			&rec.Status, &rec.CreatedAt, &rec.Filename); err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		if needle != "" && !strings.Contains(normalizeGSTIN(rec.GSTIN), needle) {
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read receipts: %w", err)
	}
	return records, nil
}

func normalizeGSTIN(v string) string {
	return strings.ToLower(strings.Join(strings.Fields(v), ""))
}
