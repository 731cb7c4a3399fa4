package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/pricelist-backend/internal/domain"
)

// snapshotRepository implements domain.SnapshotRepository on SQLite
type snapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a snapshot repository on an opened database
func NewSnapshotRepository(db *sql.DB) domain.SnapshotRepository {
	return &snapshotRepository{db: db}
}

type scanner interface{ Scan(...any) error }

const recordCols = `id, day, name, previous_price, current_price, category, target_purchase, last_price`

func scanRecord(s scanner) (domain.PriceRecord, error) {
	var (
		r                  domain.PriceRecord
		id, day, prev, cur string
		target, last       sql.NullString
	)
	if err := s.Scan(&id, &day, &r.Name, &prev, &cur, &r.Category, &target, &last); err != nil {
		return r, err
	}

	var err error
	if r.ID, err = uuid.Parse(id); err != nil {
		return r, fmt.Errorf("parse id %q: %w", id, err)
	}
	if r.CreatedAt, err = domain.ParseDay(day); err != nil {
		return r, fmt.Errorf("parse day of %s: %w", id, err)
	}
	if r.PreviousPrice, err = decimal.NewFromString(prev); err != nil {
		return r, fmt.Errorf("parse previous_price of %s: %w", id, err)
	}
	if r.CurrentPrice, err = decimal.NewFromString(cur); err != nil {
		return r, fmt.Errorf("parse current_price of %s: %w", id, err)
	}
	if r.TargetPurchase, err = nullDecimal(target); err != nil {
		return r, fmt.Errorf("parse target_purchase of %s: %w", id, err)
	}
	if r.LastPrice, err = nullDecimal(last); err != nil {
		return r, fmt.Errorf("parse last_price of %s: %w", id, err)
	}
	return r, nil
}

func scanHistoryEntry(s scanner) (domain.HistoryEntry, error) {
	var (
		e            domain.HistoryEntry
		price, stamp string
	)
	if err := s.Scan(&e.Name, &e.Category, &price, &stamp); err != nil {
		return e, err
	}

	var err error
	if e.LastPrice, err = decimal.NewFromString(price); err != nil {
		return e, fmt.Errorf("parse last_price of %q: %w", e.Name, err)
	}
	if e.LastUpdated, err = time.Parse(time.RFC3339Nano, stamp); err != nil {
		return e, fmt.Errorf("parse last_updated of %q: %w", e.Name, err)
	}
	return e, nil
}

// Load reads the whole ledger and history index.
// An empty database yields an empty Store.
func (r *snapshotRepository) Load(ctx context.Context) (*domain.Store, error) {
	dayRows, err := r.db.QueryContext(ctx, `SELECT day FROM ledger_days ORDER BY day ASC`)
	if err != nil {
		return nil, fmt.Errorf("list days: %w", err)
	}
	defer dayRows.Close()

	var buckets []domain.Bucket
	for dayRows.Next() {
		var s string
		if err := dayRows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan day: %w", err)
		}
		day, err := domain.ParseDay(s)
		if err != nil {
			return nil, fmt.Errorf("parse day %q: %w", s, err)
		}
		buckets = append(buckets, domain.Bucket{Date: day})
	}
	if err := dayRows.Err(); err != nil {
		return nil, fmt.Errorf("list days: %w", err)
	}

	ledger := domain.NewDailyLedger(buckets...)

	rows, err := r.db.QueryContext(ctx, `SELECT `+recordCols+` FROM price_records ORDER BY day ASC, position ASC`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	byDay := make(map[domain.Day][]domain.PriceRecord)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		byDay[rec.CreatedAt] = append(byDay[rec.CreatedAt], rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	for _, day := range ledger.Days() {
		ledger.SetRecords(day, byDay[day])
	}

	histRows, err := r.db.QueryContext(ctx, `SELECT name, category, last_price, last_updated FROM history_entries ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer histRows.Close()

	var entries []domain.HistoryEntry
	for histRows.Next() {
		e, err := scanHistoryEntry(histRows)
		if err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := histRows.Err(); err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	return &domain.Store{Ledger: ledger, History: domain.NewHistoryIndex(entries...)}, nil
}

// Save replaces the stored snapshot with store in a single transaction
func (r *snapshotRepository) Save(ctx context.Context, store *domain.Store) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"price_records", "ledger_days", "history_entries"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, bucket := range store.Ledger.Buckets {
		day := bucket.Date.String()
		if _, err := tx.ExecContext(ctx, `INSERT INTO ledger_days (day) VALUES (?)`, day); err != nil {
			return fmt.Errorf("insert day %s: %w", day, err)
		}
		for i, rec := range bucket.Items {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO price_records (id, day, position, name, previous_price, current_price, category, target_purchase, last_price)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				rec.ID.String(), day, i, rec.Name,
				rec.PreviousPrice.String(), rec.CurrentPrice.String(), rec.Category,
				decimalOrNull(rec.TargetPurchase), decimalOrNull(rec.LastPrice),
			)
			if err != nil {
				return fmt.Errorf("insert record %s: %w", rec.ID, err)
			}
		}
	}

	for _, e := range store.History.Entries() {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO history_entries (name, category, last_price, last_updated) VALUES (?, ?, ?, ?)`,
			e.Name, e.Category, e.LastPrice.String(), e.LastUpdated.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("insert history entry %q: %w", e.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func nullDecimal(s sql.NullString) (*decimal.Decimal, error) {
	if !s.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func decimalOrNull(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}
