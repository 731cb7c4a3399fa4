package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/pricelist-backend/internal/domain"
)

// snapshotRepository implements domain.SnapshotRepository
type snapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *DB) domain.SnapshotRepository {
	return &snapshotRepository{db: db}
}

// Load retrieves the full ledger and history index
func (r *snapshotRepository) Load(ctx context.Context) (*domain.Store, error) {
	buckets, err := r.loadDays(ctx)
	if err != nil {
		return nil, err
	}
	ledger := domain.NewDailyLedger(buckets...)

	query := `
		SELECT id, day, name, previous_price, current_price, category, target_purchase, last_price
		FROM price_records
		ORDER BY day ASC, position ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query price records: %w", err)
	}
	defer rows.Close()

	byDay := make(map[domain.Day][]domain.PriceRecord)
	for rows.Next() {
		var record domain.PriceRecord
		var day time.Time
		var previousStr, currentStr string
		var targetStr, lastStr sql.NullString

		if err := rows.Scan(
			&record.ID,
			&day,
			&record.Name,
			&previousStr,
			&currentStr,
			&record.Category,
			&targetStr,
			&lastStr,
		); err != nil {
			return nil, fmt.Errorf("failed to scan price record: %w", err)
		}
		record.CreatedAt = domain.DayOf(day)

		// Parse prices (DECIMAL)
		if record.PreviousPrice, err = decimal.NewFromString(previousStr); err != nil {
			return nil, fmt.Errorf("failed to parse previous_price: %w", err)
		}
		if record.CurrentPrice, err = decimal.NewFromString(currentStr); err != nil {
			return nil, fmt.Errorf("failed to parse current_price: %w", err)
		}
		if record.TargetPurchase, err = parseNullDecimal(targetStr); err != nil {
			return nil, fmt.Errorf("failed to parse target_purchase: %w", err)
		}
		if record.LastPrice, err = parseNullDecimal(lastStr); err != nil {
			return nil, fmt.Errorf("failed to parse last_price: %w", err)
		}

		byDay[record.CreatedAt] = append(byDay[record.CreatedAt], record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price records: %w", err)
	}

	for _, day := range ledger.Days() {
		ledger.SetRecords(day, byDay[day])
	}

	history, err := r.loadHistory(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.Store{Ledger: ledger, History: history}, nil
}

func (r *snapshotRepository) loadDays(ctx context.Context) ([]domain.Bucket, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT day FROM ledger_days ORDER BY day ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger days: %w", err)
	}
	defer rows.Close()

	var buckets []domain.Bucket
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("failed to scan ledger day: %w", err)
		}
		buckets = append(buckets, domain.Bucket{Date: domain.DayOf(day)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger days: %w", err)
	}
	return buckets, nil
}

func (r *snapshotRepository) loadHistory(ctx context.Context) (domain.HistoryIndex, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, category, last_price, last_updated FROM history_entries`)
	if err != nil {
		return domain.HistoryIndex{}, fmt.Errorf("failed to query history entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		var priceStr string
		if err := rows.Scan(&entry.Name, &entry.Category, &priceStr, &entry.LastUpdated); err != nil {
			return domain.HistoryIndex{}, fmt.Errorf("failed to scan history entry: %w", err)
		}
		if entry.LastPrice, err = decimal.NewFromString(priceStr); err != nil {
			return domain.HistoryIndex{}, fmt.Errorf("failed to parse last_price: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return domain.HistoryIndex{}, fmt.Errorf("error iterating history entries: %w", err)
	}
	return domain.NewHistoryIndex(entries...), nil
}

// Save replaces the stored snapshot atomically
func (r *snapshotRepository) Save(ctx context.Context, store *domain.Store) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `TRUNCATE price_records, ledger_days, history_entries`); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	insertRecordQuery := `
		INSERT INTO price_records (id, day, position, name, previous_price, current_price, category, target_purchase, last_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for _, bucket := range store.Ledger.Buckets {
		day := bucket.Date.String()
		if _, err := dbTx.ExecContext(ctx, `INSERT INTO ledger_days (day) VALUES ($1)`, day); err != nil {
			return fmt.Errorf("failed to insert ledger day %s: %w", day, err)
		}

		for position, record := range bucket.Items {
			_, err := dbTx.ExecContext(ctx, insertRecordQuery,
				record.ID,
				day,
				position,
				record.Name,
				record.PreviousPrice.String(),
				record.CurrentPrice.String(),
				record.Category,
				nullDecimal(record.TargetPurchase),
				nullDecimal(record.LastPrice),
			)
			if err != nil {
				return fmt.Errorf("failed to insert price record %s: %w", record.ID, err)
			}
		}
	}

	for _, entry := range store.History.Entries() {
		_, err := dbTx.ExecContext(ctx,
			`INSERT INTO history_entries (name, category, last_price, last_updated) VALUES ($1, $2, $3, $4)`,
			entry.Name,
			entry.Category,
			entry.LastPrice.String(),
			entry.LastUpdated,
		)
		if err != nil {
			return fmt.Errorf("failed to insert history entry %q: %w", entry.Name, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func parseNullDecimal(s sql.NullString) (*decimal.Decimal, error) {
	if !s.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func nullDecimal(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return d.String()
}
