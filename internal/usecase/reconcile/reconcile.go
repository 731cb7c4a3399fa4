// Package reconcile holds the pure operations that create, update and delete
// records inside the daily ledger and keep the history index consistent.
//
// Every function takes a Store by value and returns a new Store. The input is
// never mutated, so a failed operation leaves the caller's state untouched.
// Persisting the result is the caller's job.
package reconcile

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/pricelist-backend/internal/domain"
)

// Recall is the pre-filled form data produced from a history entry
type Recall struct {
	Name          string
	PreviousPrice decimal.Decimal
	Category      string
}

// AddItem creates a record in today's bucket.
// Logic:
//  1. Validate the input (ValidationError)
//  2. Reject names already used today, case-insensitively (DuplicateNameError)
//  3. Append the record with CurrentPrice = PreviousPrice, creating the bucket if absent
//
// The history index is not touched; it only follows price adjustments.
func AddItem(store domain.Store, today domain.Day, id uuid.UUID, input domain.ItemInput) (domain.Store, domain.PriceRecord, error) {
	parsed, err := input.Parse()
	if err != nil {
		return store, domain.PriceRecord{}, err
	}

	records := store.Ledger.Records(today)
	for _, r := range records {
		if strings.EqualFold(r.Name, parsed.Name) {
			return store, domain.PriceRecord{}, domain.NewDuplicateNameError(parsed.Name, today)
		}
	}

	record := domain.PriceRecord{
		ID:             id,
		Name:           parsed.Name,
		PreviousPrice:  parsed.PreviousPrice,
		CurrentPrice:   parsed.PreviousPrice,
		Category:       parsed.Category,
		CreatedAt:      today,
		TargetPurchase: parsed.TargetPurchase,
	}

	next := store.Clone()
	next.Ledger.SetRecords(today, append(records, record))
	return next, record, nil
}

// EditItem replaces the record with the given id in today's bucket.
// The id and creation day are preserved; CurrentPrice is reset to the new PreviousPrice.
// No uniqueness check is made. If the id is not in today's bucket the store is
// returned unchanged with a nil record. Past days are read-only.
func EditItem(store domain.Store, today domain.Day, id uuid.UUID, input domain.ItemInput) (domain.Store, *domain.PriceRecord, error) {
	parsed, err := input.Parse()
	if err != nil {
		return store, nil, err
	}

	records := store.Ledger.Records(today)
	i := indexOf(records, id)
	if i < 0 {
		return store, nil, nil
	}

	edited := records[i]
	edited.Name = parsed.Name
	edited.PreviousPrice = parsed.PreviousPrice
	edited.CurrentPrice = parsed.PreviousPrice
	edited.Category = parsed.Category
	edited.TargetPurchase = parsed.TargetPurchase
	records[i] = edited

	next := store.Clone()
	next.Ledger.SetRecords(today, records)
	return next, &edited, nil
}

// DeleteItem removes the record with the given id from today's bucket.
// Reports false, with the store unchanged, when the id is not in today's bucket.
// The bucket stays in the ledger even when it becomes empty.
func DeleteItem(store domain.Store, today domain.Day, id uuid.UUID) (domain.Store, bool) {
	records := store.Ledger.Records(today)
	i := indexOf(records, id)
	if i < 0 {
		return store, false
	}

	next := store.Clone()
	next.Ledger.SetRecords(today, append(records[:i], records[i+1:]...))
	return next, true
}

// AdjustCurrentPrice sets the current price of the record with the given id in
// today's bucket and mirrors it into LastPrice.
// The price is stored as given; range clamping belongs to the caller.
// The history entry for the record's name is upserted with the new price, the
// record's category and the time at.
func AdjustCurrentPrice(store domain.Store, today domain.Day, id uuid.UUID, price decimal.Decimal, at time.Time) (domain.Store, *domain.PriceRecord) {
	records := store.Ledger.Records(today)
	i := indexOf(records, id)
	if i < 0 {
		return store, nil
	}

	adjusted := records[i]
	adjusted.CurrentPrice = price
	last := price
	adjusted.LastPrice = &last
	records[i] = adjusted

	next := store.Clone()
	next.Ledger.SetRecords(today, records)
	next.History.Upsert(domain.HistoryEntry{
		Name:        adjusted.Name,
		Category:    adjusted.Category,
		LastPrice:   price,
		LastUpdated: at,
	})
	return next, &adjusted
}

// RecallFromHistory returns the form data remembered for name.
// The lookup is case-sensitive. Reports false when there is no entry.
func RecallFromHistory(store domain.Store, name string) (Recall, bool) {
	entry, ok := store.History.Lookup(name)
	if !ok {
		return Recall{}, false
	}
	return Recall{
		Name:          entry.Name,
		PreviousPrice: entry.LastPrice,
		Category:      entry.Category,
	}, true
}

func indexOf(records []domain.PriceRecord, id uuid.UUID) int {
	for i, r := range records {
		if r.ID == id {
			return i
		}
	}
	return -1
}
