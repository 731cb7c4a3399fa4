// Package legacy imports the flat price list written by earlier versions of the
// app, where every item carried a full creation timestamp and no day buckets existed.
package legacy

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/pricelist-backend/internal/domain"
)

// Namespace derives record ids from legacy ids that are not UUIDs
// (the old app used millisecond timestamps). Fixed so re-imports map to the same ids.
var Namespace = uuid.MustParse("6f1c2a4e-8d0b-4c55-9a61-3b7e2f9d0c10")

// Item is one entry of the legacy "priceItems" list
type Item struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	PreviousPrice decimal.Decimal `json:"previousPrice"`
	CurrentPrice  decimal.Decimal `json:"currentPrice"`
	Category      string          `json:"category"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// RecordID returns the ledger id for a legacy id
func RecordID(legacyID string) uuid.UUID {
	if id, err := uuid.Parse(legacyID); err == nil {
		return id
	}
	return uuid.NewSHA1(Namespace, []byte(legacyID))
}

// Rejection names a legacy item that could not be imported
type Rejection struct {
	ID     string
	Name   string
	Reason string
}

// Result summarizes an import
type Result struct {
	Imported int
	Existing int // already present in the ledger, skipped
	Rejected []Rejection
}

// Decode reads a legacy export. Both the bare array and an object of the
// form {"priceItems": [...]} are accepted.
func Decode(r io.Reader) ([]Item, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read legacy export: %w", err)
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}

	var wrapped struct {
		PriceItems []Item `json:"priceItems"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode legacy export: %w", err)
	}
	return wrapped.PriceItems, nil
}

// Import adds legacy items to the ledger, each in the bucket of the calendar day
// of its creation time in loc.
// Logic:
//  1. Skip items whose derived id already exists anywhere in the ledger (idempotent)
//  2. Reject items with a blank name or a non-positive previous price
//  3. Reject items whose name is already used on that day, case-insensitively
//  4. Append the rest in input order, keeping their current price
//
// The history index is not touched. The input store is never mutated.
func Import(store domain.Store, items []Item, loc *time.Location) (domain.Store, Result) {
	if loc == nil {
		loc = time.Local
	}

	next := store.Clone()
	var result Result

	for _, item := range items {
		id := RecordID(item.ID)
		if _, exists := next.Ledger.Find(id); exists {
			result.Existing++
			continue
		}

		if reason := check(item); reason != "" {
			result.Rejected = append(result.Rejected, Rejection{ID: item.ID, Name: item.Name, Reason: reason})
			continue
		}

		day := domain.DayOf(item.CreatedAt.In(loc))
		records := next.Ledger.Records(day)
		if hasName(records, item.Name) {
			result.Rejected = append(result.Rejected, Rejection{
				ID:     item.ID,
				Name:   item.Name,
				Reason: domain.NewDuplicateNameError(item.Name, day).Error(),
			})
			continue
		}

		current := item.CurrentPrice
		if current.IsZero() {
			current = item.PreviousPrice
		}

		next.Ledger.SetRecords(day, append(records, domain.PriceRecord{
			ID:            id,
			Name:          item.Name,
			PreviousPrice: item.PreviousPrice,
			CurrentPrice:  current,
			Category:      item.Category,
			CreatedAt:     day,
		}))
		result.Imported++
	}

	return next, result
}

func check(item Item) string {
	if strings.TrimSpace(item.Name) == "" {
		return "missing name"
	}
	if !item.PreviousPrice.IsPositive() {
		return "previous price must be positive"
	}
	if !domain.InPriceRange(item.PreviousPrice) || !domain.InPriceRange(item.CurrentPrice) {
		return "price out of range"
	}
	if item.CreatedAt.IsZero() {
		return "missing creation time"
	}
	return ""
}

func hasName(records []domain.PriceRecord, name string) bool {
	for _, r := range records {
		if strings.EqualFold(r.Name, name) {
			return true
		}
	}
	return false
}
