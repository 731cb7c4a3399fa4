// Package repotest is a conformance suite shared by the snapshot repository adapters.
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/pricelist-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fixture returns a store with two populated days, one empty day, optional
// fields both set and unset, and two history entries
func Fixture() *domain.Store {
	target := decimal.RequireFromString("20")
	last := decimal.RequireFromString("1.79")
	june14 := domain.MustParseDay("2024-06-14")
	june15 := domain.MustParseDay("2024-06-15")

	return &domain.Store{
		Ledger: domain.NewDailyLedger(
			domain.Bucket{Date: june14, Items: []domain.PriceRecord{{
				ID:            uuid.MustParse("3f0e7c1a-5b2d-4e8f-9a61-0c2b7d4e5f60"),
				Name:          "Bread",
				PreviousPrice: decimal.RequireFromString("3.00"),
				CurrentPrice:  decimal.RequireFromString("3.25"),
				Category:      "Bakery",
				CreatedAt:     june14,
			}}},
			domain.Bucket{Date: domain.MustParseDay("2024-06-13")},
			domain.Bucket{Date: june15, Items: []domain.PriceRecord{
				{
					ID:             uuid.MustParse("a4b1c3d2-0e9f-4a87-b6c5-d4e3f2a1b0c9"),
					Name:           "Milk",
					PreviousPrice:  decimal.RequireFromString("1.99"),
					CurrentPrice:   decimal.RequireFromString("1.79"),
					Category:       "Dairy",
					CreatedAt:      june15,
					TargetPurchase: &target,
					LastPrice:      &last,
				},
				{
					ID:            uuid.MustParse("0b9a8c7d-6e5f-4d3c-8b2a-1f0e9d8c7b6a"),
					Name:          "Apples",
					PreviousPrice: decimal.RequireFromString("0.5"),
					CurrentPrice:  decimal.RequireFromString("0.5"),
					CreatedAt:     june15,
				},
			}},
		),
		History: domain.NewHistoryIndex(
			domain.HistoryEntry{Name: "Milk", Category: "Dairy", LastPrice: last, LastUpdated: time.Date(2024, 6, 15, 9, 30, 15, 123456000, time.UTC)},
			domain.HistoryEntry{Name: "Bread", Category: "Bakery", LastPrice: decimal.RequireFromString("3.25"), LastUpdated: time.Date(2024, 6, 14, 18, 0, 0, 0, time.UTC)},
		),
	}
}

// AssertStoresEqual compares two stores field by field, treating decimals and
// times by value rather than by representation
func AssertStoresEqual(t *testing.T, want, got *domain.Store) {
	t.Helper()

	require.Equal(t, want.Ledger.Days(), got.Ledger.Days())
	for _, day := range want.Ledger.Days() {
		wantRecords := want.Ledger.Records(day)
		gotRecords := got.Ledger.Records(day)
		require.Len(t, gotRecords, len(wantRecords), "records on %s", day)

		for i, w := range wantRecords {
			g := gotRecords[i]
			assert.Equal(t, w.ID, g.ID)
			assert.Equal(t, w.Name, g.Name)
			assert.Equal(t, w.Category, g.Category)
			assert.Equal(t, w.CreatedAt, g.CreatedAt)
			assert.True(t, w.PreviousPrice.Equal(g.PreviousPrice), "previous price of %s: %s != %s", w.Name, w.PreviousPrice, g.PreviousPrice)
			assert.True(t, w.CurrentPrice.Equal(g.CurrentPrice), "current price of %s: %s != %s", w.Name, w.CurrentPrice, g.CurrentPrice)
			assertOptionalEqual(t, w.TargetPurchase, g.TargetPurchase, "target purchase of "+w.Name)
			assertOptionalEqual(t, w.LastPrice, g.LastPrice, "last price of "+w.Name)
		}
	}

	wantEntries := want.History.Entries()
	gotEntries := got.History.Entries()
	require.Len(t, gotEntries, len(wantEntries))
	for i, w := range wantEntries {
		g := gotEntries[i]
		assert.Equal(t, w.Name, g.Name)
		assert.Equal(t, w.Category, g.Category)
		assert.True(t, w.LastPrice.Equal(g.LastPrice), "history price of %s", w.Name)
		assert.True(t, w.LastUpdated.Equal(g.LastUpdated), "history time of %s: %s != %s", w.Name, w.LastUpdated, g.LastUpdated)
	}
}

func assertOptionalEqual(t *testing.T, want, got *decimal.Decimal, what string) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got, what)
		return
	}
	if assert.NotNil(t, got, what) {
		assert.True(t, want.Equal(*got), "%s: %s != %s", what, want, got)
	}
}

// Run exercises a repository: empty load, round trip and full overwrite.
// newRepo must return a repository over empty storage on every call.
func Run(t *testing.T, newRepo func(t *testing.T) domain.SnapshotRepository) {
	t.Run("empty load", func(t *testing.T) {
		store, err := newRepo(t).Load(context.Background())

		require.NoError(t, err)
		require.NotNil(t, store)
		assert.Equal(t, 0, store.Ledger.Len())
		assert.Empty(t, store.Ledger.Days())
		assert.Equal(t, 0, store.History.Len())
	})

	t.Run("round trip", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		want := Fixture()

		require.NoError(t, repo.Save(ctx, want))
		got, err := repo.Load(ctx)

		require.NoError(t, err)
		AssertStoresEqual(t, want, got)
		assert.True(t, got.Ledger.HasDay(domain.MustParseDay("2024-06-13")), "empty day survives")
	})

	t.Run("save overwrites", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)
		require.NoError(t, repo.Save(ctx, Fixture()))

		smaller := Fixture()
		smaller.Ledger.SetRecords(domain.MustParseDay("2024-06-15"), nil)
		smaller.History = domain.NewHistoryIndex()
		require.NoError(t, repo.Save(ctx, smaller))

		got, err := repo.Load(ctx)
		require.NoError(t, err)
		AssertStoresEqual(t, smaller, got)
		assert.Equal(t, 1, got.Ledger.Len())
	})
}
