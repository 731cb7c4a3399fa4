package pricelist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/simaogato/pricelist-backend/internal/domain"
	"github.com/simaogato/pricelist-backend/internal/metrics"
	"github.com/simaogato/pricelist-backend/internal/usecase/legacy"
	"github.com/simaogato/pricelist-backend/internal/usecase/projection"
	"github.com/simaogato/pricelist-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSnapshotRepository is a mock implementation of SnapshotRepository for testing
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Load(ctx context.Context) (*domain.Store, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Store), args.Error(1)
}

func (m *MockSnapshotRepository) Save(ctx context.Context, store *domain.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

var morning = time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

func newService(t *testing.T, repo *MockSnapshotRepository) (*PriceListService, *metrics.Metrics) {
	t.Helper()
	m := metrics.New()
	s := NewPriceListService(repo, logger.Discard(), m)
	s.Clock = func() time.Time { return morning }
	s.Location = time.UTC

	repo.On("Load", mock.Anything).Return(&domain.Store{}, nil).Once()
	require.NoError(t, s.Load(context.Background()))
	return s, m
}

func TestLoad_RestoresSavedState(t *testing.T) {
	repo := new(MockSnapshotRepository)
	saved := &domain.Store{
		Ledger: domain.NewDailyLedger(domain.Bucket{
			Date:  domain.MustParseDay("2024-06-14"),
			Items: []domain.PriceRecord{{ID: uuid.New(), Name: "Milk", PreviousPrice: decimal.NewFromInt(2), CurrentPrice: decimal.NewFromInt(2)}},
		}),
	}
	repo.On("Load", mock.Anything).Return(saved, nil)

	s := NewPriceListService(repo, logger.Discard(), nil)
	require.NoError(t, s.Load(context.Background()))

	assert.Equal(t, 1, s.Snapshot().Ledger.Len())
}

func TestLoad_Error(t *testing.T) {
	repo := new(MockSnapshotRepository)
	repo.On("Load", mock.Anything).Return(nil, errors.New("disk gone"))

	s := NewPriceListService(repo, logger.Discard(), nil)
	err := s.Load(context.Background())

	assert.ErrorContains(t, err, "disk gone")
}

func TestAddItem_SavesSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSnapshotRepository)
	s, m := newService(t, repo)

	repo.On("Save", ctx, mock.MatchedBy(func(store *domain.Store) bool {
		records := store.Ledger.Records(domain.MustParseDay("2024-06-15"))
		return len(records) == 1 && records[0].Name == "Milk"
	})).Return(nil).Once()

	record, err := s.AddItem(ctx, domain.ItemInput{Name: "Milk", PreviousPrice: "1.99", Category: "Dairy"})

	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, domain.MustParseDay("2024-06-15"), record.CreatedAt)
	assert.Equal(t, 1, s.Snapshot().Ledger.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues(OpAddItem, metrics.ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Records))
	repo.AssertExpectations(t)
}

func TestAddItem_RejectedInputIsNotSaved(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSnapshotRepository)
	s, m := newService(t, repo)

	_, err := s.AddItem(ctx, domain.ItemInput{Name: "Milk", PreviousPrice: "-1"})

	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues(OpAddItem, metrics.ResultInvalid)))
}

func TestAddItem_SaveFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSnapshotRepository)
	s, m := newService(t, repo)
	repo.On("Save", ctx, mock.Anything).Return(errors.New("read-only file system")).Once()

	record, err := s.AddItem(ctx, domain.ItemInput{Name: "Milk", PreviousPrice: "1.99"})

	assert.Nil(t, record)
	assert.ErrorContains(t, err, "read-only file system")
	assert.Equal(t, 0, s.Snapshot().Ledger.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues(OpAddItem, metrics.ResultError)))

	// after the failure the same name can still be added
	repo.On("Save", ctx, mock.Anything).Return(nil).Once()
	_, err = s.AddItem(ctx, domain.ItemInput{Name: "Milk", PreviousPrice: "1.99"})
	assert.NoError(t, err)
}

func TestAdjustAndRecall(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSnapshotRepository)
	s, _ := newService(t, repo)
	repo.On("Save", ctx, mock.Anything).Return(nil)

	record, err := s.AddItem(ctx, domain.ItemInput{Name: "Milk", PreviousPrice: "2.00", Category: "Dairy"})
	require.NoError(t, err)

	adjusted, err := s.AdjustCurrentPrice(ctx, record.ID, decimal.RequireFromString("1.80"))
	require.NoError(t, err)
	require.NotNil(t, adjusted)
	assert.Equal(t, "-10", adjusted.Difference().String())

	recall, ok := s.RecallFromHistory("Milk")
	require.True(t, ok)
	assert.Equal(t, "1.8", recall.PreviousPrice.String())
	assert.Equal(t, "Dairy", recall.Category)

	history := s.History()
	require.Len(t, history, 1)
	assert.Equal(t, morning, history[0].LastUpdated)
}

func TestAdjustCurrentPrice_RejectsOutOfRangePrice(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSnapshotRepository)
	s, m := newService(t, repo)
	repo.On("Save", ctx, mock.Anything).Return(nil)

	record, err := s.AddItem(ctx, domain.ItemInput{Name: "Milk", PreviousPrice: "2.00"})
	require.NoError(t, err)

	for _, price := range []decimal.Decimal{decimal.New(1, 10000000), decimal.New(1, -20)} {
		adjusted, err := s.AdjustCurrentPrice(ctx, record.ID, price)

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "price", verr.Field)
		assert.Nil(t, adjusted)
	}

	repo.AssertNumberOfCalls(t, "Save", 1)
	assert.Equal(t, 0, s.Snapshot().History.Len())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues(OpAdjustPrice, metrics.ResultInvalid)))
}

func TestAdjustCurrentPrice_TruncatesTimeToMicroseconds(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSnapshotRepository)
	s, _ := newService(t, repo)
	s.Clock = func() time.Time { return morning.Add(123456789 * time.Nanosecond) }
	repo.On("Save", ctx, mock.Anything).Return(nil)

	record, err := s.AddItem(ctx, domain.ItemInput{Name: "Milk", PreviousPrice: "2.00"})
	require.NoError(t, err)
	_, err = s.AdjustCurrentPrice(ctx, record.ID, decimal.RequireFromString("1.90"))
	require.NoError(t, err)

	history := s.History()
	require.Len(t, history, 1)
	assert.Equal(t, morning.Add(123456*time.Microsecond), history[0].LastUpdated)
}

func TestNotFoundOperationsDoNotSave(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSnapshotRepository)
	s, m := newService(t, repo)
	missing := uuid.New()

	edited, err := s.EditItem(ctx, missing, domain.ItemInput{Name: "Milk", PreviousPrice: "1"})
	assert.NoError(t, err)
	assert.Nil(t, edited)

	deleted, err := s.DeleteItem(ctx, missing)
	assert.NoError(t, err)
	assert.False(t, deleted)

	adjusted, err := s.AdjustCurrentPrice(ctx, missing, decimal.NewFromInt(1))
	assert.NoError(t, err)
	assert.Nil(t, adjusted)

	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues(OpDeleteItem, metrics.ResultNoop)))
}

func TestYesterdaysRecordsAreReadOnly(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSnapshotRepository)
	s, _ := newService(t, repo)
	repo.On("Save", ctx, mock.Anything).Return(nil)

	s.Clock = func() time.Time { return morning.AddDate(0, 0, -1) }
	old, err := s.AddItem(ctx, domain.ItemInput{Name: "Milk", PreviousPrice: "1.99"})
	require.NoError(t, err)

	s.Clock = func() time.Time { return morning }
	edited, err := s.EditItem(ctx, old.ID, domain.ItemInput{Name: "Milk", PreviousPrice: "9"})
	assert.NoError(t, err)
	assert.Nil(t, edited)

	deleted, err := s.DeleteItem(ctx, old.ID)
	assert.NoError(t, err)
	assert.False(t, deleted)

	record, ok := s.Snapshot().Ledger.Find(old.ID)
	require.True(t, ok)
	assert.Equal(t, "1.99", record.PreviousPrice.String())
}

func TestEditAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSnapshotRepository)
	s, _ := newService(t, repo)
	repo.On("Save", ctx, mock.Anything).Return(nil)

	record, err := s.AddItem(ctx, domain.ItemInput{Name: "Milk", PreviousPrice: "1.99"})
	require.NoError(t, err)

	edited, err := s.EditItem(ctx, record.ID, domain.ItemInput{Name: "Oat Milk", PreviousPrice: "2.49"})
	require.NoError(t, err)
	require.NotNil(t, edited)
	assert.Equal(t, "Oat Milk", edited.Name)

	deleted, err := s.DeleteItem(ctx, record.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Empty(t, s.View(projection.Query{}))
}

func TestView_UsesQuery(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSnapshotRepository)
	s, _ := newService(t, repo)
	repo.On("Save", ctx, mock.Anything).Return(nil)

	for _, name := range []string{"Tea", "Bread", "Apples"} {
		_, err := s.AddItem(ctx, domain.ItemInput{Name: name, PreviousPrice: "1"})
		require.NoError(t, err)
	}

	views := s.View(projection.Query{SortBy: projection.SortByName})
	require.Len(t, views, 1)
	require.Len(t, views[0].Rows, 3)
	assert.Equal(t, "Apples", views[0].Rows[0].Record.Name)

	filtered := s.View(projection.Query{Search: "rea"})
	require.Len(t, filtered, 1)
	assert.Len(t, filtered[0].Rows, 1)
}

func TestImportLegacy(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSnapshotRepository)
	s, _ := newService(t, repo)
	repo.On("Save", ctx, mock.Anything).Return(nil).Once()

	items := []legacy.Item{{
		ID:            "1718440200000",
		Name:          "Milk",
		PreviousPrice: decimal.NewFromInt(2),
		CurrentPrice:  decimal.NewFromInt(2),
		CreatedAt:     morning.AddDate(0, 0, -3),
	}}

	result, err := s.ImportLegacy(ctx, items)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)

	// a second import of the same file has nothing to save
	result, err = s.ImportLegacy(ctx, items)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Existing)
	repo.AssertNumberOfCalls(t, "Save", 1)
}
