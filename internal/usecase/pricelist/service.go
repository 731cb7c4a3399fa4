package pricelist

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/pricelist-backend/internal/domain"
	"github.com/simaogato/pricelist-backend/internal/metrics"
	"github.com/simaogato/pricelist-backend/internal/usecase/legacy"
	"github.com/simaogato/pricelist-backend/internal/usecase/projection"
	"github.com/simaogato/pricelist-backend/internal/usecase/reconcile"
)

// Operation names used in logs and metrics
const (
	OpAddItem      = "add_item"
	OpEditItem     = "edit_item"
	OpDeleteItem   = "delete_item"
	OpAdjustPrice  = "adjust_current_price"
	OpImportLegacy = "import_legacy"
)

// PriceListService owns the current Store and persists it after every change.
// Operations are serialized; each one either commits fully or leaves the state as it was.
type PriceListService struct {
	Repo    domain.SnapshotRepository
	Log     *logrus.Entry
	Metrics *metrics.Metrics

	// Clock and Location decide "today"; NewID generates record ids
	Clock    func() time.Time
	Location *time.Location
	NewID    func() uuid.UUID

	mu    sync.Mutex
	store domain.Store
}

// NewPriceListService creates a new PriceListService instance.
// Call Load before serving requests.
func NewPriceListService(repo domain.SnapshotRepository, log *logrus.Entry, m *metrics.Metrics) *PriceListService {
	return &PriceListService{
		Repo:     repo,
		Log:      log.WithField("component", "pricelist"),
		Metrics:  m,
		Clock:    time.Now,
		Location: time.Local,
		NewID:    uuid.New,
	}
}

// Load replaces the in-memory state with the last saved snapshot
func (s *PriceListService) Load(ctx context.Context) error {
	store, err := s.Repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = domain.Store{}
	if store != nil {
		s.store = store.Clone()
	}
	s.Metrics.SetRecords(s.store.Ledger.Len())

	s.Log.WithFields(logrus.Fields{
		"days":    len(s.store.Ledger.Buckets),
		"records": s.store.Ledger.Len(),
		"history": s.store.History.Len(),
	}).Info("snapshot loaded")
	return nil
}

// Today returns the current calendar day in the service location
func (s *PriceListService) Today() domain.Day {
	return domain.DayOf(s.Clock().In(s.Location))
}

// AddItem creates a record in today's bucket.
// Returns a *domain.ValidationError or *domain.DuplicateNameError when rejected.
func (s *PriceListService) AddItem(ctx context.Context, input domain.ItemInput) (*domain.PriceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, record, err := reconcile.AddItem(s.store, s.Today(), s.NewID(), input)
	if err != nil {
		s.reject(OpAddItem, err)
		return nil, err
	}

	if err := s.commit(ctx, OpAddItem, next); err != nil {
		return nil, err
	}

	s.Log.WithFields(logrus.Fields{"operation": OpAddItem, "id": record.ID}).Debug("record added")
	return &record, nil
}

// EditItem replaces the record with the given id in today's bucket.
// Returns nil, nil when the id is not in today's bucket.
func (s *PriceListService) EditItem(ctx context.Context, id uuid.UUID, input domain.ItemInput) (*domain.PriceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, record, err := reconcile.EditItem(s.store, s.Today(), id, input)
	if err != nil {
		s.reject(OpEditItem, err)
		return nil, err
	}
	if record == nil {
		s.noop(OpEditItem, id)
		return nil, nil
	}

	if err := s.commit(ctx, OpEditItem, next); err != nil {
		return nil, err
	}
	return record, nil
}

// DeleteItem removes the record with the given id from today's bucket.
// Reports false when the id is not in today's bucket.
func (s *PriceListService) DeleteItem(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := reconcile.DeleteItem(s.store, s.Today(), id)
	if !ok {
		s.noop(OpDeleteItem, id)
		return false, nil
	}

	if err := s.commit(ctx, OpDeleteItem, next); err != nil {
		return false, err
	}
	return true, nil
}

// AdjustCurrentPrice sets the current price of a record in today's bucket and
// records it in the history index. Returns nil, nil when the id is not in today's bucket.
// A price outside domain.InPriceRange is a *domain.ValidationError.
func (s *PriceListService) AdjustCurrentPrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) (*domain.PriceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !domain.InPriceRange(price) {
		err := domain.NewValidationError("price", "please enter a valid price")
		s.reject(OpAdjustPrice, err)
		return nil, err
	}

	// Microseconds are the finest precision every repository keeps
	at := s.Clock().Truncate(time.Microsecond)
	next, record := reconcile.AdjustCurrentPrice(s.store, s.Today(), id, price, at)
	if record == nil {
		s.noop(OpAdjustPrice, id)
		return nil, nil
	}

	if err := s.commit(ctx, OpAdjustPrice, next); err != nil {
		return nil, err
	}
	return record, nil
}

// ImportLegacy adds records from a legacy flat export
func (s *PriceListService) ImportLegacy(ctx context.Context, items []legacy.Item) (legacy.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, result := legacy.Import(s.store, items, s.Location)
	for _, r := range result.Rejected {
		s.Log.WithFields(logrus.Fields{"operation": OpImportLegacy, "legacy_id": r.ID}).Warn(r.Reason)
	}
	if result.Imported == 0 {
		s.Metrics.ObserveOperation(OpImportLegacy, metrics.ResultNoop)
		return result, nil
	}

	if err := s.commit(ctx, OpImportLegacy, next); err != nil {
		return legacy.Result{}, err
	}

	s.Log.WithFields(logrus.Fields{
		"imported": result.Imported,
		"existing": result.Existing,
		"rejected": len(result.Rejected),
	}).Info("legacy items imported")
	return result, nil
}

// RecallFromHistory returns the form data remembered for name (case-sensitive)
func (s *PriceListService) RecallFromHistory(name string) (reconcile.Recall, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return reconcile.RecallFromHistory(s.store, name)
}

// History returns every history entry sorted by name
func (s *PriceListService) History() []domain.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.History.Entries()
}

// View projects the current ledger for display
func (s *PriceListService) View(q projection.Query) []projection.DayView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return projection.Project(s.store.Ledger, q)
}

// Snapshot returns a copy of the current state
func (s *PriceListService) Snapshot() domain.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Clone()
}

// commit saves next and, only if that succeeds, makes it the current state
func (s *PriceListService) commit(ctx context.Context, op string, next domain.Store) error {
	if err := s.Repo.Save(ctx, &next); err != nil {
		s.Metrics.ObserveOperation(op, metrics.ResultError)
		s.Log.WithError(err).WithField("operation", op).Error("failed to save snapshot")
		return fmt.Errorf("failed to save snapshot after %s: %w", op, err)
	}

	s.store = next
	s.Metrics.ObserveOperation(op, metrics.ResultOK)
	s.Metrics.SetRecords(next.Ledger.Len())
	return nil
}

func (s *PriceListService) reject(op string, err error) {
	s.Metrics.ObserveOperation(op, metrics.ResultInvalid)
	s.Log.WithField("operation", op).Infof("rejected: %v", err)
}

func (s *PriceListService) noop(op string, id uuid.UUID) {
	s.Metrics.ObserveOperation(op, metrics.ResultNoop)
	s.Log.WithFields(logrus.Fields{"operation": op, "id": id}).Debug("no record in today's bucket")
}
