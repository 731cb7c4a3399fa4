package domain

import "context"

// SnapshotRepository defines the persistence gateway for the Store
type SnapshotRepository interface {
	// Load reads the last saved Store.
	// Returns an empty Store and no error when nothing has been saved yet.
	Load(ctx context.Context) (*Store, error)

	// Save overwrites the persisted ledger and history with store in full
	Save(ctx context.Context, store *Store) error
}
