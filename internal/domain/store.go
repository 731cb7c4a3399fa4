package domain

// Store is the whole persisted state: the ledger and the history index.
// It is the unit loaded on start and saved after every change.
type Store struct {
	Ledger  DailyLedger
	History HistoryIndex
}

// Clone returns a deep copy so that operations never mutate their input
func (s Store) Clone() Store {
	return Store{
		Ledger:  s.Ledger.Clone(),
		History: s.History.Clone(),
	}
}
