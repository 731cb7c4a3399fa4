package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// HistoryEntry is the last observed price and category for an item name, independent of day
type HistoryEntry struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	LastPrice   decimal.Decimal `json:"lastPrice"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// HistoryIndex maps an item name (case-sensitive) to its latest HistoryEntry.
// The zero value is an empty index.
type HistoryIndex struct {
	entries map[string]HistoryEntry
}

// NewHistoryIndex builds an index from entries; later entries win on duplicate names
func NewHistoryIndex(entries ...HistoryEntry) HistoryIndex {
	var h HistoryIndex
	for _, e := range entries {
		h.Upsert(e)
	}
	return h
}

// Lookup returns the entry stored for name
func (h HistoryIndex) Lookup(name string) (HistoryEntry, bool) {
	e, ok := h.entries[name]
	return e, ok
}

// Upsert inserts or replaces the entry for e.Name
func (h *HistoryIndex) Upsert(e HistoryEntry) {
	if h.entries == nil {
		h.entries = make(map[string]HistoryEntry)
	}
	h.entries[e.Name] = e
}

// Entries returns all entries sorted by name
func (h HistoryIndex) Entries() []HistoryEntry {
	out := make([]HistoryEntry, 0, len(h.entries))
	for _, e := range h.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of distinct names in the index
func (h HistoryIndex) Len() int { return len(h.entries) }

// Clone returns an index that shares no map with h
func (h HistoryIndex) Clone() HistoryIndex {
	out := HistoryIndex{entries: make(map[string]HistoryEntry, len(h.entries))}
	for k, v := range h.entries {
		out.entries[k] = v
	}
	return out
}
