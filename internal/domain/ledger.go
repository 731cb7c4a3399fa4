package domain

import (
	"sort"

	"github.com/google/uuid"
)

// Bucket holds the records created on one calendar day
type Bucket struct {
	Date  Day           `json:"date"`
	Items []PriceRecord `json:"items"`
}

// DailyLedger is the day-keyed collection of buckets, ordered by date ascending.
// A day appears at most once. Buckets may be empty after deletes.
type DailyLedger struct {
	Buckets []Bucket
}

// NewDailyLedger builds a ledger from buckets in any order.
// Buckets sharing a day are merged in the order given.
func NewDailyLedger(buckets ...Bucket) DailyLedger {
	var l DailyLedger
	for _, b := range buckets {
		existing := l.Records(b.Date)
		l.SetRecords(b.Date, append(existing, b.Items...))
	}
	return l
}

func (l DailyLedger) index(day Day) (int, bool) {
	i := sort.Search(len(l.Buckets), func(i int) bool {
		return !l.Buckets[i].Date.Before(day)
	})
	return i, i < len(l.Buckets) && l.Buckets[i].Date == day
}

// Records returns a copy of the records in day's bucket, or nil if the day has no bucket
func (l DailyLedger) Records(day Day) []PriceRecord {
	i, ok := l.index(day)
	if !ok {
		return nil
	}
	return append([]PriceRecord(nil), l.Buckets[i].Items...)
}

// HasDay reports whether a bucket exists for day, even an empty one
func (l DailyLedger) HasDay(day Day) bool {
	_, ok := l.index(day)
	return ok
}

// SetRecords replaces day's bucket contents, creating the bucket in date order if absent
func (l *DailyLedger) SetRecords(day Day, records []PriceRecord) {
	i, ok := l.index(day)
	if ok {
		l.Buckets[i].Items = records
		return
	}
	l.Buckets = append(l.Buckets, Bucket{})
	copy(l.Buckets[i+1:], l.Buckets[i:])
	l.Buckets[i] = Bucket{Date: day, Items: records}
}

// Days returns every bucket day in ascending order
func (l DailyLedger) Days() []Day {
	days := make([]Day, 0, len(l.Buckets))
	for _, b := range l.Buckets {
		days = append(days, b.Date)
	}
	return days
}

// Find looks up a record by id across all days
func (l DailyLedger) Find(id uuid.UUID) (PriceRecord, bool) {
	for _, b := range l.Buckets {
		for _, r := range b.Items {
			if r.ID == id {
				return r, true
			}
		}
	}
	return PriceRecord{}, false
}

// Len returns the total number of records across all days
func (l DailyLedger) Len() int {
	n := 0
	for _, b := range l.Buckets {
		n += len(b.Items)
	}
	return n
}

// Clone returns a ledger that shares no slices with l
func (l DailyLedger) Clone() DailyLedger {
	out := DailyLedger{Buckets: make([]Bucket, len(l.Buckets))}
	for i, b := range l.Buckets {
		out.Buckets[i] = Bucket{Date: b.Date, Items: append([]PriceRecord(nil), b.Items...)}
	}
	return out
}
