package grpc

import "github.com/simaogato/pricelist-backend/internal/usecase/legacy"

// Decimal values travel as strings, days as YYYY-MM-DD and times as RFC 3339.

// ItemFields is the form data of AddItem and EditItem
type ItemFields struct {
	Name           string `json:"name"`
	PreviousPrice  string `json:"previousPrice"`
	Category       string `json:"category"`
	TargetPurchase string `json:"targetPurchase,omitempty"`
}

// Record is a price record with its derived display values
type Record struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	PreviousPrice  string `json:"previousPrice"`
	CurrentPrice   string `json:"currentPrice"`
	Category       string `json:"category"`
	CreatedAt      string `json:"createdAt"`
	TargetPurchase string `json:"targetPurchase,omitempty"`
	LastPrice      string `json:"lastPrice,omitempty"`
	Difference     string `json:"difference"`
	Trend          string `json:"trend"`
	UnitsToBuy     string `json:"unitsToBuy,omitempty"`
}

// AddItemRequest creates a record in today's list
type AddItemRequest struct {
	Item ItemFields `json:"item"`
}

// AddItemResponse carries the created record
type AddItemResponse struct {
	Record Record `json:"record"`
}

// EditItemRequest replaces the fields of a record in today's list
type EditItemRequest struct {
	ID   string     `json:"id"`
	Item ItemFields `json:"item"`
}

// EditItemResponse reports whether the record was found and its new state
type EditItemResponse struct {
	Found  bool    `json:"found"`
	Record *Record `json:"record,omitempty"`
}

// DeleteItemRequest removes a record from today's list
type DeleteItemRequest struct {
	ID string `json:"id"`
}

// DeleteItemResponse reports whether a record was removed
type DeleteItemResponse struct {
	Found bool `json:"found"`
}

// AdjustCurrentPriceRequest sets the current price of a record in today's list
type AdjustCurrentPriceRequest struct {
	ID    string `json:"id"`
	Price string `json:"price"`
}

// AdjustCurrentPriceResponse reports whether the record was found and its new state
type AdjustCurrentPriceResponse struct {
	Found  bool    `json:"found"`
	Record *Record `json:"record,omitempty"`
}

// RecallFromHistoryRequest looks up an item name in the history (case-sensitive)
type RecallFromHistoryRequest struct {
	Name string `json:"name"`
}

// RecallFromHistoryResponse is the form data remembered for a name
type RecallFromHistoryResponse struct {
	Found         bool   `json:"found"`
	Name          string `json:"name,omitempty"`
	PreviousPrice string `json:"previousPrice,omitempty"`
	Category      string `json:"category,omitempty"`
}

// ListDaysRequest filters and sorts the records of every day
type ListDaysRequest struct {
	Search string `json:"search,omitempty"`
	SortBy string `json:"sortBy,omitempty"` // name, price or difference
}

// DaySummary aggregates the visible records of one day
type DaySummary struct {
	Count          int    `json:"count"`
	Favorable      int    `json:"favorable"`
	Unfavorable    int    `json:"unfavorable"`
	Neutral        int    `json:"neutral"`
	MeanDifference string `json:"meanDifference"`
}

// DayView is one visible day, most recent first in ListDaysResponse
type DayView struct {
	Date    string     `json:"date"`
	Records []Record   `json:"records"`
	Summary DaySummary `json:"summary"`
}

// ListDaysResponse lists the visible days
type ListDaysResponse struct {
	Today string    `json:"today"`
	Days  []DayView `json:"days"`
}

// ListHistoryRequest asks for every history entry
type ListHistoryRequest struct{}

// HistoryEntry is the last known price and category of an item name
type HistoryEntry struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	LastPrice   string `json:"lastPrice"`
	LastUpdated string `json:"lastUpdated"`
}

// ListHistoryResponse lists history entries sorted by name
type ListHistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
}

// ImportLegacyRequest carries items from the legacy flat export
type ImportLegacyRequest struct {
	Items []legacy.Item `json:"items"`
}

// Rejection is a legacy item that was not imported, with the reason
type Rejection struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ImportLegacyResponse counts the outcome of an import
type ImportLegacyResponse struct {
	Imported int         `json:"imported"`
	Existing int         `json:"existing"`
	Rejected []Rejection `json:"rejected,omitempty"`
}
