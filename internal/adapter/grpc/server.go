package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/simaogato/pricelist-backend/internal/domain"
	"github.com/simaogato/pricelist-backend/internal/usecase/pricelist"
	"github.com/simaogato/pricelist-backend/internal/usecase/projection"
)

// Server implements the PriceListService gRPC server
type Server struct {
	PriceListService *pricelist.PriceListService
}

var _ PriceListServiceServer = (*Server)(nil)

// NewServer creates a new gRPC server instance
func NewServer(priceListService *pricelist.PriceListService) *Server {
	return &Server{PriceListService: priceListService}
}

// AddItem handles the AddItem RPC
func (s *Server) AddItem(ctx context.Context, req *AddItemRequest) (*AddItemResponse, error) {
	record, err := s.PriceListService.AddItem(ctx, itemInput(req.Item))
	if err != nil {
		return nil, mapError(err)
	}
	return &AddItemResponse{Record: recordToMessage(*record)}, nil
}

// EditItem handles the EditItem RPC
func (s *Server) EditItem(ctx context.Context, req *EditItemRequest) (*EditItemResponse, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	record, err := s.PriceListService.EditItem(ctx, id, itemInput(req.Item))
	if err != nil {
		return nil, mapError(err)
	}
	if record == nil {
		return &EditItemResponse{Found: false}, nil
	}

	msg := recordToMessage(*record)
	return &EditItemResponse{Found: true, Record: &msg}, nil
}

// DeleteItem handles the DeleteItem RPC
func (s *Server) DeleteItem(ctx context.Context, req *DeleteItemRequest) (*DeleteItemResponse, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	found, err := s.PriceListService.DeleteItem(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return &DeleteItemResponse{Found: found}, nil
}

// AdjustCurrentPrice handles the AdjustCurrentPrice RPC.
// The price is stored as sent; clients acting as the slider clamp it first.
func (s *Server) AdjustCurrentPrice(ctx context.Context, req *AdjustCurrentPriceRequest) (*AdjustCurrentPriceResponse, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	price, ok := domain.ParsePrice(req.Price)
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "invalid price %q", req.Price)
	}

	record, err := s.PriceListService.AdjustCurrentPrice(ctx, id, price)
	if err != nil {
		return nil, mapError(err)
	}
	if record == nil {
		return &AdjustCurrentPriceResponse{Found: false}, nil
	}

	msg := recordToMessage(*record)
	return &AdjustCurrentPriceResponse{Found: true, Record: &msg}, nil
}

// RecallFromHistory handles the RecallFromHistory RPC
func (s *Server) RecallFromHistory(ctx context.Context, req *RecallFromHistoryRequest) (*RecallFromHistoryResponse, error) {
	recall, ok := s.PriceListService.RecallFromHistory(req.Name)
	if !ok {
		return &RecallFromHistoryResponse{Found: false}, nil
	}
	return &RecallFromHistoryResponse{
		Found:         true,
		Name:          recall.Name,
		PreviousPrice: recall.PreviousPrice.String(),
		Category:      recall.Category,
	}, nil
}

// ListDays handles the ListDays RPC
func (s *Server) ListDays(ctx context.Context, req *ListDaysRequest) (*ListDaysResponse, error) {
	sortBy, err := projection.ParseSortKey(req.SortBy)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}

	views := s.PriceListService.View(projection.Query{Search: req.Search, SortBy: sortBy})

	days := make([]DayView, 0, len(views))
	for _, v := range views {
		records := make([]Record, 0, len(v.Rows))
		for _, row := range v.Rows {
			records = append(records, rowToMessage(row))
		}
		summary := projection.Summarize(v)
		days = append(days, DayView{
			Date:    v.Day.String(),
			Records: records,
			Summary: DaySummary{
				Count:          summary.Count,
				Favorable:      summary.Favorable,
				Unfavorable:    summary.Unfavorable,
				Neutral:        summary.Neutral,
				MeanDifference: summary.MeanDifference.StringFixed(1),
			},
		})
	}

	return &ListDaysResponse{Today: s.PriceListService.Today().String(), Days: days}, nil
}

// ListHistory handles the ListHistory RPC
func (s *Server) ListHistory(ctx context.Context, req *ListHistoryRequest) (*ListHistoryResponse, error) {
	entries := s.PriceListService.History()

	out := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, HistoryEntry{
			Name:        e.Name,
			Category:    e.Category,
			LastPrice:   e.LastPrice.String(),
			LastUpdated: e.LastUpdated.Format(time.RFC3339Nano),
		})
	}
	return &ListHistoryResponse{Entries: out}, nil
}

// ImportLegacy handles the ImportLegacy RPC
func (s *Server) ImportLegacy(ctx context.Context, req *ImportLegacyRequest) (*ImportLegacyResponse, error) {
	result, err := s.PriceListService.ImportLegacy(ctx, req.Items)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &ImportLegacyResponse{Imported: result.Imported, Existing: result.Existing}
	for _, r := range result.Rejected {
		resp.Rejected = append(resp.Rejected, Rejection{ID: r.ID, Name: r.Name, Reason: r.Reason})
	}
	return resp, nil
}

// Helper functions for conversion

func itemInput(f ItemFields) domain.ItemInput {
	return domain.ItemInput{
		Name:           f.Name,
		PreviousPrice:  f.PreviousPrice,
		Category:       f.Category,
		TargetPurchase: f.TargetPurchase,
	}
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid id format: %v", err)
	}
	return id, nil
}

func recordToMessage(r domain.PriceRecord) Record {
	return rowToMessage(projection.NewRow(r))
}

// rowToMessage keeps prices exact; the difference is rounded to one decimal as displayed
func rowToMessage(row projection.Row) Record {
	r := row.Record
	msg := Record{
		ID:            r.ID.String(),
		Name:          r.Name,
		PreviousPrice: r.PreviousPrice.String(),
		CurrentPrice:  r.CurrentPrice.String(),
		Category:      r.Category,
		CreatedAt:     r.CreatedAt.String(),
		Difference:    row.Difference.StringFixed(1),
		Trend:         string(row.Trend),
	}
	if r.TargetPurchase != nil {
		msg.TargetPurchase = r.TargetPurchase.String()
	}
	if r.LastPrice != nil {
		msg.LastPrice = r.LastPrice.String()
	}
	if row.UnitsToBuy != nil {
		msg.UnitsToBuy = row.UnitsToBuy.String()
	}
	return msg
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return status.Errorf(codes.InvalidArgument, "%s: %s", validationErr.Field, validationErr.Message)
	}

	var duplicateErr *domain.DuplicateNameError
	if errors.As(err, &duplicateErr) {
		return status.Errorf(codes.AlreadyExists, "%s", duplicateErr.Message)
	}

	if errors.Is(err, context.Canceled) {
		return status.Errorf(codes.Canceled, "%s", err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return status.Errorf(codes.DeadlineExceeded, "%s", err.Error())
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", err.Error())
}
