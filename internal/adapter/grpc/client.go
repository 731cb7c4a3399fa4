package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// Client calls the price list service over a connection, always with the JSON codec
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a client on cc
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddItem(ctx context.Context, in *AddItemRequest, opts ...grpc.CallOption) (*AddItemResponse, error) {
	return invoke[AddItemResponse](ctx, c.cc, "AddItem", in, opts)
}

func (c *Client) EditItem(ctx context.Context, in *EditItemRequest, opts ...grpc.CallOption) (*EditItemResponse, error) {
	return invoke[EditItemResponse](ctx, c.cc, "EditItem", in, opts)
}

func (c *Client) DeleteItem(ctx context.Context, in *DeleteItemRequest, opts ...grpc.CallOption) (*DeleteItemResponse, error) {
	return invoke[DeleteItemResponse](ctx, c.cc, "DeleteItem", in, opts)
}

func (c *Client) AdjustCurrentPrice(ctx context.Context, in *AdjustCurrentPriceRequest, opts ...grpc.CallOption) (*AdjustCurrentPriceResponse, error) {
	return invoke[AdjustCurrentPriceResponse](ctx, c.cc, "AdjustCurrentPrice", in, opts)
}

func (c *Client) RecallFromHistory(ctx context.Context, in *RecallFromHistoryRequest, opts ...grpc.CallOption) (*RecallFromHistoryResponse, error) {
	return invoke[RecallFromHistoryResponse](ctx, c.cc, "RecallFromHistory", in, opts)
}

func (c *Client) ListDays(ctx context.Context, in *ListDaysRequest, opts ...grpc.CallOption) (*ListDaysResponse, error) {
	return invoke[ListDaysResponse](ctx, c.cc, "ListDays", in, opts)
}

func (c *Client) ListHistory(ctx context.Context, in *ListHistoryRequest, opts ...grpc.CallOption) (*ListHistoryResponse, error) {
	return invoke[ListHistoryResponse](ctx, c.cc, "ListHistory", in, opts)
}

func (c *Client) ImportLegacy(ctx context.Context, in *ImportLegacyRequest, opts ...grpc.CallOption) (*ImportLegacyResponse, error) {
	return invoke[ImportLegacyResponse](ctx, c.cc, "ImportLegacy", in, opts)
}
