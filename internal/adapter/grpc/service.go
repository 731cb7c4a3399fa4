package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "pricelist.v1.PriceListService"

// PriceListServiceServer is the server API for the price list service
type PriceListServiceServer interface {
	AddItem(context.Context, *AddItemRequest) (*AddItemResponse, error)
	EditItem(context.Context, *EditItemRequest) (*EditItemResponse, error)
	DeleteItem(context.Context, *DeleteItemRequest) (*DeleteItemResponse, error)
	AdjustCurrentPrice(context.Context, *AdjustCurrentPriceRequest) (*AdjustCurrentPriceResponse, error)
	RecallFromHistory(context.Context, *RecallFromHistoryRequest) (*RecallFromHistoryResponse, error)
	ListDays(context.Context, *ListDaysRequest) (*ListDaysResponse, error)
	ListHistory(context.Context, *ListHistoryRequest) (*ListHistoryResponse, error)
	ImportLegacy(context.Context, *ImportLegacyRequest) (*ImportLegacyResponse, error)
}

// PriceListServiceDesc describes the service for grpc.Server.RegisterService
var PriceListServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PriceListServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("AddItem", PriceListServiceServer.AddItem),
		unary("EditItem", PriceListServiceServer.EditItem),
		unary("DeleteItem", PriceListServiceServer.DeleteItem),
		unary("AdjustCurrentPrice", PriceListServiceServer.AdjustCurrentPrice),
		unary("RecallFromHistory", PriceListServiceServer.RecallFromHistory),
		unary("ListDays", PriceListServiceServer.ListDays),
		unary("ListHistory", PriceListServiceServer.ListHistory),
		unary("ImportLegacy", PriceListServiceServer.ImportLegacy),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pricelist/v1/pricelist",
}

// RegisterPriceListServiceServer registers srv on s
func RegisterPriceListServiceServer(s grpc.ServiceRegistrar, srv PriceListServiceServer) {
	s.RegisterService(&PriceListServiceDesc, srv)
}

// FullMethod returns the "/service/method" path of a method
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unary[Req, Resp any](method string, call func(PriceListServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(PriceListServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(method),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(PriceListServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
