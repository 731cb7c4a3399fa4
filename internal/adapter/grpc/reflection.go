package grpc

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
	reflectionpb "google.golang.org/grpc/reflection/grpc_reflection_v1"
)

// protoServices lists the services of a server that have protobuf descriptors.
// The price list service is JSON-coded and has none, so reflection cannot describe it.
type protoServices struct {
	reflection.ServiceInfoProvider
}

func (p protoServices) GetServiceInfo() map[string]grpc.ServiceInfo {
	info := p.ServiceInfoProvider.GetServiceInfo()
	out := make(map[string]grpc.ServiceInfo, len(info))
	for name, si := range info {
		if name != ServiceName {
			out[name] = si
		}
	}
	return out
}

// RegisterReflection registers server reflection for every protobuf service on s.
// Clients call the price list service with the "json" content-subtype instead.
func RegisterReflection(s *grpc.Server) {
	reflectionpb.RegisterServerReflectionServer(s, reflection.NewServerV1(reflection.ServerOptions{
		Services: protoServices{s},
	}))
}
