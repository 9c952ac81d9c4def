// Package wire holds the gRPC contract of the bridge between remote
// participants and the host: the service descriptor and the message codecs.
// Messages are well-known protobuf types, so no generated code is needed.
package wire

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName                    = "dreamweaver.Bridge"
	Bridge_Connect_FullMethodName  = "/dreamweaver.Bridge/Connect"
	Bridge_ListParticipants_Method = "/dreamweaver.Bridge/ListParticipants"
)

// BridgeServer is the server API for the Bridge service.
// Connect is a bidirectional stream of events; the first event sent by the
// client must be the handshake.
type BridgeServer interface {
	Connect(stream grpc.ServerStream) error
	ListParticipants(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
}

func RegisterBridgeServer(s grpc.ServiceRegistrar, srv BridgeServer) {
	s.RegisterService(&Bridge_ServiceDesc, srv)
}

func _Bridge_Connect_Handler(srv any, stream grpc.ServerStream) error {
	return srv.(BridgeServer).Connect(stream)
}

func _Bridge_ListParticipants_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BridgeServer).ListParticipants(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Bridge_ListParticipants_Method,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BridgeServer).ListParticipants(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// Bridge_ServiceDesc is the grpc.ServiceDesc for the Bridge service.
var Bridge_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BridgeServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListParticipants",
			Handler:    _Bridge_ListParticipants_Handler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Connect",
			Handler:       _Bridge_Connect_Handler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "dreamweaver/bridge",
}

// ConnectStreamDesc describes the Connect stream for clients.
func ConnectStreamDesc() *grpc.StreamDesc {
	return &Bridge_ServiceDesc.Streams[0]
}
