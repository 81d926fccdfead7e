package hostrpc

import (
	"context"

	"google.golang.org/grpc"
)

// This file is intentionally handwritten to avoid protoc in the minimal
// reference. It defines a tiny internal gRPC contract between an
// out-of-process plugin and the host bridge: every host plugin API operation
// travels as one HostCall.

type HostCallRequest struct {
	PluginKey     string
	Method        string
	ArgsJson      []byte
	CorrelationId string
}

type HostCallResponse struct {
	Success       bool
	Message       string
	ResultJson    []byte
	CorrelationId string
}

// PluginHostService: called by plugins (client) -> host bridge (server).
type PluginHostServiceClient interface {
	HostCall(ctx context.Context, in *HostCallRequest, opts ...grpc.CallOption) (*HostCallResponse, error)
}

type pluginHostServiceClient struct{ cc grpc.ClientConnInterface }

func NewPluginHostServiceClient(cc grpc.ClientConnInterface) PluginHostServiceClient {
	return &pluginHostServiceClient{cc}
}

func (c *pluginHostServiceClient) HostCall(ctx context.Context, in *HostCallRequest, opts ...grpc.CallOption) (*HostCallResponse, error) {
	out := new(HostCallResponse)
	err := c.cc.Invoke(ctx, "/dz.bridge.PluginHostService/HostCall", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

type PluginHostServiceServer interface {
	HostCall(context.Context, *HostCallRequest) (*HostCallResponse, error)
	mustEmbedUnimplementedPluginHostServiceServer()
}

type UnimplementedPluginHostServiceServer struct{}

func (UnimplementedPluginHostServiceServer) HostCall(context.Context, *HostCallRequest) (*HostCallResponse, error) {
	return nil, grpc.Errorf(grpc.Code(grpc.ErrServerStopped), "method HostCall not implemented")
}
func (UnimplementedPluginHostServiceServer) mustEmbedUnimplementedPluginHostServiceServer() {}

func RegisterPluginHostServiceServer(s grpc.ServiceRegistrar, srv PluginHostServiceServer) {
	s.RegisterService(&grpc.ServiceDesc{
		ServiceName: "dz.bridge.PluginHostService",
		HandlerType: (*PluginHostServiceServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "HostCall",
				Handler: func(_ interface{}, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
					in := new(HostCallRequest)
					if err := dec(in); err != nil {
						return nil, err
					}
					return srv.HostCall(ctx, in)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "dz_bridge.proto",
	}, srv)
}
