package ldpapi

import (
	"context"

	"google.golang.org/grpc"
)

// LdpApiServer is the interface a northbound server implements, mirroring
// the teacher's PceServiceServer shape (pcep package, generated code not
// present in this tree).
type LdpApiServer interface {
	GetPeers(context.Context, *Empty) (*GetPeersResponse, error)
	GetFecs(context.Context, *Empty) (*GetFecsResponse, error)
	GetBindings(context.Context, *GetBindingsRequest) (*GetBindingsResponse, error)
}

func RegisterLdpApiServer(s *grpc.Server, srv LdpApiServer) {
	s.RegisterService(&_LdpApi_serviceDesc, srv)
}

func _LdpApi_GetPeers_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LdpApiServer).GetPeers(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/ldpapi.LdpApi/GetPeers"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LdpApiServer).GetPeers(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _LdpApi_GetFecs_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LdpApiServer).GetFecs(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/ldpapi.LdpApi/GetFecs"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LdpApiServer).GetFecs(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _LdpApi_GetBindings_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetBindingsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LdpApiServer).GetBindings(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/ldpapi.LdpApi/GetBindings"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LdpApiServer).GetBindings(ctx, req.(*GetBindingsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var _LdpApi_serviceDesc = grpc.ServiceDesc{
	ServiceName: "ldpapi.LdpApi",
	HandlerType: (*LdpApiServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetPeers", Handler: _LdpApi_GetPeers_Handler},
		{MethodName: "GetFecs", Handler: _LdpApi_GetFecs_Handler},
		{MethodName: "GetBindings", Handler: _LdpApi_GetBindings_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ldpapi.proto",
}

// LdpApiClient is the client stub, mirroring the teacher's client/client.go
// usage of the generated PceServiceClient.
type LdpApiClient interface {
	GetPeers(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*GetPeersResponse, error)
	GetFecs(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*GetFecsResponse, error)
	GetBindings(ctx context.Context, in *GetBindingsRequest, opts ...grpc.CallOption) (*GetBindingsResponse, error)
}

type ldpApiClient struct {
	cc *grpc.ClientConn
}

func NewLdpApiClient(cc *grpc.ClientConn) LdpApiClient {
	return &ldpApiClient{cc}
}

func (c *ldpApiClient) GetPeers(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*GetPeersResponse, error) {
	out := new(GetPeersResponse)
	err := c.cc.Invoke(ctx, "/ldpapi.LdpApi/GetPeers", in, out, opts...)
	return out, err
}

func (c *ldpApiClient) GetFecs(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*GetFecsResponse, error) {
	out := new(GetFecsResponse)
	err := c.cc.Invoke(ctx, "/ldpapi.LdpApi/GetFecs", in, out, opts...)
	return out, err
}

func (c *ldpApiClient) GetBindings(ctx context.Context, in *GetBindingsRequest, opts ...grpc.CallOption) (*GetBindingsResponse, error) {
	out := new(GetBindingsResponse)
	err := c.cc.Invoke(ctx, "/ldpapi.LdpApi/GetBindings", in, out, opts...)
	return out, err
}
