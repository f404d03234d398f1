package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "fraudguard.v1.FraudService"

	methodEvaluate = "/" + ServiceName + "/EvaluateTransaction"
	methodGet      = "/" + ServiceName + "/GetTransaction"
	methodGenerate = "/" + ServiceName + "/GenerateTransaction"
)

// FraudServiceServer is the server API of fraudguard.v1.FraudService. Messages are
// google.protobuf.Struct so no generated code is needed.
type FraudServiceServer interface {
	EvaluateTransaction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetTransaction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GenerateTransaction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

func RegisterFraudServiceServer(s grpc.ServiceRegistrar, srv FraudServiceServer) {
	s.RegisterService(&FraudServiceDesc, srv)
}

var FraudServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FraudServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "EvaluateTransaction", Handler: unaryHandler(methodEvaluate, FraudServiceServer.EvaluateTransaction)},
		{MethodName: "GetTransaction", Handler: unaryHandler(methodGet, FraudServiceServer.GetTransaction)},
		{MethodName: "GenerateTransaction", Handler: unaryHandler(methodGenerate, FraudServiceServer.GenerateTransaction)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fraudguard/v1/fraud.proto",
}

type unaryMethod func(FraudServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(FraudServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(FraudServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// FraudServiceClient calls fraudguard.v1.FraudService.
type FraudServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewFraudServiceClient(cc grpc.ClientConnInterface) *FraudServiceClient {
	return &FraudServiceClient{cc: cc}
}

func (c *FraudServiceClient) EvaluateTransaction(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodEvaluate, in, opts)
}

func (c *FraudServiceClient) GetTransaction(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodGet, in, opts)
}

func (c *FraudServiceClient) GenerateTransaction(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodGenerate, in, opts)
}

func (c *FraudServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
