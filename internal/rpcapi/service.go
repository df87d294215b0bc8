// Package rpcapi describes the healthkeeper.v1.HealthRecords gRPC service.
// Requests and responses are google.protobuf.Struct messages; the helpers in
// this package convert them to and from the server models.
package rpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "healthkeeper.v1.HealthRecords"

const (
	LoginMethod         = "/" + ServiceName + "/Login"
	GetProfileMethod    = "/" + ServiceName + "/GetProfile"
	UpdateProfileMethod = "/" + ServiceName + "/UpdateProfile"
	ListFilesMethod     = "/" + ServiceName + "/ListFiles"
	DeleteFileMethod    = "/" + ServiceName + "/DeleteFile"
)

// HealthRecordsServer is implemented by the server side of the service.
type HealthRecordsServer interface {
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProfile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateProfile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListFiles(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteFile(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type call func(HealthRecordsServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, fn call) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return fn(srv.(HealthRecordsServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return fn(srv.(HealthRecordsServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*HealthRecordsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Login", Handler: unaryHandler(LoginMethod, HealthRecordsServer.Login)},
		{MethodName: "GetProfile", Handler: unaryHandler(GetProfileMethod, HealthRecordsServer.GetProfile)},
		{MethodName: "UpdateProfile", Handler: unaryHandler(UpdateProfileMethod, HealthRecordsServer.UpdateProfile)},
		{MethodName: "ListFiles", Handler: unaryHandler(ListFilesMethod, HealthRecordsServer.ListFiles)},
		{MethodName: "DeleteFile", Handler: unaryHandler(DeleteFileMethod, HealthRecordsServer.DeleteFile)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "healthkeeper/v1/health_records.proto",
}

func RegisterHealthRecordsServer(s grpc.ServiceRegistrar, srv HealthRecordsServer) {
	s.RegisterService(&ServiceDesc, srv)
}
