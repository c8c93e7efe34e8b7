package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName gRPC 服務全名
const ServiceName = "accounts.v1.AccountService"

// 方法名稱
const (
	MethodCreateAccount   = "CreateAccount"
	MethodGetAccount      = "GetAccount"
	MethodGetBalance      = "GetBalance"
	MethodUpdateAccount   = "UpdateAccount"
	MethodDeleteAccount   = "DeleteAccount"
	MethodChangePassword  = "ChangePassword"
	MethodCheckPassword   = "CheckPassword"
	MethodDeposit         = "Deposit"
	MethodPayment         = "Payment"
	MethodTransfer        = "Transfer"
	MethodListAccounts    = "ListAccounts"
	MethodListAccountPage = "ListAccountPage"
)

// accountServiceServer RegisterService 用來檢查實作的介面
type accountServiceServer interface {
	CreateAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetBalance(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ChangePassword(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CheckPassword(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Deposit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Payment(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Transfer(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListAccounts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListAccountPage(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(*GrpcServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*accountServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodCreateAccount, Handler: unaryHandler(MethodCreateAccount, (*GrpcServer).CreateAccount)},
		{MethodName: MethodGetAccount, Handler: unaryHandler(MethodGetAccount, (*GrpcServer).GetAccount)},
		{MethodName: MethodGetBalance, Handler: unaryHandler(MethodGetBalance, (*GrpcServer).GetBalance)},
		{MethodName: MethodUpdateAccount, Handler: unaryHandler(MethodUpdateAccount, (*GrpcServer).UpdateAccount)},
		{MethodName: MethodDeleteAccount, Handler: unaryHandler(MethodDeleteAccount, (*GrpcServer).DeleteAccount)},
		{MethodName: MethodChangePassword, Handler: unaryHandler(MethodChangePassword, (*GrpcServer).ChangePassword)},
		{MethodName: MethodCheckPassword, Handler: unaryHandler(MethodCheckPassword, (*GrpcServer).CheckPassword)},
		{MethodName: MethodDeposit, Handler: unaryHandler(MethodDeposit, (*GrpcServer).Deposit)},
		{MethodName: MethodPayment, Handler: unaryHandler(MethodPayment, (*GrpcServer).Payment)},
		{MethodName: MethodTransfer, Handler: unaryHandler(MethodTransfer, (*GrpcServer).Transfer)},
		{MethodName: MethodListAccounts, Handler: unaryHandler(MethodListAccounts, (*GrpcServer).ListAccounts)},
		{MethodName: MethodListAccountPage, Handler: unaryHandler(MethodListAccountPage, (*GrpcServer).ListAccountPage)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "accounts/v1/account_service.proto",
}

// Register 將 GrpcServer 註冊到 gRPC server
func Register(registrar grpc.ServiceRegistrar, srv *GrpcServer) {
	registrar.RegisterService(&serviceDesc, srv)
}

// unaryHandler 與 protoc-gen-go-grpc 產生的 handler 相同的流程：decode -> (interceptor) -> method
func unaryHandler(name string, method unaryMethod) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		s := srv.(*GrpcServer)
		if interceptor == nil {
			return method(s, ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + ServiceName + "/" + name,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return method(s, ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
