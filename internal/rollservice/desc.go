// Package rollservice exposes the dice engine over gRPC. Requests and
// responses are google.protobuf.Struct messages, so the service needs no
// generated code; ServiceDesc plays the role of the generated descriptor.
package rollservice

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "rollkit.v1.RollService"

// Method names of RollService.
const (
	MethodEvaluate          = "Evaluate"
	MethodEvaluateSimple    = "EvaluateSimple"
	MethodParse             = "Parse"
	MethodRollAbilityScores = "RollAbilityScores"
	MethodRollAttack        = "RollAttack"
	MethodRollDeathSave     = "RollDeathSave"
	MethodRollHitDie        = "RollHitDie"
	MethodRollPreset        = "RollPreset"
)

// FullMethod returns the "/service/method" path used on the wire.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// RollServiceServer is the server API for RollService.
type RollServiceServer interface {
	Evaluate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	EvaluateSimple(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Parse(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RollAbilityScores(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RollAttack(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RollDeathSave(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RollHitDie(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RollPreset(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(RollServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryMethod) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(RollServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(RollServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc is the grpc.ServiceDesc for RollService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RollServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodEvaluate, Handler: unaryHandler(MethodEvaluate, RollServiceServer.Evaluate)},
		{MethodName: MethodEvaluateSimple, Handler: unaryHandler(MethodEvaluateSimple, RollServiceServer.EvaluateSimple)},
		{MethodName: MethodParse, Handler: unaryHandler(MethodParse, RollServiceServer.Parse)},
		{MethodName: MethodRollAbilityScores, Handler: unaryHandler(MethodRollAbilityScores, RollServiceServer.RollAbilityScores)},
		{MethodName: MethodRollAttack, Handler: unaryHandler(MethodRollAttack, RollServiceServer.RollAttack)},
		{MethodName: MethodRollDeathSave, Handler: unaryHandler(MethodRollDeathSave, RollServiceServer.RollDeathSave)},
		{MethodName: MethodRollHitDie, Handler: unaryHandler(MethodRollHitDie, RollServiceServer.RollHitDie)},
		{MethodName: MethodRollPreset, Handler: unaryHandler(MethodRollPreset, RollServiceServer.RollPreset)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rollkit/v1/roll.proto",
}

// RegisterRollServiceServer registers srv on s.
func RegisterRollServiceServer(s grpc.ServiceRegistrar, srv RollServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
