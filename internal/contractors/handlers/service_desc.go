package handlers

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "contractors.v1.ContractorService"

// ContractorServiceServer is the server API of the contractor service.
type ContractorServiceServer interface {
	OnboardContractor(context.Context, *OnboardContractorRequest) (*ContractorResponse, error)
	GetContractor(context.Context, *GetContractorRequest) (*ContractorResponse, error)
	ListContractors(context.Context, *ListContractorsRequest) (*ListContractorsResponse, error)
	UpdateContractor(context.Context, *UpdateContractorRequest) (*ContractorResponse, error)
	DeactivateContractor(context.Context, *DeactivateContractorRequest) (*DeactivateContractorResponse, error)
	RequestAccess(context.Context, *RequestAccessRequest) (*RequestAccessResponse, error)
	ListTickets(context.Context, *ListTicketsRequest) (*ListTicketsResponse, error)
	ListActivities(context.Context, *ListActivitiesRequest) (*ListActivitiesResponse, error)
	GetReferenceData(context.Context, *GetReferenceDataRequest) (*ReferenceDataResponse, error)
	GetStats(context.Context, *GetStatsRequest) (*StatsResponse, error)
}

var contractorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ContractorServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("OnboardContractor", ContractorServiceServer.OnboardContractor),
		unaryMethod("GetContractor", ContractorServiceServer.GetContractor),
		unaryMethod("ListContractors", ContractorServiceServer.ListContractors),
		unaryMethod("UpdateContractor", ContractorServiceServer.UpdateContractor),
		unaryMethod("DeactivateContractor", ContractorServiceServer.DeactivateContractor),
		unaryMethod("RequestAccess", ContractorServiceServer.RequestAccess),
		unaryMethod("ListTickets", ContractorServiceServer.ListTickets),
		unaryMethod("ListActivities", ContractorServiceServer.ListActivities),
		unaryMethod("GetReferenceData", ContractorServiceServer.GetReferenceData),
		unaryMethod("GetStats", ContractorServiceServer.GetStats),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "contractors/v1/contractors.json",
}

// RegisterContractorServiceServer registers srv with a gRPC server.
func RegisterContractorServiceServer(s grpc.ServiceRegistrar, srv ContractorServiceServer) {
	s.RegisterService(&contractorServiceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// unaryMethod adapts a typed server method to a grpc.MethodDesc, running it
// through the server's interceptor chain.
func unaryMethod[Req, Resp any](
	name string,
	call func(ContractorServiceServer, context.Context, *Req) (*Resp, error),
) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ContractorServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod(name),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ContractorServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
