package handlers

import (
	"context"

	"google.golang.org/grpc"
)

// ContractorServiceClient calls the contractor service over a gRPC
// connection using the JSON codec.
type ContractorServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewContractorServiceClient(cc grpc.ClientConnInterface) *ContractorServiceClient {
	return &ContractorServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ContractorServiceClient) OnboardContractor(ctx context.Context, in *OnboardContractorRequest, opts ...grpc.CallOption) (*ContractorResponse, error) {
	return invoke[ContractorResponse](ctx, c.cc, "OnboardContractor", in, opts)
}

func (c *ContractorServiceClient) GetContractor(ctx context.Context, in *GetContractorRequest, opts ...grpc.CallOption) (*ContractorResponse, error) {
	return invoke[ContractorResponse](ctx, c.cc, "GetContractor", in, opts)
}

func (c *ContractorServiceClient) ListContractors(ctx context.Context, in *ListContractorsRequest, opts ...grpc.CallOption) (*ListContractorsResponse, error) {
	return invoke[ListContractorsResponse](ctx, c.cc, "ListContractors", in, opts)
}

func (c *ContractorServiceClient) UpdateContractor(ctx context.Context, in *UpdateContractorRequest, opts ...grpc.CallOption) (*ContractorResponse, error) {
	return invoke[ContractorResponse](ctx, c.cc, "UpdateContractor", in, opts)
}

func (c *ContractorServiceClient) DeactivateContractor(ctx context.Context, in *DeactivateContractorRequest, opts ...grpc.CallOption) (*DeactivateContractorResponse, error) {
	return invoke[DeactivateContractorResponse](ctx, c.cc, "DeactivateContractor", in, opts)
}

func (c *ContractorServiceClient) RequestAccess(ctx context.Context, in *RequestAccessRequest, opts ...grpc.CallOption) (*RequestAccessResponse, error) {
	return invoke[RequestAccessResponse](ctx, c.cc, "RequestAccess", in, opts)
}

func (c *ContractorServiceClient) ListTickets(ctx context.Context, in *ListTicketsRequest, opts ...grpc.CallOption) (*ListTicketsResponse, error) {
	return invoke[ListTicketsResponse](ctx, c.cc, "ListTickets", in, opts)
}

func (c *ContractorServiceClient) ListActivities(ctx context.Context, in *ListActivitiesRequest, opts ...grpc.CallOption) (*ListActivitiesResponse, error) {
	return invoke[ListActivitiesResponse](ctx, c.cc, "ListActivities", in, opts)
}

func (c *ContractorServiceClient) GetReferenceData(ctx context.Context, in *GetReferenceDataRequest, opts ...grpc.CallOption) (*ReferenceDataResponse, error) {
	return invoke[ReferenceDataResponse](ctx, c.cc, "GetReferenceData", in, opts)
}

func (c *ContractorServiceClient) GetStats(ctx context.Context, in *GetStatsRequest, opts ...grpc.CallOption) (*StatsResponse, error) {
	return invoke[StatsResponse](ctx, c.cc, "GetStats", in, opts)
}
