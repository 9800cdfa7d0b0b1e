// Package handlers exposes the contractor service over gRPC and HTTP,
// translating between transport messages and the service layer.
package handlers

import (
	"context"
	"errors"
	"fmt"

	e "github.com/gartstein/contractors/internal/contractors/errors"
	"github.com/gartstein/contractors/internal/contractors/models"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ContractorController defines the business logic interface
// that the gRPC/HTTP handlers will invoke.
type ContractorController interface {
	OnboardContractor(ctx context.Context, p models.NewContractor) (models.Contractor, error)
	GetContractor(ctx context.Context, id string) (models.Contractor, error)
	ListContractors(ctx context.Context, f models.ContractorFilter) ([]models.Contractor, error)
	AccessRequestCandidates(ctx context.Context) []models.Contractor
	UpdateContractor(ctx context.Context, id string, u models.ContractorUpdate) (models.Contractor, error)
	DeactivateContractor(ctx context.Context, d models.Deactivation) (models.Contractor, models.ActivityItem, error)
	RequestAccess(ctx context.Context, contractorID string, systemIDs []string) (models.TicketBatch, error)
	ListTickets(ctx context.Context, contractorID string) []models.ZendeskTicket
	ListActivities(ctx context.Context, limit int) ([]models.ActivityItem, error)
	Employees(ctx context.Context) []models.Employee
	Sites(ctx context.Context) []models.Site
	TechSystems(ctx context.Context) []models.TechSystem
	DeactivationReasons(ctx context.Context) []models.DeactivationReason
	Stats(ctx context.Context) models.DashboardStats
}

// ContractorHandler implements ContractorServiceServer on top of a
// ContractorController.
type ContractorHandler struct {
	service ContractorController
	logger  *zap.Logger
}

var _ ContractorServiceServer = (*ContractorHandler)(nil)

// NewContractorHandler constructs a new ContractorHandler with the given service and logger.
func NewContractorHandler(service ContractorController, logger *zap.Logger) *ContractorHandler {
	return &ContractorHandler{
		service: service,
		logger:  logger.Named("grpc_handler"),
	}
}

func (h *ContractorHandler) OnboardContractor(ctx context.Context, req *OnboardContractorRequest) (*ContractorResponse, error) {
	created, err := h.service.OnboardContractor(ctx, req.Contractor)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return &ContractorResponse{Contractor: created}, nil
}

func (h *ContractorHandler) GetContractor(ctx context.Context, req *GetContractorRequest) (*ContractorResponse, error) {
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "contractor id required")
	}
	c, err := h.service.GetContractor(ctx, req.ID)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return &ContractorResponse{Contractor: c}, nil
}

func (h *ContractorHandler) ListContractors(ctx context.Context, req *ListContractorsRequest) (*ListContractorsResponse, error) {
	if req.AccessCandidates {
		return &ListContractorsResponse{Contractors: h.service.AccessRequestCandidates(ctx)}, nil
	}
	list, err := h.service.ListContractors(ctx, models.ContractorFilter{
		Query:    req.Query,
		Statuses: req.Statuses,
	})
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return &ListContractorsResponse{Contractors: list}, nil
}

func (h *ContractorHandler) UpdateContractor(ctx context.Context, req *UpdateContractorRequest) (*ContractorResponse, error) {
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "contractor id required")
	}
	updated, err := h.service.UpdateContractor(ctx, req.ID, req.Update)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return &ContractorResponse{Contractor: updated}, nil
}

func (h *ContractorHandler) DeactivateContractor(ctx context.Context, req *DeactivateContractorRequest) (*DeactivateContractorResponse, error) {
	updated, activity, err := h.service.DeactivateContractor(ctx, models.Deactivation{
		ContractorID:   req.ContractorID,
		ReasonID:       req.ReasonID,
		Notes:          req.Notes,
		ContractorName: req.ContractorName,
	})
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return &DeactivateContractorResponse{Contractor: updated, Activity: activity}, nil
}

func (h *ContractorHandler) RequestAccess(ctx context.Context, req *RequestAccessRequest) (*RequestAccessResponse, error) {
	batch, err := h.service.RequestAccess(ctx, req.ContractorID, req.SystemIDs)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return &RequestAccessResponse{Tickets: batch}, nil
}

func (h *ContractorHandler) ListTickets(ctx context.Context, req *ListTicketsRequest) (*ListTicketsResponse, error) {
	tickets := h.service.ListTickets(ctx, req.ContractorID)
	if tickets == nil {
		tickets = []models.ZendeskTicket{}
	}
	return &ListTicketsResponse{Tickets: tickets}, nil
}

func (h *ContractorHandler) ListActivities(ctx context.Context, req *ListActivitiesRequest) (*ListActivitiesResponse, error) {
	items, err := h.service.ListActivities(ctx, req.Limit)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return &ListActivitiesResponse{Activities: items}, nil
}

func (h *ContractorHandler) GetReferenceData(ctx context.Context, _ *GetReferenceDataRequest) (*ReferenceDataResponse, error) {
	return &ReferenceDataResponse{
		Employees:           h.service.Employees(ctx),
		Sites:               h.service.Sites(ctx),
		TechSystems:         h.service.TechSystems(ctx),
		DeactivationReasons: h.service.DeactivationReasons(ctx),
	}, nil
}

func (h *ContractorHandler) GetStats(ctx context.Context, _ *GetStatsRequest) (*StatsResponse, error) {
	return &StatsResponse{Stats: h.service.Stats(ctx)}, nil
}

// mapServiceError maps domain errors to appropriate gRPC status codes.
func (h *ContractorHandler) mapServiceError(err error) error {
	switch {
	case errors.Is(err, e.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, e.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		h.logger.Error("Internal server error", zap.Error(err))
		return status.Error(codes.Internal, fmt.Sprintf("internal server error: %v", err))
	}
}
