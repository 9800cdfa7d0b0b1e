package handlers

import (
	"context"
	"errors"
	"fmt"
	"testing"

	e "github.com/gartstein/contractors/internal/contractors/errors"
	"github.com/gartstein/contractors/internal/contractors/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// mockContractorController is a simple mock implementation of ContractorController.
type mockContractorController struct {
	onboardFunc    func(ctx context.Context, p models.NewContractor) (models.Contractor, error)
	getFunc        func(ctx context.Context, id string) (models.Contractor, error)
	listFunc       func(ctx context.Context, f models.ContractorFilter) ([]models.Contractor, error)
	candidatesFunc func(ctx context.Context) []models.Contractor
	updateFunc     func(ctx context.Context, id string, u models.ContractorUpdate) (models.Contractor, error)
	deactivateFunc func(ctx context.Context, d models.Deactivation) (models.Contractor, models.ActivityItem, error)
	requestFunc    func(ctx context.Context, contractorID string, systemIDs []string) (models.TicketBatch, error)
	ticketsFunc    func(ctx context.Context, contractorID string) []models.ZendeskTicket
	activitiesFunc func(ctx context.Context, limit int) ([]models.ActivityItem, error)
}

func (m *mockContractorController) OnboardContractor(ctx context.Context, p models.NewContractor) (models.Contractor, error) {
	return m.onboardFunc(ctx, p)
}

func (m *mockContractorController) GetContractor(ctx context.Context, id string) (models.Contractor, error) {
	return m.getFunc(ctx, id)
}

func (m *mockContractorController) ListContractors(ctx context.Context, f models.ContractorFilter) ([]models.Contractor, error) {
	return m.listFunc(ctx, f)
}

func (m *mockContractorController) AccessRequestCandidates(ctx context.Context) []models.Contractor {
	return m.candidatesFunc(ctx)
}

func (m *mockContractorController) UpdateContractor(ctx context.Context, id string, u models.ContractorUpdate) (models.Contractor, error) {
	return m.updateFunc(ctx, id, u)
}

func (m *mockContractorController) DeactivateContractor(ctx context.Context, d models.Deactivation) (models.Contractor, models.ActivityItem, error) {
	return m.deactivateFunc(ctx, d)
}

func (m *mockContractorController) RequestAccess(ctx context.Context, contractorID string, systemIDs []string) (models.TicketBatch, error) {
	return m.requestFunc(ctx, contractorID, systemIDs)
}

func (m *mockContractorController) ListTickets(ctx context.Context, contractorID string) []models.ZendeskTicket {
	return m.ticketsFunc(ctx, contractorID)
}

func (m *mockContractorController) ListActivities(ctx context.Context, limit int) ([]models.ActivityItem, error) {
	return m.activitiesFunc(ctx, limit)
}

func (m *mockContractorController) Employees(context.Context) []models.Employee {
	return []models.Employee{{ID: "e1"}}
}

func (m *mockContractorController) Sites(context.Context) []models.Site {
	return []models.Site{{ID: "s1"}}
}

func (m *mockContractorController) TechSystems(context.Context) []models.TechSystem {
	return []models.TechSystem{{ID: "sys1"}}
}

func (m *mockContractorController) DeactivationReasons(context.Context) []models.DeactivationReason {
	return []models.DeactivationReason{{ID: "reason1"}}
}

func (m *mockContractorController) Stats(context.Context) models.DashboardStats {
	return models.DashboardStats{Total: 7}
}

func TestContractorHandler_OnboardContractor(t *testing.T) {
	logger := zaptest.NewLogger(t)

	t.Run("InvalidInput", func(t *testing.T) {
		handler := NewContractorHandler(&mockContractorController{
			onboardFunc: func(context.Context, models.NewContractor) (models.Contractor, error) {
				return models.Contractor{}, fmt.Errorf("%w: unknown supervisor", e.ErrInvalidInput)
			},
		}, logger)

		_, err := handler.OnboardContractor(context.Background(), &OnboardContractorRequest{})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("ServiceError", func(t *testing.T) {
		handler := NewContractorHandler(&mockContractorController{
			onboardFunc: func(context.Context, models.NewContractor) (models.Contractor, error) {
				return models.Contractor{}, errors.New("service error")
			},
		}, logger)

		_, err := handler.OnboardContractor(context.Background(), &OnboardContractorRequest{})
		// mapServiceError maps unknown errors to Internal.
		assert.Equal(t, codes.Internal, status.Code(err))
	})

	t.Run("Success", func(t *testing.T) {
		handler := NewContractorHandler(&mockContractorController{
			onboardFunc: func(_ context.Context, p models.NewContractor) (models.Contractor, error) {
				return models.Contractor{ID: "c-1", FirstName: p.FirstName}, nil
			},
		}, logger)

		resp, err := handler.OnboardContractor(context.Background(), &OnboardContractorRequest{
			Contractor: models.NewContractor{FirstName: "Grace"},
		})
		require.NoError(t, err)
		assert.Equal(t, "c-1", resp.Contractor.ID)
		assert.Equal(t, "Grace", resp.Contractor.FirstName)
	})
}

func TestContractorHandler_GetContractor(t *testing.T) {
	logger := zaptest.NewLogger(t)
	handler := NewContractorHandler(&mockContractorController{
		getFunc: func(_ context.Context, id string) (models.Contractor, error) {
			if id == "c1" {
				return models.Contractor{ID: "c1"}, nil
			}
			return models.Contractor{}, fmt.Errorf("contractor %q: %w", id, e.ErrNotFound)
		},
	}, logger)

	_, err := handler.GetContractor(context.Background(), &GetContractorRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = handler.GetContractor(context.Background(), &GetContractorRequest{ID: "c9"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	resp, err := handler.GetContractor(context.Background(), &GetContractorRequest{ID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "c1", resp.Contractor.ID)
}

func TestContractorHandler_ListContractors(t *testing.T) {
	var gotFilter models.ContractorFilter
	handler := NewContractorHandler(&mockContractorController{
		listFunc: func(_ context.Context, f models.ContractorFilter) ([]models.Contractor, error) {
			gotFilter = f
			return []models.Contractor{{ID: "c1"}}, nil
		},
		candidatesFunc: func(context.Context) []models.Contractor {
			return []models.Contractor{{ID: "c2"}, {ID: "c3"}}
		},
	}, zaptest.NewLogger(t))

	resp, err := handler.ListContractors(context.Background(), &ListContractorsRequest{
		Query:    "smith",
		Statuses: []models.ContractorStatus{models.StatusActive},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Contractors, 1)
	assert.Equal(t, models.ContractorFilter{Query: "smith", Statuses: []models.ContractorStatus{models.StatusActive}}, gotFilter)

	resp, err = handler.ListContractors(context.Background(), &ListContractorsRequest{AccessCandidates: true})
	require.NoError(t, err)
	assert.Len(t, resp.Contractors, 2)
}

func TestContractorHandler_UpdateContractor(t *testing.T) {
	handler := NewContractorHandler(&mockContractorController{
		updateFunc: func(_ context.Context, id string, _ models.ContractorUpdate) (models.Contractor, error) {
			return models.Contractor{ID: id, Phone: "new"}, nil
		},
	}, zaptest.NewLogger(t))

	_, err := handler.UpdateContractor(context.Background(), &UpdateContractorRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	resp, err := handler.UpdateContractor(context.Background(), &UpdateContractorRequest{ID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "new", resp.Contractor.Phone)
}

func TestContractorHandler_DeactivateContractor(t *testing.T) {
	var got models.Deactivation
	handler := NewContractorHandler(&mockContractorController{
		deactivateFunc: func(_ context.Context, d models.Deactivation) (models.Contractor, models.ActivityItem, error) {
			got = d
			return models.Contractor{ID: d.ContractorID, Status: models.StatusInactive},
				models.ActivityItem{ID: "a-1", Detail: models.DeactivateDetail{ReasonID: d.ReasonID}}, nil
		},
	}, zaptest.NewLogger(t))

	resp, err := handler.DeactivateContractor(context.Background(), &DeactivateContractorRequest{
		ContractorID:   "c4",
		ReasonID:       "reason1",
		Notes:          "done",
		ContractorName: "Anna Martinez",
	})
	require.NoError(t, err)
	assert.Equal(t, models.Deactivation{ContractorID: "c4", ReasonID: "reason1", Notes: "done", ContractorName: "Anna Martinez"}, got)
	assert.Equal(t, models.StatusInactive, resp.Contractor.Status)
	assert.Equal(t, "a-1", resp.Activity.ID)
}

func TestContractorHandler_RequestAccess(t *testing.T) {
	handler := NewContractorHandler(&mockContractorController{
		requestFunc: func(_ context.Context, contractorID string, systemIDs []string) (models.TicketBatch, error) {
			if len(systemIDs) == 0 {
				return models.TicketBatch{}, fmt.Errorf("%w: at least one system is required", e.ErrInvalidInput)
			}
			return models.TicketBatch{Parent: models.ParentTicket{TicketHeader: models.TicketHeader{ID: "zd-1", ContractorID: contractorID}}}, nil
		},
	}, zaptest.NewLogger(t))

	_, err := handler.RequestAccess(context.Background(), &RequestAccessRequest{ContractorID: "c1"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	resp, err := handler.RequestAccess(context.Background(), &RequestAccessRequest{ContractorID: "c1", SystemIDs: []string{"sys1"}})
	require.NoError(t, err)
	assert.Equal(t, "zd-1", resp.Tickets.Parent.ID)
}

func TestContractorHandler_Listings(t *testing.T) {
	handler := NewContractorHandler(&mockContractorController{
		ticketsFunc: func(context.Context, string) []models.ZendeskTicket { return nil },
		activitiesFunc: func(_ context.Context, limit int) ([]models.ActivityItem, error) {
			if limit < 0 {
				return nil, fmt.Errorf("%w: negative limit", e.ErrInvalidInput)
			}
			return []models.ActivityItem{{ID: "a1"}}, nil
		},
	}, zaptest.NewLogger(t))
	ctx := context.Background()

	tickets, err := handler.ListTickets(ctx, &ListTicketsRequest{})
	require.NoError(t, err)
	assert.NotNil(t, tickets.Tickets, "empty listings encode as []")

	activities, err := handler.ListActivities(ctx, &ListActivitiesRequest{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, activities.Activities, 1)
	_, err = handler.ListActivities(ctx, &ListActivitiesRequest{Limit: -1})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	ref, err := handler.GetReferenceData(ctx, &GetReferenceDataRequest{})
	require.NoError(t, err)
	assert.Len(t, ref.Employees, 1)
	assert.Len(t, ref.DeactivationReasons, 1)

	stats, err := handler.GetStats(ctx, &GetStatsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 7, stats.Stats.Total)
}

func TestContractorHandler_MapServiceError(t *testing.T) {
	handler := NewContractorHandler(&mockContractorController{}, zaptest.NewLogger(t))

	tests := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"not found", fmt.Errorf("contractor %q: %w", "x", e.ErrNotFound), codes.NotFound},
		{"invalid input", fmt.Errorf("%w: bad", e.ErrInvalidInput), codes.InvalidArgument},
		{"canceled", context.Canceled, codes.Canceled},
		{"deadline", fmt.Errorf("wrapped: %w", context.DeadlineExceeded), codes.DeadlineExceeded},
		{"other", errors.New("boom"), codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, status.Code(handler.mapServiceError(tt.err)))
		})
	}
}
