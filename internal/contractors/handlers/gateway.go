package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gartstein/contractors/internal/contractors/models"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// gateway serves the REST routes by calling the gRPC handler in process.
// Errors are gRPC statuses and are rendered by the gateway's error handler.
type gateway struct {
	h         *ContractorHandler
	mux       *runtime.ServeMux
	marshaler runtime.Marshaler
	logger    *zap.Logger
}

// NewGatewayMux builds the HTTP routes of the service.
func NewGatewayMux(h *ContractorHandler, logger *zap.Logger) (*runtime.ServeMux, error) {
	g := &gateway{
		h:         h,
		marshaler: &runtime.JSONPb{},
		logger:    logger.Named("http_gateway"),
	}
	g.mux = runtime.NewServeMux(runtime.WithErrorHandler(g.handleError))

	routes := []struct {
		method  string
		pattern string
		handle  runtime.HandlerFunc
	}{
		{http.MethodGet, "/v1/contractors", g.listContractors},
		{http.MethodPost, "/v1/contractors", g.onboardContractor},
		{http.MethodGet, "/v1/contractors/{id}", g.getContractor},
		{http.MethodPatch, "/v1/contractors/{id}", g.updateContractor},
		{http.MethodPost, "/v1/contractors/{id}/deactivate", g.deactivateContractor},
		{http.MethodPost, "/v1/contractors/{id}/tickets", g.requestAccess},
		{http.MethodGet, "/v1/contractors/{id}/tickets", g.contractorTickets},
		{http.MethodGet, "/v1/tickets", g.listTickets},
		{http.MethodGet, "/v1/activities", g.listActivities},
		{http.MethodGet, "/v1/employees", g.reference(func(r *ReferenceDataResponse) any { return r.Employees })},
		{http.MethodGet, "/v1/sites", g.reference(func(r *ReferenceDataResponse) any { return r.Sites })},
		{http.MethodGet, "/v1/systems", g.reference(func(r *ReferenceDataResponse) any { return r.TechSystems })},
		{http.MethodGet, "/v1/deactivation-reasons", g.reference(func(r *ReferenceDataResponse) any { return r.DeactivationReasons })},
		{http.MethodGet, "/v1/stats", g.stats},
	}
	for _, rt := range routes {
		if err := g.mux.HandlePath(rt.method, rt.pattern, rt.handle); err != nil {
			return nil, fmt.Errorf("register %s %s: %w", rt.method, rt.pattern, err)
		}
	}
	return g.mux, nil
}

func (g *gateway) handleError(ctx context.Context, mux *runtime.ServeMux, m runtime.Marshaler, w http.ResponseWriter, r *http.Request, err error) {
	if status.Code(err) == codes.Internal {
		g.logger.Error("Request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	runtime.DefaultHTTPErrorHandler(ctx, mux, m, w, r, err)
}

func (g *gateway) fail(w http.ResponseWriter, r *http.Request, err error) {
	runtime.HTTPError(r.Context(), g.mux, g.marshaler, w, r, err)
}

func (g *gateway) reply(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		g.logger.Warn("Failed to write response", zap.Error(err))
	}
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request body: %v", err)
	}
	return nil
}

func (g *gateway) listContractors(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	q := r.URL.Query()
	req := &ListContractorsRequest{Query: q.Get("q")}
	for _, s := range q["status"] {
		req.Statuses = append(req.Statuses, models.ContractorStatus(s))
	}
	if v := q.Get("candidates"); v != "" {
		candidates, err := strconv.ParseBool(v)
		if err != nil {
			g.fail(w, r, status.Errorf(codes.InvalidArgument, "invalid candidates flag %q", v))
			return
		}
		req.AccessCandidates = candidates
	}
	resp, err := g.h.ListContractors(r.Context(), req)
	if err != nil {
		g.fail(w, r, err)
		return
	}
	g.reply(w, http.StatusOK, resp)
}

func (g *gateway) onboardContractor(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	req := &OnboardContractorRequest{}
	if err := decodeBody(r, &req.Contractor); err != nil {
		g.fail(w, r, err)
		return
	}
	resp, err := g.h.OnboardContractor(r.Context(), req)
	if err != nil {
		g.fail(w, r, err)
		return
	}
	g.reply(w, http.StatusCreated, resp)
}

func (g *gateway) getContractor(w http.ResponseWriter, r *http.Request, params map[string]string) {
	resp, err := g.h.GetContractor(r.Context(), &GetContractorRequest{ID: params["id"]})
	if err != nil {
		g.fail(w, r, err)
		return
	}
	g.reply(w, http.StatusOK, resp)
}

func (g *gateway) updateContractor(w http.ResponseWriter, r *http.Request, params map[string]string) {
	req := &UpdateContractorRequest{ID: params["id"]}
	if err := decodeBody(r, &req.Update); err != nil {
		g.fail(w, r, err)
		return
	}
	resp, err := g.h.UpdateContractor(r.Context(), req)
	if err != nil {
		g.fail(w, r, err)
		return
	}
	g.reply(w, http.StatusOK, resp)
}

func (g *gateway) deactivateContractor(w http.ResponseWriter, r *http.Request, params map[string]string) {
	req := &DeactivateContractorRequest{}
	if err := decodeBody(r, req); err != nil {
		g.fail(w, r, err)
		return
	}
	req.ContractorID = params["id"]
	resp, err := g.h.DeactivateContractor(r.Context(), req)
	if err != nil {
		g.fail(w, r, err)
		return
	}
	g.reply(w, http.StatusOK, resp)
}

func (g *gateway) requestAccess(w http.ResponseWriter, r *http.Request, params map[string]string) {
	req := &RequestAccessRequest{}
	if err := decodeBody(r, req); err != nil {
		g.fail(w, r, err)
		return
	}
	req.ContractorID = params["id"]
	resp, err := g.h.RequestAccess(r.Context(), req)
	if err != nil {
		g.fail(w, r, err)
		return
	}
	g.reply(w, http.StatusCreated, resp)
}

func (g *gateway) contractorTickets(w http.ResponseWriter, r *http.Request, params map[string]string) {
	g.tickets(w, r, params["id"])
}

func (g *gateway) listTickets(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	g.tickets(w, r, r.URL.Query().Get("contractorId"))
}

func (g *gateway) tickets(w http.ResponseWriter, r *http.Request, contractorID string) {
	resp, err := g.h.ListTickets(r.Context(), &ListTicketsRequest{ContractorID: contractorID})
	if err != nil {
		g.fail(w, r, err)
		return
	}
	g.reply(w, http.StatusOK, resp)
}

func (g *gateway) listActivities(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	req := &ListActivitiesRequest{}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			g.fail(w, r, status.Errorf(codes.InvalidArgument, "invalid limit %q", v))
			return
		}
		req.Limit = limit
	}
	resp, err := g.h.ListActivities(r.Context(), req)
	if err != nil {
		g.fail(w, r, err)
		return
	}
	g.reply(w, http.StatusOK, resp)
}

func (g *gateway) reference(pick func(*ReferenceDataResponse) any) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		resp, err := g.h.GetReferenceData(r.Context(), &GetReferenceDataRequest{})
		if err != nil {
			g.fail(w, r, err)
			return
		}
		g.reply(w, http.StatusOK, pick(resp))
	}
}

func (g *gateway) stats(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	resp, err := g.h.GetStats(r.Context(), &GetStatsRequest{})
	if err != nil {
		g.fail(w, r, err)
		return
	}
	g.reply(w, http.StatusOK, resp)
}
