package handlers

import (
	"github.com/gartstein/contractors/internal/contractors/models"
)

type OnboardContractorRequest struct {
	Contractor models.NewContractor `json:"contractor"`
}

type ContractorResponse struct {
	Contractor models.Contractor `json:"contractor"`
}

type GetContractorRequest struct {
	ID string `json:"id"`
}

type ListContractorsRequest struct {
	Query    string                    `json:"query,omitempty"`
	Statuses []models.ContractorStatus `json:"statuses,omitempty"`
	// AccessCandidates restricts the listing to contractors that may
	// request system access; Query and Statuses are then ignored.
	AccessCandidates bool `json:"accessCandidates,omitempty"`
}

type ListContractorsResponse struct {
	Contractors []models.Contractor `json:"contractors"`
}

type UpdateContractorRequest struct {
	ID     string                  `json:"id"`
	Update models.ContractorUpdate `json:"update"`
}

type DeactivateContractorRequest struct {
	ContractorID   string `json:"contractorId"`
	ReasonID       string `json:"reasonId"`
	Notes          string `json:"notes,omitempty"`
	ContractorName string `json:"contractorName,omitempty"`
}

type DeactivateContractorResponse struct {
	Contractor models.Contractor   `json:"contractor"`
	Activity   models.ActivityItem `json:"activity"`
}

type RequestAccessRequest struct {
	ContractorID string   `json:"contractorId"`
	SystemIDs    []string `json:"systemIds"`
}

type RequestAccessResponse struct {
	Tickets models.TicketBatch `json:"tickets"`
}

type ListTicketsRequest struct {
	ContractorID string `json:"contractorId,omitempty"`
}

type ListTicketsResponse struct {
	Tickets models.TicketList `json:"tickets"`
}

type ListActivitiesRequest struct {
	Limit int `json:"limit,omitempty"`
}

type ListActivitiesResponse struct {
	Activities []models.ActivityItem `json:"activities"`
}

type GetReferenceDataRequest struct{}

type ReferenceDataResponse struct {
	Employees           []models.Employee           `json:"employees"`
	Sites               []models.Site               `json:"sites"`
	TechSystems         []models.TechSystem         `json:"techSystems"`
	DeactivationReasons []models.DeactivationReason `json:"deactivationReasons"`
}

type GetStatsRequest struct{}

type StatsResponse struct {
	Stats models.DashboardStats `json:"stats"`
}
