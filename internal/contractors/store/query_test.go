package store

import (
	"testing"

	"github.com/gartstein/contractors/internal/contractors/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractorIDs(list []models.Contractor) []string {
	ids := make([]string, len(list))
	for i, c := range list {
		ids[i] = c.ID
	}
	return ids
}

func TestListContractors(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name   string
		filter models.ContractorFilter
		want   []string
	}{
		{name: "no filter", want: []string{"c1", "c2", "c3", "c4", "c5"}},
		{name: "last name, any case", filter: models.ContractorFilter{Query: "SMITH"}, want: []string{"c1"}},
		{name: "email domain", filter: models.ContractorFilter{Query: "vendor.com"}, want: []string{"c2"}},
		{name: "company", filter: models.ContractorFilter{Query: " temp staff "}, want: []string{"c3"}},
		{
			name:   "statuses",
			filter: models.ContractorFilter{Statuses: []models.ContractorStatus{models.StatusPending, models.StatusInactive}},
			want:   []string{"c4", "c5"},
		},
		{
			name: "query and status",
			filter: models.ContractorFilter{
				Query:    "vendor",
				Statuses: []models.ContractorStatus{models.StatusInactive},
			},
			want: []string{"c5"},
		},
		{name: "nothing matches", filter: models.ContractorFilter{Query: "zzz"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, contractorIDs(s.ListContractors(tt.filter)))
		})
	}
}

func TestAccessRequestCandidates(t *testing.T) {
	s := newTestStore(t)

	assert.Equal(t, []string{"c1", "c2", "c3"}, contractorIDs(s.AccessRequestCandidates()))

	s.DeactivateContractor(models.Deactivation{ContractorID: "c2", ReasonID: "reason3"})
	assert.Equal(t, []string{"c1", "c3"}, contractorIDs(s.AccessRequestCandidates()))
}

func TestTicketsForContractor(t *testing.T) {
	s := newTestStore(t)
	s.CreateZendeskTickets("c1", []string{"sys1"})
	s.CreateZendeskTickets("c2", []string{"sys2", "sys4"})

	c2 := s.TicketsForContractor("c2")
	require.Len(t, c2, 3)
	for _, tk := range c2 {
		assert.Equal(t, "c2", tk.Header().ContractorID)
	}
	assert.Empty(t, s.TicketsForContractor("c5"))
}

func TestStats(t *testing.T) {
	s := newTestStore(t)

	assert.Equal(t, models.DashboardStats{
		Total: 5, Active: 2, Pending: 1, Expiring: 1, Inactive: 1, AccessRequests: 1,
	}, s.Stats())

	s.AddContractor(onboardingPayload())
	s.DeactivateContractor(models.Deactivation{ContractorID: "c4", ReasonID: "reason1"})
	s.CreateZendeskTickets("c1", []string{"sys2"})

	assert.Equal(t, models.DashboardStats{
		Total: 6, Active: 3, Pending: 0, Expiring: 1, Inactive: 2, AccessRequests: 2,
	}, s.Stats())
}
