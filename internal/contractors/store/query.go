package store

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gartstein/contractors/internal/contractors/models"
)

// ListContractors returns the contractors matching f in insertion order.
func (s *Store) ListContractors(f models.ContractorFilter) []models.Contractor {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	statuses := mapset.NewThreadUnsafeSet(f.Statuses...)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Contractor, 0, len(s.state.contractors))
	for _, c := range s.state.contractors {
		if statuses.Cardinality() > 0 && !statuses.Contains(c.Status) {
			continue
		}
		if q != "" && !matchesQuery(c, q) {
			continue
		}
		out = append(out, c.Clone())
	}
	return out
}

func matchesQuery(c models.Contractor, q string) bool {
	for _, field := range []string{c.FirstName, c.LastName, c.Email, c.Company} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// AccessRequestCandidates returns the contractors that may receive new
// system access: those that are active or expiring.
func (s *Store) AccessRequestCandidates() []models.Contractor {
	return s.ListContractors(models.ContractorFilter{
		Statuses: []models.ContractorStatus{models.StatusActive, models.StatusExpiring},
	})
}

// TicketsForContractor returns the tickets raised for one contractor.
func (s *Store) TicketsForContractor(contractorID string) []models.ZendeskTicket {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.ZendeskTicket
	for _, t := range s.state.tickets {
		if t.Header().ContractorID == contractorID {
			out = append(out, t)
		}
	}
	return out
}

// Stats computes the dashboard counters from the current state.
func (s *Store) Stats() models.DashboardStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.DashboardStats{Total: len(s.state.contractors)}
	for _, c := range s.state.contractors {
		switch c.Status {
		case models.StatusActive:
			stats.Active++
		case models.StatusPending:
			stats.Pending++
		case models.StatusExpiring:
			stats.Expiring++
		case models.StatusInactive:
			stats.Inactive++
		}
	}
	for _, a := range s.state.activities {
		if a.Type() == models.ActivityAccessRequest {
			stats.AccessRequests++
		}
	}
	return stats
}
