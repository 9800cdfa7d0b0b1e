package store

import (
	"fmt"
	"time"

	"github.com/gartstein/contractors/internal/contractors/catalog"
	"github.com/gartstein/contractors/internal/contractors/models"
)

const unknownContractorName = "Unknown"

type ticketRequest struct {
	GroupID        string
	ContractorID   string
	ContractorName string
	SystemIDs      []string
	CreatedAt      time.Time
}

// newTicketBatch turns one access request into a parent ticket and one child
// per system id, in input order. A system missing from the catalog is shown
// by its raw id.
func newTicketBatch(req ticketRequest, ref *catalog.Catalog) models.TicketBatch {
	name := req.ContractorName
	parent := models.ParentTicket{TicketHeader: models.TicketHeader{
		ID:             req.GroupID,
		ContractorID:   req.ContractorID,
		ContractorName: name,
		Subject:        "Access request: " + name,
		Description:    fmt.Sprintf("Contractor access request for %s. Child tickets created per system.", name),
		Status:         models.TicketOpen,
		CreatedAt:      req.CreatedAt,
	}}

	children := make([]models.ChildTicket, 0, len(req.SystemIDs))
	for i, systemID := range req.SystemIDs {
		systemName := systemID
		if sys, ok := ref.TechSystem(systemID); ok {
			systemName = sys.Name
		}
		children = append(children, models.ChildTicket{
			TicketHeader: models.TicketHeader{
				ID:             fmt.Sprintf("%s-child-%d", req.GroupID, i),
				ContractorID:   req.ContractorID,
				ContractorName: name,
				Subject:        "Access: " + systemName,
				Description:    fmt.Sprintf("Request access to %s for %s.", systemName, name),
				Status:         models.TicketOpen,
				CreatedAt:      req.CreatedAt,
			},
			ParentID:   req.GroupID,
			SystemID:   systemID,
			SystemName: systemName,
		})
	}
	return models.TicketBatch{Parent: parent, Children: children}
}
