package store

import (
	"github.com/gartstein/contractors/internal/contractors/catalog"
	"github.com/gartstein/contractors/internal/contractors/models"
)

// Denormalize attaches the reference objects named by c's foreign keys:
// the supervisor from SupervisorID, each assignment's site and each grant's
// system. An id missing from the catalog keeps whatever object was attached
// before; an empty SupervisorID clears the supervisor. The input is not
// modified and applying Denormalize twice equals applying it once.
func Denormalize(c models.Contractor, ref *catalog.Catalog) models.Contractor {
	out := c.Clone()

	if out.SupervisorID == "" {
		out.Supervisor = nil
	} else if e, ok := ref.Employee(out.SupervisorID); ok {
		out.Supervisor = e
	}

	for i := range out.SiteAssignments {
		if site, ok := ref.Site(out.SiteAssignments[i].SiteID); ok {
			out.SiteAssignments[i].Site = site
		}
	}
	for i := range out.SystemAccess {
		if sys, ok := ref.TechSystem(out.SystemAccess[i].SystemID); ok {
			out.SystemAccess[i].System = sys
		}
	}
	return out
}
