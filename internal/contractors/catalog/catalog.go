// Package catalog holds the read-only reference data of the console
// (employees, sites, tech systems, deactivation reasons) and the seed
// document the store is initialised from.
package catalog

import (
	"github.com/gartstein/contractors/internal/contractors/models"
)

// Catalog is immutable after construction and safe for concurrent use.
// Pointers returned by the lookup methods refer to the catalog's own
// entries and must not be modified.
type Catalog struct {
	employees []models.Employee
	sites     []models.Site
	systems   []models.TechSystem
	reasons   []models.DeactivationReason

	employeesByID map[string]*models.Employee
	sitesByID     map[string]*models.Site
	systemsByID   map[string]*models.TechSystem
	reasonsByID   map[string]*models.DeactivationReason
}

// New builds a Catalog from the given lists. The lists are copied; later
// entries with a duplicate id shadow earlier ones in lookups.
func New(
	employees []models.Employee,
	sites []models.Site,
	systems []models.TechSystem,
	reasons []models.DeactivationReason,
) *Catalog {
	c := &Catalog{
		employees:     append([]models.Employee(nil), employees...),
		sites:         append([]models.Site(nil), sites...),
		systems:       make([]models.TechSystem, len(systems)),
		reasons:       append([]models.DeactivationReason(nil), reasons...),
		employeesByID: make(map[string]*models.Employee, len(employees)),
		sitesByID:     make(map[string]*models.Site, len(sites)),
		systemsByID:   make(map[string]*models.TechSystem, len(systems)),
		reasonsByID:   make(map[string]*models.DeactivationReason, len(reasons)),
	}
	for i, s := range systems {
		s.AccessLevels = append([]string(nil), s.AccessLevels...)
		c.systems[i] = s
	}

	for i := range c.employees {
		c.employeesByID[c.employees[i].ID] = &c.employees[i]
	}
	for i := range c.sites {
		c.sitesByID[c.sites[i].ID] = &c.sites[i]
	}
	for i := range c.systems {
		c.systemsByID[c.systems[i].ID] = &c.systems[i]
	}
	for i := range c.reasons {
		c.reasonsByID[c.reasons[i].ID] = &c.reasons[i]
	}
	return c
}

func (c *Catalog) Employee(id string) (*models.Employee, bool) {
	e, ok := c.employeesByID[id]
	return e, ok
}

func (c *Catalog) Site(id string) (*models.Site, bool) {
	s, ok := c.sitesByID[id]
	return s, ok
}

func (c *Catalog) TechSystem(id string) (*models.TechSystem, bool) {
	s, ok := c.systemsByID[id]
	return s, ok
}

func (c *Catalog) DeactivationReason(id string) (*models.DeactivationReason, bool) {
	r, ok := c.reasonsByID[id]
	return r, ok
}

// Employees returns the employee catalog in declaration order.
func (c *Catalog) Employees() []models.Employee {
	return append([]models.Employee(nil), c.employees...)
}

// Sites returns the site catalog in declaration order.
func (c *Catalog) Sites() []models.Site {
	return append([]models.Site(nil), c.sites...)
}

// TechSystems returns the tech system catalog in declaration order.
func (c *Catalog) TechSystems() []models.TechSystem {
	out := make([]models.TechSystem, len(c.systems))
	for i, s := range c.systems {
		s.AccessLevels = append([]string(nil), s.AccessLevels...)
		out[i] = s
	}
	return out
}

// DeactivationReasons returns the reason catalog in declaration order.
func (c *Catalog) DeactivationReasons() []models.DeactivationReason {
	return append([]models.DeactivationReason(nil), c.reasons...)
}
