// Package models defines the core domain models of the contractor console:
// contractors and the access grants they own, the read-only reference data
// they point at, and the activity and ticket records produced as side effects.
package models

import (
	"strings"
	"time"
)

// DateLayout is the layout of date-only fields (contract dates, grant dates).
const DateLayout = "2006-01-02"

// ContractorStatus represents the lifecycle state of a contractor.
type ContractorStatus string

const (
	StatusActive   ContractorStatus = "active"
	StatusPending  ContractorStatus = "pending"
	StatusInactive ContractorStatus = "inactive"
	StatusExpiring ContractorStatus = "expiring"
)

// Valid reports whether s is one of the known contractor statuses.
func (s ContractorStatus) Valid() bool {
	switch s {
	case StatusActive, StatusPending, StatusInactive, StatusExpiring:
		return true
	}
	return false
}

// AccessStatus is the state of a single system access grant.
type AccessStatus string

const (
	AccessActive  AccessStatus = "active"
	AccessRevoked AccessStatus = "revoked"
	AccessPending AccessStatus = "pending"
)

func (s AccessStatus) Valid() bool {
	switch s {
	case AccessActive, AccessRevoked, AccessPending:
		return true
	}
	return false
}

// SiteAssignment grants a contractor physical access to one site.
type SiteAssignment struct {
	ID           string `json:"id" yaml:"id"`
	ContractorID string `json:"contractorId" yaml:"contractorId"`
	SiteID       string `json:"siteId" yaml:"siteId"`
	// Site is resolved from SiteID against the site catalog.
	Site       *Site  `json:"site,omitempty" yaml:"-"`
	AssignedAt string `json:"assignedAt" yaml:"assignedAt"`
	// AssignedBy is the employee id of the granter, empty when unknown.
	AssignedBy string `json:"assignedBy,omitempty" yaml:"assignedBy"`
}

// SystemAccessRecord grants a contractor access to one tech system at a level.
type SystemAccessRecord struct {
	ID           string `json:"id" yaml:"id"`
	ContractorID string `json:"contractorId" yaml:"contractorId"`
	SystemID     string `json:"systemId" yaml:"systemId"`
	// System is resolved from SystemID against the tech system catalog.
	System      *TechSystem  `json:"system,omitempty" yaml:"-"`
	AccessLevel string       `json:"accessLevel" yaml:"accessLevel"`
	GrantedAt   string       `json:"grantedAt" yaml:"grantedAt"`
	GrantedBy   string       `json:"grantedBy,omitempty" yaml:"grantedBy"`
	Status      AccessStatus `json:"status" yaml:"status"`
}

// Contractor is the central mutable entity. It owns its site assignments and
// system access records; supervisor, sites and systems are weak references.
type Contractor struct {
	ID            string           `json:"id" yaml:"id"`
	FirstName     string           `json:"firstName" yaml:"firstName"`
	LastName      string           `json:"lastName" yaml:"lastName"`
	Email         string           `json:"email" yaml:"email"`
	Phone         string           `json:"phone" yaml:"phone"`
	Company       string           `json:"company" yaml:"company"`
	ContractStart string           `json:"contractStart" yaml:"contractStart"`
	ContractEnd   string           `json:"contractEnd" yaml:"contractEnd"`
	Status        ContractorStatus `json:"status" yaml:"status"`
	SupervisorID  string           `json:"supervisorId" yaml:"supervisorId"`
	// Supervisor is resolved from SupervisorID against the employee catalog.
	Supervisor      *Employee            `json:"supervisor,omitempty" yaml:"-"`
	SiteAssignments []SiteAssignment     `json:"siteAssignments" yaml:"siteAssignments"`
	SystemAccess    []SystemAccessRecord `json:"systemAccess" yaml:"systemAccess"`
	CreatedAt       time.Time            `json:"createdAt" yaml:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt" yaml:"updatedAt"`
}

// FullName returns "First Last".
func (c *Contractor) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Clone returns a copy of c that shares no slices with the original.
// Reference objects (supervisor, site, system) are immutable and shared.
func (c Contractor) Clone() Contractor {
	if c.SiteAssignments != nil {
		sa := make([]SiteAssignment, len(c.SiteAssignments))
		copy(sa, c.SiteAssignments)
		c.SiteAssignments = sa
	}
	if c.SystemAccess != nil {
		ar := make([]SystemAccessRecord, len(c.SystemAccess))
		copy(ar, c.SystemAccess)
		c.SystemAccess = ar
	}
	return c
}

// SiteRequest names a site to assign during onboarding.
type SiteRequest struct {
	SiteID string `json:"siteId" validate:"required"`
}

// AccessRequest names a system and the level to grant during onboarding.
type AccessRequest struct {
	SystemID    string `json:"systemId" validate:"required"`
	AccessLevel string `json:"accessLevel" validate:"required"`
}

// NewContractor is the onboarding payload: every editable contractor field
// plus the sites and system access to grant. ID, timestamps and status are
// assigned by the store.
type NewContractor struct {
	FirstName       string          `json:"firstName" validate:"required"`
	LastName        string          `json:"lastName" validate:"required"`
	Email           string          `json:"email" validate:"required,email"`
	Phone           string          `json:"phone" validate:"required"`
	Company         string          `json:"company" validate:"required"`
	ContractStart   string          `json:"contractStart" validate:"required,datetime=2006-01-02"`
	ContractEnd     string          `json:"contractEnd" validate:"required,datetime=2006-01-02"`
	SupervisorID    string          `json:"supervisorId" validate:"required"`
	SiteAssignments []SiteRequest   `json:"siteAssignments" validate:"dive"`
	SystemAccess    []AccessRequest `json:"systemAccess" validate:"dive"`
}

// ContractorUpdate represents the fields that can be updated for a Contractor.
// Pointer types are used to allow partial updates; nil means "unchanged".
type ContractorUpdate struct {
	FirstName       *string               `json:"firstName,omitempty" validate:"omitempty,min=1"`
	LastName        *string               `json:"lastName,omitempty" validate:"omitempty,min=1"`
	Email           *string               `json:"email,omitempty" validate:"omitempty,email"`
	Phone           *string               `json:"phone,omitempty"`
	Company         *string               `json:"company,omitempty"`
	ContractStart   *string               `json:"contractStart,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ContractEnd     *string               `json:"contractEnd,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Status          *ContractorStatus     `json:"status,omitempty"`
	SupervisorID    *string               `json:"supervisorId,omitempty"`
	SiteAssignments *[]SiteAssignment     `json:"siteAssignments,omitempty"`
	SystemAccess    *[]SystemAccessRecord `json:"systemAccess,omitempty"`
}

// Deactivation carries the arguments of a deactivate request. Notes and
// ContractorName are optional; an empty string means "not supplied".
type Deactivation struct {
	ContractorID   string `json:"contractorId"`
	ReasonID       string `json:"reasonId"`
	Notes          string `json:"notes,omitempty"`
	ContractorName string `json:"contractorName,omitempty"`
}

// ContractorFilter narrows a contractor listing. An empty filter matches all.
type ContractorFilter struct {
	// Query is matched case-insensitively against first name, last name,
	// email and company.
	Query    string             `json:"query,omitempty"`
	Statuses []ContractorStatus `json:"statuses,omitempty"`
}

// DashboardStats are the headline counters of the console.
type DashboardStats struct {
	Total          int `json:"total"`
	Active         int `json:"active"`
	Pending        int `json:"pending"`
	Expiring       int `json:"expiring"`
	Inactive       int `json:"inactive"`
	AccessRequests int `json:"accessRequests"`
}
