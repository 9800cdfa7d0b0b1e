// Package store is the single source of truth for the mutable state of one
// console session: contractors, the activity log and generated tickets.
//
// Every mutation derives new collections from the current ones and swaps
// them in while holding the write lock, so a reader always observes a
// complete, fully denormalized state. Reference data lives in an immutable
// catalog.Catalog and is never modified here.
package store

import (
	"fmt"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gartstein/contractors/internal/contractors/catalog"
	"github.com/gartstein/contractors/internal/contractors/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithIDGenerator replaces the random id source used for new records.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger.Named("store") }
}

// WithSeed sets the initial contractors and activity log. Contractors are
// denormalized against the catalog; activities are taken newest first.
func WithSeed(contractors []models.Contractor, activities []models.ActivityItem) Option {
	return func(s *Store) {
		s.seedContractors = contractors
		s.seedActivities = activities
	}
}

type state struct {
	contractors []models.Contractor
	activities  []models.ActivityItem
	tickets     []models.ZendeskTicket
}

// Snapshot is a point-in-time copy of all mutable collections.
type Snapshot struct {
	Contractors []models.Contractor
	Activities  []models.ActivityItem
	Tickets     []models.ZendeskTicket
}

// Store holds the session state. The zero value is not usable; use New.
type Store struct {
	ref    *catalog.Catalog
	clock  Clock
	newID  func() string
	logger *zap.Logger

	seedContractors []models.Contractor
	seedActivities  []models.ActivityItem

	mu    sync.RWMutex
	state state
}

// New constructs a Store over the given reference catalog. It panics if ref
// is nil: a store without reference data is a wiring mistake, not bad input.
func New(ref *catalog.Catalog, opts ...Option) *Store {
	if ref == nil {
		panic("store: reference catalog is required")
	}
	s := &Store{
		ref:    ref,
		clock:  realClock{},
		newID:  uuid.NewString,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	contractors := make([]models.Contractor, 0, len(s.seedContractors))
	for _, c := range s.seedContractors {
		contractors = append(contractors, Denormalize(c, ref))
	}
	s.state = state{
		contractors: contractors,
		activities:  append([]models.ActivityItem(nil), s.seedActivities...),
		tickets:     []models.ZendeskTicket{},
	}
	s.seedContractors, s.seedActivities = nil, nil
	return s
}

// Reference returns the immutable catalog the store resolves ids against.
func (s *Store) Reference() *catalog.Catalog {
	return s.ref
}

// AddContractor onboards a new contractor: it assigns a fresh id, forces the
// status to active, materializes the requested site assignments and system
// access grants, and records an onboard activity, which is returned along
// with the contractor. An unknown supervisor id leaves the supervisor
// unresolved rather than failing.
func (s *Store) AddContractor(p models.NewContractor) (models.Contractor, models.ActivityItem) {
	now := s.clock.Now()
	today := now.Format(models.DateLayout)
	id := "c-" + s.newID()

	c := models.Contractor{
		ID:              id,
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		Email:           p.Email,
		Phone:           p.Phone,
		Company:         p.Company,
		ContractStart:   p.ContractStart,
		ContractEnd:     p.ContractEnd,
		Status:          models.StatusActive,
		SupervisorID:    p.SupervisorID,
		SiteAssignments: make([]models.SiteAssignment, 0, len(p.SiteAssignments)),
		SystemAccess:    make([]models.SystemAccessRecord, 0, len(p.SystemAccess)),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for i, sa := range p.SiteAssignments {
		c.SiteAssignments = append(c.SiteAssignments, models.SiteAssignment{
			ID:           fmt.Sprintf("sa-%s-%d", id, i),
			ContractorID: id,
			SiteID:       sa.SiteID,
			AssignedAt:   today,
		})
	}
	for i, ar := range p.SystemAccess {
		c.SystemAccess = append(c.SystemAccess, models.SystemAccessRecord{
			ID:           fmt.Sprintf("ar-%s-%d", id, i),
			ContractorID: id,
			SystemID:     ar.SystemID,
			AccessLevel:  ar.AccessLevel,
			GrantedAt:    today,
			Status:       models.AccessActive,
		})
	}
	c = Denormalize(c, s.ref)

	name := c.FullName()
	s.mu.Lock()
	s.state.contractors = appendContractor(s.state.contractors, c)
	activity := s.prependActivityLocked(models.ActivityItem{
		Title:          "Contractor onboarded",
		Description:    name + " added to the system",
		ContractorID:   id,
		ContractorName: name,
		Timestamp:      now,
		Detail:         models.OnboardDetail{},
	})
	s.mu.Unlock()

	s.logger.Debug("contractor onboarded",
		zap.String("contractor_id", id),
		zap.Int("sites", len(c.SiteAssignments)),
		zap.Int("systems", len(c.SystemAccess)),
	)
	return c.Clone(), activity
}

// UpdateContractor merges the non-nil fields of u into the contractor with
// the given id and refreshes UpdatedAt. It returns the contractor as it was
// immediately before and after the change, and reports false, changing
// nothing, when the id is unknown. No activity is recorded.
func (s *Store) UpdateContractor(id string, u models.ContractorUpdate) (before, after models.Contractor, ok bool) {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return models.Contractor{}, models.Contractor{}, false
	}
	prev := s.state.contractors[idx]
	c := prev.Clone()
	s.applyUpdateLocked(&c, u, now.Format(models.DateLayout))
	c.UpdatedAt = now
	c = Denormalize(c, s.ref)

	s.state.contractors = replaceContractor(s.state.contractors, idx, c)
	return prev.Clone(), c.Clone(), true
}

// DeactivateContractor moves a contractor to inactive and removes all of its
// site assignments and system access. The deactivate activity is recorded
// even when the id is unknown, named after d.ContractorName if supplied.
// It reports whether a contractor was changed.
func (s *Store) DeactivateContractor(d models.Deactivation) (models.Contractor, bool, models.ActivityItem) {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		updated models.Contractor
		found   bool
		name    = d.ContractorName
	)
	if idx := s.indexLocked(d.ContractorID); idx >= 0 {
		updated = s.state.contractors[idx].Clone()
		updated.Status = models.StatusInactive
		updated.UpdatedAt = now
		updated.SiteAssignments = []models.SiteAssignment{}
		updated.SystemAccess = []models.SystemAccessRecord{}
		s.state.contractors = replaceContractor(s.state.contractors, idx, updated)
		found = true
		if name == "" {
			name = updated.FullName()
		}
	}

	description := "Contractor offboarded"
	if name != "" {
		description = name + " offboarded"
		if d.Notes != "" {
			description += " - " + d.Notes
		}
	}
	activity := s.prependActivityLocked(models.ActivityItem{
		Title:          "Contractor deactivated",
		Description:    description,
		ContractorID:   d.ContractorID,
		ContractorName: name,
		Timestamp:      now,
		Detail:         models.DeactivateDetail{ReasonID: d.ReasonID, Notes: d.Notes},
	})

	if !found {
		s.logger.Warn("deactivation recorded for unknown contractor",
			zap.String("contractor_id", d.ContractorID))
	}
	return updated.Clone(), found, activity
}

// AddActivity assigns an id to item and puts it at the front of the log.
// A zero timestamp is replaced with the current time.
func (s *Store) AddActivity(item models.ActivityItem) models.ActivityItem {
	if item.Timestamp.IsZero() {
		item.Timestamp = s.clock.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prependActivityLocked(item)
}

// CreateZendeskTickets builds a parent ticket and one child per system id,
// appends them to the ticket collection as one batch and records an
// access_request activity, which is returned with the batch. An unknown
// contractor is named "Unknown"; an empty system list yields a parent with
// no children.
func (s *Store) CreateZendeskTickets(contractorID string, systemIDs []string) (models.TicketBatch, models.ActivityItem) {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	name := unknownContractorName
	if idx := s.indexLocked(contractorID); idx >= 0 {
		c := s.state.contractors[idx]
		name = c.FullName()
	}
	batch := newTicketBatch(ticketRequest{
		GroupID:        "zd-" + s.newID(),
		ContractorID:   contractorID,
		ContractorName: name,
		SystemIDs:      systemIDs,
		CreatedAt:      now,
	}, s.ref)

	all := batch.All()
	tickets := make([]models.ZendeskTicket, 0, len(s.state.tickets)+len(all))
	tickets = append(tickets, s.state.tickets...)
	s.state.tickets = append(tickets, all...)

	activity := s.prependActivityLocked(models.ActivityItem{
		Title:          "Access request tickets created",
		Description:    fmt.Sprintf("Zendesk tickets created for %s (%d system(s))", name, len(systemIDs)),
		ContractorID:   contractorID,
		ContractorName: name,
		Timestamp:      now,
		Detail: models.AccessRequestDetail{
			TicketGroupID: batch.Parent.ID,
			SystemIDs:     append([]string(nil), systemIDs...),
		},
	})

	s.logger.Debug("access tickets created",
		zap.String("contractor_id", contractorID),
		zap.String("ticket_group", batch.Parent.ID),
		zap.Int("systems", len(systemIDs)),
	)
	return batch, activity
}

// GetContractor returns a copy of the contractor with the given id.
func (s *Store) GetContractor(id string) (models.Contractor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return models.Contractor{}, false
	}
	return s.state.contractors[idx].Clone(), true
}

func (s *Store) GetEmployee(id string) (models.Employee, bool) {
	e, ok := s.ref.Employee(id)
	if !ok {
		return models.Employee{}, false
	}
	return *e, true
}

func (s *Store) GetSite(id string) (models.Site, bool) {
	site, ok := s.ref.Site(id)
	if !ok {
		return models.Site{}, false
	}
	return *site, true
}

func (s *Store) GetTechSystem(id string) (models.TechSystem, bool) {
	sys, ok := s.ref.TechSystem(id)
	if !ok {
		return models.TechSystem{}, false
	}
	out := *sys
	out.AccessLevels = append([]string(nil), sys.AccessLevels...)
	return out, true
}

// Contractors returns all contractors in insertion order.
func (s *Store) Contractors() []models.Contractor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneContractors(s.state.contractors)
}

// Activities returns the activity log, newest first.
func (s *Store) Activities() []models.ActivityItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ActivityItem(nil), s.state.activities...)
}

// Tickets returns every generated ticket in creation order.
func (s *Store) Tickets() []models.ZendeskTicket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ZendeskTicket(nil), s.state.tickets...)
}

// Snapshot returns a consistent copy of all mutable collections.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Contractors: cloneContractors(s.state.contractors),
		Activities:  append([]models.ActivityItem(nil), s.state.activities...),
		Tickets:     append([]models.ZendeskTicket(nil), s.state.tickets...),
	}
}

func (s *Store) indexLocked(id string) int {
	for i := range s.state.contractors {
		if s.state.contractors[i].ID == id {
			return i
		}
	}
	return -1
}

// prependActivityLocked assigns an id and puts item at the front of a new
// activity slice. s.mu must be held for writing.
func (s *Store) prependActivityLocked(item models.ActivityItem) models.ActivityItem {
	item.ID = "a-" + s.newID()
	next := make([]models.ActivityItem, 0, len(s.state.activities)+1)
	next = append(next, item)
	s.state.activities = append(next, s.state.activities...)
	return item
}

// applyUpdateLocked merges u into c. Replacement site and access records
// keep their ids when unique within the new list and get fresh ids
// otherwise; records without a date are stamped with today.
// s.mu must be held for writing.
func (s *Store) applyUpdateLocked(c *models.Contractor, u models.ContractorUpdate, today string) {
	if u.FirstName != nil {
		c.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		c.LastName = *u.LastName
	}
	if u.Email != nil {
		c.Email = *u.Email
	}
	if u.Phone != nil {
		c.Phone = *u.Phone
	}
	if u.Company != nil {
		c.Company = *u.Company
	}
	if u.ContractStart != nil {
		c.ContractStart = *u.ContractStart
	}
	if u.ContractEnd != nil {
		c.ContractEnd = *u.ContractEnd
	}
	if u.Status != nil {
		c.Status = *u.Status
	}
	if u.SupervisorID != nil {
		// A changed supervisor is resolved afresh; an unknown id leaves it unset.
		c.SupervisorID = *u.SupervisorID
		c.Supervisor = nil
	}
	if u.SiteAssignments != nil {
		seen := mapset.NewThreadUnsafeSet[string]()
		c.SiteAssignments = make([]models.SiteAssignment, len(*u.SiteAssignments))
		for i, sa := range *u.SiteAssignments {
			sa.ContractorID = c.ID
			if sa.ID == "" || seen.Contains(sa.ID) {
				sa.ID = "sa-" + s.newID()
			}
			seen.Add(sa.ID)
			if sa.AssignedAt == "" {
				sa.AssignedAt = today
			}
			c.SiteAssignments[i] = sa
		}
	}
	if u.SystemAccess != nil {
		seen := mapset.NewThreadUnsafeSet[string]()
		c.SystemAccess = make([]models.SystemAccessRecord, len(*u.SystemAccess))
		for i, ar := range *u.SystemAccess {
			ar.ContractorID = c.ID
			if ar.ID == "" || seen.Contains(ar.ID) {
				ar.ID = "ar-" + s.newID()
			}
			seen.Add(ar.ID)
			if ar.GrantedAt == "" {
				ar.GrantedAt = today
			}
			if ar.Status == "" {
				ar.Status = models.AccessActive
			}
			c.SystemAccess[i] = ar
		}
	}
}

func appendContractor(list []models.Contractor, c models.Contractor) []models.Contractor {
	next := make([]models.Contractor, 0, len(list)+1)
	next = append(next, list...)
	return append(next, c)
}

func replaceContractor(list []models.Contractor, idx int, c models.Contractor) []models.Contractor {
	next := append([]models.Contractor(nil), list...)
	next[idx] = c
	return next
}

func cloneContractors(list []models.Contractor) []models.Contractor {
	out := make([]models.Contractor, len(list))
	for i, c := range list {
		out[i] = c.Clone()
	}
	return out
}
