// Package controller implements the service layer of the contractor console:
// it validates requests against the reference catalog, applies them to the
// store, records the follow-up activities and publishes events.
package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/gartstein/contractors/internal/contractors/catalog"
	e "github.com/gartstein/contractors/internal/contractors/errors"
	"github.com/gartstein/contractors/internal/contractors/events"
	"github.com/gartstein/contractors/internal/contractors/models"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type EventProducer interface {
	Produce(event events.Event)
}

// Store is the state the service operates on. It is implemented by
// store.Store.
type Store interface {
	Reference() *catalog.Catalog
	AddContractor(p models.NewContractor) (models.Contractor, models.ActivityItem)
	UpdateContractor(id string, u models.ContractorUpdate) (before, after models.Contractor, ok bool)
	DeactivateContractor(d models.Deactivation) (models.Contractor, bool, models.ActivityItem)
	AddActivity(item models.ActivityItem) models.ActivityItem
	CreateZendeskTickets(contractorID string, systemIDs []string) (models.TicketBatch, models.ActivityItem)
	GetContractor(id string) (models.Contractor, bool)
	ListContractors(f models.ContractorFilter) []models.Contractor
	AccessRequestCandidates() []models.Contractor
	Activities() []models.ActivityItem
	Tickets() []models.ZendeskTicket
	TicketsForContractor(contractorID string) []models.ZendeskTicket
	Stats() models.DashboardStats
}

// ContractorService provides the console operations on top of a Store.
type ContractorService struct {
	store    Store
	producer EventProducer
	validate *validator.Validate
	logger   *zap.Logger
}

// NewContractorService constructs a ContractorService. It panics if store is
// nil; a nil producer disables event publishing.
func NewContractorService(store Store, producer EventProducer, logger *zap.Logger) *ContractorService {
	if store == nil {
		panic("controller: store is required")
	}
	if producer == nil {
		producer = events.NopProducer{}
	}
	return &ContractorService{
		store:    store,
		producer: producer,
		validate: newValidator(),
		logger:   logger.Named("contractor_service"),
	}
}

// OnboardContractor validates p and adds the contractor as active.
func (s *ContractorService) OnboardContractor(ctx context.Context, p models.NewContractor) (models.Contractor, error) {
	if err := ctx.Err(); err != nil {
		return models.Contractor{}, err
	}
	p = trimNewContractor(p)
	if err := s.checkStruct(p); err != nil {
		return models.Contractor{}, err
	}
	ref := s.store.Reference()
	if err := checkSupervisor(ref, p.SupervisorID); err != nil {
		return models.Contractor{}, err
	}
	if err := checkContractDates(p.ContractStart, p.ContractEnd); err != nil {
		return models.Contractor{}, err
	}
	siteIDs := make([]string, len(p.SiteAssignments))
	for i, sa := range p.SiteAssignments {
		siteIDs[i] = sa.SiteID
	}
	if err := checkSites(ref, siteIDs); err != nil {
		return models.Contractor{}, err
	}
	grants := make([]accessGrant, len(p.SystemAccess))
	for i, ar := range p.SystemAccess {
		grants[i] = accessGrant{SystemID: ar.SystemID, AccessLevel: ar.AccessLevel}
	}
	if err := checkAccess(ref, grants); err != nil {
		return models.Contractor{}, err
	}

	created, activity := s.store.AddContractor(p)
	s.logger.Info("Contractor onboarded",
		zap.String("contractor_id", created.ID),
		zap.String("company", created.Company),
	)
	s.publish(events.NewActivityEvent(activity))
	return created, nil
}

// GetContractor returns the contractor with the given id.
func (s *ContractorService) GetContractor(_ context.Context, id string) (models.Contractor, error) {
	c, ok := s.store.GetContractor(id)
	if !ok {
		return models.Contractor{}, fmt.Errorf("contractor %q: %w", id, e.ErrNotFound)
	}
	return c, nil
}

// ListContractors returns the contractors matching f.
func (s *ContractorService) ListContractors(_ context.Context, f models.ContractorFilter) ([]models.Contractor, error) {
	for _, st := range f.Statuses {
		if !st.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", e.ErrInvalidInput, st)
		}
	}
	return s.store.ListContractors(f), nil
}

// AccessRequestCandidates returns the contractors that may request access.
func (s *ContractorService) AccessRequestCandidates(_ context.Context) []models.Contractor {
	return s.store.AccessRequestCandidates()
}

// UpdateContractor applies a partial update. A change of contract dates or
// of the assigned sites is recorded in the activity log.
func (s *ContractorService) UpdateContractor(ctx context.Context, id string, u models.ContractorUpdate) (models.Contractor, error) {
	if err := ctx.Err(); err != nil {
		return models.Contractor{}, err
	}
	if strings.TrimSpace(id) == "" {
		return models.Contractor{}, fmt.Errorf("%w: contractor id is required", e.ErrInvalidInput)
	}
	if err := s.checkStruct(u); err != nil {
		return models.Contractor{}, err
	}
	current, ok := s.store.GetContractor(id)
	if !ok {
		return models.Contractor{}, fmt.Errorf("contractor %q: %w", id, e.ErrNotFound)
	}
	if err := checkUpdate(s.store.Reference(), current, u); err != nil {
		return models.Contractor{}, err
	}

	before, updated, ok := s.store.UpdateContractor(id, u)
	if !ok {
		return models.Contractor{}, fmt.Errorf("contractor %q: %w", id, e.ErrNotFound)
	}
	s.logger.Info("Contractor updated", zap.String("contractor_id", id))

	for _, item := range updateActivities(s.store.Reference(), before, updated) {
		s.publish(events.NewActivityEvent(s.store.AddActivity(item)))
	}
	return updated, nil
}

// DeactivateContractor offboards a contractor: status inactive, no sites,
// no system access. The reason must be one of the catalog's reasons.
func (s *ContractorService) DeactivateContractor(ctx context.Context, d models.Deactivation) (models.Contractor, models.ActivityItem, error) {
	if err := ctx.Err(); err != nil {
		return models.Contractor{}, models.ActivityItem{}, err
	}
	d.ContractorID = strings.TrimSpace(d.ContractorID)
	d.Notes = strings.TrimSpace(d.Notes)
	if d.ContractorID == "" {
		return models.Contractor{}, models.ActivityItem{}, fmt.Errorf("%w: contractor id is required", e.ErrInvalidInput)
	}
	if _, ok := s.store.Reference().DeactivationReason(d.ReasonID); !ok {
		return models.Contractor{}, models.ActivityItem{}, fmt.Errorf("%w: unknown deactivation reason %q", e.ErrInvalidInput, d.ReasonID)
	}
	if _, ok := s.store.GetContractor(d.ContractorID); !ok {
		return models.Contractor{}, models.ActivityItem{}, fmt.Errorf("contractor %q: %w", d.ContractorID, e.ErrNotFound)
	}

	updated, found, activity := s.store.DeactivateContractor(d)
	if !found {
		return models.Contractor{}, models.ActivityItem{}, fmt.Errorf("contractor %q: %w", d.ContractorID, e.ErrNotFound)
	}
	s.logger.Info("Contractor deactivated",
		zap.String("contractor_id", d.ContractorID),
		zap.String("reason_id", d.ReasonID),
	)
	s.publish(events.NewActivityEvent(activity))
	return updated, activity, nil
}

// RequestAccess raises a ticket batch asking for access to the given
// systems. Only active or expiring contractors may request access.
func (s *ContractorService) RequestAccess(ctx context.Context, contractorID string, systemIDs []string) (models.TicketBatch, error) {
	if err := ctx.Err(); err != nil {
		return models.TicketBatch{}, err
	}
	c, ok := s.store.GetContractor(contractorID)
	if !ok {
		return models.TicketBatch{}, fmt.Errorf("contractor %q: %w", contractorID, e.ErrNotFound)
	}
	if c.Status != models.StatusActive && c.Status != models.StatusExpiring {
		return models.TicketBatch{}, fmt.Errorf("%w: contractor %q is %s", e.ErrInvalidInput, contractorID, c.Status)
	}
	if err := checkSystems(s.store.Reference(), systemIDs); err != nil {
		return models.TicketBatch{}, err
	}

	batch, activity := s.store.CreateZendeskTickets(contractorID, systemIDs)
	s.logger.Info("Access request submitted",
		zap.String("contractor_id", contractorID),
		zap.String("ticket_group", batch.Parent.ID),
		zap.Strings("systems", systemIDs),
	)
	s.publish(events.NewTicketsEvent(batch))
	s.publish(events.NewActivityEvent(activity))
	return batch, nil
}

// ListActivities returns the activity log, newest first. A positive limit
// caps the number of items.
func (s *ContractorService) ListActivities(_ context.Context, limit int) ([]models.ActivityItem, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: negative limit", e.ErrInvalidInput)
	}
	items := s.store.Activities()
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items, nil
}

// ListTickets returns every ticket, or only those of contractorID if set.
func (s *ContractorService) ListTickets(_ context.Context, contractorID string) []models.ZendeskTicket {
	if contractorID == "" {
		return s.store.Tickets()
	}
	return s.store.TicketsForContractor(contractorID)
}

func (s *ContractorService) Stats(_ context.Context) models.DashboardStats {
	return s.store.Stats()
}

func (s *ContractorService) Employees(_ context.Context) []models.Employee {
	return s.store.Reference().Employees()
}

func (s *ContractorService) Sites(_ context.Context) []models.Site {
	return s.store.Reference().Sites()
}

func (s *ContractorService) TechSystems(_ context.Context) []models.TechSystem {
	return s.store.Reference().TechSystems()
}

func (s *ContractorService) DeactivationReasons(_ context.Context) []models.DeactivationReason {
	return s.store.Reference().DeactivationReasons()
}

func (s *ContractorService) publish(ev events.Event) {
	go func() {
		s.producer.Produce(ev)
	}()
}

// updateActivities describes the audited differences between two versions
// of a contractor.
func updateActivities(ref *catalog.Catalog, before, after models.Contractor) []models.ActivityItem {
	var items []models.ActivityItem
	name := after.FullName()

	if before.ContractStart != after.ContractStart || before.ContractEnd != after.ContractEnd {
		items = append(items, models.ActivityItem{
			Title:          "Contract dates updated",
			Description:    fmt.Sprintf("%s contract now runs %s to %s", name, after.ContractStart, after.ContractEnd),
			ContractorID:   after.ID,
			ContractorName: name,
			Timestamp:      after.UpdatedAt,
			Detail: models.ContractUpdateDetail{
				ContractStart: after.ContractStart,
				ContractEnd:   after.ContractEnd,
			},
		})
	}

	beforeSites, afterSites := siteIDs(before), siteIDs(after)
	if !sameSet(beforeSites, afterSites) {
		description := name + " removed from all sites"
		if len(afterSites) > 0 {
			names := make([]string, len(afterSites))
			for i, id := range afterSites {
				names[i] = id
				if site, ok := ref.Site(id); ok {
					names[i] = site.Name
				}
			}
			description = fmt.Sprintf("%s assigned to %s", name, strings.Join(names, ", "))
		}
		items = append(items, models.ActivityItem{
			Title:          "Site assignment updated",
			Description:    description,
			ContractorID:   after.ID,
			ContractorName: name,
			Timestamp:      after.UpdatedAt,
			Detail:         models.SiteAssignmentDetail{SiteIDs: afterSites},
		})
	}
	return items
}

func siteIDs(c models.Contractor) []string {
	ids := make([]string, len(c.SiteAssignments))
	for i, sa := range c.SiteAssignments {
		ids[i] = sa.SiteID
	}
	return ids
}
