package controller

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gartstein/contractors/internal/contractors/catalog"
	e "github.com/gartstein/contractors/internal/contractors/errors"
	"github.com/gartstein/contractors/internal/contractors/models"
	"github.com/go-playground/validator/v10"
)

type accessGrant struct {
	SystemID    string
	AccessLevel string
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *ContractorService) checkStruct(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", e.ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", e.ErrInvalidInput, strings.Join(msgs, "; "))
}

func trimNewContractor(p models.NewContractor) models.NewContractor {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Company = strings.TrimSpace(p.Company)
	return p
}

func checkSupervisor(ref *catalog.Catalog, id string) error {
	if _, ok := ref.Employee(id); !ok {
		return fmt.Errorf("%w: unknown supervisor %q", e.ErrInvalidInput, id)
	}
	return nil
}

// checkContractDates rejects an end date before the start date. Both must
// already be well-formed.
func checkContractDates(start, end string) error {
	from, err := time.Parse(models.DateLayout, start)
	if err != nil {
		return fmt.Errorf("%w: contract start %q: %v", e.ErrInvalidInput, start, err)
	}
	to, err := time.Parse(models.DateLayout, end)
	if err != nil {
		return fmt.Errorf("%w: contract end %q: %v", e.ErrInvalidInput, end, err)
	}
	if to.Before(from) {
		return fmt.Errorf("%w: contract end %s is before start %s", e.ErrInvalidInput, end, start)
	}
	return nil
}

func checkSites(ref *catalog.Catalog, ids []string) error {
	seen := mapset.NewThreadUnsafeSet[string]()
	for _, id := range ids {
		if _, ok := ref.Site(id); !ok {
			return fmt.Errorf("%w: unknown site %q", e.ErrInvalidInput, id)
		}
		if !seen.Add(id) {
			return fmt.Errorf("%w: site %q assigned twice", e.ErrInvalidInput, id)
		}
	}
	return nil
}

func checkAccess(ref *catalog.Catalog, grants []accessGrant) error {
	seen := mapset.NewThreadUnsafeSet[string]()
	for _, g := range grants {
		sys, ok := ref.TechSystem(g.SystemID)
		if !ok {
			return fmt.Errorf("%w: unknown system %q", e.ErrInvalidInput, g.SystemID)
		}
		if !sys.AllowsAccessLevel(g.AccessLevel) {
			return fmt.Errorf("%w: %s does not offer access level %q", e.ErrInvalidInput, sys.Name, g.AccessLevel)
		}
		if !seen.Add(g.SystemID) {
			return fmt.Errorf("%w: system %q requested twice", e.ErrInvalidInput, g.SystemID)
		}
	}
	return nil
}

// checkSystems validates the system list of an access request.
func checkSystems(ref *catalog.Catalog, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one system is required", e.ErrInvalidInput)
	}
	seen := mapset.NewThreadUnsafeSet[string]()
	for _, id := range ids {
		if _, ok := ref.TechSystem(id); !ok {
			return fmt.Errorf("%w: unknown system %q", e.ErrInvalidInput, id)
		}
		if !seen.Add(id) {
			return fmt.Errorf("%w: system %q requested twice", e.ErrInvalidInput, id)
		}
	}
	return nil
}

// checkUpdate validates u against the current version of the contractor.
func checkUpdate(ref *catalog.Catalog, current models.Contractor, u models.ContractorUpdate) error {
	if u.Status != nil && !u.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", e.ErrInvalidInput, *u.Status)
	}
	if u.SupervisorID != nil {
		if err := checkSupervisor(ref, *u.SupervisorID); err != nil {
			return err
		}
	}
	if u.ContractStart != nil || u.ContractEnd != nil {
		start, end := current.ContractStart, current.ContractEnd
		if u.ContractStart != nil {
			start = *u.ContractStart
		}
		if u.ContractEnd != nil {
			end = *u.ContractEnd
		}
		if err := checkContractDates(start, end); err != nil {
			return err
		}
	}
	if u.SiteAssignments != nil {
		ids := make([]string, len(*u.SiteAssignments))
		for i, sa := range *u.SiteAssignments {
			ids[i] = sa.SiteID
		}
		if err := checkSites(ref, ids); err != nil {
			return err
		}
	}
	if u.SystemAccess != nil {
		grants := make([]accessGrant, len(*u.SystemAccess))
		for i, ar := range *u.SystemAccess {
			// Empty means active.
			if ar.Status != "" && !ar.Status.Valid() {
				return fmt.Errorf("%w: system %q: unknown access status %q", e.ErrInvalidInput, ar.SystemID, ar.Status)
			}
			grants[i] = accessGrant{SystemID: ar.SystemID, AccessLevel: ar.AccessLevel}
		}
		if err := checkAccess(ref, grants); err != nil {
			return err
		}
	}
	return nil
}

func sameSet(a, b []string) bool {
	return mapset.NewThreadUnsafeSet(a...).Equal(mapset.NewThreadUnsafeSet(b...))
}
