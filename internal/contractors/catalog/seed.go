package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gartstein/contractors/internal/contractors/models"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed is the document loaded once at process start: the reference
// catalogs plus the initial contractors and activity log.
type Seed struct {
	Employees           []models.Employee           `yaml:"employees"`
	Sites               []models.Site               `yaml:"sites"`
	TechSystems         []models.TechSystem         `yaml:"techSystems"`
	DeactivationReasons []models.DeactivationReason `yaml:"deactivationReasons"`
	Contractors         []models.Contractor         `yaml:"contractors"`
	Activities          []ActivitySeed              `yaml:"activities"`
}

// ActivitySeed is the YAML form of an activity log entry.
type ActivitySeed struct {
	ID             string              `yaml:"id"`
	Type           models.ActivityType `yaml:"type"`
	Title          string              `yaml:"title"`
	Description    string              `yaml:"description"`
	ContractorID   string              `yaml:"contractorId"`
	ContractorName string              `yaml:"contractorName"`
	Timestamp      time.Time           `yaml:"timestamp"`
}

// DefaultSeed parses the seed document compiled into the binary.
func DefaultSeed() (*Seed, error) {
	return ParseSeed(defaultSeed)
}

// LoadSeedFile reads and parses a seed document from disk.
func LoadSeedFile(path string) (*Seed, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read file %s: %w", path, err)
	}
	return ParseSeed(b)
}

// ParseSeed decodes and validates a YAML seed document.
func ParseSeed(data []byte) (*Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("seed: parse yaml: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Catalog builds the reference catalog described by the seed.
func (s *Seed) Catalog() *Catalog {
	return New(s.Employees, s.Sites, s.TechSystems, s.DeactivationReasons)
}

// InitialContractors returns the seed contractors with owner ids filled in.
// Reference objects are not resolved here.
func (s *Seed) InitialContractors() []models.Contractor {
	out := make([]models.Contractor, 0, len(s.Contractors))
	for _, c := range s.Contractors {
		c = c.Clone()
		if c.SiteAssignments == nil {
			c.SiteAssignments = []models.SiteAssignment{}
		}
		if c.SystemAccess == nil {
			c.SystemAccess = []models.SystemAccessRecord{}
		}
		for i := range c.SiteAssignments {
			c.SiteAssignments[i].ContractorID = c.ID
		}
		for i := range c.SystemAccess {
			c.SystemAccess[i].ContractorID = c.ID
			if c.SystemAccess[i].Status == "" {
				c.SystemAccess[i].Status = models.AccessActive
			}
		}
		out = append(out, c)
	}
	return out
}

// InitialActivities returns the seed activity log, newest first as written.
func (s *Seed) InitialActivities() []models.ActivityItem {
	out := make([]models.ActivityItem, 0, len(s.Activities))
	for _, a := range s.Activities {
		// validate has already rejected unknown types.
		detail, _ := models.ParseActivityDetail(a.Type, nil)
		out = append(out, models.ActivityItem{
			ID:             a.ID,
			Title:          a.Title,
			Description:    a.Description,
			ContractorID:   a.ContractorID,
			ContractorName: a.ContractorName,
			Timestamp:      a.Timestamp,
			Detail:         detail,
		})
	}
	return out
}

func (s *Seed) validate() error {
	var errs []error
	ref := s.Catalog()
	seen := make(map[string]struct{}, len(s.Contractors))
	for _, c := range s.Contractors {
		if c.ID == "" {
			errs = append(errs, errors.New("seed: contractor without id"))
			continue
		}
		if _, dup := seen[c.ID]; dup {
			errs = append(errs, fmt.Errorf("seed: duplicate contractor id %q", c.ID))
		}
		seen[c.ID] = struct{}{}
		if !c.Status.Valid() {
			errs = append(errs, fmt.Errorf("seed: contractor %q: invalid status %q", c.ID, c.Status))
		}
		if _, ok := ref.Employee(c.SupervisorID); !ok {
			errs = append(errs, fmt.Errorf("seed: contractor %q: unknown supervisor %q", c.ID, c.SupervisorID))
		}
		for _, sa := range c.SiteAssignments {
			if _, ok := ref.Site(sa.SiteID); !ok {
				errs = append(errs, fmt.Errorf("seed: contractor %q: unknown site %q", c.ID, sa.SiteID))
			}
		}
		for _, ar := range c.SystemAccess {
			if ar.Status != "" && !ar.Status.Valid() {
				errs = append(errs, fmt.Errorf("seed: contractor %q: invalid access status %q", c.ID, ar.Status))
			}
			sys, ok := ref.TechSystem(ar.SystemID)
			if !ok {
				errs = append(errs, fmt.Errorf("seed: contractor %q: unknown system %q", c.ID, ar.SystemID))
				continue
			}
			if !sys.AllowsAccessLevel(ar.AccessLevel) {
				errs = append(errs, fmt.Errorf("seed: contractor %q: access level %q not offered by %s",
					c.ID, ar.AccessLevel, sys.ID))
			}
		}
	}
	for _, a := range s.Activities {
		if _, err := models.ParseActivityDetail(a.Type, nil); err != nil {
			errs = append(errs, fmt.Errorf("seed: activity %q: %w", a.ID, err))
		}
	}
	return errors.Join(errs...)
}
