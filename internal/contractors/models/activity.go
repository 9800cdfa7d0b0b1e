package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ActivityType tags the kind of an audit record.
type ActivityType string

const (
	ActivityOnboard        ActivityType = "onboard"
	ActivityDeactivate     ActivityType = "deactivate"
	ActivityAccessRequest  ActivityType = "access_request"
	ActivitySiteAssignment ActivityType = "site_assignment"
	ActivityContractUpdate ActivityType = "contract_update"
)

// ActivityDetail is the variant part of an ActivityItem. The set of
// implementations is closed; each carries only the fields of its kind.
type ActivityDetail interface {
	ActivityType() ActivityType
	isActivityDetail()
}

// OnboardDetail marks a contractor being added to the system.
type OnboardDetail struct{}

// DeactivateDetail records why a contractor was offboarded.
type DeactivateDetail struct {
	ReasonID string `json:"reasonId,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// AccessRequestDetail links the activity to the ticket batch it produced.
type AccessRequestDetail struct {
	TicketGroupID string   `json:"ticketGroupId,omitempty"`
	SystemIDs     []string `json:"systemIds,omitempty"`
}

// SiteAssignmentDetail lists the sites a contractor is assigned to after the change.
type SiteAssignmentDetail struct {
	SiteIDs []string `json:"siteIds,omitempty"`
}

// ContractUpdateDetail carries the contract dates after the change.
type ContractUpdateDetail struct {
	ContractStart string `json:"contractStart,omitempty"`
	ContractEnd   string `json:"contractEnd,omitempty"`
}

func (OnboardDetail) ActivityType() ActivityType        { return ActivityOnboard }
func (DeactivateDetail) ActivityType() ActivityType     { return ActivityDeactivate }
func (AccessRequestDetail) ActivityType() ActivityType  { return ActivityAccessRequest }
func (SiteAssignmentDetail) ActivityType() ActivityType { return ActivitySiteAssignment }
func (ContractUpdateDetail) ActivityType() ActivityType { return ActivityContractUpdate }

func (OnboardDetail) isActivityDetail()        {}
func (DeactivateDetail) isActivityDetail()     {}
func (AccessRequestDetail) isActivityDetail()  {}
func (SiteAssignmentDetail) isActivityDetail() {}
func (ContractUpdateDetail) isActivityDetail() {}

// ActivityItem is an immutable, append-only audit record.
type ActivityItem struct {
	ID             string
	Title          string
	Description    string
	ContractorID   string
	ContractorName string
	Timestamp      time.Time
	Detail         ActivityDetail
}

// Type returns the tag of the item's variant, or "" if it has none.
func (a ActivityItem) Type() ActivityType {
	if a.Detail == nil {
		return ""
	}
	return a.Detail.ActivityType()
}

type activityJSON struct {
	ID             string          `json:"id"`
	Type           ActivityType    `json:"type"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	ContractorID   string          `json:"contractorId,omitempty"`
	ContractorName string          `json:"contractorName,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
	Detail         json.RawMessage `json:"detail,omitempty"`
}

// MarshalJSON flattens the item with a "type" tag and a "detail" object.
func (a ActivityItem) MarshalJSON() ([]byte, error) {
	out := activityJSON{
		ID:             a.ID,
		Type:           a.Type(),
		Title:          a.Title,
		Description:    a.Description,
		ContractorID:   a.ContractorID,
		ContractorName: a.ContractorName,
		Timestamp:      a.Timestamp,
	}
	if a.Detail != nil {
		detail, err := json.Marshal(a.Detail)
		if err != nil {
			return nil, err
		}
		out.Detail = detail
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores the variant named by the "type" tag.
func (a *ActivityItem) UnmarshalJSON(data []byte) error {
	var in activityJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	detail, err := ParseActivityDetail(in.Type, in.Detail)
	if err != nil {
		return err
	}
	*a = ActivityItem{
		ID:             in.ID,
		Title:          in.Title,
		Description:    in.Description,
		ContractorID:   in.ContractorID,
		ContractorName: in.ContractorName,
		Timestamp:      in.Timestamp,
		Detail:         detail,
	}
	return nil
}

// ParseActivityDetail builds the variant for t from its JSON encoding.
// An empty raw yields the zero value of the variant.
func ParseActivityDetail(t ActivityType, raw json.RawMessage) (ActivityDetail, error) {
	switch t {
	case ActivityOnboard:
		return OnboardDetail{}, nil
	case ActivityDeactivate:
		var d DeactivateDetail
		if err := decodeDetail(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case ActivityAccessRequest:
		var d AccessRequestDetail
		if err := decodeDetail(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case ActivitySiteAssignment:
		var d SiteAssignmentDetail
		if err := decodeDetail(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case ActivityContractUpdate:
		var d ContractUpdateDetail
		if err := decodeDetail(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unknown activity type %q", t)
	}
}

func decodeDetail(raw json.RawMessage, dst any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dst)
}
