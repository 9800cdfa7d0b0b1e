package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// TicketType distinguishes parent and child tickets.
type TicketType string

const (
	TicketParent TicketType = "parent"
	TicketChild  TicketType = "child"
)

// TicketStatus is the support-desk state of a ticket.
type TicketStatus string

const (
	TicketOpen    TicketStatus = "open"
	TicketPending TicketStatus = "pending"
	TicketSolved  TicketStatus = "solved"
)

// TicketHeader holds the fields shared by every ticket variant.
type TicketHeader struct {
	ID             string       `json:"id"`
	ContractorID   string       `json:"contractorId"`
	ContractorName string       `json:"contractorName"`
	Subject        string       `json:"subject"`
	Description    string       `json:"description"`
	Status         TicketStatus `json:"status"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// ZendeskTicket is an immutable support-ticket record. It is implemented
// only by ParentTicket and ChildTicket.
type ZendeskTicket interface {
	Header() TicketHeader
	Type() TicketType
}

// ParentTicket represents one access request event for one contractor.
type ParentTicket struct {
	TicketHeader
}

// ChildTicket requests access to exactly one system under a parent.
type ChildTicket struct {
	TicketHeader
	ParentID   string `json:"parentId"`
	SystemID   string `json:"systemId"`
	SystemName string `json:"systemName"`
}

func (t ParentTicket) Header() TicketHeader { return t.TicketHeader }
func (t ParentTicket) Type() TicketType     { return TicketParent }
func (t ChildTicket) Header() TicketHeader  { return t.TicketHeader }
func (t ChildTicket) Type() TicketType      { return TicketChild }

// MarshalJSON adds the "type" tag.
func (t ParentTicket) MarshalJSON() ([]byte, error) {
	type plain ParentTicket
	return json.Marshal(struct {
		Type TicketType `json:"type"`
		plain
	}{TicketParent, plain(t)})
}

// MarshalJSON adds the "type" tag.
func (t ChildTicket) MarshalJSON() ([]byte, error) {
	type plain ChildTicket
	return json.Marshal(struct {
		Type TicketType `json:"type"`
		plain
	}{TicketChild, plain(t)})
}

// TicketBatch is the group produced by one access request: a parent and one
// child per requested system, in request order.
type TicketBatch struct {
	Parent   ParentTicket  `json:"parent"`
	Children []ChildTicket `json:"children"`
}

// All returns the parent followed by the children.
func (b TicketBatch) All() []ZendeskTicket {
	all := make([]ZendeskTicket, 0, len(b.Children)+1)
	all = append(all, b.Parent)
	for _, c := range b.Children {
		all = append(all, c)
	}
	return all
}

// TicketList is a ticket slice that decodes each element by its "type" tag.
type TicketList []ZendeskTicket

func (l *TicketList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(TicketList, 0, len(raw))
	for _, r := range raw {
		var tag struct {
			Type TicketType `json:"type"`
		}
		if err := json.Unmarshal(r, &tag); err != nil {
			return err
		}
		switch tag.Type {
		case TicketParent:
			var t ParentTicket
			if err := json.Unmarshal(r, &t); err != nil {
				return err
			}
			out = append(out, t)
		case TicketChild:
			var t ChildTicket
			if err := json.Unmarshal(r, &t); err != nil {
				return err
			}
			out = append(out, t)
		default:
			return fmt.Errorf("unknown ticket type %q", tag.Type)
		}
	}
	*l = out
	return nil
}
