package events

import (
	"github.com/gartstein/contractors/internal/contractors/models"
)

type EventType string

const (
	ActivityRecorded EventType = "activity_recorded"
	TicketsCreated   EventType = "tickets_created"
)

// Event is the message published for every state change. Exactly one of
// Activity and Tickets is set, matching Type.
type Event struct {
	Type         EventType            `json:"type"`
	ContractorID string               `json:"contractorId"`
	Activity     *models.ActivityItem `json:"activity,omitempty"`
	Tickets      *models.TicketBatch  `json:"tickets,omitempty"`
}

func NewActivityEvent(item models.ActivityItem) Event {
	return Event{Type: ActivityRecorded, ContractorID: item.ContractorID, Activity: &item}
}

func NewTicketsEvent(batch models.TicketBatch) Event {
	return Event{Type: TicketsCreated, ContractorID: batch.Parent.ContractorID, Tickets: &batch}
}

// NopProducer discards events. It is used when no brokers are configured.
type NopProducer struct{}

func (NopProducer) Produce(Event) {}

func (NopProducer) Close() {}
