package models

import (
	"time"

	"eventra/visibility"
)

type Event struct {
	EventID          string                 `json:"eventid" bson:"eventid"`
	Title            string                 `json:"title" bson:"title"`
	Description      string                 `json:"description" bson:"description"`
	Date             time.Time              `json:"date" bson:"date"`
	EndDate          time.Time              `json:"end_date,omitempty" bson:"end_date,omitempty"`
	Category         string                 `json:"category" bson:"category"`
	Location         string                 `json:"location,omitempty" bson:"location,omitempty"`
	Price            float64                `json:"price" bson:"price"`
	Currency         string                 `json:"currency,omitempty" bson:"currency,omitempty"`
	Tiers            []TicketTier           `json:"tiers,omitempty" bson:"tiers,omitempty"`
	MaxAttendees     int                    `json:"maxAttendees" bson:"max_attendees"`
	MinimumAttendees int                    `json:"minimumAttendees,omitempty" bson:"minimum_attendees,omitempty"`
	Visibility       visibility.Descriptor  `json:"visibility" bson:"visibility"`
	OrganizerID      string                 `json:"organizerId" bson:"organizerid"`
	IsVirtual        bool                   `json:"isVirtual" bson:"is_virtual"`
	MeetingRoom      string                 `json:"meetingRoom,omitempty" bson:"meeting_room,omitempty"`
	MeetingLink      string                 `json:"meetingLink,omitempty" bson:"meeting_link,omitempty"`
	Banner           string                 `json:"banner,omitempty" bson:"banner,omitempty"`
	Status           string                 `json:"status" bson:"status"`
	Views            int64                  `json:"views" bson:"views"`
	Likes            int64                  `json:"likes" bson:"likes"`
	Shares           int64                  `json:"shares" bson:"shares"`
	CreatedAt        time.Time              `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at" bson:"updated_at"`
}

// TicketTier is one priced admission class on an event.
type TicketTier struct {
	Name     string  `json:"name" bson:"name"`
	Price    float64 `json:"price" bson:"price"`
	Quantity int     `json:"quantity" bson:"quantity"`
}

// Event lifecycle statuses.
const (
	EventActive    = "active"
	EventCancelled = "cancelled"
	EventCompleted = "completed"
)

// HasCapacity reports whether issuing requested more tickets stays within
// the attendee cap. A zero or negative MaxAttendees means uncapped.
func (e *Event) HasCapacity(issued int64, requested int) bool {
	if e.MaxAttendees <= 0 {
		return true
	}
	return issued+int64(requested) <= int64(e.MaxAttendees)
}

// IsFree reports whether the event can be registered without payment:
// base price zero and every tier (if any) priced zero.
func (e *Event) IsFree() bool {
	if e.Price != 0 {
		return false
	}
	for _, t := range e.Tiers {
		if t.Price != 0 {
			return false
		}
	}
	return true
}
