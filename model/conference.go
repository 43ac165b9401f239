package model

import "time"

// ConferenceKind selects the wizard flavor. Research conferences carry
// paper/presenter fields on their sessions; technical ones do not.
type ConferenceKind string

const (
	ConferenceTechnical ConferenceKind = "technical"
	ConferenceResearch  ConferenceKind = "research"
)

type Conference struct {
	Id          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Kind        ConferenceKind `json:"kind"`
	City        string         `json:"city"`
	Venue       string         `json:"venue"`
	StartDate   time.Time      `json:"startDate"`
	EndDate     time.Time      `json:"endDate"`
	Organizer   string         `json:"organizer"`

	Tickets        []TicketType   `json:"tickets,omitempty"`
	Sessions       []Session      `json:"sessions,omitempty"`
	Policies       []Policy       `json:"policies,omitempty"`
	RefundPolicies []RefundPolicy `json:"refundPolicies,omitempty"`
	Media          []MediaItem    `json:"media,omitempty"`
	Sponsors       []Sponsor      `json:"sponsors,omitempty"`
}
