package model

import "time"

type TicketType struct {
	Id             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	UnitPrice      float64   `json:"unitPrice"`
	TotalSlotQuota int       `json:"totalSlotQuota"`
	IsAuthorTicket bool      `json:"isAuthorTicket"`
	SaleStart      time.Time `json:"saleStart"`
	SaleEnd        time.Time `json:"saleEnd"`

	Phases []PricePhase `json:"phases,omitempty"`
}

// PricePhase is a sub-interval of its ticket's sale window with its own
// price multiplier and slot allocation. EndDate is derived from StartDate
// and DurationDays: a one-day phase starts and ends on the same date.
type PricePhase struct {
	Id            string    `json:"id"`
	TicketTypeId  string    `json:"ticketTypeId"`
	Name          string    `json:"name"`
	PercentOfBase int       `json:"percentOfBase"`
	StartDate     time.Time `json:"startDate"`
	DurationDays  int       `json:"durationDays"`
	EndDate       time.Time `json:"endDate"`
	SlotQuota     int       `json:"slotQuota"`
}
