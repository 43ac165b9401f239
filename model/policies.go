package model

import "time"

type Policy struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

// RefundPolicy refunds PercentRefund of the ticket price for cancellations
// before Deadline. Order must be unique within a conference.
type RefundPolicy struct {
	Id            string    `json:"id"`
	PercentRefund int       `json:"percentRefund"`
	Description   string    `json:"description"`
	Deadline      time.Time `json:"deadline"`
	Order         int       `json:"order"`
}
