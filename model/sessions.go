package model

import "time"

// SessionKind discriminates the session variant instead of sniffing field
// presence. Ledger code takes the general Session and switches on Kind.
type SessionKind string

const (
	SessionTech     SessionKind = "tech"
	SessionResearch SessionKind = "research"
)

type Session struct {
	Id          string      `json:"id"`
	Kind        SessionKind `json:"kind"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Date        time.Time   `json:"date"`
	StartTime   time.Time   `json:"startTime"`
	EndTime     time.Time   `json:"endTime"`
	RoomId      string      `json:"roomId"`

	Speakers  []Speaker   `json:"speakers,omitempty"`
	MediaRefs []MediaItem `json:"mediaRefs,omitempty"`

	// Tech sessions only.
	Headline bool `json:"headline,omitempty"`

	// Research sessions only.
	PaperTitle     string `json:"paperTitle,omitempty"`
	PresenterEmail string `json:"presenterEmail,omitempty"`
}

type Speaker struct {
	Id          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Image       ImageRef `json:"image"`
}
