package model

import "time"

type Room struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	Venue    string `json:"venue"`
	City     string `json:"city"`
	Capacity int    `json:"capacity"`
}

// DaySlot is a free time span in a room on a given day, as reported by the
// backend. Slots are never computed locally.
type DaySlot struct {
	RoomId string    `json:"roomId"`
	Date   time.Time `json:"date"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// RoomSession is the read-only occupancy view of a room.
type RoomSession struct {
	Id    string    `json:"id"`
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
