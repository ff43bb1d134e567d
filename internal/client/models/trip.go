package models

import "time"

// Trip is a server-owned journal trip. Events are present only when the
// service embeds them in the response.
type Trip struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Events    []Event   `json:"events,omitempty"`
}

type TripCreate struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

type TripUpdate struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
}
