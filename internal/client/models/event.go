package models

import "time"

// Location is an optional geographic anchor of an event.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

// Event belongs to a trip. Optional fields are nil when the service omits
// them or sends null.
type Event struct {
	ID                     int64     `json:"id"`
	TripID                 int64     `json:"trip_id"`
	Name                   string    `json:"name"`
	Note                   *string   `json:"note,omitempty"`
	Date                   time.Time `json:"date"`
	Location               *Location `json:"location,omitempty"`
	TransitionFromPrevious *string   `json:"transition_from_previous,omitempty"`
	Medias                 []Media   `json:"medias,omitempty"`
}

type EventCreate struct {
	TripID                 int64
	Name                   string
	Note                   *string
	Date                   time.Time
	Location               *Location
	TransitionFromPrevious *string
}

type EventUpdate struct {
	Name                   string
	Note                   *string
	Date                   time.Time
	Location               *Location
	TransitionFromPrevious *string
}
