package request

import (
	"encoding/base64"
	"strconv"
	"time"

	"github.com/dmitrijs2005/tripjournal/internal/client/models"
)

// DateLayout is RFC 3339 in UTC without fractional seconds.
const DateLayout = "2006-01-02T15:04:05Z"

// FormatDate renders t in DateLayout.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Outgoing payloads keep every key present: absent optionals become "" or
// 0.0 and are never omitted.

type TripPayload struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func NewTripCreatePayload(t models.TripCreate) TripPayload {
	return TripPayload{Name: t.Name, StartDate: FormatDate(t.StartDate), EndDate: FormatDate(t.EndDate)}
}

func NewTripUpdatePayload(t models.TripUpdate) TripPayload {
	return TripPayload{Name: t.Name, StartDate: FormatDate(t.StartDate), EndDate: FormatDate(t.EndDate)}
}

type LocationPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

func newLocationPayload(l *models.Location) LocationPayload {
	if l == nil {
		return LocationPayload{}
	}
	return LocationPayload{Latitude: l.Latitude, Longitude: l.Longitude, Address: l.Address}
}

type EventPayload struct {
	Name                   string          `json:"name"`
	Note                   string          `json:"note"`
	Date                   string          `json:"date"`
	Location               LocationPayload `json:"location"`
	TransitionFromPrevious string          `json:"transition_from_previous"`
}

// EventCreatePayload adds the owning trip id, sent as a decimal string.
type EventCreatePayload struct {
	TripID string `json:"trip_id"`
	EventPayload
}

func NewEventCreatePayload(e models.EventCreate) EventCreatePayload {
	return EventCreatePayload{
		TripID: strconv.FormatInt(e.TripID, 10),
		EventPayload: EventPayload{
			Name:                   e.Name,
			Note:                   deref(e.Note),
			Date:                   FormatDate(e.Date),
			Location:               newLocationPayload(e.Location),
			TransitionFromPrevious: deref(e.TransitionFromPrevious),
		},
	}
}

func NewEventUpdatePayload(e models.EventUpdate) EventPayload {
	return EventPayload{
		Name:                   e.Name,
		Note:                   deref(e.Note),
		Date:                   FormatDate(e.Date),
		Location:               newLocationPayload(e.Location),
		TransitionFromPrevious: deref(e.TransitionFromPrevious),
	}
}

// MediaURLPayload creates a media record from an already uploaded URL.
type MediaURLPayload struct {
	EventID int64  `json:"event_id"`
	URL     string `json:"url"`
}

// MediaBase64Payload embeds the image bytes in the create request.
type MediaBase64Payload struct {
	EventID    int64  `json:"event_id"`
	Base64Data string `json:"base64_data"`
}

func NewMediaBase64Payload(eventID int64, data []byte) MediaBase64Payload {
	return MediaBase64Payload{EventID: eventID, Base64Data: base64.StdEncoding.EncodeToString(data)}
}

// LoginFields is the OAuth2 password-form body sent to /token. grant_type
// is present and empty.
func LoginFields(username, password string) []Field {
	return []Field{
		{Key: "grant_type", Value: ""},
		{Key: "username", Value: username},
		{Key: "password", Value: password},
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
