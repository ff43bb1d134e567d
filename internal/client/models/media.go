package models

// Media is an image attached to an event.
type Media struct {
	ID      int64  `json:"id"`
	EventID int64  `json:"event_id"`
	URL     string `json:"url"`
}

// MediaCreate carries the raw image bytes; how they reach the service
// depends on the configured media mode.
type MediaCreate struct {
	EventID int64
	Data    []byte
}

// UploadResponse is returned by the binary upload endpoint.
type UploadResponse struct {
	URL *string `json:"url"`
}
