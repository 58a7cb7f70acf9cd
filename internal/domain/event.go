package domain

import "time"

const (
	EventArtworkCreated = "artwork.created"
	EventThreeDCreated  = "threed.created"
)

// Event is a live-feed notification about something that just happened in
// the gallery.
type Event struct {
	Type string    `json:"type"`
	Data any       `json:"data"`
	At   time.Time `json:"at"`
}
