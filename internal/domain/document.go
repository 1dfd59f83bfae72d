package domain

import "time"

// RawDocument is the hand-off from the crawler collaborator: one listing
// page exactly as fetched. The pipeline never mutates it.
type RawDocument struct {
	ListingID string    `json:"listing_id"`
	SourceURL string    `json:"source_url"`
	Portal    string    `json:"portal"`
	HTML      string    `json:"-"`
	FetchedAt time.Time `json:"fetched_at"`
}
