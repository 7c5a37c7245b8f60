package catalog

import "time"

// ArtworkEntry describes one cached artwork, keyed by lower-cased id.
type ArtworkEntry struct {
	IsResource bool       `json:"isResource"`
	Hash       string     `json:"hash"`
	UpdateDate *time.Time `json:"updateDate"`
}

// BatchEntry binds a batch code to an artwork and an optional signed
// substitution payload.
type BatchEntry struct {
	ArtworkID                 *string `json:"artworkId"`
	DataSubstitution          *string `json:"dataSubstitution"`
	DataSubstitutionSignature *string `json:"dataSubstitutionSignature"`
}

type Artworks = Store[ArtworkEntry]
type Batches = Store[BatchEntry]
