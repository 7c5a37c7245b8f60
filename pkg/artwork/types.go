package artwork

import (
	"time"

	"github.com/tangem/tangem-artwork-go/pkg/utils"
)

// CardRecord is the subset of a scanned card the cache reads and enriches.
// CardPublicKey is the card's own wallet key, used to request its artwork.
// TokenDecimals of zero means the card does not declare them.
type CardRecord struct {
	CID             utils.HexString `json:"cid" validate:"required"`
	Batch           string          `json:"batch" validate:"required"`
	CardPublicKey   utils.HexString `json:"cardPublicKey"`
	IssuerPublicKey utils.HexString `json:"issuerPublicKey"`
	TokenSymbol     string          `json:"tokenSymbol"`
	TokenDecimals   int             `json:"tokenDecimals"`
	ContractAddress string          `json:"contractAddress"`
}

type RemoteArtwork struct {
	ID         string     `json:"id"`
	Hash       string     `json:"hash"`
	UpdateDate *time.Time `json:"updateDate"`
}

type RemoteSubstitution struct {
	Data      *string `json:"data"`
	Signature *string `json:"signature"`
}

// RemoteCardInfo is one item of the verify backend's answer for a card.
type RemoteCardInfo struct {
	Batch        string              `json:"batch" validate:"required"`
	Artwork      *RemoteArtwork      `json:"artwork"`
	Substitution *RemoteSubstitution `json:"substitution"`
}

type ImageSource string

const (
	SourceResource ImageSource = "resource"
	SourceFile     ImageSource = "file"
)

// Image is a resolved, decodable artwork.
type Image struct {
	ArtworkID string      `json:"artworkId"`
	Source    ImageSource `json:"source"`
	MIMEType  string      `json:"mimeType"`
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	Data      []byte      `json:"data"`
}

// ResolutionStep names the stage of ResolveArtworkImage that produced an image.
type ResolutionStep string

const (
	StepCIDRule   ResolutionStep = "cid-rule"
	StepBatchRule ResolutionStep = "batch-rule"
	StepCatalog   ResolutionStep = "catalog"
	StepDefault   ResolutionStep = "default"
	// StepFallback means even the default artwork could not be decoded.
	StepFallback ResolutionStep = "fallback"
)
