package signal

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	BatchChanged   = "batch-changed"
	ArtworkUpdated = "artwork-updated"
)

type SignalHandler func([]byte)

type Envelope struct {
	ID    string      `json:"id"`
	Type  string      `json:"type"`
	Event interface{} `json:"event"`
}

var (
	mu      sync.RWMutex
	handler SignalHandler
)

// SetSignalHandler installs the receiver of all signals. Passing nil drops them.
func SetSignalHandler(h SignalHandler) {
	mu.Lock()
	defer mu.Unlock()
	handler = h
}

func Send(typ string, event interface{}) {
	mu.RLock()
	h := handler
	mu.RUnlock()

	if h == nil {
		return
	}

	data, err := json.Marshal(Envelope{
		ID:    uuid.NewString(),
		Type:  typ,
		Event: event,
	})
	if err != nil {
		zap.L().Error("failed to marshal signal", zap.String("type", typ), zap.Error(err))
		return
	}

	h(data)
}

type BatchChangedEvent struct {
	Batch     string  `json:"batch"`
	ArtworkID *string `json:"artworkId"`
}

type ArtworkUpdatedEvent struct {
	ArtworkID string `json:"artworkId"`
	Hash      string `json:"hash"`
}
