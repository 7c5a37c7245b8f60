package signal

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend(t *testing.T) {
	var received [][]byte
	SetSignalHandler(func(b []byte) { received = append(received, b) })
	defer SetSignalHandler(nil)

	Send(ArtworkUpdated, ArtworkUpdatedEvent{ArtworkID: "card_ru039", Hash: "AB"})
	require.Len(t, received, 1)

	var env struct {
		ID    string              `json:"id"`
		Type  string              `json:"type"`
		Event ArtworkUpdatedEvent `json:"event"`
	}
	require.NoError(t, json.Unmarshal(received[0], &env))
	assert.Equal(t, ArtworkUpdated, env.Type)
	assert.Equal(t, "card_ru039", env.Event.ArtworkID)
	_, err := uuid.Parse(env.ID)
	assert.NoError(t, err)
}

func TestSendWithoutHandler(t *testing.T) {
	SetSignalHandler(nil)
	assert.NotPanics(t, func() { Send(BatchChanged, BatchChangedEvent{Batch: "0039"}) })
}

func TestSendUnmarshalable(t *testing.T) {
	called := false
	SetSignalHandler(func([]byte) { called = true })
	defer SetSignalHandler(nil)

	Send(BatchChanged, make(chan int))
	assert.False(t, called)
}
