package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexStringJSON(t *testing.T) {
	var payload struct {
		CID HexString `json:"cid"`
	}

	err := json.Unmarshal([]byte(`{"cid":"aa01000000000001"}`), &payload)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0x01, 0, 0, 0, 0, 0, 0x01}, []byte(payload.CID))
	assert.Equal(t, "AA01000000000001", payload.CID.String())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"cid":"AA01000000000001"}`, string(out))
}

func TestHexStringRejectsInvalidHex(t *testing.T) {
	var s HexString
	err := json.Unmarshal([]byte(`"zz"`), &s)
	assert.Error(t, err)
}

func TestXtobAcceptsPrefix(t *testing.T) {
	b, err := Xtob("0x0A0b")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0A, 0x0B}, b)
}
