package utils

import (
	"encoding/hex"
	"encoding/json"
	"strings"
)

// HexString carries raw bytes that travel as hex in JSON. Card ids and keys
// are emitted upper-case; either case is accepted on input.
type HexString []byte

// MarshalJSON serializes HexString to hex
func (s HexString) MarshalJSON() ([]byte, error) {
	bytes, err := json.Marshal(BtoX(s))
	return bytes, err
}

// UnmarshalJSON deserializes HexString to hex
func (s *HexString) UnmarshalJSON(data []byte) error {
	var x string
	err := json.Unmarshal(data, &x)
	if err != nil {
		return err
	}
	str, err := Xtob(x)
	if err != nil {
		return err
	}

	*s = HexString(str)
	return nil
}

func (s HexString) String() string {
	return BtoX(s)
}

func Btox(bytes []byte) string {
	return hex.EncodeToString(bytes)
}

func BtoX(bytes []byte) string {
	return strings.ToUpper(hex.EncodeToString(bytes))
}

func Xtob(str string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(str), "0x"))
}
