package artwork

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/tangem/tangem-artwork-go/internal"
)

// CardDataSubstitution is the decoded form of an issuer-signed payload.
type CardDataSubstitution struct {
	TokenSymbol     *string `json:"token_symbol"`
	TokenDecimals   *int    `json:"token_decimal"`
	ContractAddress *string `json:"token_contract_address"`
}

func ParseSubstitution(payload string) (*CardDataSubstitution, error) {
	var s CardDataSubstitution
	err := json.Unmarshal([]byte(payload), &s)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse substitution")
	}
	return &s, nil
}

// ApplyTo fills card fields that are unset. Fields that already carry a
// value are left alone. It reports whether the card changed.
func (s *CardDataSubstitution) ApplyTo(card *CardRecord) bool {
	changed := false

	if s.TokenSymbol != nil && internal.IsUnset(card.TokenSymbol) && card.TokenSymbol != *s.TokenSymbol {
		card.TokenSymbol = *s.TokenSymbol
		changed = true
	}
	if s.TokenDecimals != nil && card.TokenDecimals == 0 && *s.TokenDecimals != 0 {
		card.TokenDecimals = *s.TokenDecimals
		changed = true
	}
	if s.ContractAddress != nil && internal.IsUnset(card.ContractAddress) && card.ContractAddress != *s.ContractAddress {
		card.ContractAddress = *s.ContractAddress
		changed = true
	}

	return changed
}
