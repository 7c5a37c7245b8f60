package artwork

import (
	"strings"

	"github.com/tangem/tangem-artwork-go/internal"
)

type RuleKind int

const (
	CIDRange RuleKind = iota
	BatchExact
)

// Rule maps a legacy card cohort to a built-in artwork. CIDRange rules
// compare the upper-case hex CID lexicographically against [From, To];
// BatchExact rules compare the batch code exactly.
type Rule struct {
	Kind      RuleKind
	From      string
	To        string
	Batch     string
	ArtworkID string
}

func (r Rule) Match(hexCID, batch string) bool {
	switch r.Kind {
	case CIDRange:
		return hexCID != "" && r.From <= hexCID && hexCID <= r.To
	case BatchExact:
		return r.Batch == batch
	default:
		return false
	}
}

func (r Rule) Step() ResolutionStep {
	if r.Kind == CIDRange {
		return StepCIDRule
	}
	return StepBatchRule
}

func cidRange(from, to, artworkID string) Rule {
	return Rule{Kind: CIDRange, From: from, To: to, ArtworkID: artworkID}
}

func batch(code, artworkID string) Rule {
	return Rule{Kind: BatchExact, Batch: code, ArtworkID: artworkID}
}

type DefaultPolicy int

const (
	SingleDefault DefaultPolicy = iota
	// NFTAware picks the NFT default for cards whose token symbol has the NFT: prefix.
	NFTAware
)

// Profile bundles the legacy rule table, the default-artwork policy and the
// built-in artworks registered into the catalog at startup.
type Profile struct {
	Name          string
	Rules         []Rule
	DefaultPolicy DefaultPolicy
	BuiltIns      []string
}

func (p Profile) DefaultArtworkID(card *CardRecord) string {
	if p.DefaultPolicy == NFTAware && card != nil && strings.HasPrefix(card.TokenSymbol, internal.NFTSymbolPrefix) {
		return internal.DefaultNFTArtworkID
	}
	return internal.DefaultArtworkID
}

// MatchingRules returns the rules that apply to the card, in evaluation order.
func (p Profile) MatchingRules(hexCID, batchCode string) []Rule {
	var out []Rule
	for _, r := range p.Rules {
		if r.Match(hexCID, batchCode) {
			out = append(out, r)
		}
	}
	return out
}

var firstSeriesCIDRules = []Rule{
	cidRange("AA01000000000000", "AA01000000004999", "card_ru006"),
	cidRange("AA01000000005000", "AA01000000009999", "card_ru007"),

	cidRange("AE01000000000000", "AE01000000004999", "card_ru006"),
	cidRange("AE01000000005000", "AE01000000009999", "card_ru007"),

	cidRange("CB01000000000000", "CB01000000009999", "card_ru006"),
	cidRange("CB01000000010000", "CB01000000019999", "card_ru007"),

	cidRange("CB01000000020000", "CB01000000039999", "card_ru006"),
	cidRange("CB01000000040000", "CB01000000059999", "card_ru007"),

	cidRange("CB02000000000000", "CB02000000024999", "card_ru006"),
	cidRange("CB02000000025000", "CB02000000049999", "card_ru007"),

	cidRange("CB05000010000000", "CB05000010009999", "card_ru006"),
}

var firstSeriesBatchRules = []Rule{
	batch("0004", "card_ru006"),
	batch("0006", "card_ru006"),
	batch("0010", "card_ru006"),
	batch("0005", "card_ru007"),
	batch("0007", "card_ru007"),
	batch("0011", "card_ru007"),
	batch("0012", "card_ru011"),
	batch("0013", "card_ru012"),
	batch("0014", "card_ru006"),
	batch("0015", "card_ru020"),
	batch("0016", "card_ru021"),
	batch("0017", "card_ru013"),
	batch("0019", "card_ru016"),
	batch("001A", "card_ru014"),
	batch("001B", "card_ru015"),
	batch("001C", "card_ru023"),
	batch("001D", "card_ru022"),
}

var clientBuiltIns = []string{
	"card_default",
	"card_ru006", "card_ru007",
	"card_ru011", "card_ru012", "card_ru013", "card_ru014", "card_ru015", "card_ru016",
	"card_ru020", "card_ru021", "card_ru022", "card_ru023",
}

// ClientProfile is the wallet application's rule set with a single default.
var ClientProfile = Profile{
	Name:          "client",
	Rules:         concat(firstSeriesCIDRules, firstSeriesBatchRules),
	DefaultPolicy: SingleDefault,
	BuiltIns:      clientBuiltIns,
}

// ServerProfile is the issuer tooling's rule set: later cohorts and an NFT default.
var ServerProfile = Profile{
	Name: "server",
	Rules: concat(
		firstSeriesCIDRules,
		[]Rule{
			// LTC and DGX
			cidRange("CB25000000000000", "CB25000000099999", "card_ru043"),
			cidRange("CB26000000000000", "CB26000000099999", "card_tg044"),
			// business cards
			cidRange("BC00000000000000", "BC99999999999999", "card_bc00"),
		},
		firstSeriesBatchRules,
		[]Rule{
			batch("001E", "card_ru024"),
			batch("001F", "card_ru028"),
			batch("0018", "card_ru029"),
			batch("0020", "card_ru030"),
			batch("0021", "card_ru031"),
			batch("0022", "card_ru032"),
			batch("FF32", "card_ff32"),
			batch("0025", "card_ru037"),
			batch("0027", "card_ru038"),
			batch("0030", "card_ru038"),
			batch("0026", "card_ru039"),
			batch("0028", "card_ru040"),
			batch("0029", "card_ru041"),
			batch("0031", "card_ru042"),
			batch("0034", "card_tg046"),
			batch("0037", "card_tg049"),
			batch("0038", "card_tg051"),
			batch("0039", "card_tg052"),
			batch("0041", "card_tg054"),
			batch("0042", "card_tg055"),
			batch("0044", "card_tg058"),
			batch("0046", "card_tg054"),
			batch("0047", "card_tg055"),
			batch("0045", "card_tg057"),
			batch("0049", "card_tg060"),
			batch("0050", "card_tg061"),
			batch("0051", "card_tg062"),
			batch("0052", "card_tg063"),
		},
	),
	DefaultPolicy: NFTAware,
	BuiltIns: concat(
		[]string{"card_default_nft"},
		clientBuiltIns,
		[]string{
			"card_ru024", "card_ru028", "card_ru029", "card_ru030", "card_ru031", "card_ru032",
			"card_ff32",
			"card_ru037", "card_ru038", "card_ru039", "card_ru040", "card_ru041", "card_ru042", "card_ru043",
			"card_tg044", "card_tg046", "card_tg049", "card_tg051", "card_tg052", "card_tg054", "card_tg055",
			"card_tg057", "card_tg058", "card_tg060", "card_tg061", "card_tg062", "card_tg063",
			"card_tgslix", "card_bc00",
		},
	),
}

func ProfileByName(name string) (Profile, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ClientProfile.Name:
		return ClientProfile, true
	case ServerProfile.Name:
		return ServerProfile, true
	default:
		return Profile{}, false
	}
}

func concat[T any](parts ...[]T) []T {
	var n int
	for _, p := range parts {
		n += len(p)
	}
	out := make([]T, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
