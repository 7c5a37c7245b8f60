package internal

const (
	ArtworksCatalogFile = "artworks.json"
	BatchesCatalogFile  = "batches.json"
	ArtworksDir         = "artworks"
	ArtworkFileExt      = ".png"
	DirPerm             = 0750
	FilePerm            = 0640
)

const (
	DefaultArtworkID    = "card_default"
	DefaultNFTArtworkID = "card_default_nft"
	NFTSymbolPrefix     = "NFT:"
	PlaceholderValue    = "not defined"
)

const (
	DefaultVerifyAPIURL   = "https://verify.tangem.com"
	DefaultMaxArtworkSize = 4 * 1024 * 1024
)
