// Package resources bundles the built-in card artworks shipped with the cache.
package resources

import "embed"

//go:embed *.png
var FS embed.FS
