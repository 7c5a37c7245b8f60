package artwork

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tangem/tangem-artwork-go/internal"
	"github.com/tangem/tangem-artwork-go/pkg/catalog"
	"github.com/tangem/tangem-artwork-go/pkg/signature"
	"github.com/tangem/tangem-artwork-go/pkg/utils"
	"github.com/tangem/tangem-artwork-go/resources"
)

var (
	errBlankArtworkID   = errors.New("artwork id is blank")
	errInvalidArtworkID = errors.New("artwork id is not a plain file name")
)

// Cache owns the artwork and batch catalogs of one storage directory.
// It is safe for concurrent use.
type Cache struct {
	// mu serializes read-compare-write sequences across both catalogs.
	mu sync.Mutex

	dir         string
	artworksDir string
	artworks    *catalog.Artworks
	batches     *catalog.Batches

	logger    *zap.Logger
	verifier  signature.Verifier
	profile   Profile
	resources fs.FS
	metrics   Metrics
}

// New loads the catalogs under dir and registers missing built-in artworks.
// Corrupt catalog documents are reset to empty; only I/O failures on the
// storage directory are returned.
func New(dir string, opts ...Option) (*Cache, error) {
	c := &Cache{
		dir:         dir,
		artworksDir: filepath.Join(dir, internal.ArtworksDir),
		logger:      zap.L().Named("artwork"),
		profile:     ClientProfile,
		resources:   resources.FS,
		metrics:     nopMetrics{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.verifier == nil {
		c.verifier = signature.NewSecp256k1Verifier(c.logger)
	}

	err := os.MkdirAll(c.artworksDir, internal.DirPerm)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create artworks directory")
	}

	c.artworks, err = catalog.Open[catalog.ArtworkEntry](filepath.Join(dir, internal.ArtworksCatalogFile), c.logger)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open artworks catalog")
	}

	c.batches, err = catalog.Open[catalog.BatchEntry](filepath.Join(dir, internal.BatchesCatalogFile), c.logger)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open batches catalog")
	}

	err = c.registerBuiltIns()
	if err != nil {
		return nil, err
	}

	c.logger.Debug("artwork cache ready",
		zap.String("dir", dir),
		zap.String("profile", c.profile.Name),
		zap.Int("artworks", c.artworks.Len()),
		zap.Int("batches", c.batches.Len()))

	return c, nil
}

func (c *Cache) registerBuiltIns() error {
	missing := make(map[string]catalog.ArtworkEntry)

	for _, id := range c.profile.BuiltIns {
		key := internal.NormalizeArtworkID(id)
		if _, ok := c.artworks.Get(key); ok {
			continue
		}

		data, err := c.readResource(key)
		if err != nil {
			c.logger.Error("built-in artwork unavailable", zap.String("artworkId", key), zap.Error(err))
			continue
		}

		missing[key] = catalog.ArtworkEntry{
			IsResource: true,
			Hash:       internal.SHA256Hex(data),
		}
	}

	err := c.artworks.PutMany(missing)
	if err != nil {
		return errors.Wrap(err, "failed to register built-in artworks")
	}
	return nil
}

func (c *Cache) Profile() Profile {
	return c.profile
}

func (c *Cache) Artwork(id string) (catalog.ArtworkEntry, bool) {
	return c.artworks.Get(internal.NormalizeArtworkID(id))
}

func (c *Cache) Batch(code string) (catalog.BatchEntry, bool) {
	return c.batches.Get(code)
}

func (c *Cache) ArtworkCount() int {
	return c.artworks.Len()
}

func (c *Cache) BatchCount() int {
	return c.batches.Len()
}

// NeedsArtworkUpdate reports whether remote describes artwork newer than the
// cached copy. A differing hash only counts when the remote update date is
// later than the local one.
func (c *Cache) NeedsArtworkUpdate(remote *RemoteArtwork) bool {
	if remote == nil || internal.IsBlank(remote.ID) {
		return false
	}

	local, ok := c.artworks.Get(internal.NormalizeArtworkID(remote.ID))
	if !ok {
		return true
	}

	if strings.EqualFold(local.Hash, remote.Hash) {
		return false
	}

	if local.UpdateDate == nil {
		return true
	}
	if remote.UpdateDate == nil {
		return false
	}
	return local.UpdateDate.Before(*remote.UpdateDate)
}

// CheckAndApplyBatchChange stores the remote batch description when it
// differs from the cached one and reports whether it did. A substitution that
// fails verification is dropped before comparison, so it is never stored.
func (c *Cache) CheckAndApplyBatchChange(card *CardRecord, remote *RemoteCardInfo) bool {
	if card == nil || remote == nil {
		return false
	}

	if card.Batch != remote.Batch {
		c.logger.Error("invalid batch received",
			zap.String("cardBatch", card.Batch),
			zap.String("remoteBatch", remote.Batch))
		return false
	}

	var data, sig *string
	if remote.Substitution != nil {
		data, sig = remote.Substitution.Data, remote.Substitution.Signature
	}

	if !signature.VerifySubstitution(c.verifier, card.IssuerPublicKey, card.Batch, data, sig) {
		c.logger.Warn("discarding unverified substitution", zap.String("batch", card.Batch))
		c.metrics.SubstitutionRejected()
		data, sig = nil, nil
	}

	var artworkID *string
	if remote.Artwork != nil && !internal.IsBlank(remote.Artwork.ID) {
		id := internal.NormalizeArtworkID(remote.Artwork.ID)
		artworkID = &id
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	stored, ok := c.batches.Get(remote.Batch)
	if ok && equalPtr(stored.ArtworkID, artworkID) && equalPtr(stored.DataSubstitution, data) {
		return false
	}

	err := c.batches.Put(remote.Batch, catalog.BatchEntry{
		ArtworkID:                 artworkID,
		DataSubstitution:          data,
		DataSubstitutionSignature: sig,
	})
	if err != nil {
		c.logger.Error("failed to save batch", zap.String("batch", remote.Batch), zap.Error(err))
		return false
	}

	c.metrics.BatchChanged()
	return true
}

// UpdateArtwork stores a downloaded artwork and records its content hash.
func (c *Cache) UpdateArtwork(artworkID string, r io.Reader, updateDate time.Time) error {
	if internal.IsBlank(artworkID) {
		return errBlankArtworkID
	}
	id := internal.NormalizeArtworkID(artworkID)
	if filepath.Base(id) != id || id == "." || id == ".." {
		return errInvalidArtworkID
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "failed to read artwork")
	}

	if _, err := decodeImage(id, SourceFile, data); err != nil {
		c.logger.Warn("storing artwork that does not decode", zap.String("artworkId", id), zap.Error(err))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err = c.writeArtworkFile(id, data)
	if err != nil {
		return err
	}

	err = c.artworks.Put(id, catalog.ArtworkEntry{
		IsResource: false,
		Hash:       internal.SHA256Hex(data),
		UpdateDate: &updateDate,
	})
	if err != nil {
		return errors.Wrap(err, "failed to save artwork entry")
	}

	c.metrics.ArtworkUpdated()
	c.logger.Info("artwork updated", zap.String("artworkId", id), zap.Int("size", len(data)))
	return nil
}

// ResolveArtworkImage picks the image to show for card. It tries, in order,
// the legacy CID and batch rules, the batch catalog, and the default
// artwork; a step whose image cannot be loaded falls through to the next.
func (c *Cache) ResolveArtworkImage(card *CardRecord) *Image {
	if card == nil {
		card = &CardRecord{}
	}

	for _, rule := range c.profile.MatchingRules(utils.BtoX(card.CID), card.Batch) {
		if img := c.loadArtwork(rule.ArtworkID); img != nil {
			c.metrics.ImageResolved(rule.Step())
			return img
		}
	}

	if entry, ok := c.batches.Get(card.Batch); ok && entry.ArtworkID != nil {
		if img := c.loadArtwork(*entry.ArtworkID); img != nil {
			c.metrics.ImageResolved(StepCatalog)
			return img
		}
	}

	return c.defaultImage(card)
}

// ApplySubstitution re-verifies the stored substitution for the card's batch
// and fills the card fields it covers. It reports whether the card changed.
func (c *Cache) ApplySubstitution(card *CardRecord) bool {
	if card == nil {
		return false
	}

	entry, ok := c.batches.Get(card.Batch)
	if !ok || entry.DataSubstitution == nil {
		return false
	}

	if !signature.VerifySubstitution(c.verifier, card.IssuerPublicKey, card.Batch, entry.DataSubstitution, entry.DataSubstitutionSignature) {
		c.logger.Warn("stored substitution failed verification", zap.String("batch", card.Batch))
		c.metrics.SubstitutionRejected()
		return false
	}

	s, err := ParseSubstitution(*entry.DataSubstitution)
	if err != nil {
		c.logger.Error("invalid substitution payload", zap.String("batch", card.Batch), zap.Error(err))
		return false
	}

	return s.ApplyTo(card)
}

func (c *Cache) defaultImage(card *CardRecord) *Image {
	id := c.profile.DefaultArtworkID(card)

	if entry, ok := c.artworks.Get(id); ok && !entry.IsResource {
		if img := c.loadFile(id); img != nil {
			c.metrics.ImageResolved(StepDefault)
			return img
		}
	}

	candidates := []string{id}
	if id != internal.DefaultArtworkID {
		candidates = append(candidates, internal.DefaultArtworkID)
	}
	for _, candidate := range candidates {
		if img := c.loadResource(candidate); img != nil {
			c.metrics.ImageResolved(StepDefault)
			return img
		}
	}

	c.logger.Error("default artwork unavailable", zap.String("artworkId", id))
	c.metrics.ImageResolved(StepFallback)
	return &Image{ArtworkID: id, Source: SourceResource}
}

func (c *Cache) loadArtwork(artworkID string) *Image {
	if internal.IsBlank(artworkID) {
		return nil
	}
	id := internal.NormalizeArtworkID(artworkID)

	entry, ok := c.artworks.Get(id)
	if !ok {
		return nil
	}

	if entry.IsResource {
		return c.loadResource(id)
	}
	return c.loadFile(id)
}

func (c *Cache) loadResource(id string) *Image {
	data, err := c.readResource(id)
	if err != nil {
		c.logger.Debug("resource artwork missing", zap.String("artworkId", id), zap.Error(err))
		return nil
	}

	img, err := decodeImage(id, SourceResource, data)
	if err != nil {
		c.logger.Warn("failed to decode resource artwork", zap.String("artworkId", id), zap.Error(err))
		return nil
	}
	return img
}

func (c *Cache) loadFile(id string) *Image {
	data, err := os.ReadFile(c.artworkPath(id))
	if err != nil {
		c.logger.Debug("artwork file missing", zap.String("artworkId", id), zap.Error(err))
		return nil
	}

	img, err := decodeImage(id, SourceFile, data)
	if err != nil {
		c.logger.Warn("failed to decode artwork file", zap.String("artworkId", id), zap.Error(err))
		return nil
	}
	return img
}

func (c *Cache) readResource(id string) ([]byte, error) {
	return fs.ReadFile(c.resources, id+internal.ArtworkFileExt)
}

func (c *Cache) artworkPath(id string) string {
	return filepath.Join(c.artworksDir, id+internal.ArtworkFileExt)
}

func (c *Cache) writeArtworkFile(id string, data []byte) error {
	tmp, err := os.CreateTemp(c.artworksDir, id+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to create artwork file")
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Chmod(internal.FilePerm)
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return errors.Wrap(err, "failed to write artwork file")
	}

	err = os.Rename(tmp.Name(), c.artworkPath(id))
	return errors.Wrap(err, "failed to store artwork file")
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
