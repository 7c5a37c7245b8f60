package session

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tangem/tangem-artwork-go/internal"
	"github.com/tangem/tangem-artwork-go/pkg/artwork"
	"github.com/tangem/tangem-artwork-go/signal"
)

var (
	errArtworkServiceNotStarted = errors.New("artwork service not started")
)

// Downloader fetches artwork bytes for a card from the verify backend.
type Downloader interface {
	FetchArtwork(ctx context.Context, artworkID string, cid, publicKey []byte) ([]byte, error)
}

// DownloadObserver is told about every download attempt made by SyncCard.
type DownloadObserver interface {
	ArtworkDownloaded(err error)
}

type ServiceOption func(*ArtworkService)

func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *ArtworkService) {
		if logger != nil {
			s.logger = logger.Named("session")
		}
	}
}

func WithDownloader(d Downloader) ServiceOption {
	return func(s *ArtworkService) {
		s.downloader = d
	}
}

func WithDownloadObserver(o DownloadObserver) ServiceOption {
	return func(s *ArtworkService) {
		s.observer = o
	}
}

// WithCacheOptions passes options to every cache the service starts.
func WithCacheOptions(opts ...artwork.Option) ServiceOption {
	return func(s *ArtworkService) {
		s.cacheOptions = append(s.cacheOptions, opts...)
	}
}

func WithSyncTimeout(d time.Duration) ServiceOption {
	return func(s *ArtworkService) {
		s.syncTimeout = d
	}
}

// ArtworkService exposes one artwork cache over JSON-RPC.
type ArtworkService struct {
	mu           sync.RWMutex
	cache        *artwork.Cache
	status       *internal.Status
	logger       *zap.Logger
	downloader   Downloader
	observer     DownloadObserver
	cacheOptions []artwork.Option
	syncTimeout  time.Duration
}

func NewArtworkService(opts ...ServiceOption) *ArtworkService {
	s := &ArtworkService{
		status:      internal.NewStatus(),
		logger:      zap.L().Named("session"),
		syncTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ArtworkService) activeCache() (*artwork.Cache, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cache == nil {
		return nil, errArtworkServiceNotStarted
	}
	return s.cache, nil
}

type StartRequest struct {
	StorageDir string `json:"storageDir" validate:"required"`
	Profile    string `json:"profile" validate:"profile"`
}

func (s *ArtworkService) Start(args *StartRequest, reply *struct{}) error {
	err := validateRequest(args)
	if err != nil {
		return err
	}

	profile, _ := artwork.ProfileByName(args.Profile)
	opts := append([]artwork.Option{
		artwork.WithLogger(s.logger),
		artwork.WithProfile(profile),
	}, s.cacheOptions...)

	cache, err := artwork.New(args.StorageDir, opts...)
	if err != nil {
		return errors.Wrap(err, "failed to start artwork cache")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache = cache
	s.status.State = internal.Ready
	s.status.StorageDir = args.StorageDir
	s.status.Profile = profile.Name

	s.logger.Info("artwork service started", zap.String("storageDir", args.StorageDir), zap.String("profile", profile.Name))
	return nil
}

func (s *ArtworkService) Stop(args *struct{}, reply *struct{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache = nil
	s.status.Reset()
	s.status.State = internal.Stopped
	return nil
}

func (s *ArtworkService) GetStatus(args *struct{}, reply *internal.Status) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	*reply = *s.status
	if s.cache != nil {
		reply.Artworks = s.cache.ArtworkCount()
		reply.Batches = s.cache.BatchCount()
	}
	return nil
}

type NeedsArtworkUpdateRequest struct {
	Artwork *artwork.RemoteArtwork `json:"artwork"`
}

type NeedsArtworkUpdateResponse struct {
	NeedsUpdate bool `json:"needsUpdate"`
}

func (s *ArtworkService) NeedsArtworkUpdate(args *NeedsArtworkUpdateRequest, reply *NeedsArtworkUpdateResponse) error {
	cache, err := s.activeCache()
	if err != nil {
		return err
	}

	reply.NeedsUpdate = cache.NeedsArtworkUpdate(args.Artwork)
	return nil
}

type BatchChangeRequest struct {
	Card   artwork.CardRecord     `json:"card"`
	Remote artwork.RemoteCardInfo `json:"remote"`
}

type BatchChangeResponse struct {
	Changed bool `json:"changed"`
}

func (s *ArtworkService) CheckAndApplyBatchChange(args *BatchChangeRequest, reply *BatchChangeResponse) error {
	cache, err := s.activeCache()
	if err != nil {
		return err
	}

	err = validateRequest(args)
	if err != nil {
		return err
	}

	reply.Changed = s.checkBatch(cache, &args.Card, &args.Remote)
	return nil
}

type UpdateArtworkRequest struct {
	ArtworkID  string    `json:"artworkId" validate:"required"`
	Image      []byte    `json:"image" validate:"required"`
	UpdateDate time.Time `json:"updateDate" validate:"required"`
}

type UpdateArtworkResponse struct {
	Hash string `json:"hash"`
}

func (s *ArtworkService) UpdateArtwork(args *UpdateArtworkRequest, reply *UpdateArtworkResponse) error {
	cache, err := s.activeCache()
	if err != nil {
		return err
	}

	err = validateRequest(args)
	if err != nil {
		return err
	}

	reply.Hash, err = s.storeArtwork(cache, args.ArtworkID, args.Image, args.UpdateDate)
	return err
}

type CardRequest struct {
	Card artwork.CardRecord `json:"card"`
}

func (s *ArtworkService) ResolveArtworkImage(args *CardRequest, reply *artwork.Image) error {
	cache, err := s.activeCache()
	if err != nil {
		return err
	}

	err = validateRequest(args)
	if err != nil {
		return err
	}

	*reply = *cache.ResolveArtworkImage(&args.Card)
	return nil
}

type ApplySubstitutionResponse struct {
	Applied bool               `json:"applied"`
	Card    artwork.CardRecord `json:"card"`
}

func (s *ArtworkService) ApplySubstitution(args *CardRequest, reply *ApplySubstitutionResponse) error {
	cache, err := s.activeCache()
	if err != nil {
		return err
	}

	err = validateRequest(args)
	if err != nil {
		return err
	}

	card := args.Card
	reply.Applied = cache.ApplySubstitution(&card)
	reply.Card = card
	return nil
}

type SyncCardRequest struct {
	Card   artwork.CardRecord     `json:"card"`
	Remote artwork.RemoteCardInfo `json:"remote"`
}

type SyncCardResponse struct {
	BatchChanged        bool               `json:"batchChanged"`
	ArtworkUpdated      bool               `json:"artworkUpdated"`
	SubstitutionApplied bool               `json:"substitutionApplied"`
	Card                artwork.CardRecord `json:"card"`
	Image               *artwork.Image     `json:"image"`
}

// SyncCard runs the whole card-scan refresh: store the batch description,
// download newer artwork when a downloader is configured, enrich the card
// and resolve its image. A failed download leaves the cached image in use.
func (s *ArtworkService) SyncCard(args *SyncCardRequest, reply *SyncCardResponse) error {
	cache, err := s.activeCache()
	if err != nil {
		return err
	}

	err = validateRequest(args)
	if err != nil {
		return err
	}

	card := args.Card
	reply.BatchChanged = s.checkBatch(cache, &card, &args.Remote)

	if s.downloader != nil && cache.NeedsArtworkUpdate(args.Remote.Artwork) {
		reply.ArtworkUpdated = s.downloadArtwork(cache, &card, args.Remote.Artwork)
	}

	reply.SubstitutionApplied = cache.ApplySubstitution(&card)
	reply.Card = card
	reply.Image = cache.ResolveArtworkImage(&card)
	return nil
}

func (s *ArtworkService) downloadArtwork(cache *artwork.Cache, card *artwork.CardRecord, remote *artwork.RemoteArtwork) bool {
	ctx, cancel := context.WithTimeout(context.Background(), s.syncTimeout)
	defer cancel()

	if len(card.CardPublicKey) == 0 {
		s.logger.Warn("skipping artwork download without card public key", zap.String("artworkId", remote.ID))
		return false
	}

	data, err := s.downloader.FetchArtwork(ctx, remote.ID, card.CID, card.CardPublicKey)
	if s.observer != nil {
		s.observer.ArtworkDownloaded(err)
	}
	if err != nil {
		s.logger.Error("failed to download artwork", zap.String("artworkId", remote.ID), zap.Error(err))
		return false
	}

	updateDate := time.Now().UTC()
	if remote.UpdateDate != nil {
		updateDate = *remote.UpdateDate
	}

	_, err = s.storeArtwork(cache, remote.ID, data, updateDate)
	if err != nil {
		s.logger.Error("failed to store artwork", zap.String("artworkId", remote.ID), zap.Error(err))
		return false
	}
	return true
}

func (s *ArtworkService) checkBatch(cache *artwork.Cache, card *artwork.CardRecord, remote *artwork.RemoteCardInfo) bool {
	changed := cache.CheckAndApplyBatchChange(card, remote)
	if changed {
		entry, _ := cache.Batch(remote.Batch)
		signal.Send(signal.BatchChanged, signal.BatchChangedEvent{
			Batch:     remote.Batch,
			ArtworkID: entry.ArtworkID,
		})
	}
	return changed
}

func (s *ArtworkService) storeArtwork(cache *artwork.Cache, artworkID string, data []byte, updateDate time.Time) (string, error) {
	err := cache.UpdateArtwork(artworkID, bytes.NewReader(data), updateDate)
	if err != nil {
		return "", err
	}

	entry, _ := cache.Artwork(artworkID)
	signal.Send(signal.ArtworkUpdated, signal.ArtworkUpdatedEvent{
		ArtworkID: internal.NormalizeArtworkID(artworkID),
		Hash:      entry.Hash,
	})
	return entry.Hash, nil
}
