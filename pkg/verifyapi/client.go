package verifyapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tangem/tangem-artwork-go/internal"
	"github.com/tangem/tangem-artwork-go/pkg/utils"
)

const artworkPath = "/card/artwork"

var (
	errArtworkTooLarge = errors.New("artwork exceeds size limit")
	errEmptyArtwork    = errors.New("empty artwork response")
)

type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("verify api returned status %d", e.Code)
}

type Config struct {
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     uint64
	MaxArtworkSize int64
	// InitialInterval is the first retry delay; later delays grow exponentially.
	InitialInterval time.Duration
}

// Client downloads card artworks from the verify backend.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *zap.Logger
	cfg     Config
}

func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = internal.DefaultVerifyAPIURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxArtworkSize <= 0 {
		cfg.MaxArtworkSize = internal.DefaultMaxArtworkSize
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = 500 * time.Millisecond
	}
	if logger == nil {
		logger = zap.L()
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid verify api url")
	}

	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger.Named("verifyapi"),
		cfg:     cfg,
	}, nil
}

// FetchArtwork downloads the artwork image for a card. Transport failures
// and 5xx answers are retried; other statuses fail immediately.
func (c *Client) FetchArtwork(ctx context.Context, artworkID string, cid, publicKey []byte) ([]byte, error) {
	if internal.IsBlank(artworkID) {
		return nil, errors.New("artwork id is blank")
	}

	u := *c.baseURL
	u.Path = u.Path + artworkPath
	q := u.Query()
	q.Set("artworkId", artworkID)
	q.Set("CID", utils.BtoX(cid))
	q.Set("publicKey", utils.BtoX(publicKey))
	u.RawQuery = q.Encode()
	target := u.String()

	var data []byte
	operation := func() error {
		var err error
		data, err = c.get(ctx, target)
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.cfg.InitialInterval
	b := backoff.WithContext(backoff.WithMaxRetries(policy, c.cfg.MaxRetries), ctx)

	notify := func(err error, next time.Duration) {
		c.logger.Warn("artwork download failed, retrying",
			zap.String("artworkId", artworkID),
			zap.Duration("next", next),
			zap.Error(err))
	}

	err := backoff.RetryNotify(operation, b, notify)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to download artwork %s", artworkID)
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, &StatusError{Code: resp.StatusCode}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, backoff.Permanent(&StatusError{Code: resp.StatusCode})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxArtworkSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > c.cfg.MaxArtworkSize {
		return nil, backoff.Permanent(errArtworkTooLarge)
	}
	if len(body) == 0 {
		return nil, backoff.Permanent(errEmptyArtwork)
	}

	return body, nil
}
