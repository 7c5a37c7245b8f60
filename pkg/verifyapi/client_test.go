package verifyapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, url string, retries uint64) *Client {
	t.Helper()
	c, err := NewClient(Config{
		BaseURL:         url,
		Timeout:         2 * time.Second,
		MaxRetries:      retries,
		MaxArtworkSize:  16,
		InitialInterval: time.Millisecond,
	}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestFetchArtwork(t *testing.T) {
	var query atomicValue
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/card/artwork", r.URL.Path)
		query.Store(r.URL.RawQuery)
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 0)
	data, err := c.FetchArtwork(context.Background(), "card_ru039", []byte{0xCB, 0x19}, []byte{0x04, 0x16})
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
	assert.Equal(t, "CID=CB19&artworkId=card_ru039&publicKey=0416", query.Load())
}

func TestFetchArtworkRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 5)
	data, err := c.FetchArtwork(context.Background(), "card_ru039", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), data)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetchArtworkGivesUp(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 2)
	_, err := c.FetchArtwork(context.Background(), "card_ru039", nil, nil)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetchArtworkClientErrorIsPermanent(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 5)
	_, err := c.FetchArtwork(context.Background(), "card_missing", nil, nil)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchArtworkSizeLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 17))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 3)
	_, err := c.FetchArtwork(context.Background(), "card_big", nil, nil)
	assert.ErrorIs(t, err, errArtworkTooLarge)
}

func TestFetchArtworkHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestClient(t, srv.URL, 10)
	_, err := c.FetchArtwork(ctx, "card_ru039", nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchArtworkBlankID(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1", 0)
	_, err := c.FetchArtwork(context.Background(), " ", nil, nil)
	assert.Error(t, err)
}

type atomicValue struct {
	v atomic.Value
}

func (a *atomicValue) Store(s string) { a.v.Store(s) }
func (a *atomicValue) Load() string {
	s, _ := a.v.Load().(string)
	return s
}
