package artwork

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/sha256"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tangem/tangem-artwork-go/pkg/signature"
	"github.com/tangem/tangem-artwork-go/pkg/utils"
)

type issuer struct {
	key *ecdsa.PrivateKey
}

func newIssuer(t *testing.T) *issuer {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return &issuer{key: key}
}

func (i *issuer) publicKey() utils.HexString {
	return crypto.FromECDSAPub(&i.key.PublicKey)
}

func (i *issuer) sign(t *testing.T, batch, payload string) string {
	t.Helper()
	digest := sha256.Sum256(signature.SubstitutionMessage(batch, payload))
	sig, err := crypto.Sign(digest[:], i.key)
	require.NoError(t, err)
	return utils.BtoX(sig[:64])
}

func (i *issuer) substitution(t *testing.T, batch, payload string) *RemoteSubstitution {
	sig := i.sign(t, batch, payload)
	return &RemoteSubstitution{Data: &payload, Signature: &sig}
}

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestCache(t *testing.T, opts ...Option) (*Cache, string) {
	t.Helper()
	dir := t.TempDir()
	cache, err := New(dir, append([]Option{WithLogger(zap.NewNop())}, opts...)...)
	require.NoError(t, err)
	return cache, dir
}

func mustHex(t *testing.T, s string) utils.HexString {
	t.Helper()
	b, err := utils.Xtob(s)
	require.NoError(t, err)
	return b
}

func strPtr(s string) *string { return &s }
