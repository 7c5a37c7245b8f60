package signature

import (
	"crypto/sha256"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/tangem/tangem-artwork-go/pkg/utils"
)

const rawSignatureLength = 64

var (
	secp256k1N     = crypto.S256().Params().N
	secp256k1HalfN = new(big.Int).Rsh(secp256k1N, 1)
)

// Verifier checks a detached signature over message with publicKey.
// Malformed input of any kind yields false.
type Verifier interface {
	Verify(publicKey, message, signature []byte) bool
}

type VerifierFunc func(publicKey, message, signature []byte) bool

func (f VerifierFunc) Verify(publicKey, message, signature []byte) bool {
	return f(publicKey, message, signature)
}

// Secp256k1Verifier verifies SHA-256 ECDSA signatures in raw r||s form, as
// produced by card issuers.
type Secp256k1Verifier struct {
	logger *zap.Logger
}

func NewSecp256k1Verifier(logger *zap.Logger) *Secp256k1Verifier {
	if logger == nil {
		logger = zap.L()
	}
	return &Secp256k1Verifier{logger: logger.Named("signature")}
}

func (v *Secp256k1Verifier) Verify(publicKey, message, signature []byte) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("signature verification panicked", zap.Any("panic", r))
			ok = false
		}
	}()

	if len(publicKey) == 0 || len(signature) != rawSignatureLength {
		return false
	}

	digest := sha256.Sum256(message)
	return crypto.VerifySignature(publicKey, digest[:], normalizeS(signature))
}

// normalizeS maps a high-S signature onto its low-S twin. Both are valid
// ECDSA signatures but go-ethereum only accepts the low form.
func normalizeS(signature []byte) []byte {
	s := new(big.Int).SetBytes(signature[32:])
	if s.Cmp(secp256k1HalfN) <= 0 {
		return signature
	}

	out := make([]byte, rawSignatureLength)
	copy(out, signature[:32])
	s.Sub(secp256k1N, s)
	s.FillBytes(out[32:])
	return out
}

// SubstitutionMessage is the byte string an issuer signs for a batch
// substitution: the batch code followed by the payload, both UTF-8.
func SubstitutionMessage(batch, payload string) []byte {
	msg := make([]byte, 0, len(batch)+len(payload))
	msg = append(msg, batch...)
	msg = append(msg, payload...)
	return msg
}

// VerifySubstitution checks a stored or received substitution pair. An
// absent pair is trivially valid; a half-present pair never is.
func VerifySubstitution(v Verifier, issuerPublicKey []byte, batch string, data, signatureHex *string) bool {
	if data == nil && signatureHex == nil {
		return true
	}
	if data == nil || signatureHex == nil {
		return false
	}

	sig, err := utils.Xtob(*signatureHex)
	if err != nil {
		return false
	}

	return v.Verify(issuerPublicKey, SubstitutionMessage(batch, *data), sig)
}
