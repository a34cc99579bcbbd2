package tokenx

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
)

// DefaultKeyID is the key identifier stamped on generated signing keys.
const DefaultKeyID = "key-1"

const signingKeyBits = 2048

// SigningKey is an RSA key pair used to sign test tokens. The key id is
// echoed into the token header so a verifier can select the matching
// public key.
type SigningKey struct {
	key jwk.Key
}

// NewSigningKey generates a fresh 2048-bit RSA signing key tagged with
// DefaultKeyID. Generation is CPU-bound and typically takes tens of
// milliseconds.
func NewSigningKey() (*SigningKey, error) {
	raw, err := rsa.GenerateKey(rand.Reader, signingKeyBits)
	if err != nil {
		return nil, newError(ErrCodeSigning, fmt.Errorf("generate rsa key: %w", err))
	}
	return NewSigningKeyFromRSA(raw, DefaultKeyID)
}

// NewSigningKeyFromRSA wraps caller-supplied RSA key material, allowing one
// key pair to be shared across builders and with an out-of-process verifier.
func NewSigningKeyFromRSA(raw *rsa.PrivateKey, kid string) (*SigningKey, error) {
	if raw == nil {
		return nil, newError(ErrCodeSigning, errors.New("rsa private key is nil"))
	}
	if kid == "" {
		kid = DefaultKeyID
	}
	key, err := jwk.FromRaw(raw)
	if err != nil {
		return nil, newError(ErrCodeSigning, fmt.Errorf("wrap rsa key: %w", err))
	}
	if err := key.Set(jwk.KeyIDKey, kid); err != nil {
		return nil, newError(ErrCodeSigning, fmt.Errorf("set kid: %w", err))
	}
	if err := key.Set(jwk.AlgorithmKey, jwa.RS256); err != nil {
		return nil, newError(ErrCodeSigning, fmt.Errorf("set alg: %w", err))
	}
	if err := key.Set(jwk.KeyUsageKey, "sig"); err != nil {
		return nil, newError(ErrCodeSigning, fmt.Errorf("set use: %w", err))
	}
	return &SigningKey{key: key}, nil
}

// KeyID returns the key identifier.
func (k *SigningKey) KeyID() string {
	return k.key.KeyID()
}

// JWK returns the private key as a jwk.Key.
func (k *SigningKey) JWK() jwk.Key {
	return k.key
}

// RSAPrivateKey returns the raw RSA private key backing the pair.
func (k *SigningKey) RSAPrivateKey() (*rsa.PrivateKey, error) {
	var raw rsa.PrivateKey
	if err := k.key.Raw(&raw); err != nil {
		return nil, newError(ErrCodeSigning, fmt.Errorf("raw key: %w", err))
	}
	return &raw, nil
}

// PublicKey returns the public half of the pair, carrying the same key id
// and algorithm.
func (k *SigningKey) PublicKey() (jwk.Key, error) {
	pub, err := jwk.PublicKeyOf(k.key)
	if err != nil {
		return nil, newError(ErrCodeSigning, fmt.Errorf("public key: %w", err))
	}
	return pub, nil
}

// PublicSet returns a single-key JWKS containing the public half, the shape
// a verifier expects to load.
func (k *SigningKey) PublicSet() (jwk.Set, error) {
	pub, err := k.PublicKey()
	if err != nil {
		return nil, err
	}
	set := jwk.NewSet()
	if err := set.AddKey(pub); err != nil {
		return nil, newError(ErrCodeSigning, fmt.Errorf("add key: %w", err))
	}
	return set, nil
}

// RandomKeyID returns a random key identifier for callers juggling several
// key pairs in one test run.
func RandomKeyID() string {
	return uuid.NewString()
}
