package tokenx

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
)

func TestNewSigningKeyDefaults(t *testing.T) {
	key, err := NewSigningKey()
	if err != nil {
		t.Fatalf("NewSigningKey: %v", err)
	}
	if key.KeyID() != DefaultKeyID {
		t.Fatalf("unexpected kid: %s", key.KeyID())
	}
	if alg := key.JWK().Algorithm(); alg != jwa.RS256 {
		t.Fatalf("unexpected alg: %s", alg)
	}
	raw, err := key.RSAPrivateKey()
	if err != nil {
		t.Fatalf("RSAPrivateKey: %v", err)
	}
	if bits := raw.N.BitLen(); bits != 2048 {
		t.Fatalf("unexpected key size: %d", bits)
	}
}

func TestNewSigningKeyFromRSA(t *testing.T) {
	raw, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	key, err := NewSigningKeyFromRSA(raw, "alt-key")
	if err != nil {
		t.Fatalf("NewSigningKeyFromRSA: %v", err)
	}
	if key.KeyID() != "alt-key" {
		t.Fatalf("unexpected kid: %s", key.KeyID())
	}

	// Empty kid falls back to the default.
	key, err = NewSigningKeyFromRSA(raw, "")
	if err != nil {
		t.Fatalf("NewSigningKeyFromRSA empty kid: %v", err)
	}
	if key.KeyID() != DefaultKeyID {
		t.Fatalf("unexpected kid: %s", key.KeyID())
	}
}

func TestNewSigningKeyFromRSANil(t *testing.T) {
	_, err := NewSigningKeyFromRSA(nil, "kid")
	if err == nil {
		t.Fatal("expected error")
	}
	var tokenxErr *Error
	if !errors.As(err, &tokenxErr) || tokenxErr.Code != ErrCodeSigning {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSigningKeyPublicSet(t *testing.T) {
	key, err := NewSigningKey()
	if err != nil {
		t.Fatalf("NewSigningKey: %v", err)
	}
	set, err := key.PublicSet()
	if err != nil {
		t.Fatalf("PublicSet: %v", err)
	}
	if set.Len() != 1 {
		t.Fatalf("expected 1 key, got %d", set.Len())
	}
	pub, ok := set.LookupKeyID(DefaultKeyID)
	if !ok {
		t.Fatal("kid not found in set")
	}

	var rsaPub rsa.PublicKey
	if err := pub.Raw(&rsaPub); err != nil {
		t.Fatalf("expected public key material: %v", err)
	}
	var rsaPriv rsa.PrivateKey
	if err := pub.Raw(&rsaPriv); err == nil {
		t.Fatal("public set must not carry private material")
	}
}

func TestRandomKeyID(t *testing.T) {
	first := RandomKeyID()
	second := RandomKeyID()
	if first == "" || first == second {
		t.Fatalf("expected distinct ids, got %q and %q", first, second)
	}
	if _, err := uuid.Parse(first); err != nil {
		t.Fatalf("id is not a uuid: %v", err)
	}
}
