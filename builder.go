package tokenx

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	defaultSubject        = "jdoe"
	defaultScope          = "engineering"
	defaultScopeClaimName = "scope"

	// Seconds between the default issued-at and expiration claims.
	defaultLifetimeSeconds = 60
)

// Builder accumulates claim configuration and key material, then emits a
// compact signed JWT representing those claims. It is a test-support
// utility: expiration is deliberately not validated against issued-at, so
// already-expired tokens can be minted for negative tests.
//
// A Builder is not safe for concurrent mutation; callers must serialize
// access themselves. Build does not mutate the builder, and repeated calls
// with unchanged state produce the identical token (RS256 signing is
// deterministic).
type Builder struct {
	audience         *string
	subject          *string
	subjectClaimName string
	scope            any
	scopeClaimName   string
	issuedAt         *int64
	expiration       *int64
	jwtID            *string
	key              *SigningKey
}

// NewBuilder constructs a Builder with the wall clock: issued-at is now,
// expiration is now + 60s, and a fresh signing key is generated.
func NewBuilder() (*Builder, error) {
	return NewBuilderWithClock(SystemClock())
}

// NewBuilderWithClock is NewBuilder with a caller-supplied time source,
// enabling deterministic issued-at and expiration claims in tests.
func NewBuilderWithClock(clock Clock) (*Builder, error) {
	if clock == nil {
		clock = SystemClock()
	}
	key, err := NewSigningKey()
	if err != nil {
		return nil, err
	}
	issuedAt := clock.Milliseconds() / 1000
	expiration := issuedAt + defaultLifetimeSeconds
	subject := defaultSubject
	return &Builder{
		subject:          &subject,
		subjectClaimName: jwt.SubjectKey,
		scope:            defaultScope,
		scopeClaimName:   defaultScopeClaimName,
		issuedAt:         &issuedAt,
		expiration:       &expiration,
		key:              key,
	}, nil
}

// Audience returns the audience claim value, if set.
func (b *Builder) Audience() (string, bool) {
	if b.audience == nil {
		return "", false
	}
	return *b.audience, true
}

// SetAudience sets the intended recipient claim.
func (b *Builder) SetAudience(audience string) *Builder {
	b.audience = &audience
	return b
}

// ClearAudience removes the audience claim.
func (b *Builder) ClearAudience() *Builder {
	b.audience = nil
	return b
}

// Subject returns the principal claim value, if set.
func (b *Builder) Subject() (string, bool) {
	if b.subject == nil {
		return "", false
	}
	return *b.subject, true
}

// SetSubject sets the principal claim.
func (b *Builder) SetSubject(subject string) *Builder {
	b.subject = &subject
	return b
}

// ClearSubject removes the subject claim.
func (b *Builder) ClearSubject() *Builder {
	b.subject = nil
	return b
}

// SubjectClaimName returns the claim key the subject is written under.
func (b *Builder) SubjectClaimName() string {
	return b.subjectClaimName
}

// SetSubjectClaimName remaps which claim key holds the subject. Some
// identity providers use a non-standard key, and verifier code paths need
// tokens shaped accordingly.
func (b *Builder) SetSubjectClaimName(name string) *Builder {
	b.subjectClaimName = name
	return b
}

// Scope returns the current scope claim value.
func (b *Builder) Scope() any {
	return b.scope
}

// SetScope sets the scope claim to a single scope string.
func (b *Builder) SetScope(scope string) *Builder {
	b.scope = scope
	return b
}

// SetScopes sets the scope claim to an ordered list of scope strings. An
// empty call produces an empty list, not an absent claim.
func (b *Builder) SetScopes(scopes ...string) *Builder {
	b.scope = append([]string{}, scopes...)
	return b
}

// SetScopeValue sets the scope claim from untyped input, as produced by
// JSON decoding. The value must be a string, a []string, or a []any whose
// elements are all strings; anything else fails with ErrCodeInvalidArgument
// naming the scope claim. The value is stored even when invalid, mirroring
// Build's own shape check, so a bad value is caught again before signing.
func (b *Builder) SetScopeValue(value any) error {
	b.scope = value
	return validateScope(b.scopeClaimName, value)
}

// ScopeClaimName returns the claim key the scope is written under.
func (b *Builder) ScopeClaimName() string {
	return b.scopeClaimName
}

// SetScopeClaimName remaps which claim key holds the scope.
func (b *Builder) SetScopeClaimName(name string) *Builder {
	b.scopeClaimName = name
	return b
}

// IssuedAt returns the issued-at claim in epoch seconds, if set.
func (b *Builder) IssuedAt() (int64, bool) {
	if b.issuedAt == nil {
		return 0, false
	}
	return *b.issuedAt, true
}

// SetIssuedAt sets the issued-at claim in epoch seconds.
func (b *Builder) SetIssuedAt(seconds int64) *Builder {
	b.issuedAt = &seconds
	return b
}

// ClearIssuedAt removes the issued-at claim.
func (b *Builder) ClearIssuedAt() *Builder {
	b.issuedAt = nil
	return b
}

// Expiration returns the expiration claim in epoch seconds, if set.
func (b *Builder) Expiration() (int64, bool) {
	if b.expiration == nil {
		return 0, false
	}
	return *b.expiration, true
}

// SetExpiration sets the expiration claim in epoch seconds. No ordering
// against issued-at is enforced.
func (b *Builder) SetExpiration(seconds int64) *Builder {
	b.expiration = &seconds
	return b
}

// ClearExpiration removes the expiration claim.
func (b *Builder) ClearExpiration() *Builder {
	b.expiration = nil
	return b
}

// JWTID returns the token identifier claim, if set.
func (b *Builder) JWTID() (string, bool) {
	if b.jwtID == nil {
		return "", false
	}
	return *b.jwtID, true
}

// SetJWTID sets the jti claim. Unset by default.
func (b *Builder) SetJWTID(id string) *Builder {
	b.jwtID = &id
	return b
}

// ClearJWTID removes the jti claim.
func (b *Builder) ClearJWTID() *Builder {
	b.jwtID = nil
	return b
}

// Key returns the current signing key.
func (b *Builder) Key() *SigningKey {
	return b.key
}

// SetKey replaces the signing key, e.g. to share one pair across builders.
func (b *Builder) SetKey(key *SigningKey) *Builder {
	b.key = key
	return b
}

// Build serializes the configured claims to JSON and signs them with the
// current key using RS256, placing the key id in the protected header. It
// is a pure function of builder state: no caching, no mutation, and the
// builder may be asked for tokens any number of times.
func (b *Builder) Build() (string, error) {
	if err := validateScope(b.scopeClaimName, b.scope); err != nil {
		return "", err
	}

	claims := make(map[string]any)
	if b.audience != nil {
		claims[jwt.AudienceKey] = *b.audience
	}
	if b.subject != nil {
		claims[b.subjectClaimName] = *b.subject
	}
	claims[b.scopeClaimName] = b.scope
	if b.issuedAt != nil {
		claims[jwt.IssuedAtKey] = *b.issuedAt
	}
	if b.expiration != nil {
		claims[jwt.ExpirationKey] = *b.expiration
	}
	if b.jwtID != nil {
		claims[jwt.JwtIDKey] = *b.jwtID
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", newError(ErrCodeSerialization, fmt.Errorf("encode claims: %w", err))
	}

	if b.key == nil {
		return "", newError(ErrCodeSigning, errors.New("signing key not set"))
	}
	headers := jws.NewHeaders()
	if err := headers.Set(jws.KeyIDKey, b.key.KeyID()); err != nil {
		return "", newError(ErrCodeSigning, fmt.Errorf("set kid header: %w", err))
	}
	signed, err := jws.Sign(payload, jws.WithKey(jwa.RS256, b.key.JWK(), jws.WithProtectedHeaders(headers)))
	if err != nil {
		return "", newError(ErrCodeSigning, fmt.Errorf("sign claims: %w", err))
	}
	return string(signed), nil
}

// validateScope enforces the scope claim shape: a string or an ordered
// collection of strings. Checked both when scope is assigned from untyped
// input and again before signing.
func validateScope(claimName string, value any) error {
	switch v := value.(type) {
	case string:
		return nil
	case []string:
		return nil
	case []any:
		for _, item := range v {
			if _, ok := item.(string); !ok {
				return scopeShapeError(claimName)
			}
		}
		return nil
	default:
		return scopeShapeError(claimName)
	}
}

func scopeShapeError(claimName string) error {
	return newError(ErrCodeInvalidArgument,
		fmt.Errorf("%s claim must be a string or an ordered collection of strings", claimName))
}
