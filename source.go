package tokenx

import (
	"time"

	"golang.org/x/oauth2"
)

// Token builds the configured claims and wraps them as an oauth2 bearer
// token, with Expiry taken from the expiration claim when present.
func (b *Builder) Token() (*oauth2.Token, error) {
	raw, err := b.Build()
	if err != nil {
		return nil, err
	}
	tok := &oauth2.Token{
		AccessToken: raw,
		TokenType:   "Bearer",
	}
	if exp, ok := b.Expiration(); ok {
		tok.Expiry = time.Unix(exp, 0).UTC()
	}
	return tok, nil
}

// TokenSource returns a static oauth2.TokenSource yielding the built token,
// so test code can hand the builder's output straight to an OAuth-bearer
// client. The token is built once; the source never refreshes it.
func (b *Builder) TokenSource() (oauth2.TokenSource, error) {
	tok, err := b.Token()
	if err != nil {
		return nil, err
	}
	return oauth2.StaticTokenSource(tok), nil
}
