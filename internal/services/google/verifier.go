package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/gainworld/travel-guide/internal/models"
)

// ErrInvalidToken is returned when an ID token fails signature verification,
// carries the wrong audience, or is expired.
var ErrInvalidToken = errors.New("invalid identity token")

// Google issues tokens under both issuer forms.
var acceptedIssuers = []string{"https://accounts.google.com", "accounts.google.com"}

// Verifier verifies Google ID tokens against the published JWKS.
type Verifier struct {
	jwksManager *JWKSManager
	jwksURL     string
}

// NewVerifier creates a new ID token verifier. jwksURL is overridable for
// tests; production callers pass DefaultJWKSURL.
func NewVerifier(jwksManager *JWKSManager, jwksURL string) *Verifier {
	return &Verifier{
		jwksManager: jwksManager,
		jwksURL:     jwksURL,
	}
}

// Verify checks the token's signature, expiry, issuer, and audience, and
// extracts the identity claims. expectedAudience is the OAuth client ID.
func (v *Verifier) Verify(ctx context.Context, tokenString, expectedAudience string) (*models.IDClaims, error) {
	keys, err := v.jwksManager.GetJWKS(ctx, v.jwksURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get JWKS: %w", err)
	}

	// jwt.WithValidate also rejects expired tokens.
	token, err := jwt.Parse([]byte(tokenString),
		jwt.WithKeySet(keys),
		jwt.WithValidate(true),
		jwt.WithAudience(expectedAudience),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	issuerOK := false
	for _, iss := range acceptedIssuers {
		if token.Issuer() == iss {
			issuerOK = true
			break
		}
	}
	if !issuerOK {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidToken, token.Issuer())
	}

	claims := &models.IDClaims{
		Subject: token.Subject(),
		Issuer:  token.Issuer(),
		Expiry:  token.Expiration().Unix(),
	}
	if len(token.Audience()) > 0 {
		claims.Audience = token.Audience()[0]
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject claim", ErrInvalidToken)
	}

	if email, ok := token.Get("email"); ok {
		if emailStr, ok := email.(string); ok {
			claims.Email = emailStr
		}
	}

	if name, ok := token.Get("name"); ok {
		if nameStr, ok := name.(string); ok {
			claims.Name = nameStr
		}
	}

	if picture, ok := token.Get("picture"); ok {
		if pictureStr, ok := picture.(string); ok {
			claims.Picture = pictureStr
		}
	}

	return claims, nil
}
