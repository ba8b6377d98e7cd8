// Package authn verifies third-party identity assertions.  Today that is
// Google ID tokens only.
package authn

import (
	"context"
	"errors"
	"strings"
	"time"

	"google.golang.org/api/idtoken"
)

// ErrInvalidIDToken covers every verification failure: bad signature,
// wrong audience, expiry, or a token without an email claim.  Callers map
// it to HTTP 401.
var ErrInvalidIDToken = errors.New("invalid google id token")

// GoogleIdentity is the subset of ID token claims the service consumes.
type GoogleIdentity struct {
	Email string
	Name  string
}

// TokenVerifier validates a raw ID token string.  The production
// implementation calls Google's certificate endpoint; tests substitute a
// fake.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (GoogleIdentity, error)
}

type googleVerifier struct {
	clientID string
}

// NewGoogleVerifier returns a TokenVerifier that checks signature,
// audience and expiry against Google's published keys.
func NewGoogleVerifier(clientID string) TokenVerifier {
	return &googleVerifier{clientID: clientID}
}

func (v *googleVerifier) Verify(ctx context.Context, raw string) (GoogleIdentity, error) {
	// Verification fetches Google's certs over the network; bound it so a
	// slow upstream cannot hang the login request.
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	payload, err := idtoken.Validate(ctx, raw, v.clientID)
	if err != nil {
		return GoogleIdentity{}, ErrInvalidIDToken
	}
	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return GoogleIdentity{}, ErrInvalidIDToken
	}
	name, _ := payload.Claims["name"].(string)
	if name == "" {
		// Google may omit the display name; fall back to the mailbox
		// part of the address.
		name = strings.SplitN(email, "@", 2)[0]
	}
	return GoogleIdentity{Email: email, Name: name}, nil
}
