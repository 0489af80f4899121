package fireusers

import (
	"context"
	"fmt"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// firebaseJWKSURL serves the public keys Firebase signs ID tokens with.
const firebaseJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

// IDTokenValidator verifies Firebase ID tokens locally against Google's
// published JWKS, without calling the provider. It implements TokenVerifier
// so it can back a FirebaseTokenStrategy; since it holds no revocation data,
// the strategy must be built with WithoutRevocationCheck.
type IDTokenValidator struct {
	projectID string
	issuer    string
	keyFunc   jwt.Keyfunc
	logger    Logger
}

type ValidatorOption func(*IDTokenValidator)

// WithKeyfunc overrides JWKS fetching with a caller-supplied key resolver.
func WithKeyfunc(fn jwt.Keyfunc) ValidatorOption {
	return func(v *IDTokenValidator) {
		v.keyFunc = fn
	}
}

func WithValidatorLogger(l Logger) ValidatorOption {
	return func(v *IDTokenValidator) {
		if l != nil {
			v.logger = l
		}
	}
}

// NewIDTokenValidator creates a validator for the given Firebase project.
// Unless a key resolver is injected, it starts a background-refreshing JWKS
// fetch against Google's securetoken endpoint.
func NewIDTokenValidator(projectID string, opts ...ValidatorOption) (*IDTokenValidator, error) {
	if projectID == "" {
		return nil, errors.New("firebase project ID is required", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}

	validator := &IDTokenValidator{
		projectID: projectID,
		issuer:    "https://securetoken.google.com/" + projectID,
		logger:    defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(validator)
		}
	}

	if validator.keyFunc == nil {
		jwks, err := keyfunc.Get(firebaseJWKSURL, keyfunc.Options{
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  time.Minute * 5,
			RefreshTimeout:    time.Second * 10,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				validator.logger.Error("failed to refresh firebase JWK set", "error", err)
			},
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to fetch firebase JWK set")
		}
		validator.keyFunc = jwks.Keyfunc
	}

	return validator, nil
}

var _ TokenVerifier = (*IDTokenValidator)(nil)

// VerifyIDToken implements TokenVerifier. checkRevoked must be false:
// revocation state lives at the provider and cannot be derived from the
// token signature.
func (v *IDTokenValidator) VerifyIDToken(ctx context.Context, idToken string, checkRevoked bool) (*fbauth.Token, error) {
	if checkRevoked {
		return nil, errors.New(
			"revocation checks require the provider client, not a local validator",
			errors.CategoryOperation,
		).WithCode(errors.CodeInternal)
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(idToken, claims, v.keyFunc,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.projectID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, normalizeLocalTokenError(err)
	}
	if !token.Valid {
		return nil, invalidLocalToken(fmt.Errorf("token did not validate"))
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, invalidLocalToken(fmt.Errorf("token has no subject"))
	}

	return mapLocalToken(subject, claims), nil
}

func mapLocalToken(subject string, claims jwt.MapClaims) *fbauth.Token {
	decoded := &fbauth.Token{
		Subject: subject,
		UID:     subject,
		Claims:  map[string]any(claims),
	}

	if issuer, err := claims.GetIssuer(); err == nil {
		decoded.Issuer = issuer
	}
	if audience, err := claims.GetAudience(); err == nil && len(audience) > 0 {
		decoded.Audience = audience[0]
	}
	if expires, err := claims.GetExpirationTime(); err == nil && expires != nil {
		decoded.Expires = expires.Unix()
	}
	if issuedAt, err := claims.GetIssuedAt(); err == nil && issuedAt != nil {
		decoded.IssuedAt = issuedAt.Unix()
	}
	if authTime, ok := claims["auth_time"].(float64); ok {
		decoded.AuthTime = int64(authTime)
	}

	return decoded
}

// normalizeLocalTokenError maps jwt parse failures onto the same taxonomy
// the provider client produces, so the strategy treats both paths alike.
func normalizeLocalTokenError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		clone := ErrTokenExpiredOrRevoked.Clone()
		clone.Source = err
		return clone.WithMetadata(map[string]any{
			"provider": "firebase",
			"cause":    err.Error(),
		})
	}
	return invalidLocalToken(err)
}

func invalidLocalToken(err error) error {
	clone := ErrTokenInvalid.Clone()
	clone.Source = err
	return clone.WithMetadata(map[string]any{
		"provider": "firebase",
		"cause":    err.Error(),
	})
}
