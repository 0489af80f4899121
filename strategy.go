package fireusers

import (
	"context"

	"github.com/goliatone/go-errors"
)

// FirebaseTokenStrategy resolves client-issued Firebase ID tokens to users.
//
// Three outcomes per attempt: no token yields (nil, nil) without touching
// the provider; a token the provider cannot verify also yields (nil, nil),
// indistinguishable from an anonymous request by design; an expired or
// revoked token is a forbidden failure carrying the provider error as cause.
type FirebaseTokenStrategy struct {
	verifier     TokenVerifier
	checkRevoked bool
	logger       Logger
	sink         ActivitySink
}

type StrategyOption func(*FirebaseTokenStrategy)

// WithoutRevocationCheck skips the provider-side revocation lookup during
// verification. Required when the verifier is a local JWKS validator, which
// has no revocation data.
func WithoutRevocationCheck() StrategyOption {
	return func(s *FirebaseTokenStrategy) {
		s.checkRevoked = false
	}
}

func WithStrategyLogger(l Logger) StrategyOption {
	return func(s *FirebaseTokenStrategy) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStrategyActivitySink records token rejections for auditing.
func WithStrategyActivitySink(sink ActivitySink) StrategyOption {
	return func(s *FirebaseTokenStrategy) {
		s.sink = normalizeActivitySink(sink)
	}
}

// NewFirebaseTokenStrategy creates a strategy around a token verifier,
// usually the ProviderClient. Revocation checks are on by default.
func NewFirebaseTokenStrategy(verifier TokenVerifier, opts ...StrategyOption) *FirebaseTokenStrategy {
	strategy := &FirebaseTokenStrategy{
		verifier:     verifier,
		checkRevoked: true,
		logger:       defLogger{},
		sink:         noopActivitySink{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(strategy)
		}
	}
	return strategy
}

var _ Strategy = (*FirebaseTokenStrategy)(nil)

// ReadToken verifies the token and resolves the verified subject through
// the manager. A user that no longer exists resolves to (nil, nil).
func (s *FirebaseTokenStrategy) ReadToken(ctx context.Context, token string, manager *UserManager) (*FirebaseUser, error) {
	if token == "" {
		return nil, nil
	}

	decoded, err := s.verifier.VerifyIDToken(ctx, token, s.checkRevoked)
	if err != nil {
		switch {
		case IsTokenExpiredOrRevokedError(err):
			s.recordRejection(ctx, "expired_or_revoked")
			return nil, forbiddenTokenError(err)
		case IsInvalidTokenError(err):
			s.logger.Debug("discarding unverifiable ID token")
			return nil, nil
		default:
			return nil, err
		}
	}

	return manager.Get(ctx, manager.ParseID(decoded.UID))
}

// WriteToken is unsupported: Firebase clients obtain tokens from the
// provider directly. Calling it is a programming error.
func (s *FirebaseTokenStrategy) WriteToken(ctx context.Context, user User) (string, error) {
	return "", ErrTokensAreClientSide
}

// DestroyToken is unsupported for the same reason as WriteToken; revocation
// is a provider-side account operation, not a token store operation.
func (s *FirebaseTokenStrategy) DestroyToken(ctx context.Context, token string, user User) error {
	return ErrTokensAreClientSide
}

func (s *FirebaseTokenStrategy) recordRejection(ctx context.Context, reason string) {
	event := newActivityEvent(ActivityEventTokenRejected, "", map[string]any{"reason": reason})
	if err := s.sink.Record(ctx, event); err != nil {
		s.logger.Error("activity sink failed", "event", string(event.EventType), "error", err)
	}
}

// forbiddenTokenError returns the forbidden-class error with the provider
// failure preserved as cause. Errors already shaped by the provider client
// pass through untouched.
func forbiddenTokenError(err error) error {
	var rich *errors.Error
	if errors.As(err, &rich) && rich.TextCode == TextCodeTokenForbidden {
		return rich
	}

	clone := ErrTokenExpiredOrRevoked.Clone()
	clone.Source = err
	return clone.WithMetadata(map[string]any{"cause": err.Error()})
}
