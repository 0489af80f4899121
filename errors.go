package fireusers

import (
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/goliatone/go-errors"
)

// Text codes attached to structured errors so callers can match outcomes
// without depending on message strings.
const (
	TextCodeUserNotFound      = "USER_NOT_FOUND"
	TextCodeUserExists        = "USER_ALREADY_EXISTS"
	TextCodeTokenInvalid      = "TOKEN_INVALID"
	TextCodeTokenForbidden    = "TOKEN_EXPIRED_OR_REVOKED"
	TextCodeNotFirebaseUser   = "NOT_A_FIREBASE_USER"
	TextCodeClientSDKRequired = "FIREBASE_CLIENT_REQUIRED"
	TextCodeTokensClientSide  = "TOKEN_PERSISTENCE_UNSUPPORTED"
	TextCodeCredsRequired     = "CREDENTIALS_REQUIRED"
)

// ErrUserNotFound is surfaced when the provider reports an unknown user id
// or email. Store lookups recover it into (nil, nil).
var ErrUserNotFound = errors.New("user not found", errors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(errors.CodeNotFound)

// ErrUserAlreadyExists is returned by the manager when registering an email
// that already resolves to a user.
var ErrUserAlreadyExists = errors.New("a user with this email already exists", errors.CategoryConflict).
	WithTextCode(TextCodeUserExists).
	WithCode(errors.CodeConflict)

// ErrTokenInvalid covers tokens the provider cannot verify at all. The
// strategy treats it as an anonymous request, not an error.
var ErrTokenInvalid = errors.New("invalid ID token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenInvalid).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpiredOrRevoked covers verifiable tokens the provider no longer
// honors. Unlike ErrTokenInvalid it is surfaced to the client as forbidden.
var ErrTokenExpiredOrRevoked = errors.New("ID token is expired or has been revoked", errors.CategoryAuth).
	WithTextCode(TextCodeTokenForbidden).
	WithCode(errors.CodeForbidden)

// ErrNotFirebaseUser signals that a caller handed the store a user object
// this store did not produce. No provider call is attempted.
var ErrNotFirebaseUser = errors.New("object is not a Firebase user entity", errors.CategoryValidation).
	WithTextCode(TextCodeNotFirebaseUser).
	WithCode(errors.CodeBadRequest)

// ErrClientSDKRequired marks operations (password reset, verification,
// direct authentication) that must go through the Firebase client SDK.
var ErrClientSDKRequired = errors.New("this operation is not allowed, use a Firebase client SDK", errors.CategoryAuthz).
	WithTextCode(TextCodeClientSDKRequired).
	WithCode(errors.CodeForbidden)

// ErrTokensAreClientSide marks write/destroy token calls. Firebase issues
// tokens client side, so reaching this is a programming error in the caller.
var ErrTokensAreClientSide = errors.New("firebase issues tokens client side; write/destroy are unsupported", errors.CategoryOperation).
	WithTextCode(TextCodeTokensClientSide).
	WithCode(errors.CodeInternal)

// ErrCredentialsRequired is used by the HTTP middleware when a protected
// route receives no resolvable credential.
var ErrCredentialsRequired = errors.New("missing or invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeCredsRequired).
	WithCode(errors.CodeUnauthorized)

func errTextCode(err error) string {
	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich.TextCode
	}
	return ""
}

// IsUserNotFoundError matches both the package taxonomy and the raw Admin
// SDK error, so lookups recover not-found regardless of who classified it.
func IsUserNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	return errors.IsNotFound(err) ||
		errTextCode(err) == TextCodeUserNotFound ||
		fbauth.IsUserNotFound(err)
}

// IsInvalidTokenError reports whether verification failed because the token
// itself is unusable (malformed, bad signature, wrong audience).
func IsInvalidTokenError(err error) bool {
	if err == nil {
		return false
	}
	return errTextCode(err) == TextCodeTokenInvalid || fbauth.IsIDTokenInvalid(err)
}

// IsTokenExpiredOrRevokedError reports whether verification failed because a
// previously valid token is expired or was revoked.
func IsTokenExpiredOrRevokedError(err error) bool {
	if err == nil {
		return false
	}
	return errTextCode(err) == TextCodeTokenForbidden ||
		fbauth.IsIDTokenExpired(err) ||
		fbauth.IsIDTokenRevoked(err)
}

// IsClientSDKRequiredError matches operations rejected in favor of the
// Firebase client SDK flow.
func IsClientSDKRequiredError(err error) bool {
	return err != nil && errTextCode(err) == TextCodeClientSDKRequired
}
