package fireusers

import (
	"context"
	"fmt"

	fbauth "firebase.google.com/go/v4/auth"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// IsSuperuserFunc decides whether a provider record belongs to a superuser.
// Firebase carries no such flag itself, so the policy is injected; a nil
// function means nobody is a superuser.
type IsSuperuserFunc func(record *fbauth.UserRecord) bool

// User is the contract a user representation must satisfy for the generic
// user-management layer.
type User interface {
	ID() string
	Email() string
	IsActive() bool
	IsVerified() bool
	IsSuperuser() bool
	HashedPassword() string
	Name() string
	PhoneNumber() string
}

// UserStore is the persistence contract backed by the identity provider.
// Get and GetByEmail return (nil, nil) when the provider has no such user;
// absence is not an error.
type UserStore interface {
	Get(ctx context.Context, id string) (*FirebaseUser, error)
	GetByEmail(ctx context.Context, email string) (*FirebaseUser, error)
	Create(ctx context.Context, fields map[string]any) (*FirebaseUser, error)
	Update(ctx context.Context, user User, fields map[string]any) (*FirebaseUser, error)
	Delete(ctx context.Context, user User) error
}

// Strategy reads a bearer credential and resolves it to a user, or reports
// that the request is unauthenticated (nil, nil) or forbidden (error).
type Strategy interface {
	ReadToken(ctx context.Context, token string, manager *UserManager) (*FirebaseUser, error)
	WriteToken(ctx context.Context, user User) (string, error)
	DestroyToken(ctx context.Context, token string, user User) error
}

// TokenVerifier checks an ID token and returns its decoded claims. The
// provider client implements it against the remote service; IDTokenValidator
// implements it locally against the provider's published JWKS.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string, checkRevoked bool) (*fbauth.Token, error)
}

// ProviderClient is the surface this package consumes from the identity
// provider. Implementations must surface lookup and token failures through
// the package error taxonomy (see errors.go) so callers can discriminate
// outcomes; NewProviderClient does this for the Firebase Admin SDK.
type ProviderClient interface {
	TokenVerifier

	GetUser(ctx context.Context, uid string) (*fbauth.UserRecord, error)
	GetUserByEmail(ctx context.Context, email string) (*fbauth.UserRecord, error)
	CreateUser(ctx context.Context, user *fbauth.UserToCreate) (*fbauth.UserRecord, error)
	UpdateUser(ctx context.Context, uid string, user *fbauth.UserToUpdate) (*fbauth.UserRecord, error)
	DeleteUser(ctx context.Context, uid string) error
	SetCustomUserClaims(ctx context.Context, uid string, claims map[string]any) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] FIREUSERS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] FIREUSERS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] FIREUSERS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
