package fireusers

import (
	"context"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/goliatone/go-errors"
)

// sdkProviderClient adapts the Firebase Admin SDK auth client to the
// ProviderClient surface, normalizing the SDK's error taxonomy onto the
// package errors so callers discriminate outcomes explicitly instead of
// matching SDK internals.
type sdkProviderClient struct {
	client *fbauth.Client
}

// NewProviderClient builds a ProviderClient from a configured Firebase app.
func NewProviderClient(ctx context.Context, app *firebase.App) (ProviderClient, error) {
	if app == nil {
		return nil, errors.New("firebase app is required", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create firebase auth client")
	}

	return &sdkProviderClient{client: client}, nil
}

var _ ProviderClient = (*sdkProviderClient)(nil)

func (p *sdkProviderClient) GetUser(ctx context.Context, uid string) (*fbauth.UserRecord, error) {
	record, err := p.client.GetUser(ctx, uid)
	if err != nil {
		return nil, normalizeLookupError(err, map[string]any{"uid": uid})
	}
	return record, nil
}

func (p *sdkProviderClient) GetUserByEmail(ctx context.Context, email string) (*fbauth.UserRecord, error) {
	record, err := p.client.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, normalizeLookupError(err, map[string]any{"email": email})
	}
	return record, nil
}

func (p *sdkProviderClient) CreateUser(ctx context.Context, user *fbauth.UserToCreate) (*fbauth.UserRecord, error) {
	return p.client.CreateUser(ctx, user)
}

func (p *sdkProviderClient) UpdateUser(ctx context.Context, uid string, user *fbauth.UserToUpdate) (*fbauth.UserRecord, error) {
	record, err := p.client.UpdateUser(ctx, uid, user)
	if err != nil {
		return nil, normalizeLookupError(err, map[string]any{"uid": uid})
	}
	return record, nil
}

func (p *sdkProviderClient) DeleteUser(ctx context.Context, uid string) error {
	if err := p.client.DeleteUser(ctx, uid); err != nil {
		return normalizeLookupError(err, map[string]any{"uid": uid})
	}
	return nil
}

func (p *sdkProviderClient) SetCustomUserClaims(ctx context.Context, uid string, claims map[string]any) error {
	if err := p.client.SetCustomUserClaims(ctx, uid, claims); err != nil {
		return normalizeLookupError(err, map[string]any{"uid": uid})
	}
	return nil
}

func (p *sdkProviderClient) VerifyIDToken(ctx context.Context, idToken string, checkRevoked bool) (*fbauth.Token, error) {
	var token *fbauth.Token
	var err error

	if checkRevoked {
		token, err = p.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	} else {
		token, err = p.client.VerifyIDToken(ctx, idToken)
	}
	if err != nil {
		return nil, normalizeTokenError(err)
	}
	return token, nil
}

// normalizeLookupError folds the SDK not-found error into the package
// taxonomy; anything else (network, quota, generic provider failures)
// propagates unchanged.
func normalizeLookupError(err error, metadata map[string]any) error {
	if err == nil {
		return nil
	}
	if fbauth.IsUserNotFound(err) {
		clone := ErrUserNotFound.Clone()
		clone.Source = err
		return clone.WithMetadata(metadata)
	}
	return err
}

// normalizeTokenError maps SDK verification failures onto the package token
// taxonomy, keeping the original error as the cause for diagnostics.
// Expired and revoked checks run first: the SDK also flags expired tokens as
// invalid, and the forbidden outcome must win.
func normalizeTokenError(err error) error {
	if err == nil {
		return nil
	}

	var clone *errors.Error
	switch {
	case fbauth.IsIDTokenExpired(err), fbauth.IsIDTokenRevoked(err):
		clone = ErrTokenExpiredOrRevoked.Clone()
	case fbauth.IsIDTokenInvalid(err):
		clone = ErrTokenInvalid.Clone()
	default:
		return err
	}

	clone.Source = err
	return clone.WithMetadata(map[string]any{
		"provider": "firebase",
		"cause":    err.Error(),
	})
}
