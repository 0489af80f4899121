package fireusers

import (
	"context"
	"fmt"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/goliatone/go-errors"
)

// FirebaseUserStore implements UserStore against the identity provider.
// It holds no state of its own: the provider is the single source of truth,
// and every operation is an independent remote call.
type FirebaseUserStore struct {
	client      ProviderClient
	isSuperuser IsSuperuserFunc
	logger      Logger
}

type StoreOption func(*FirebaseUserStore)

// WithSuperuserFunc injects the predicate used to derive the superuser flag
// from raw provider records.
func WithSuperuserFunc(fn IsSuperuserFunc) StoreOption {
	return func(s *FirebaseUserStore) {
		s.isSuperuser = fn
	}
}

func WithStoreLogger(l Logger) StoreOption {
	return func(s *FirebaseUserStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewFirebaseUserStore creates a store backed by the given provider client.
func NewFirebaseUserStore(client ProviderClient, opts ...StoreOption) *FirebaseUserStore {
	store := &FirebaseUserStore{
		client: client,
		logger: defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store
}

var _ UserStore = (*FirebaseUserStore)(nil)

// Get fetches a user by its provider UID. A missing user is reported as
// (nil, nil); every other provider failure propagates.
func (s *FirebaseUserStore) Get(ctx context.Context, id string) (*FirebaseUser, error) {
	record, err := s.client.GetUser(ctx, id)
	if err != nil {
		if IsUserNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}
	return s.mapUser(record), nil
}

// GetByEmail fetches a user by email, with the same absence semantics as Get.
func (s *FirebaseUserStore) GetByEmail(ctx context.Context, email string) (*FirebaseUser, error) {
	record, err := s.client.GetUserByEmail(ctx, email)
	if err != nil {
		if IsUserNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}
	return s.mapUser(record), nil
}

// Create validates the field mapping, shapes provider create arguments with
// unset keys omitted, and wraps the created record. Custom claims cannot
// ride on the provider's create call, so they are applied right after and
// the record is re-fetched to stay authoritative.
func (s *FirebaseUserStore) Create(ctx context.Context, fields map[string]any) (*FirebaseUser, error) {
	payload, err := DecodeCreatePayload(fields)
	if err != nil {
		return nil, err
	}
	if err := payload.Validate(); err != nil {
		return nil, invalidPayload(err, "invalid user creation payload")
	}

	record, err := s.client.CreateUser(ctx, payload.providerCreateArgs())
	if err != nil {
		return nil, err
	}

	if payload.CustomClaims.Set {
		if err := s.client.SetCustomUserClaims(ctx, record.UID, toClaimsMap(payload.CustomClaims.Value)); err != nil {
			return nil, err
		}
		if record, err = s.client.GetUser(ctx, record.UID); err != nil {
			return nil, err
		}
	}

	s.logger.Debug("created firebase user", "uid", record.UID)
	return s.mapUser(record), nil
}

// Update validates the partial field mapping and sends only the provided
// keys to the provider, keyed by the entity's id.
func (s *FirebaseUserStore) Update(ctx context.Context, user User, fields map[string]any) (*FirebaseUser, error) {
	payload, err := DecodeUpdatePayload(fields)
	if err != nil {
		return nil, err
	}
	if err := payload.Validate(); err != nil {
		return nil, invalidPayload(err, "invalid user update payload")
	}

	record, err := s.client.UpdateUser(ctx, user.ID(), payload.providerUpdateArgs())
	if err != nil {
		return nil, err
	}

	s.logger.Debug("updated firebase user", "uid", record.UID)
	return s.mapUser(record), nil
}

// Delete removes the user at the provider. The argument must be an entity
// produced by this store; anything else is a contract violation and no
// remote call is made.
func (s *FirebaseUserStore) Delete(ctx context.Context, user User) error {
	entity, ok := user.(*FirebaseUser)
	if !ok || entity == nil {
		clone := ErrNotFirebaseUser.Clone()
		return clone.WithMetadata(map[string]any{"got": typeName(user)})
	}

	return s.client.DeleteUser(ctx, entity.ID())
}

func (s *FirebaseUserStore) mapUser(record *fbauth.UserRecord) *FirebaseUser {
	return NewUserFromRecord(record, s.isSuperuser)
}

func invalidPayload(err error, message string) error {
	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich
	}
	return errors.Wrap(err, errors.CategoryValidation, message).
		WithCode(errors.CodeBadRequest)
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
