package fireusers

import (
	"context"
	"fmt"
)

// UserManager drives account lifecycle operations through a UserStore. It
// adds the pieces the store deliberately does not own: id parsing,
// duplicate-email checks, safe-mode field filtering, lifecycle hooks, and
// the refusal of local password flows that belong to the Firebase client SDK.
type UserManager struct {
	store  UserStore
	logger Logger
	sink   ActivitySink

	// OnAfterRegister runs after a successful Create. Errors propagate to
	// the caller; the user already exists at the provider by then.
	OnAfterRegister func(ctx context.Context, user *FirebaseUser) error

	// OnAfterUpdate runs after a successful Update with the applied fields.
	OnAfterUpdate func(ctx context.Context, user *FirebaseUser, fields map[string]any) error
}

type ManagerOption func(*UserManager)

func WithManagerLogger(l Logger) ManagerOption {
	return func(m *UserManager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithActivitySink attaches a best-effort audit sink to lifecycle events.
func WithActivitySink(sink ActivitySink) ManagerOption {
	return func(m *UserManager) {
		m.sink = normalizeActivitySink(sink)
	}
}

// NewUserManager creates a manager over the given store.
func NewUserManager(store UserStore, opts ...ManagerOption) *UserManager {
	manager := &UserManager{
		store:  store,
		logger: defLogger{},
		sink:   noopActivitySink{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(manager)
		}
	}
	return manager
}

// ParseID normalizes any identifier value into the provider's opaque
// string form.
func (m *UserManager) ParseID(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Get resolves an id to a user, or (nil, nil) when it no longer exists.
func (m *UserManager) Get(ctx context.Context, id string) (*FirebaseUser, error) {
	return m.store.Get(ctx, id)
}

// GetByEmail resolves an email to a user, or (nil, nil).
func (m *UserManager) GetByEmail(ctx context.Context, email string) (*FirebaseUser, error) {
	return m.store.GetByEmail(ctx, email)
}

// Create registers a new account. When safe is true, privileged fields
// (is_active, is_verified, is_superuser, custom_claims) are stripped so a
// self-service registration cannot escalate itself. An email that already
// resolves to a user fails with ErrUserAlreadyExists before any create call.
func (m *UserManager) Create(ctx context.Context, fields map[string]any, safe bool) (*FirebaseUser, error) {
	if email, ok := fields[FieldEmail].(string); ok && email != "" {
		existing, err := m.store.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrUserAlreadyExists
		}
	}

	if safe {
		fields = stripPrivilegedFields(fields)
	}

	user, err := m.store.Create(ctx, fields)
	if err != nil {
		return nil, err
	}

	m.record(ctx, newActivityEvent(ActivityEventUserRegistered, user.ID(), map[string]any{
		"email": user.Email(),
	}))

	if m.OnAfterRegister != nil {
		if err := m.OnAfterRegister(ctx, user); err != nil {
			return nil, err
		}
	}

	return user, nil
}

// Update applies a partial update to an existing user, with the same
// safe-mode filtering as Create.
func (m *UserManager) Update(ctx context.Context, user User, fields map[string]any, safe bool) (*FirebaseUser, error) {
	if safe {
		fields = stripPrivilegedFields(fields)
	}

	updated, err := m.store.Update(ctx, user, fields)
	if err != nil {
		return nil, err
	}

	m.record(ctx, newActivityEvent(ActivityEventUserUpdated, updated.ID(), map[string]any{
		"fields": fieldKeys(fields),
	}))

	if m.OnAfterUpdate != nil {
		if err := m.OnAfterUpdate(ctx, updated, fields); err != nil {
			return nil, err
		}
	}

	return updated, nil
}

// Delete removes a user at the provider.
func (m *UserManager) Delete(ctx context.Context, user User) error {
	if err := m.store.Delete(ctx, user); err != nil {
		return err
	}
	m.record(ctx, newActivityEvent(ActivityEventUserDeleted, user.ID(), nil))
	return nil
}

// RequestVerify always refuses: email verification is driven by the
// Firebase client SDK, not by this layer.
func (m *UserManager) RequestVerify(ctx context.Context, user User) error {
	return ErrClientSDKRequired
}

// Verify always refuses, same as RequestVerify.
func (m *UserManager) Verify(ctx context.Context, token string) (*FirebaseUser, error) {
	return nil, ErrClientSDKRequired
}

// ForgotPassword always refuses: password resets go through the provider's
// own client-side flow.
func (m *UserManager) ForgotPassword(ctx context.Context, user User) error {
	return ErrClientSDKRequired
}

// ResetPassword always refuses, same as ForgotPassword.
func (m *UserManager) ResetPassword(ctx context.Context, token, password string) (*FirebaseUser, error) {
	return nil, ErrClientSDKRequired
}

// Authenticate always refuses: this layer never sees passwords.
func (m *UserManager) Authenticate(ctx context.Context, identifier, password string) (*FirebaseUser, error) {
	return nil, ErrClientSDKRequired
}

func (m *UserManager) record(ctx context.Context, event ActivityEvent) {
	if err := m.sink.Record(ctx, event); err != nil {
		m.logger.Error("activity sink failed", "event", string(event.EventType), "error", err)
	}
}

var privilegedFields = []string{FieldIsActive, FieldIsVerified, FieldIsSuperuser, FieldCustomClaims}

func stripPrivilegedFields(fields map[string]any) map[string]any {
	filtered := make(map[string]any, len(fields))
	for key, value := range fields {
		filtered[key] = value
	}
	for _, key := range privilegedFields {
		delete(filtered, key)
	}
	return filtered
}

func fieldKeys(fields map[string]any) []string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	return keys
}
