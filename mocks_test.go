package fireusers_test

import (
	"context"

	fbauth "firebase.google.com/go/v4/auth"
	fireusers "github.com/francipvb/fastapi-users-firebase"
	"github.com/goliatone/go-errors"
	"github.com/stretchr/testify/mock"
)

// MockProviderClient implements fireusers.ProviderClient
type MockProviderClient struct {
	mock.Mock
}

func (m *MockProviderClient) GetUser(ctx context.Context, uid string) (*fbauth.UserRecord, error) {
	args := m.Called(ctx, uid)
	record, _ := args.Get(0).(*fbauth.UserRecord)
	return record, args.Error(1)
}

func (m *MockProviderClient) GetUserByEmail(ctx context.Context, email string) (*fbauth.UserRecord, error) {
	args := m.Called(ctx, email)
	record, _ := args.Get(0).(*fbauth.UserRecord)
	return record, args.Error(1)
}

func (m *MockProviderClient) CreateUser(ctx context.Context, user *fbauth.UserToCreate) (*fbauth.UserRecord, error) {
	args := m.Called(ctx, user)
	record, _ := args.Get(0).(*fbauth.UserRecord)
	return record, args.Error(1)
}

func (m *MockProviderClient) UpdateUser(ctx context.Context, uid string, user *fbauth.UserToUpdate) (*fbauth.UserRecord, error) {
	args := m.Called(ctx, uid, user)
	record, _ := args.Get(0).(*fbauth.UserRecord)
	return record, args.Error(1)
}

func (m *MockProviderClient) DeleteUser(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

func (m *MockProviderClient) SetCustomUserClaims(ctx context.Context, uid string, claims map[string]any) error {
	args := m.Called(ctx, uid, claims)
	return args.Error(0)
}

func (m *MockProviderClient) VerifyIDToken(ctx context.Context, idToken string, checkRevoked bool) (*fbauth.Token, error) {
	args := m.Called(ctx, idToken, checkRevoked)
	token, _ := args.Get(0).(*fbauth.Token)
	return token, args.Error(1)
}

// MockUserStore implements fireusers.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Get(ctx context.Context, id string) (*fireusers.FirebaseUser, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*fireusers.FirebaseUser)
	return user, args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*fireusers.FirebaseUser, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*fireusers.FirebaseUser)
	return user, args.Error(1)
}

func (m *MockUserStore) Create(ctx context.Context, fields map[string]any) (*fireusers.FirebaseUser, error) {
	args := m.Called(ctx, fields)
	user, _ := args.Get(0).(*fireusers.FirebaseUser)
	return user, args.Error(1)
}

func (m *MockUserStore) Update(ctx context.Context, user fireusers.User, fields map[string]any) (*fireusers.FirebaseUser, error) {
	args := m.Called(ctx, user, fields)
	updated, _ := args.Get(0).(*fireusers.FirebaseUser)
	return updated, args.Error(1)
}

func (m *MockUserStore) Delete(ctx context.Context, user fireusers.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockVerifier implements fireusers.TokenVerifier
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) VerifyIDToken(ctx context.Context, idToken string, checkRevoked bool) (*fbauth.Token, error) {
	args := m.Called(ctx, idToken, checkRevoked)
	token, _ := args.Get(0).(*fbauth.Token)
	return token, args.Error(1)
}

// notAFirebaseUser satisfies fireusers.User without being a store entity.
type notAFirebaseUser struct{}

func (notAFirebaseUser) ID() string             { return "someone-else" }
func (notAFirebaseUser) Email() string          { return "other@example.com" }
func (notAFirebaseUser) IsActive() bool         { return true }
func (notAFirebaseUser) IsVerified() bool       { return false }
func (notAFirebaseUser) IsSuperuser() bool      { return false }
func (notAFirebaseUser) HashedPassword() string { return "" }
func (notAFirebaseUser) Name() string           { return "" }
func (notAFirebaseUser) PhoneNumber() string    { return "" }

func errTextCodeOf(err error) string {
	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich.TextCode
	}
	return ""
}

func newRecord(uid string, mutate ...func(*fbauth.UserRecord)) *fbauth.UserRecord {
	record := &fbauth.UserRecord{
		UserInfo: &fbauth.UserInfo{
			UID:   uid,
			Email: uid + "@example.com",
		},
	}
	for _, fn := range mutate {
		fn(record)
	}
	return record
}
