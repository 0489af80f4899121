package fireusers

import (
	fbauth "firebase.google.com/go/v4/auth"
)

// FirebaseUser adapts a Firebase user record to the User contract. It is a
// read-only snapshot: mutating the account goes through the store, which
// returns a fresh entity mapped from the provider's response.
type FirebaseUser struct {
	id          string
	email       string
	active      bool
	verified    bool
	superuser   bool
	name        string
	phoneNumber string
	record      *fbauth.UserRecord
}

// NewUserFromRecord maps a provider record onto a FirebaseUser. A user is
// verified when the provider marks the email verified or when a phone number
// is linked, since Firebase verifies phone numbers at link time. isSuperuser
// may be nil, in which case the flag is always false.
func NewUserFromRecord(record *fbauth.UserRecord, isSuperuser IsSuperuserFunc) *FirebaseUser {
	if record == nil {
		return nil
	}

	superuser := false
	if isSuperuser != nil {
		superuser = isSuperuser(record)
	}

	return &FirebaseUser{
		id:          record.UID,
		email:       record.Email,
		active:      !record.Disabled,
		verified:    record.EmailVerified || record.PhoneNumber != "",
		superuser:   superuser,
		name:        record.DisplayName,
		phoneNumber: record.PhoneNumber,
		record:      record,
	}
}

// ID returns the provider-issued UID. It is opaque and never empty for an
// entity built from a record.
func (u *FirebaseUser) ID() string {
	return u.id
}

// Email returns the account email, or an empty string for phone-only users.
func (u *FirebaseUser) Email() string {
	return u.email
}

// IsActive reports whether the account is not disabled at the provider.
func (u *FirebaseUser) IsActive() bool {
	return u.active
}

func (u *FirebaseUser) IsVerified() bool {
	return u.verified
}

func (u *FirebaseUser) IsSuperuser() bool {
	return u.superuser
}

// HashedPassword always returns an empty string. Firebase never exposes
// credential material, and this package never stores any.
func (u *FirebaseUser) HashedPassword() string {
	return ""
}

func (u *FirebaseUser) Name() string {
	return u.name
}

func (u *FirebaseUser) PhoneNumber() string {
	return u.phoneNumber
}

// Record exposes the raw provider record so provider-specific fields
// (custom claims, provider user info, metadata) stay reachable.
func (u *FirebaseUser) Record() *fbauth.UserRecord {
	return u.record
}

var _ User = (*FirebaseUser)(nil)
