// Package fireusers backs a generic user-management layer with Firebase
// Authentication instead of a local database.
//
// Components:
//   - FirebaseUser is an immutable, read-only view over a Firebase user
//     record that satisfies the User contract consumed by host applications.
//   - FirebaseUserStore maps the persistence contract (get, get by email,
//     create, update, delete) onto Firebase Admin calls, validating and
//     shaping payloads before anything goes over the wire.
//   - FirebaseTokenStrategy turns a client-issued ID token into a resolved
//     FirebaseUser, translating the provider's token error taxonomy into
//     unauthenticated/forbidden outcomes.
//   - UserManager composes the store with lifecycle hooks and forbids the
//     self-service password flows that belong to the Firebase client SDK.
//
// All identity state lives in Firebase. The package never stores credentials,
// never signs tokens, and performs no caching or retries: a provider call
// either completes or its error propagates to the caller.
package fireusers
