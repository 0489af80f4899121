package fireusers

import (
	"encoding/json"
	"fmt"

	fbauth "firebase.google.com/go/v4/auth"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/nyaruka/phonenumbers"
)

// Field keys accepted in create/update field mappings.
const (
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldDisplayName  = "display_name"
	FieldPhotoURL     = "photo_url"
	FieldPhoneNumber  = "phone_number"
	FieldCustomClaims = "custom_claims"
	FieldIsActive     = "is_active"
	FieldIsVerified   = "is_verified"
	FieldIsSuperuser  = "is_superuser"
)

// Optional carries a value together with a "was this key provided" bit.
// The provider distinguishes "leave unchanged" (key absent) from "clear"
// (key present with a null/empty value) on update, so plain pointers or
// zero values are not enough.
type Optional[T any] struct {
	Value T
	Set   bool
}

func provided[T any](value T) Optional[T] {
	return Optional[T]{Value: value, Set: true}
}

// CreateUserPayload is the validated shape for user creation. At least one
// of email or phone number must carry a value.
type CreateUserPayload struct {
	Email        Optional[string]
	Password     Optional[string]
	DisplayName  Optional[string]
	PhotoURL     Optional[string]
	PhoneNumber  Optional[string]
	CustomClaims Optional[map[string]any]
	IsActive     Optional[bool]
	IsVerified   Optional[bool]
	IsSuperuser  Optional[bool]
}

// UpdateUserPayload is the validated shape for partial updates. Every field
// is optional; absent keys are omitted from the provider call entirely.
type UpdateUserPayload struct {
	Email        Optional[string]
	Password     Optional[string]
	DisplayName  Optional[string]
	PhotoURL     Optional[string]
	PhoneNumber  Optional[string]
	CustomClaims Optional[map[string]any]
	IsActive     Optional[bool]
	IsVerified   Optional[bool]
	IsSuperuser  Optional[bool]
}

// DecodeCreatePayload builds a CreateUserPayload from an untyped field
// mapping, tracking which keys were actually provided.
func DecodeCreatePayload(fields map[string]any) (CreateUserPayload, error) {
	common, err := decodeCommonFields(fields)
	if err != nil {
		return CreateUserPayload{}, err
	}
	return CreateUserPayload(common), nil
}

// DecodeUpdatePayload builds an UpdateUserPayload from an untyped field
// mapping. Custom claims may arrive pre-structured or as a JSON-encoded
// string; both are decoded before any remote call.
func DecodeUpdatePayload(fields map[string]any) (UpdateUserPayload, error) {
	common, err := decodeCommonFields(fields)
	if err != nil {
		return UpdateUserPayload{}, err
	}
	return UpdateUserPayload(common), nil
}

type commonPayload struct {
	Email        Optional[string]
	Password     Optional[string]
	DisplayName  Optional[string]
	PhotoURL     Optional[string]
	PhoneNumber  Optional[string]
	CustomClaims Optional[map[string]any]
	IsActive     Optional[bool]
	IsVerified   Optional[bool]
	IsSuperuser  Optional[bool]
}

func decodeCommonFields(fields map[string]any) (commonPayload, error) {
	var p commonPayload
	var err error

	stringFields := []struct {
		key string
		dst *Optional[string]
	}{
		{FieldEmail, &p.Email},
		{FieldPassword, &p.Password},
		{FieldDisplayName, &p.DisplayName},
		{FieldPhotoURL, &p.PhotoURL},
		{FieldPhoneNumber, &p.PhoneNumber},
	}
	for _, f := range stringFields {
		if *f.dst, err = optionalString(fields, f.key); err != nil {
			return commonPayload{}, err
		}
	}

	boolFields := []struct {
		key string
		dst *Optional[bool]
	}{
		{FieldIsActive, &p.IsActive},
		{FieldIsVerified, &p.IsVerified},
		{FieldIsSuperuser, &p.IsSuperuser},
	}
	for _, f := range boolFields {
		if *f.dst, err = optionalBool(fields, f.key); err != nil {
			return commonPayload{}, err
		}
	}

	if p.CustomClaims, err = optionalClaims(fields, FieldCustomClaims); err != nil {
		return commonPayload{}, err
	}

	return p, nil
}

func optionalString(fields map[string]any, key string) (Optional[string], error) {
	raw, ok := fields[key]
	if !ok {
		return Optional[string]{}, nil
	}
	if raw == nil {
		// explicit null clears the field at the provider
		return provided(""), nil
	}
	value, ok := raw.(string)
	if !ok {
		return Optional[string]{}, fieldTypeError(key, "string", raw)
	}
	return provided(value), nil
}

func optionalBool(fields map[string]any, key string) (Optional[bool], error) {
	raw, ok := fields[key]
	if !ok || raw == nil {
		return Optional[bool]{}, nil
	}
	value, ok := raw.(bool)
	if !ok {
		return Optional[bool]{}, fieldTypeError(key, "bool", raw)
	}
	return provided(value), nil
}

func optionalClaims(fields map[string]any, key string) (Optional[map[string]any], error) {
	raw, ok := fields[key]
	if !ok || raw == nil {
		return Optional[map[string]any]{}, nil
	}

	switch value := raw.(type) {
	case map[string]any:
		return provided(value), nil
	case string:
		var decoded map[string]any
		if err := json.Unmarshal([]byte(value), &decoded); err != nil {
			return Optional[map[string]any]{}, errors.Wrap(
				err, errors.CategoryValidation, "custom_claims is not valid JSON",
			).WithCode(errors.CodeBadRequest)
		}
		return provided(decoded), nil
	default:
		return Optional[map[string]any]{}, fieldTypeError(key, "object or JSON string", raw)
	}
}

func fieldTypeError(key, want string, got any) error {
	return errors.New(
		fmt.Sprintf("field %q must be a %s", key, want),
		errors.CategoryValidation,
	).WithCode(errors.CodeBadRequest).
		WithMetadata(map[string]any{"field": key, "got": fmt.Sprintf("%T", got)})
}

// Validate enforces the creation invariants before any remote call.
func (p CreateUserPayload) Validate() error {
	if !hasValue(p.Email) && !hasValue(p.PhoneNumber) {
		return errors.New("either email or phone number must be set", errors.CategoryValidation).
			WithCode(errors.CodeBadRequest)
	}
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.By(optionalStringRule(is.Email))),
		validation.Field(&p.PhotoURL, validation.By(optionalStringRule(is.URL))),
		validation.Field(&p.PhoneNumber, validation.By(validPhoneNumber)),
	)
}

// Validate checks only the fields the update actually provides.
func (p UpdateUserPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.By(optionalStringRule(is.Email))),
		validation.Field(&p.PhotoURL, validation.By(optionalStringRule(is.URL))),
		validation.Field(&p.PhoneNumber, validation.By(validPhoneNumber)),
	)
}

func hasValue(o Optional[string]) bool {
	return o.Set && o.Value != ""
}

func optionalStringRule(rule validation.Rule) validation.RuleFunc {
	return func(value any) error {
		opt, ok := value.(Optional[string])
		if !ok || !hasValue(opt) {
			return nil
		}
		return validation.Validate(opt.Value, rule)
	}
}

func validPhoneNumber(value any) error {
	opt, ok := value.(Optional[string])
	if !ok || !hasValue(opt) {
		return nil
	}
	parsed, err := phonenumbers.Parse(opt.Value, "")
	if err != nil {
		return fmt.Errorf("must be an E.164 phone number: %w", err)
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return fmt.Errorf("must be a valid phone number")
	}
	return nil
}

// providerCreateArgs shapes the payload into Admin SDK create arguments,
// omitting unset fields. is_active maps to the provider's inverted
// disabled flag; is_superuser never leaves this package.
func (p CreateUserPayload) providerCreateArgs() *fbauth.UserToCreate {
	args := &fbauth.UserToCreate{}
	if hasValue(p.Email) {
		args = args.Email(p.Email.Value)
	}
	if hasValue(p.Password) {
		args = args.Password(p.Password.Value)
	}
	if p.IsVerified.Set {
		args = args.EmailVerified(p.IsVerified.Value)
	}
	if p.DisplayName.Set {
		args = args.DisplayName(p.DisplayName.Value)
	}
	if p.IsActive.Set {
		args = args.Disabled(!p.IsActive.Value)
	}
	if hasValue(p.PhoneNumber) {
		args = args.PhoneNumber(p.PhoneNumber.Value)
	}
	if hasValue(p.PhotoURL) {
		args = args.PhotoURL(p.PhotoURL.Value)
	}
	return args
}

// providerUpdateArgs shapes the payload into Admin SDK update arguments.
// Keys that were never provided are left out so the provider does not touch
// them; keys provided as null/empty clear the corresponding property.
func (p UpdateUserPayload) providerUpdateArgs() *fbauth.UserToUpdate {
	args := &fbauth.UserToUpdate{}
	if hasValue(p.Email) {
		args = args.Email(p.Email.Value)
	}
	if hasValue(p.Password) {
		args = args.Password(p.Password.Value)
	}
	if p.IsVerified.Set {
		args = args.EmailVerified(p.IsVerified.Value)
	}
	if p.DisplayName.Set {
		args = args.DisplayName(p.DisplayName.Value)
	}
	if p.IsActive.Set {
		args = args.Disabled(!p.IsActive.Value)
	}
	if p.PhoneNumber.Set {
		args = args.PhoneNumber(p.PhoneNumber.Value)
	}
	if p.PhotoURL.Set {
		args = args.PhotoURL(p.PhotoURL.Value)
	}
	if p.CustomClaims.Set {
		args = args.CustomClaims(toClaimsMap(p.CustomClaims.Value))
	}
	return args
}

func toClaimsMap(claims map[string]any) map[string]any {
	if claims == nil {
		return map[string]any{}
	}
	return claims
}
