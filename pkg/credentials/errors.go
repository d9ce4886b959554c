package credentials

import (
	"errors"
	"fmt"
)

// Fields reported by UnavailableError.
const (
	FieldSecret     = "secret"
	FieldUsername   = "username"
	FieldPrivateKey = "privateKey"
	FieldKeyStore   = "keyStore"
)

var messages = map[string]string{
	FieldSecret:     "the secret value is binary and cannot be used as a string",
	FieldUsername:   "no username tag (" + UsernameTag + ") is set on the secret",
	FieldPrivateKey: "the secret value is not a private key in a supported format",
	FieldKeyStore:   "the secret value is not a PKCS#12 key store with an empty password",
}

// UnavailableError is returned when a credential cannot supply a field in
// the requested shape. It is the only error kind returned by Credentials.
type UnavailableError struct {
	Field   string
	Message string
}

func unavailable(field string) *UnavailableError {
	return &UnavailableError{Field: field, Message: messages[field]}
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("credential field %q unavailable: %s", e.Field, e.Message)
}

// IsUnavailable reports whether err is an UnavailableError for field. An
// empty field matches any UnavailableError.
func IsUnavailable(err error, field string) bool {
	var ue *UnavailableError
	if !errors.As(err, &ue) {
		return false
	}
	return field == "" || ue.Field == field
}
