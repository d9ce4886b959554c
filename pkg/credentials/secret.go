package credentials

// Secret is an opaque handle on sensitive text. Formatting a Secret never
// prints its contents; call Plain to reveal them.
type Secret struct {
	plain string
}

// NoSecret is the empty secret, returned when a credential has no value for
// the requested field.
var NoSecret = Secret{}

const redacted = "********"

func NewSecret(plain string) Secret {
	return Secret{plain: plain}
}

// Plain returns the secret text.
func (s Secret) Plain() string {
	return s.plain
}

func (s Secret) IsEmpty() bool {
	return s.plain == ""
}

func (s Secret) String() string {
	if s.IsEmpty() {
		return ""
	}
	return redacted
}

func (s Secret) GoString() string {
	return "credentials.Secret{" + s.String() + "}"
}
