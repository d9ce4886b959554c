// Package credentials resolves a secret payload and its tags into the
// credential shapes a consumer may ask for.
//
// The shape of a secret is never declared. Each accessor checks on every
// call whether the payload and tags satisfy its shape, so one secret can
// serve several shapes and asking for an unsupported one fails only at that
// call.
package credentials

import (
	"github.com/maxroll/secret-credentials/pkg/secretvalue"
	"github.com/maxroll/secret-credentials/pkg/sshkey"
)

// UsernameTag is the tag key that makes a secret usable as a
// username/password pair (and supplies the username).
const UsernameTag = "jenkins:credentials:username"

// Credentials is a secret whose shape is decided at lookup time.
// All methods are safe for concurrent use.
type Credentials struct {
	ID          string
	Description string

	tags  map[string]string
	value secretvalue.Value
}

var (
	_ TextSecretProvider       = (*Credentials)(nil)
	_ UsernamePasswordProvider = (*Credentials)(nil)
	_ PrivateKeyProvider       = (*Credentials)(nil)
	_ KeyStoreProvider         = (*Credentials)(nil)
)

// New builds credentials from a fetched secret. Nothing is validated here.
func New(id, description string, tags map[string]string, value secretvalue.Value) *Credentials {
	copied := make(map[string]string, len(tags))
	for k, v := range tags {
		copied[k] = v
	}

	return &Credentials{
		ID:          id,
		Description: description,
		tags:        copied,
		value:       value,
	}
}

// Name is the display name of the credentials.
func (c *Credentials) Name() string {
	return c.ID
}

// Tags returns a copy of the secret's tags.
func (c *Credentials) Tags() map[string]string {
	tags := make(map[string]string, len(c.tags))
	for k, v := range c.tags {
		tags[k] = v
	}
	return tags
}

// Secret returns the text payload. Binary payloads are unavailable.
func (c *Credentials) Secret() (Secret, error) {
	text, ok := c.text()
	if !ok {
		return NoSecret, unavailable(FieldSecret)
	}
	return NewSecret(text), nil
}

// Password returns the text payload when the username tag is set, and
// NoSecret otherwise (the secret is then taken to be a key store, whose
// password is empty).
func (c *Credentials) Password() Secret {
	if _, ok := c.tags[UsernameTag]; !ok {
		return NoSecret
	}
	text, _ := c.text()
	return NewSecret(text)
}

func (c *Credentials) Username() (string, error) {
	username, ok := c.tags[UsernameTag]
	if !ok {
		return "", unavailable(FieldUsername)
	}
	return username, nil
}

// Passphrase is always empty: private keys are stored unencrypted.
func (c *Credentials) Passphrase() Secret {
	return NoSecret
}

func (c *Credentials) PrivateKeys() ([]string, error) {
	key, err := c.PrivateKey()
	if err != nil {
		return nil, err
	}
	return []string{key}, nil
}

// PrivateKey returns the text payload if it holds a private key.
//
// Deprecated: use PrivateKeys.
func (c *Credentials) PrivateKey() (string, error) {
	text, ok := c.text()
	if !ok || !sshkey.IsValid(text) {
		return "", unavailable(FieldPrivateKey)
	}
	return text, nil
}

// KeyStore loads the binary payload as a PKCS#12 key store with an empty
// password. Load failures of any kind are reported as unavailable.
func (c *Credentials) KeyStore() (*KeyStore, error) {
	data, ok := c.binary()
	if !ok {
		return nil, unavailable(FieldKeyStore)
	}

	ks, err := LoadKeyStore(data, "")
	if err != nil {
		return nil, unavailable(FieldKeyStore)
	}
	return ks, nil
}

func (c *Credentials) text() (string, bool) {
	type result struct {
		text string
		ok   bool
	}
	r := secretvalue.Match(c.value,
		func(s string) result { return result{s, true} },
		func([]byte) result { return result{} },
	)
	return r.text, r.ok
}

func (c *Credentials) binary() ([]byte, bool) {
	var data []byte
	ok := secretvalue.Match(c.value,
		func(string) bool { return false },
		func(b []byte) bool {
			data = b
			return true
		},
	)
	return data, ok
}
