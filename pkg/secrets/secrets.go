package secrets

import (
	"context"
	"errors"

	"github.com/maxroll/secret-credentials/pkg/credentials"
	"github.com/maxroll/secret-credentials/pkg/secretvalue"
)

var (
	ErrNotFound       = errors.New("secrets: not found")
	ErrInvalidConfig  = errors.New("secrets: invalid backend configuration")
	ErrUnknownBackend = errors.New("secrets: unknown backend")
)

// SecretBackend reads secrets and their tags from a remote store.
type SecretBackend interface {
	GetSecret(ctx context.Context, id string) (*Secret, error)
	ListSecrets(ctx context.Context) ([]Summary, error)
	Close() error
	Name() string
}

// Summary describes a secret without its value.
type Summary struct {
	ID          string
	Description string
	Tags        map[string]string
}

// Secret is a fetched secret: its metadata and its value.
type Secret struct {
	Summary
	Value secretvalue.Value
}

// Credentials exposes the secret as credentials of any supported shape.
func (s *Secret) Credentials() *credentials.Credentials {
	return credentials.New(s.ID, s.Description, s.Tags, s.Value)
}

// Lookup fetches one secret and returns it as credentials.
func Lookup(ctx context.Context, backend SecretBackend, id string) (*credentials.Credentials, error) {
	secret, err := backend.GetSecret(ctx, id)
	if err != nil {
		return nil, err
	}
	return secret.Credentials(), nil
}
