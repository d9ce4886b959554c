package secrets

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// NewBackend builds the backend named by backendType from its configuration
// map.
func NewBackend(ctx context.Context, backendType string, bc map[string]interface{}) (SecretBackend, error) {
	log.WithField("backend_type", backendType).Debug("creating secret backend")

	var (
		backend SecretBackend
		err     error
	)

	switch backendType {
	case SecretsManagerBackendName:
		backend, err = NewSecretsManagerBackend(ctx, bc)
	case SecretManagerBackendName:
		backend, err = NewSecretManagerBackend(ctx, bc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backendType)
	}

	if err != nil {
		return nil, err
	}
	return backend, nil
}
