package secrets

import (
	"context"
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/mitchellh/mapstructure"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/maxroll/secret-credentials/pkg/credentials"
	"github.com/maxroll/secret-credentials/pkg/secretvalue"
)

const (
	SecretManagerBackendName = "gcp"

	// DefaultUsernameLabel stands in for credentials.UsernameTag, since GCP
	// label keys cannot contain colons.
	DefaultUsernameLabel = "jenkins-credentials-username"

	descriptionAnnotation = "description"
)

type SecretManagerConfig struct {
	ProjectId     string   `mapstructure:"project_id"`
	Version       string   `mapstructure:"version"`
	UsernameLabel string   `mapstructure:"username_label"`
	Filters       []Filter `mapstructure:"filters"`
}

// secretManagerClient wraps the calls made against the GCP client so that
// tests can replace it.
type secretManagerClient interface {
	GetSecret(ctx context.Context, req *secretmanagerpb.GetSecretRequest) (*secretmanagerpb.Secret, error)
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest) (*secretmanagerpb.AccessSecretVersionResponse, error)
	ListSecrets(ctx context.Context, req *secretmanagerpb.ListSecretsRequest) ([]*secretmanagerpb.Secret, error)
	Close() error
}

type gcpClient struct {
	client *secretmanager.Client
}

func (c *gcpClient) GetSecret(ctx context.Context, req *secretmanagerpb.GetSecretRequest) (*secretmanagerpb.Secret, error) {
	return c.client.GetSecret(ctx, req)
}

func (c *gcpClient) AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest) (*secretmanagerpb.AccessSecretVersionResponse, error) {
	return c.client.AccessSecretVersion(ctx, req)
}

func (c *gcpClient) ListSecrets(ctx context.Context, req *secretmanagerpb.ListSecretsRequest) ([]*secretmanagerpb.Secret, error) {
	var result []*secretmanagerpb.Secret

	it := c.client.ListSecrets(ctx, req)
	for {
		secret, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		result = append(result, secret)
	}

	return result, nil
}

func (c *gcpClient) Close() error {
	return c.client.Close()
}

// SecretManagerBackend reads secrets from GCP Secret Manager. Payloads that
// are valid UTF-8 become text values, anything else binary.
type SecretManagerBackend struct {
	config *SecretManagerConfig
	client secretManagerClient
}

func NewSecretManagerBackend(ctx context.Context, bc map[string]interface{}) (*SecretManagerBackend, error) {
	config := &SecretManagerConfig{}
	if err := mapstructure.Decode(bc, config); err != nil {
		log.WithError(err).Error("failed to map gcp backend configuration")
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if config.ProjectId == "" {
		return nil, fmt.Errorf("%w: project_id is required", ErrInvalidConfig)
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		log.WithError(err).Error("failed to setup secret manager client")
		return nil, err
	}

	return newSecretManagerBackend(config, &gcpClient{client}), nil
}

func newSecretManagerBackend(config *SecretManagerConfig, client secretManagerClient) *SecretManagerBackend {
	if config.Version == "" {
		config.Version = "latest"
	}
	if config.UsernameLabel == "" {
		config.UsernameLabel = DefaultUsernameLabel
	}
	return &SecretManagerBackend{config, client}
}

func (s *SecretManagerBackend) Name() string {
	return SecretManagerBackendName
}

// GetName returns the resource name of a secret, or of its configured
// version when includeVersion is set.
func (s *SecretManagerBackend) GetName(id string, includeVersion bool) string {
	secretName := id
	if !strings.HasPrefix(id, "projects/") {
		secretName = fmt.Sprintf("projects/%s/secrets/%s", s.config.ProjectId, id)
	}

	if includeVersion {
		return fmt.Sprintf("%s/versions/%s", secretName, s.config.Version)
	}
	return secretName
}

func (s *SecretManagerBackend) GetSecret(ctx context.Context, id string) (*Secret, error) {
	logger := log.WithFields(log.Fields{
		"backend_type": s.Name(),
		"secret_id":    id,
	})

	metadata, err := s.client.GetSecret(ctx, &secretmanagerpb.GetSecretRequest{
		Name: s.GetName(id, false),
	})
	if err != nil {
		logger.WithError(err).Error("failed to get secret")
		return nil, translateGCPError(id, err)
	}

	result, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: s.GetName(id, true),
	})
	if err != nil {
		logger.WithError(err).Error("failed to access secret version")
		return nil, translateGCPError(id, err)
	}

	data := result.GetPayload().GetData()

	var value secretvalue.Value
	if utf8.Valid(data) {
		value = secretvalue.Text(string(data))
	} else {
		value = secretvalue.Binary(data)
	}

	return &Secret{Summary: s.summary(metadata), Value: value}, nil
}

func (s *SecretManagerBackend) ListSecrets(ctx context.Context) ([]Summary, error) {
	list, err := s.client.ListSecrets(ctx, &secretmanagerpb.ListSecretsRequest{
		Parent: fmt.Sprintf("projects/%s", s.config.ProjectId),
	})
	if err != nil {
		log.WithError(err).
			WithField("backend_type", s.Name()).
			Error("failed to list secrets")
		return nil, err
	}

	var summaries []Summary
	for _, secret := range list {
		summary := s.summary(secret)
		if MatchesAll(s.config.Filters, summary.Tags) {
			summaries = append(summaries, summary)
		}
	}

	return summaries, nil
}

func (s *SecretManagerBackend) Close() error {
	return s.client.Close()
}

func (s *SecretManagerBackend) summary(secret *secretmanagerpb.Secret) Summary {
	tags := make(map[string]string, len(secret.GetLabels())+len(secret.GetAnnotations()))
	for k, v := range secret.GetAnnotations() {
		tags[k] = v
	}
	for k, v := range secret.GetLabels() {
		if k == s.config.UsernameLabel {
			k = credentials.UsernameTag
		}
		tags[k] = v
	}

	return Summary{
		ID:          path.Base(secret.GetName()),
		Description: secret.GetAnnotations()[descriptionAnnotation],
		Tags:        tags,
	}
}

func translateGCPError(id string, err error) error {
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return err
}
