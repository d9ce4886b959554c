package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscredentials "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/mitchellh/mapstructure"
	log "github.com/sirupsen/logrus"

	"github.com/maxroll/secret-credentials/pkg/secretvalue"
)

const SecretsManagerBackendName = "aws"

// secretsManagerClient is the subset of the Secrets Manager API we use. The
// SDK has no mock, so tests provide their own implementation.
type secretsManagerClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
	DescribeSecret(ctx context.Context, params *secretsmanager.DescribeSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.DescribeSecretOutput, error)
	secretsmanager.ListSecretsAPIClient
}

// overridden in tests
var newSecretsManagerClient = func(cfg aws.Config, endpoint string) secretsManagerClient {
	return secretsmanager.NewFromConfig(cfg, func(o *secretsmanager.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

type SessionConfig struct {
	Region          string `mapstructure:"region"`
	Profile         string `mapstructure:"profile"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

type SecretsManagerConfig struct {
	Session SessionConfig `mapstructure:"aws_session"`
	Filters []Filter      `mapstructure:"filters"`
}

// SecretsManagerBackend reads secrets from AWS Secrets Manager. Secrets
// stored as SecretString become text values, SecretBinary becomes binary.
type SecretsManagerBackend struct {
	config *SecretsManagerConfig
	client secretsManagerClient
}

func NewSecretsManagerBackend(ctx context.Context, bc map[string]interface{}) (*SecretsManagerBackend, error) {
	config := &SecretsManagerConfig{}
	if err := mapstructure.Decode(bc, config); err != nil {
		log.WithError(err).Error("failed to map aws backend configuration")
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg, err := loadAWSConfig(ctx, config.Session)
	if err != nil {
		log.WithError(err).
			WithField("aws_profile", config.Session.Profile).
			Error("failed to initialize aws session")
		return nil, err
	}

	return &SecretsManagerBackend{
		config: config,
		client: newSecretsManagerClient(cfg, config.Session.Endpoint),
	}, nil
}

func loadAWSConfig(ctx context.Context, session SessionConfig) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error

	if session.Region != "" {
		opts = append(opts, awsconfig.WithRegion(session.Region))
	}
	if session.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(session.Profile))
	}
	if session.AccessKeyID != "" || session.SecretAccessKey != "" {
		if session.AccessKeyID == "" || session.SecretAccessKey == "" {
			return aws.Config{}, fmt.Errorf("%w: access_key_id and secret_access_key must be set together", ErrInvalidConfig)
		}
		opts = append(opts, awsconfig.WithCredentialsProvider(
			awscredentials.NewStaticCredentialsProvider(session.AccessKeyID, session.SecretAccessKey, "")))
	}

	return awsconfig.LoadDefaultConfig(ctx, opts...)
}

func (s *SecretsManagerBackend) Name() string {
	return SecretsManagerBackendName
}

func (s *SecretsManagerBackend) GetSecret(ctx context.Context, id string) (*Secret, error) {
	logger := log.WithFields(log.Fields{
		"backend_type": s.Name(),
		"secret_id":    id,
	})

	description, err := s.client.DescribeSecret(ctx, &secretsmanager.DescribeSecretInput{
		SecretId: aws.String(id),
	})
	if err != nil {
		logger.WithError(err).Error("failed to describe secret")
		return nil, translateAWSError(id, err)
	}
	if description.DeletedDate != nil {
		logger.Warn("secret is scheduled for deletion")
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(id),
	})
	if err != nil {
		logger.WithError(err).Error("failed to retrieve secret value")
		return nil, translateAWSError(id, err)
	}

	var value secretvalue.Value
	if out.SecretString != nil {
		value = secretvalue.Text(*out.SecretString)
	} else {
		value = secretvalue.Binary(out.SecretBinary)
	}

	return &Secret{
		Summary: Summary{
			ID:          aws.ToString(description.Name),
			Description: aws.ToString(description.Description),
			Tags:        awsTags(description.Tags),
		},
		Value: value,
	}, nil
}

// ListSecrets returns every secret matching the configured tag filters.
// Secrets scheduled for deletion are skipped.
func (s *SecretsManagerBackend) ListSecrets(ctx context.Context) ([]Summary, error) {
	input := &secretsmanager.ListSecretsInput{}
	for _, f := range s.config.Filters {
		input.Filters = append(input.Filters, types.Filter{
			Key:    types.FilterNameStringTypeTagKey,
			Values: []string{f.Key},
		})
	}

	var summaries []Summary

	paginator := secretsmanager.NewListSecretsPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			log.WithError(err).
				WithField("backend_type", s.Name()).
				Error("failed to list secrets")
			return nil, err
		}

		for _, entry := range page.SecretList {
			if entry.DeletedDate != nil {
				continue
			}

			tags := awsTags(entry.Tags)
			if !MatchesAll(s.config.Filters, tags) {
				continue
			}

			summaries = append(summaries, Summary{
				ID:          aws.ToString(entry.Name),
				Description: aws.ToString(entry.Description),
				Tags:        tags,
			})
		}
	}

	return summaries, nil
}

func (s *SecretsManagerBackend) Close() error {
	return nil
}

func awsTags(tags []types.Tag) map[string]string {
	out := make(map[string]string, len(tags))
	for _, tag := range tags {
		out[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return out
}

func translateAWSError(id string, err error) error {
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return err
}
