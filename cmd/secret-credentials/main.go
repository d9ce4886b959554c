package main

import (
	"context"
	"os"
	"strings"

	"github.com/go-acme/lego/v4/platform/config/env"
	_ "github.com/joho/godotenv/autoload"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/maxroll/secret-credentials/pkg/secrets"
)

type Config struct {
	backendType string
	region      string
	profile     string
	endpoint    string
	projectId   string
	filterKey   string
	filterVals  []string
	verbose     bool
}

func loadConfig() *Config {
	config := &Config{
		backendType: env.GetOrDefaultString("SECRETS_BACKEND", secrets.SecretsManagerBackendName),
		region:      env.GetOrDefaultString("AWS_REGION", ""),
		profile:     env.GetOrDefaultString("AWS_PROFILE", ""),
		endpoint:    env.GetOrDefaultString("SECRETS_ENDPOINT", ""),
		projectId:   env.GetOrDefaultString("GCP_PROJECT_ID", ""),
		filterKey:   env.GetOrDefaultString("SECRETS_FILTER_TAG_KEY", ""),
		verbose:     env.GetOrDefaultBool("SECRETS_VERBOSE", false),
	}

	if values := env.GetOrDefaultString("SECRETS_FILTER_TAG_VALUES", ""); values != "" {
		config.filterVals = strings.Split(values, ",")
	}

	return config
}

// backendConfig turns the flat CLI configuration into the map expected by
// secrets.NewBackend.
func (c *Config) backendConfig() map[string]interface{} {
	bc := map[string]interface{}{}

	if c.filterKey != "" {
		bc["filters"] = []map[string]interface{}{
			{"key": c.filterKey, "values": c.filterVals},
		}
	}

	switch c.backendType {
	case secrets.SecretsManagerBackendName:
		bc["aws_session"] = map[string]interface{}{
			"region":   c.region,
			"profile":  c.profile,
			"endpoint": c.endpoint,
		}
	case secrets.SecretManagerBackendName:
		bc["project_id"] = c.projectId
	}

	return bc
}

func (c *Config) openBackend(ctx context.Context) (secrets.SecretBackend, error) {
	return secrets.NewBackend(ctx, c.backendType, c.backendConfig())
}

func newRootCommand(config *Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "secret-credentials",
		Short:         "Use secrets from a remote secret store as credentials",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if config.verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&config.backendType, "backend", config.backendType, "secret backend (aws or gcp)")
	flags.StringVar(&config.region, "region", config.region, "AWS region")
	flags.StringVar(&config.profile, "profile", config.profile, "AWS shared config profile")
	flags.StringVar(&config.endpoint, "endpoint", config.endpoint, "override the AWS Secrets Manager endpoint")
	flags.StringVar(&config.projectId, "project", config.projectId, "GCP project id")
	flags.StringVar(&config.filterKey, "filter-tag", config.filterKey, "only list secrets carrying this tag")
	flags.StringSliceVar(&config.filterVals, "filter-values", config.filterVals, "accepted values for --filter-tag")
	flags.BoolVarP(&config.verbose, "verbose", "v", config.verbose, "debug logging")

	root.AddCommand(newListCommand(config), newGetCommand(config))

	return root
}

func main() {
	log.SetOutput(os.Stderr)

	if err := newRootCommand(loadConfig()).Execute(); err != nil {
		log.Fatalf("secret-credentials: %v", err)
	}
}
