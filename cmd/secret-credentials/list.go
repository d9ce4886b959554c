package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/maxroll/secret-credentials/pkg/secrets"
)

func newListCommand(config *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the secrets available as credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := config.openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer backend.Close()

			summaries, err := backend.ListSecrets(cmd.Context())
			if err != nil {
				return err
			}

			log.WithField("backend_type", backend.Name()).Debugf("found %d secrets", len(summaries))
			printSummaries(cmd.OutOrStdout(), summaries)
			return nil
		},
	}
}

func printSummaries(w io.Writer, summaries []secrets.Summary) {
	for _, s := range summaries {
		keys := make([]string, 0, len(s.Tags))
		for k := range s.Tags {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		tags := make([]string, 0, len(keys))
		for _, k := range keys {
			tags = append(tags, k+"="+s.Tags[k])
		}

		fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, s.Description, strings.Join(tags, ","))
	}
}
