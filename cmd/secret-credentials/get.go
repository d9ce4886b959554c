package main

import (
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/maxroll/secret-credentials/pkg/credentials"
	"github.com/maxroll/secret-credentials/pkg/secrets"
)

const (
	shapeSecret     = "secret"
	shapeUsername   = "username"
	shapePassword   = "password"
	shapePassphrase = "passphrase"
	shapePrivateKey = "private-key"
	shapeKeyStore   = "keystore"
)

var shapes = []string{shapeSecret, shapeUsername, shapePassword, shapePassphrase, shapePrivateKey, shapeKeyStore}

func newGetCommand(config *Config) *cobra.Command {
	var (
		shape  string
		reveal bool
	)

	cmd := &cobra.Command{
		Use:   "get <secret-id>",
		Short: "Read one secret as the given credential shape",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := config.openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer backend.Close()

			creds, err := secrets.Lookup(cmd.Context(), backend, args[0])
			if err != nil {
				return err
			}

			log.WithFields(log.Fields{
				"secret_id": creds.ID,
				"shape":     shape,
			}).Debug("resolving credential")

			return render(cmd.OutOrStdout(), creds, shape, reveal)
		},
	}

	cmd.Flags().StringVar(&shape, "as", shapeSecret, "credential shape: "+strings.Join(shapes, ", "))
	cmd.Flags().BoolVar(&reveal, "reveal", false, "print secret material unmasked")

	return cmd
}

// render calls the one accessor matching shape and prints its result.
func render(w io.Writer, creds *credentials.Credentials, shape string, reveal bool) error {
	show := func(s string) string {
		if reveal {
			return s
		}
		return secrets.MaskValue(s)
	}

	switch shape {
	case shapeSecret:
		secret, err := creds.Secret()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, show(secret.Plain()))

	case shapeUsername:
		username, err := creds.Username()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, username)

	case shapePassword:
		fmt.Fprintln(w, show(creds.Password().Plain()))

	case shapePassphrase:
		fmt.Fprintln(w, show(creds.Passphrase().Plain()))

	case shapePrivateKey:
		keys, err := creds.PrivateKeys()
		if err != nil {
			return err
		}
		for _, key := range keys {
			if reveal {
				fmt.Fprint(w, key)
				continue
			}
			fmt.Fprintln(w, show(key))
		}

	case shapeKeyStore:
		ks, err := creds.KeyStore()
		if err != nil {
			return err
		}
		return renderKeyStore(w, ks, reveal)

	default:
		return fmt.Errorf("unknown credential shape %q, expected one of: %s", shape, strings.Join(shapes, ", "))
	}

	return nil
}

func renderKeyStore(w io.Writer, ks *credentials.KeyStore, reveal bool) error {
	if reveal {
		out, err := ks.PEM()
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	}

	fmt.Fprintf(w, "entries: %d\n", ks.Size())
	if cert := ks.Certificate(); cert != nil {
		fmt.Fprintf(w, "key entry: %s (valid until %s)\n", cert.Subject, cert.NotAfter)
	}
	for _, cert := range ks.TrustedCertificates() {
		fmt.Fprintf(w, "trusted: %s (valid until %s)\n", cert.Subject, cert.NotAfter)
	}
	return nil
}
