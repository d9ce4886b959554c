package credentials

// TextSecretProvider supplies a plain string secret.
type TextSecretProvider interface {
	Secret() (Secret, error)
}

// UsernamePasswordProvider supplies a username/password pair.
type UsernamePasswordProvider interface {
	Username() (string, error)
	Password() Secret
}

// PrivateKeyProvider supplies SSH private keys for a user.
type PrivateKeyProvider interface {
	Username() (string, error)
	PrivateKeys() ([]string, error)
	Passphrase() Secret
}

// KeyStoreProvider supplies a certificate key store and its password.
type KeyStoreProvider interface {
	KeyStore() (*KeyStore, error)
	Password() Secret
}
