package credentials

import (
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/go-acme/lego/v4/certcrypto"
	pkcs12 "software.sslmate.com/src/go-pkcs12"
)

// KeyStore holds the entries of a loaded PKCS#12 container: at most one
// private key with its certificate chain, plus any trusted certificates.
type KeyStore struct {
	privateKey  crypto.PrivateKey
	certificate *x509.Certificate
	caCerts     []*x509.Certificate
	trusted     []*x509.Certificate
}

// LoadKeyStore decodes a PKCS#12 container. Containers holding a private key
// are read as a key entry with its chain, anything else as a trust store.
func LoadKeyStore(data []byte, password string) (*KeyStore, error) {
	key, cert, caCerts, chainErr := pkcs12.DecodeChain(data, password)
	if chainErr == nil {
		return &KeyStore{privateKey: key, certificate: cert, caCerts: caCerts}, nil
	}

	trusted, trustErr := pkcs12.DecodeTrustStore(data, password)
	if trustErr == nil {
		return &KeyStore{trusted: trusted}, nil
	}

	return nil, fmt.Errorf("loading key store: %w", errors.Join(chainErr, trustErr))
}

// Size is the number of entries: the key entry, if any, and each trusted
// certificate.
func (ks *KeyStore) Size() int {
	n := len(ks.trusted)
	if ks.privateKey != nil {
		n++
	}
	return n
}

func (ks *KeyStore) PrivateKey() crypto.PrivateKey {
	return ks.privateKey
}

// Certificate is the certificate of the key entry.
func (ks *KeyStore) Certificate() *x509.Certificate {
	return ks.certificate
}

func (ks *KeyStore) CACertificates() []*x509.Certificate {
	return append([]*x509.Certificate{}, ks.caCerts...)
}

func (ks *KeyStore) TrustedCertificates() []*x509.Certificate {
	return append([]*x509.Certificate{}, ks.trusted...)
}

// PEM encodes the private key followed by every certificate in the store.
func (ks *KeyStore) PEM() ([]byte, error) {
	var out []byte

	if ks.privateKey != nil {
		block, err := privateKeyBlock(ks.privateKey)
		if err != nil {
			return nil, err
		}
		out = append(out, pem.EncodeToMemory(block)...)
	}

	if ks.certificate != nil {
		out = append(out, certToPEM(ks.certificate)...)
	}
	for _, c := range ks.caCerts {
		out = append(out, certToPEM(c)...)
	}
	for _, c := range ks.trusted {
		out = append(out, certToPEM(c)...)
	}

	return out, nil
}

func privateKeyBlock(key crypto.PrivateKey) (*pem.Block, error) {
	// certcrypto only knows RSA and ECDSA keys
	if block := certcrypto.PEMBlock(key); block != nil {
		return block, nil
	}

	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("encoding private key: %w", err)
	}
	return &pem.Block{Type: "PRIVATE KEY", Bytes: der}, nil
}

func certToPEM(cert *x509.Certificate) []byte {
	return pem.EncodeToMemory(certcrypto.PEMBlock(certcrypto.DERCertificateBytes(cert.Raw)))
}
