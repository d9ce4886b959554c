// Package sshkey recognises text that looks like a private key.
//
// Validation only checks that a known key encoding can be read; it does not
// verify the key material any further than the underlying parser does.
package sshkey

import (
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/pem"

	"golang.org/x/crypto/ssh"
)

const (
	rsaPrivateKey     = "RSA PRIVATE KEY"
	ecPrivateKey      = "EC PRIVATE KEY"
	dsaPrivateKey     = "DSA PRIVATE KEY"
	pkcs8PrivateKey   = "PRIVATE KEY"
	openSSHPrivateKey = "OPENSSH PRIVATE KEY"
)

// Validator reports whether a string holds a recognisable private key.
type Validator interface {
	IsValid(str string) bool
}

// ValidatorFunc adapts a plain function to a Validator.
type ValidatorFunc func(str string) bool

func (f ValidatorFunc) IsValid(str string) bool {
	return f(str)
}

// Chain accepts a string if any of its validators does.
type Chain []Validator

func (c Chain) IsValid(str string) bool {
	for _, v := range c {
		if v.IsValid(str) {
			return true
		}
	}
	return false
}

var defaultChain = Chain{PEMKeyPair{}, PrivateKeyInfo{}, OpenSSHPrivateKey{}}

// IsValid runs the default chain: legacy PEM key pairs, PKCS#8 private keys
// and OpenSSH private keys.
func IsValid(str string) bool {
	return defaultChain.IsValid(str)
}

// pkcs8Info is the PrivateKeyInfo structure of RFC 5208. Trailing optional
// fields (attributes, public key) are ignored.
type pkcs8Info struct {
	Version    int
	Algo       pkix.AlgorithmIdentifier
	PrivateKey []byte
}

// ecKey is the ECPrivateKey structure of RFC 5915.
type ecKey struct {
	Version       int
	PrivateKey    []byte
	NamedCurveOID asn1.ObjectIdentifier `asn1:"optional,explicit,tag:0"`
	PublicKey     asn1.BitString        `asn1:"optional,explicit,tag:1"`
}

// PEMKeyPair accepts unencrypted RSA, EC and DSA keys in their legacy PEM
// encodings. EC keys are checked structurally so that curves Go does not
// implement are still accepted.
type PEMKeyPair struct{}

func (PEMKeyPair) IsValid(str string) bool {
	block := firstBlock(str)
	if block == nil {
		return false
	}

	switch block.Type {
	case rsaPrivateKey, ecPrivateKey, dsaPrivateKey:
	default:
		return false
	}

	// encrypted legacy keys carry a Proc-Type header and cannot be read
	// without a passphrase
	if _, ok := block.Headers["Proc-Type"]; ok {
		return false
	}

	if block.Type == ecPrivateKey {
		var key ecKey
		rest, err := asn1.Unmarshal(block.Bytes, &key)
		return err == nil && len(rest) == 0 && key.Version == 1 && len(key.PrivateKey) > 0
	}

	_, err := ssh.ParseRawPrivateKey(pem.EncodeToMemory(block))
	return err == nil
}

// PrivateKeyInfo accepts unencrypted PKCS#8 private keys of any algorithm.
// Only the PrivateKeyInfo structure is checked, not the key it wraps.
type PrivateKeyInfo struct{}

func (PrivateKeyInfo) IsValid(str string) bool {
	block := firstBlock(str)
	if block == nil || block.Type != pkcs8PrivateKey {
		return false
	}

	var info pkcs8Info
	rest, err := asn1.Unmarshal(block.Bytes, &info)
	return err == nil && len(rest) == 0 && len(info.Algo.Algorithm) > 0 && len(info.PrivateKey) > 0
}

// OpenSSHPrivateKey accepts any non-empty block labelled as an OpenSSH
// private key. Only the envelope is checked.
type OpenSSHPrivateKey struct{}

func (OpenSSHPrivateKey) IsValid(str string) bool {
	block := firstBlock(str)
	return block != nil && block.Type == openSSHPrivateKey && len(block.Bytes) > 0
}

func firstBlock(str string) *pem.Block {
	block, _ := pem.Decode([]byte(str))
	return block
}
