package security

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrKeyNotFound indicates the requested verification key is unknown.
var ErrKeyNotFound = errors.New("key not found")

// KeyProvider supplies the signing and verification keys for token
// issuance. Keys are addressed by kid so rotation only requires adding
// a new key file.
type KeyProvider interface {
	GetSigningKey() (*rsa.PrivateKey, error)
	SigningKID() string
	GetVerificationKey(kid string) (*rsa.PublicKey, error)
}

// FileKeyProvider loads RSA keys from PEM files in a directory. The
// file name (without extension) becomes the kid. The lexically first
// private key found is used for signing.
type FileKeyProvider struct {
	signingKey *rsa.PrivateKey
	signingKID string
	keys       map[string]*rsa.PublicKey
}

// NewFileKeyProvider reads every PEM file under keyDir.
func NewFileKeyProvider(keyDir string) (*FileKeyProvider, error) {
	entries, err := os.ReadDir(keyDir)
	if err != nil {
		return nil, fmt.Errorf("read key directory: %w", err)
	}

	provider := &FileKeyProvider{keys: make(map[string]*rsa.PublicKey)}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(keyDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read key file %s: %w", path, err)
		}

		kid := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if err := provider.addKey(kid, data); err != nil {
			return nil, fmt.Errorf("parse key file %s: %w", path, err)
		}
	}

	if provider.signingKey == nil {
		return nil, errors.New("no private key found for signing")
	}

	return provider, nil
}

func (p *FileKeyProvider) addKey(kid string, pemData []byte) error {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return errors.New("no PEM block found")
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		p.registerPrivate(kid, key)
		return nil
	}

	if parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		if key, ok := parsed.(*rsa.PrivateKey); ok {
			p.registerPrivate(kid, key)
			return nil
		}
		return errors.New("private key is not RSA")
	}

	if key, err := x509.ParsePKCS1PublicKey(block.Bytes); err == nil {
		p.keys[kid] = key
		return nil
	}

	if parsed, err := x509.ParsePKIXPublicKey(block.Bytes); err == nil {
		if key, ok := parsed.(*rsa.PublicKey); ok {
			p.keys[kid] = key
			return nil
		}
		return errors.New("public key is not RSA")
	}

	return errors.New("unrecognized key material")
}

func (p *FileKeyProvider) registerPrivate(kid string, key *rsa.PrivateKey) {
	if p.signingKey == nil {
		p.signingKey = key
		p.signingKID = kid
	}
	p.keys[kid] = &key.PublicKey
}

// GetSigningKey returns the private key used for signing tokens.
func (p *FileKeyProvider) GetSigningKey() (*rsa.PrivateKey, error) {
	if p.signingKey == nil {
		return nil, errors.New("signing key not configured")
	}
	return p.signingKey, nil
}

// SigningKID returns the kid associated with the signing key.
func (p *FileKeyProvider) SigningKID() string {
	return p.signingKID
}

// GetVerificationKey returns the public key registered under kid.
func (p *FileKeyProvider) GetVerificationKey(kid string) (*rsa.PublicKey, error) {
	key, ok := p.keys[kid]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, kid)
	}
	return key, nil
}
