package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Passphrase holds the admin passphrase only as an argon2id digest.
// The zero value rejects everything.
type Passphrase struct {
	salt   []byte
	digest []byte
}

func derive(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, 32)
}

// NewPassphrase digests secret under a random salt. An empty secret
// produces a Passphrase that rejects everything.
func NewPassphrase(secret string) (*Passphrase, error) {
	if secret == "" {
		return &Passphrase{}, nil
	}
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("passphrase salt: %w", err)
	}
	return &Passphrase{salt: salt, digest: derive([]byte(secret), salt)}, nil
}

// Verify reports whether candidate equals the configured passphrase exactly.
func (p *Passphrase) Verify(candidate string) bool {
	if p == nil || len(p.digest) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(derive([]byte(candidate), p.salt), p.digest) == 1
}
