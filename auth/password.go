// Package auth verifies the process-wide shared secret that gates the
// password phase of the wire protocol.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters based on OWASP recommendations.
const (
	memory      = 64 * 1024 // KiB
	iterations  = 3
	parallelism = 2
	saltLength  = 16
	keyLength   = 32
)

const encodedPrefix = "$argon2id$"

// Guard holds the configured shared secret. The secret may be supplied in
// plain text, in which case candidates are compared constant-time byte for
// byte, or as an $argon2id$ encoded hash produced by HashSecret.
type Guard struct {
	secret string
	hashed bool
}

func NewGuard(secret string) Guard {
	return Guard{
		secret: secret,
		hashed: strings.HasPrefix(secret, encodedPrefix),
	}
}

// Verify reports whether the candidate matches the shared secret.
func (g Guard) Verify(candidate string) bool {
	if g.hashed {
		ok, err := compareEncoded(candidate, g.secret)
		return err == nil && ok
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(g.secret)) == 1
}

// HashSecret generates an Argon2id encoded hash suitable for storing in
// SERVER_PASSWORD instead of the plain secret.
func HashSecret(secret string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(secret), salt, iterations, memory, parallelism, keyLength)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	// The encoded form carries every parameter needed for verification.
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, memory, iterations, parallelism, b64Salt, b64Hash), nil
}

// compareEncoded re-derives the candidate with the parameters stored in the
// encoded hash and compares constant-time.
func compareEncoded(candidate, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return false, errors.New("invalid hash format")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, err
	}
	var mem, iter, par int
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iter, &par); err != nil {
		return false, err
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, err
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, err
	}

	got := argon2.IDKey([]byte(candidate), salt,
		uint32(iter), uint32(mem), uint8(par), uint32(len(want))) //nolint:gosec // parameters come from our own encoded format

	return subtle.ConstantTimeCompare(want, got) == 1, nil
}
