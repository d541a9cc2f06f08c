// Package secrets encrypts GitHub Actions secret values and stores them
// through a ghdevops client.
//
// GitHub accepts secret values only as libsodium sealed boxes addressed to
// the repository's X25519 public key. [Seal] produces that ciphertext and
// [PutRepoSecret] performs the full "fetch key, seal, PUT" exchange.
package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/box"
)

// PublicKeySize is the size of a repository's X25519 public key in bytes.
const PublicKeySize = 32

var (
	// ErrInvalidPublicKey is returned when the public key is not standard
	// base64 or does not decode to PublicKeySize bytes.
	ErrInvalidPublicKey = errors.New("invalid public key")

	// ErrMissingSecretName is returned when a secret name is empty.
	ErrMissingSecretName = errors.New("secret name is required")
)

// randReader is the random source for ephemeral keys. Tests may replace it.
var randReader io.Reader = rand.Reader

// Seal encrypts value for the public key given in standard base64 and
// returns the sealed box in standard base64.
func Seal(publicKeyB64, value string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(publicKeyB64)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	if len(raw) != PublicKeySize {
		return "", fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidPublicKey, len(raw), PublicKeySize)
	}

	var recipient [PublicKeySize]byte
	copy(recipient[:], raw)

	sealed, err := box.SealAnonymous(nil, []byte(value), &recipient, randReader)
	if err != nil {
		return "", fmt.Errorf("seal secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}
