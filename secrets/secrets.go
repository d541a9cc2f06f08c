package secrets

import (
	"context"
	"fmt"
	"net/http"

	ghdevops "github.com/gh-devops-mcp/client-go"
)

// Client is the subset of *ghdevops.Client used by this package.
type Client interface {
	RepoPath(owner, repo string, elems ...string) (string, error)
	Get(ctx context.Context, path string, params ghdevops.Params, opts ...ghdevops.RequestOption) (*ghdevops.Result, error)
	Put(ctx context.Context, path string, body any, opts ...ghdevops.RequestOption) (*ghdevops.Result, error)
}

// PublicKey is a repository's Actions secrets encryption key.
type PublicKey struct {
	KeyID string `json:"key_id"`
	Key   string `json:"key"`
}

type secretBody struct {
	EncryptedValue string `json:"encrypted_value"`
	KeyID          string `json:"key_id"`
}

// GetRepoPublicKey fetches the key secrets for owner/repo must be sealed
// with. Empty owner or repo fall back to the client's defaults.
func GetRepoPublicKey(ctx context.Context, c Client, owner, repo string) (*PublicKey, error) {
	path, err := c.RepoPath(owner, repo, "actions", "secrets", "public-key")
	if err != nil {
		return nil, err
	}

	res, err := c.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("get public key: %w", err)
	}

	var key PublicKey
	if err := res.Decode(&key); err != nil {
		return nil, fmt.Errorf("get public key: %w", err)
	}
	if key.KeyID == "" || key.Key == "" {
		return nil, fmt.Errorf("get public key: %w: response has no key", ErrInvalidPublicKey)
	}
	return &key, nil
}

// PutRepoSecret creates or updates the Actions secret name with value. It
// reports whether the secret was created (201) rather than updated (204).
func PutRepoSecret(ctx context.Context, c Client, owner, repo, name, value string) (bool, error) {
	if name == "" {
		return false, ErrMissingSecretName
	}

	key, err := GetRepoPublicKey(ctx, c, owner, repo)
	if err != nil {
		return false, err
	}

	encrypted, err := Seal(key.Key, value)
	if err != nil {
		return false, err
	}

	path, err := c.RepoPath(owner, repo, "actions", "secrets", name)
	if err != nil {
		return false, err
	}

	res, err := c.Put(ctx, path, secretBody{EncryptedValue: encrypted, KeyID: key.KeyID})
	if err != nil {
		return false, fmt.Errorf("put secret %s: %w", name, err)
	}
	return res.StatusCode == http.StatusCreated, nil
}
