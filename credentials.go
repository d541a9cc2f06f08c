package ghdevops

import "github.com/gh-devops-mcp/client-go/internal/api"

// DefaultAPIURL is the public GitHub REST endpoint.
const DefaultAPIURL = api.DefaultBaseURL

// Credentials is the resolved connection profile a Client is bound to.
// Owner and Repo are defaults for calls that do not name a repository.
type Credentials struct {
	Token  string
	Owner  string
	Repo   string
	APIURL string
}

// Validate reports whether the credentials can authenticate a request.
func (c Credentials) Validate() error {
	if c.Token == "" {
		return ErrMissingToken
	}
	return nil
}

// HasRepository reports whether both default owner and repository are set.
func (c Credentials) HasRepository() bool {
	return c.Owner != "" && c.Repo != ""
}
