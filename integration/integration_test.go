//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ghdevops "github.com/gh-devops-mcp/client-go"
	"github.com/gh-devops-mcp/client-go/credentials"
)

var creds ghdevops.Credentials

func TestMain(m *testing.M) {
	// Load .env file if it exists (won't error if missing)
	if err := godotenv.Load("../.env"); err != nil {
		os.Stderr.WriteString("Note: .env file not found at project root\n")
	}

	var err error
	creds, err = credentials.Resolve()
	if err != nil {
		os.Stderr.WriteString("Skipping integration tests: " + err.Error() + "\n")
		os.Exit(0)
	}

	if !creds.HasRepository() {
		os.Stderr.WriteString("Skipping integration tests: GITHUB_OWNER and GITHUB_REPO not set\n")
		os.Exit(0)
	}

	os.Stderr.WriteString("Running integration tests...\n")
	os.Stderr.WriteString("API URL: " + creds.APIURL + "\n")

	os.Exit(m.Run())
}

func newClient(t *testing.T) *ghdevops.Client {
	t.Helper()

	client, err := ghdevops.New(creds)
	require.NoError(t, err)
	return client
}

func TestIntegration_GetRepository(t *testing.T) {
	client := newClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	path, err := client.RepoPath("", "")
	require.NoError(t, err)

	res, err := client.Get(ctx, path, nil)
	require.NoError(t, err)

	var repo struct {
		Name  string `json:"name"`
		Owner struct {
			Login string `json:"login"`
		} `json:"owner"`
	}
	require.NoError(t, res.Decode(&repo))
	assert.Equal(t, creds.Repo, repo.Name)
}

func TestIntegration_ListWorkflowRuns(t *testing.T) {
	client := newClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	path, _ := client.RepoPath("", "", "actions", "runs")
	res, err := client.Get(ctx, path, ghdevops.Params{"per_page": 1, "branch": ""})
	require.NoError(t, err)

	var runs struct {
		TotalCount *int `json:"total_count"`
	}
	require.NoError(t, res.Decode(&runs))
	assert.NotNil(t, runs.TotalCount, "total_count missing from response")
}

func TestIntegration_NotFound(t *testing.T) {
	client := newClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	path, _ := client.RepoPath("", "", "actions", "workflows", "does-not-exist.yml")
	_, err := client.Get(ctx, path, nil)
	require.ErrorIs(t, err, ghdevops.ErrNotFound)

	var apiErr *ghdevops.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
	t.Logf("formatted: %s", ghdevops.FormatError(err, "get_workflow"))
}

func TestIntegration_Gather(t *testing.T) {
	client := newClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	branches, _ := client.RepoPath("", "", "branches")
	releases, _ := client.RepoPath("", "", "releases")

	outcomes := ghdevops.GatherSettled(ctx,
		func(ctx context.Context) (*ghdevops.Result, error) {
			return client.Get(ctx, branches, ghdevops.Params{"per_page": 5})
		},
		func(ctx context.Context) (*ghdevops.Result, error) {
			return client.Get(ctx, releases, ghdevops.Params{"per_page": 5})
		},
		func(ctx context.Context) (*ghdevops.Result, error) {
			return client.Get(ctx, "/user", nil)
		},
	)

	for i, o := range outcomes {
		if o.Err != nil {
			t.Logf("call %d: %s", i, ghdevops.FormatError(o.Err, "gather"))
			continue
		}
		assert.Equal(t, ghdevops.KindJSON, o.Result.Kind, "call %d", i)
	}
}
