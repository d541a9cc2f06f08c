package ghdevops

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gh-devops-mcp/client-go/internal/api"
)

func TestNewResult(t *testing.T) {
	header := http.Header{"X-Github-Request-Id": []string{"abc"}}

	t.Run("json", func(t *testing.T) {
		res, err := newResult(&api.Response{Kind: api.KindJSON, StatusCode: 200, Body: []byte(`{"a":1}`), Header: header, Attempts: 2})
		require.NoError(t, err)
		assert.Equal(t, KindJSON, res.Kind)
		assert.JSONEq(t, `{"a":1}`, string(res.Body))
		assert.Empty(t, res.Text)
		assert.Equal(t, 2, res.Attempts)
		assert.Equal(t, "abc", res.Header.Get("X-GitHub-Request-Id"))
	})

	t.Run("text", func(t *testing.T) {
		res, err := newResult(&api.Response{Kind: api.KindText, StatusCode: 200, Body: []byte("log line {")})
		require.NoError(t, err)
		assert.Equal(t, "log line {", res.Text)
		assert.Nil(t, res.Body)
	})

	t.Run("empty", func(t *testing.T) {
		res, err := newResult(&api.Response{Kind: api.KindEmpty, StatusCode: 204})
		require.NoError(t, err)
		assert.True(t, res.IsEmpty())
		assert.Nil(t, res.Body)
	})

	t.Run("redirect", func(t *testing.T) {
		res, err := newResult(&api.Response{Kind: api.KindRedirect, StatusCode: 302, Location: "https://example.com/log.zip"})
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/log.zip", res.DownloadURL)
		assert.JSONEq(t, `{"download_url":"https://example.com/log.zip"}`, string(res.Body))
	})
}

func TestResult_Decode(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		res := &Result{Kind: KindJSON, Body: []byte(`{"name":"ci.yml","state":"active"}`)}
		var wf struct {
			Name  string `json:"name"`
			State string `json:"state"`
		}
		require.NoError(t, res.Decode(&wf))
		assert.Equal(t, "ci.yml", wf.Name)
		assert.Equal(t, "active", wf.State)
	})

	t.Run("empty object", func(t *testing.T) {
		res := &Result{Kind: KindJSON, Body: []byte(`{}`)}
		var m map[string]any
		require.NoError(t, res.Decode(&m))
		assert.Empty(t, m)
	})

	t.Run("empty is no-op", func(t *testing.T) {
		res := &Result{Kind: KindEmpty}
		v := map[string]any{"kept": true}
		require.NoError(t, res.Decode(&v))
		assert.Equal(t, map[string]any{"kept": true}, v)
	})

	t.Run("text that is not json", func(t *testing.T) {
		res := &Result{Kind: KindText, Text: "plain log"}
		var v any
		err := res.Decode(&v)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode text result")
	})
}
