package ghdevops

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gh-devops-mcp/client-go/internal/api"
)

// Kind identifies which terminal outcome a Result carries.
type Kind = api.Kind

// Result kinds.
const (
	// KindJSON carries a JSON document in Body.
	KindJSON = api.KindJSON
	// KindText carries raw response text in Text.
	KindText = api.KindText
	// KindEmpty is a 204 No Content response.
	KindEmpty = api.KindEmpty
	// KindRedirect is a 302 response; the target is in DownloadURL.
	KindRedirect = api.KindRedirect
)

// Result is the single terminal outcome of a successful call.
type Result struct {
	Kind       Kind
	StatusCode int

	// Body holds the JSON document for KindJSON and the synthetic
	// {"download_url": ...} object for KindRedirect.
	Body json.RawMessage
	// Text holds the raw body for KindText.
	Text string
	// DownloadURL is the Location header of a redirect.
	DownloadURL string

	Header   http.Header
	Attempts int
}

type redirectBody struct {
	DownloadURL string `json:"download_url"`
}

func newResult(resp *api.Response) (*Result, error) {
	r := &Result{
		Kind:       resp.Kind,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Attempts:   resp.Attempts,
	}

	switch resp.Kind {
	case KindJSON:
		r.Body = json.RawMessage(resp.Body)
	case KindText:
		r.Text = string(resp.Body)
	case KindRedirect:
		r.DownloadURL = resp.Location
		body, err := json.Marshal(redirectBody{DownloadURL: resp.Location})
		if err != nil {
			return nil, fmt.Errorf("encode redirect: %w", err)
		}
		r.Body = body
	}
	return r, nil
}

// Decode unmarshals the result into v. It is a no-op for KindEmpty.
func (r *Result) Decode(v any) error {
	var data []byte
	switch r.Kind {
	case KindEmpty:
		return nil
	case KindText:
		data = []byte(r.Text)
	default:
		data = r.Body
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s result: %w", r.Kind, err)
	}
	return nil
}

// IsEmpty reports whether the call returned no content.
func (r *Result) IsEmpty() bool {
	return r.Kind == KindEmpty
}
