package api

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// Header names the client reads or writes.
const (
	headerAuthorization      = "Authorization"
	headerAccept             = "Accept"
	headerAPIVersion         = "X-GitHub-Api-Version"
	headerUserAgent          = "User-Agent"
	headerContentType        = "Content-Type"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRateLimitReset     = "X-RateLimit-Reset"
	headerRetryAfter         = "Retry-After"
	headerLocation           = "Location"
)

func isAbsoluteURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// resolveURL joins path onto the base URL and merges params into the query
// string. Params replace same-named keys already present in path.
func (c *Client) resolveURL(path string, params Params) (*url.URL, error) {
	raw := path
	if !isAbsoluteURL(path) {
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		raw = c.baseURL + path
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse request URL %q: %w", raw, err)
	}

	if len(params) > 0 {
		query := u.Query()
		for key, value := range params {
			if s, ok := formatParam(value); ok {
				query.Set(key, s)
			}
		}
		u.RawQuery = query.Encode()
	}
	return u, nil
}

// formatParam stringifies a query value. The boolean result is false for
// values that must be omitted: nil, nil pointers and empty strings.
func formatParam(value any) (string, bool) {
	if value == nil {
		return "", false
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		return formatParam(rv.Elem().Interface())
	}

	var s string
	switch v := value.(type) {
	case string:
		s = v
	case float32:
		s = strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}
	return s, s != ""
}

// hasBody reports whether body should be sent. nil, nil pointers, nil maps
// and nil slices mean no body.
func hasBody(body any) bool {
	if body == nil {
		return false
	}
	rv := reflect.ValueOf(body)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// buildHeader assembles the fixed header contract, then applies caller
// overrides. An empty Authorization override is ignored so callers cannot
// strip authentication.
func (c *Client) buildHeader(overrides map[string]string, hasBody bool) http.Header {
	h := make(http.Header)
	h.Set(headerAuthorization, "Bearer "+c.token)
	h.Set(headerAccept, c.mediaType)
	h.Set(headerAPIVersion, c.apiVersion)
	h.Set(headerUserAgent, c.userAgent)
	if hasBody {
		h.Set(headerContentType, "application/json")
	}

	for key, value := range overrides {
		if value == "" && http.CanonicalHeaderKey(key) == headerAuthorization {
			continue
		}
		h.Set(key, value)
	}
	return h
}
