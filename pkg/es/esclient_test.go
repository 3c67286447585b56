package es

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func respond(status int, body string) roundTripFunc {
	return func(r *http.Request) (*http.Response, error) {
		h := http.Header{}
		h.Set("X-Elastic-Product", "Elasticsearch")
		h.Set("Content-Type", "application/json")
		return &http.Response{
			StatusCode: status,
			Header:     h,
			Body:       io.NopCloser(strings.NewReader(body)),
			Request:    r,
		}, nil
	}
}

func TestNewClient_OK(t *testing.T) {
	t.Parallel()

	c, err := NewClient(context.Background(), Config{
		URL:       "http://es.test:9200",
		Transport: respond(http.StatusOK, `{"version":{"number":"9.0.0"}}`),
	})
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestNewClient_ErrorStatus(t *testing.T) {
	t.Parallel()

	c, err := NewClient(context.Background(), Config{
		URL:       "http://es.test:9200",
		Transport: respond(http.StatusUnauthorized, `{"error":"security_exception"}`),
	})
	require.Error(t, err)
	assert.Nil(t, c)
	assert.Contains(t, err.Error(), "security_exception")
}
