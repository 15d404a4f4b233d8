package requestid_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngavatar/ngavatar/pkg/requestid"
)

// serve runs one request through the middleware and returns the ID the
// inner handler observed plus the recorded response.
func serve(t *testing.T, clientID string) (string, *httptest.ResponseRecorder) {
	t.Helper()

	var seen string
	handler := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestid.FromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if clientID != "" {
		r.Header.Set(requestid.Header, clientID)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	return seen, rec
}

func TestMiddlewareGeneratesID(t *testing.T) {
	t.Parallel()

	seen, rec := serve(t, "")
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(requestid.Header), "context and response header disagree")
}

func TestMiddlewareReusesClientID(t *testing.T) {
	t.Parallel()

	tests := []string{
		"abc123",
		"req-2024_01",
		"550e8400-e29b-41d4-a716-446655440000",
	}
	for _, id := range tests {
		t.Run(id, func(t *testing.T) {
			t.Parallel()

			seen, rec := serve(t, id)
			assert.Equal(t, id, seen)
			assert.Equal(t, id, rec.Header().Get(requestid.Header))
		})
	}
}

func TestMiddlewareReplacesBadClientID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		id   string
	}{
		{name: "spaces", id: "two words"},
		{name: "punctuation", id: "id;with;semicolons"},
		{name: "html", id: "<script>x</script>"},
		{name: "too long", id: strings.Repeat("a", 129)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			seen, rec := serve(t, tt.id)
			require.NotEmpty(t, seen)
			assert.NotEqual(t, tt.id, seen)
			assert.Equal(t, seen, rec.Header().Get(requestid.Header))
		})
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := requestid.WithContext(context.Background(), "abc")
	assert.Equal(t, "abc", requestid.FromContext(ctx))
	assert.Empty(t, requestid.FromContext(context.Background()))
}
