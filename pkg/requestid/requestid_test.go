package requestid_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/requestid"
)

func serve(t *testing.T, incoming string) (seen string, echoed string) {
	t.Helper()
	h := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestid.FromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if incoming != "" {
		req.Header.Set(requestid.Header, incoming)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return seen, rec.Header().Get(requestid.Header)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("keeps a well-formed id", func(t *testing.T) {
		t.Parallel()
		seen, echoed := serve(t, "gate-7_entry-42")
		assert.Equal(t, "gate-7_entry-42", seen)
		assert.Equal(t, seen, echoed)
	})

	for name, incoming := range map[string]string{
		"missing":   "",
		"injection": "abc\r\nX-Evil: 1",
		"too long":  strings.Repeat("a", 129),
		"spaces":    "has space",
	} {
		t.Run("replaces "+name, func(t *testing.T) {
			t.Parallel()
			seen, echoed := serve(t, incoming)
			require.NotEmpty(t, seen)
			assert.NotEqual(t, incoming, seen)
			assert.Equal(t, seen, echoed)
		})
	}
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	extract := requestid.LoggerExtractor()

	_, ok := extract(context.Background())
	assert.False(t, ok)

	attr, ok := extract(requestid.WithContext(context.Background(), "req-1"))
	require.True(t, ok)
	assert.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "req-1", attr.Value.String())
}

func TestFromContext_Nil(t *testing.T) {
	t.Parallel()

	//nolint:staticcheck // nil context is handled explicitly
	assert.Empty(t, requestid.FromContext(nil))
}
