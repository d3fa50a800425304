package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shoes-store/internal/auth"
	"shoes-store/internal/catalog"
	"shoes-store/internal/session"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const testPhone = "9876543210"

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	products, err := catalog.Default()
	require.NoError(t, err)
	c, err := catalog.New(products)
	require.NoError(t, err)
	return c
}

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	s, _ := session.NewRegistry(time.Hour, 0, zerolog.Nop()).Resolve("")
	return s
}

func verifiedSession(t *testing.T) *session.Session {
	t.Helper()
	s := newTestSession(t)
	s.MarkVerified(testPhone)
	return s
}

// newRequest builds a request with a JSON body. A string body is sent as is.
// A non-nil session is attached the way the session middleware does it.
func newRequest(t *testing.T, method, target string, body interface{}, s *session.Session) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if s != nil {
		req = req.WithContext(session.NewContext(req.Context(), s))
	}
	return req
}

func withUser(r *http.Request, id uuid.UUID) *http.Request {
	return r.WithContext(auth.NewContext(r.Context(), id))
}

func decodeResponse[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}
