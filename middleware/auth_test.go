package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dosada05/arena/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func token(t *testing.T, userID int, isAdmin bool, ttl time.Duration) string {
	t.Helper()
	tok, err := utils.IssueToken([]byte(testSecret), userID, isAdmin, ttl, time.Now())
	require.NoError(t, err)
	return tok
}

func serve(h http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	var gotID int
	var gotOK bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name     string
		header   string
		enforced bool
		want     int
		wantID   int
	}{
		{"anonymous open", "", false, http.StatusNoContent, 0},
		{"anonymous enforced passes authenticate", "", true, http.StatusNoContent, 0},
		{"valid token", "Bearer " + token(t, 7, false, time.Hour), false, http.StatusNoContent, 7},
		{"lowercase scheme", "bearer " + token(t, 8, false, time.Hour), false, http.StatusNoContent, 8},
		{"expired token", "Bearer " + token(t, 7, false, -time.Minute), false, http.StatusUnauthorized, 0},
		{"garbage token", "Bearer not-a-jwt", false, http.StatusUnauthorized, 0},
		{"wrong scheme", "Basic abc", false, http.StatusUnauthorized, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotID, gotOK = 0, false
			a := NewAuthenticator(testSecret, tt.enforced, nil)
			rec := serve(a.Authenticate(inner), tt.header)
			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, tt.wantID, gotID)
			assert.Equal(t, tt.wantID != 0, gotOK)
			if rec.Code == http.StatusUnauthorized {
				assert.Contains(t, rec.Body.String(), `"message"`)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	enforced := NewAuthenticator(testSecret, true, nil)
	h := enforced.Authenticate(enforced.RequireAdmin(ok))
	assert.Equal(t, http.StatusUnauthorized, serve(h, "").Code)
	assert.Equal(t, http.StatusForbidden, serve(h, "Bearer "+token(t, 1, false, time.Hour)).Code)
	assert.Equal(t, http.StatusOK, serve(h, "Bearer "+token(t, 1, true, time.Hour)).Code)

	open := NewAuthenticator(testSecret, false, nil)
	h = open.Authenticate(open.RequireAdmin(ok))
	assert.Equal(t, http.StatusOK, serve(h, "").Code)
}

func TestCanActFor(t *testing.T) {
	var self, other bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		self, other = CanActFor(r.Context(), 5), CanActFor(r.Context(), 6)
	})

	a := NewAuthenticator(testSecret, true, nil)
	serve(a.Authenticate(inner), "Bearer "+token(t, 5, false, time.Hour))
	assert.True(t, self)
	assert.False(t, other)

	serve(a.Authenticate(inner), "Bearer "+token(t, 1, true, time.Hour))
	assert.True(t, self)
	assert.True(t, other)

	serve(a.Authenticate(inner), "")
	assert.False(t, self)

	open := NewAuthenticator(testSecret, false, nil)
	serve(open.Authenticate(inner), "")
	assert.True(t, other)
}
