package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/FlagBrew/local-pokedex/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth() *Auth {
	return NewAuth(&models.AuthConfig{
		Secret:    "0123456789abcdef0123456789abcdef",
		Issuer:    "local-pokedex",
		AdminRole: "Admin",
	})
}

// protected runs a request through Authenticate and RequireRole("Admin") and
// returns the recorder plus the user id the final handler saw.
func protected(t *testing.T, a *Auth, header string) (*httptest.ResponseRecorder, string) {
	t.Helper()

	var seen string
	handler := a.Authenticate(RequireRole("Admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/packs", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, seen
}

func TestAuthenticateAcceptsAdminToken(t *testing.T) {
	a := newTestAuth()

	token, err := a.Issue("user-1", []string{"Admin"}, time.Hour)
	require.NoError(t, err)

	rec, seen := protected(t, a, "Bearer "+token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "user-1", seen)
}

func TestAuthenticateRejects(t *testing.T) {
	a := newTestAuth()

	other := newTestAuth()
	other.secret = []byte("a-completely-different-secret!!")
	forged, err := other.Issue("user-1", []string{"Admin"}, time.Hour)
	require.NoError(t, err)

	expired := newTestAuth()
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Issue("user-1", []string{"Admin"}, time.Hour)
	require.NoError(t, err)

	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic dXNlcjpwYXNz",
		"garbage":        "Bearer not-a-jwt",
		"bad signature":  "Bearer " + forged,
		"expired":        "Bearer " + old,
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			rec, seen := protected(t, a, header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Empty(t, seen)
		})
	}
}

func TestRequireRoleForbidsOtherRoles(t *testing.T) {
	a := newTestAuth()

	token, err := a.Issue("user-2", []string{"Viewer"}, time.Hour)
	require.NoError(t, err)

	rec, seen := protected(t, a, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, seen)
}

func TestParseRejectsNoneAlgorithm(t *testing.T) {
	a := newTestAuth()

	claims := Claims{
		Roles: []string{"Admin"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-3",
			Issuer:    "local-pokedex",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = a.Parse(raw)
	assert.Error(t, err)
}

func TestIssueRequiresUser(t *testing.T) {
	_, err := newTestAuth().Issue("", nil, time.Hour)
	assert.Error(t, err)
}
