package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gestion-riesgos/auth/internal/auth/service"
	"github.com/gestion-riesgos/auth/internal/auth/store/drivers/sqlite"
	"github.com/gestion-riesgos/auth/pkg/cryptox"
	"github.com/gestion-riesgos/auth/pkg/jwtx"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "http-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

// newTestServer stands up the full router backed by an in-memory database,
// the same wiring the application uses minus the listener.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewEphemeralSigner()
	require.NoError(t, err)

	sessions := &service.SessionService{
		Store:  st,
		Signer: signer,
		Issuer: "gestion-riesgos",
		TTL:    service.DefaultSessionTTL,
	}

	router := NewRouter(signer, "test", st, slog.New(slog.NewTextHandler(io.Discard, nil)))
	router.AuthService = &service.AuthService{
		Store:    st,
		Sessions: sessions,
		Issuer:   "gestion-riesgos",
	}
	router.SessionService = sessions
	router.UserService = &service.UserService{Store: st}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, srv *httptest.Server, path string, body any, token string) (*http.Response, map[string]any) {
	t.Helper()
	return doJSON(t, srv, http.MethodPost, path, body, token)
}

func getJSON(t *testing.T, srv *httptest.Server, path, token string) (*http.Response, map[string]any) {
	t.Helper()
	return doJSON(t, srv, http.MethodGet, path, nil, token)
}

func doJSON(t *testing.T, srv *httptest.Server, method, path string, body any, token string) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func registerUser(t *testing.T, srv *httptest.Server, email, password, fullName string) string {
	t.Helper()

	resp, body := postJSON(t, srv, "/auth/register", map[string]string{
		"email":    email,
		"password": password,
		"fullName": fullName,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	secret, _ := body["secret"].(string)
	require.NotEmpty(t, secret)
	return secret
}

func TestRegisterReturnsEnrollment(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp, body := postJSON(t, srv, "/auth/register", map[string]string{
		"email":    "a@x.com",
		"password": "p1",
		"fullName": "Ana",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, body["secret"])
	require.Contains(t, body["qrCodeUrl"], "data:image/png;base64,")
	require.Contains(t, body["message"], "registered")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	registerUser(t, srv, "a@x.com", "p1", "Ana")

	resp, body := postJSON(t, srv, "/auth/register", map[string]string{
		"email":    "a@x.com",
		"password": "other",
		"fullName": "Impostor",
	}, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "duplicate_email", body["error"])
}

func TestLoginFlow(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	secret := registerUser(t, srv, "a@x.com", "p1", "Ana")

	t.Run("wrong password", func(t *testing.T) {
		resp, body := postJSON(t, srv, "/auth/login", map[string]string{
			"email":    "a@x.com",
			"password": "nope",
			"token":    "123456",
		}, "")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, "invalid_credentials", body["error"])
	})

	t.Run("wrong TOTP code", func(t *testing.T) {
		wrong, err := totp.GenerateCode("JBSWY3DPEHPK3PXPJBSWY3DPEHPK3PXP", time.Now())
		require.NoError(t, err)

		resp, body := postJSON(t, srv, "/auth/login", map[string]string{
			"email":    "a@x.com",
			"password": "p1",
			"token":    wrong,
		}, "")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, "invalid_two_factor_token", body["error"])
	})

	t.Run("valid code issues token", func(t *testing.T) {
		code, err := totp.GenerateCode(secret, time.Now())
		require.NoError(t, err)

		resp, body := postJSON(t, srv, "/auth/login", map[string]string{
			"email":    "a@x.com",
			"password": "p1",
			"token":    code,
		}, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NotEmpty(t, body["token"])

		expiresAt, err := time.Parse(time.RFC3339, body["expiresAt"].(string))
		require.NoError(t, err)
		require.WithinDuration(t, time.Now().Add(4*time.Hour), expiresAt, time.Minute)

		// The embedded user view must be redacted.
		user := body["user"].(map[string]any)
		require.Equal(t, "a@x.com", user["email"])
		require.Equal(t, true, user["twoFactorEnabled"])
		require.NotContains(t, user, "passwordHash")
		require.NotContains(t, user, "totpSecret")
	})
}

func TestVerifyUser(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	registerUser(t, srv, "a@x.com", "p1", "Ana")

	resp, body := postJSON(t, srv, "/auth/verify-user", map[string]string{
		"email":    "a@x.com",
		"password": "p1",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body["message"], "verified")

	resp, body = postJSON(t, srv, "/auth/verify-user", map[string]string{
		"email":    "a@x.com",
		"password": "nope",
	}, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "invalid_credentials", body["error"])
}

func TestAuthenticatedUserAndLogout(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	secret := registerUser(t, srv, "a@x.com", "p1", "Ana")

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	resp, body := postJSON(t, srv, "/auth/login", map[string]string{
		"email":    "a@x.com",
		"password": "p1",
		"token":    code,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := body["token"].(string)

	resp, body = getJSON(t, srv, "/auth/user", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "a@x.com", body["email"])
	require.Equal(t, "Ana", body["fullName"])

	resp, body = getJSON(t, srv, "/auth/2fa/status", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["configured"])

	resp, body = postJSON(t, srv, "/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body["message"], "logged out")

	// The revoked token must stop working immediately.
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/auth/user", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	rawResp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer rawResp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, rawResp.StatusCode)
}

func TestAuthenticatedEndpointsRejectMissingToken(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/auth/user"},
		{http.MethodGet, "/auth/2fa/status"},
		{http.MethodPost, "/auth/logout"},
	} {
		req, err := http.NewRequest(tc.method, srv.URL+tc.path, nil)
		require.NoError(t, err)
		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", tc.method, tc.path)
	}
}

func TestTwoFactorRegenerateInvalidatesOldSecret(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	oldSecret := registerUser(t, srv, "a@x.com", "p1", "Ana")

	resp, body := postJSON(t, srv, "/auth/2fa/generate", map[string]string{
		"email":    "a@x.com",
		"password": "p1",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	newSecret := body["secret"].(string)
	require.NotEmpty(t, newSecret)
	require.NotEqual(t, oldSecret, newSecret)
	require.Contains(t, body["qrCodeUrl"], "data:image/png;base64,")

	// A code from the replaced secret no longer logs in.
	staleCode, err := totp.GenerateCode(oldSecret, time.Now())
	require.NoError(t, err)
	resp, body = postJSON(t, srv, "/auth/login", map[string]string{
		"email":    "a@x.com",
		"password": "p1",
		"token":    staleCode,
	}, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "invalid_two_factor_token", body["error"])

	freshCode, err := totp.GenerateCode(newSecret, time.Now())
	require.NoError(t, err)
	resp, _ = postJSON(t, srv, "/auth/login", map[string]string{
		"email":    "a@x.com",
		"password": "p1",
		"token":    freshCode,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTwoFactorGenerateRequiresPassword(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	registerUser(t, srv, "a@x.com", "p1", "Ana")

	resp, body := postJSON(t, srv, "/auth/2fa/generate", map[string]string{
		"email":    "a@x.com",
		"password": "nope",
	}, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "invalid_credentials", body["error"])
}

func TestMalformedBodyRejected(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/auth/register", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	resp, body := getJSON(t, srv, "/livez", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", body["status"])

	resp, body = getJSON(t, srv, "/readyz", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", body["status"])
	checks := body["checks"].(map[string]any)
	require.Equal(t, "ok", checks["database"])
	require.Equal(t, "ok", checks["signer"])
}
