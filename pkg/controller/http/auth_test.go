package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	httpctrl "github.com/DaoSolary/Desaparecidos/pkg/controller/http"
	"github.com/DaoSolary/Desaparecidos/pkg/repository/memory"
	"github.com/DaoSolary/Desaparecidos/pkg/usecase"
)

var sessionSigningSecret = []byte("session-handoff-secret-for-tests")

// newAuthServer builds a server backed by real session authentication
func newAuthServer(t *testing.T) (*httpctrl.Server, *memory.Memory) {
	t.Helper()
	repo := memory.New()
	uc := usecase.New(repo,
		usecase.WithAuth(usecase.NewAuthUseCase(repo, sessionSigningSecret)),
	)
	return httpctrl.New(uc), repo
}

// mintSessionHandoff signs a JWT the way the host platform does
func mintSessionHandoff(t *testing.T, sub, email, name, role string) string {
	t.Helper()

	builder := jwt.NewBuilder().
		Subject(sub).
		IssuedAt(time.Now()).
		Expiration(time.Now().Add(time.Hour)).
		Claim("email", email).
		Claim("name", name)
	if role != "" {
		builder = builder.Claim("role", role)
	}

	token, err := builder.Build()
	if err != nil {
		t.Fatalf("failed to build handoff token: %v", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, sessionSigningSecret))
	if err != nil {
		t.Fatalf("failed to sign handoff token: %v", err)
	}

	return string(signed)
}

// openSession exchanges a handoff token and returns the session cookies
func openSession(t *testing.T, srv http.Handler, sub string) []*http.Cookie {
	t.Helper()

	handoff := mintSessionHandoff(t, sub, sub+"@example.org", "Moderator", "")
	rec := doJSON(t, srv, http.MethodPost, "/api/auth/session", map[string]string{"handoffToken": handoff})
	if rec.Code != http.StatusOK {
		t.Fatalf("failed to open session: %d %s", rec.Code, rec.Body.String())
	}

	cookies := rec.Result().Cookies()
	if len(cookies) < 2 {
		t.Fatalf("expected session cookies, got %d", len(cookies))
	}
	return cookies
}

// doJSONWithCookies is doJSON plus session cookies on the request
func doJSONWithCookies(t *testing.T, srv http.Handler, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestSessionEndpoint(t *testing.T) {
	t.Run("opens a session from a valid handoff token", func(t *testing.T) {
		srv, _ := newAuthServer(t)

		handoff := mintSessionHandoff(t, "U123", "rosa@example.org", "Rosa Neto", "")
		rec := doJSON(t, srv, http.MethodPost, "/api/auth/session", map[string]string{"handoffToken": handoff})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
		}

		var resp struct {
			Sub   string `json:"sub"`
			Email string `json:"email"`
			Name  string `json:"name"`
			Role  string `json:"role"`
		}
		decodeBody(t, rec, &resp)
		if resp.Sub != "U123" || resp.Email != "rosa@example.org" || resp.Name != "Rosa Neto" {
			t.Errorf("unexpected session identity: %+v", resp)
		}
		if resp.Role != "moderator" {
			t.Errorf("expected default role moderator, got %q", resp.Role)
		}

		var tokenID, tokenSecret *http.Cookie
		for _, c := range rec.Result().Cookies() {
			switch c.Name {
			case "token_id":
				tokenID = c
			case "token_secret":
				tokenSecret = c
			}
		}
		if tokenID == nil || tokenSecret == nil {
			t.Fatal("expected token_id and token_secret cookies")
		}
		if !tokenID.HttpOnly || !tokenSecret.HttpOnly {
			t.Error("expected session cookies to be HttpOnly")
		}
		if tokenID.Value == "" || tokenSecret.Value == "" {
			t.Error("expected non-empty cookie values")
		}
	})

	t.Run("admin role claim flows through", func(t *testing.T) {
		srv, _ := newAuthServer(t)

		handoff := mintSessionHandoff(t, "U456", "chefe@example.org", "Chefe", "admin")
		rec := doJSON(t, srv, http.MethodPost, "/api/auth/session", map[string]string{"handoffToken": handoff})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
		}

		var resp struct {
			Role string `json:"role"`
		}
		decodeBody(t, rec, &resp)
		if resp.Role != "admin" {
			t.Errorf("expected role admin, got %q", resp.Role)
		}
	})

	t.Run("rejects an invalid handoff token", func(t *testing.T) {
		srv, _ := newAuthServer(t)

		rec := doJSON(t, srv, http.MethodPost, "/api/auth/session", map[string]string{"handoffToken": "not-a-jwt"})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
		}
	})

	t.Run("rejects an empty handoff token", func(t *testing.T) {
		srv, _ := newAuthServer(t)

		rec := doJSON(t, srv, http.MethodPost, "/api/auth/session", map[string]string{})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})
}

func TestMeEndpoint(t *testing.T) {
	t.Run("returns the session identity", func(t *testing.T) {
		srv, _ := newAuthServer(t)
		cookies := openSession(t, srv, "U123")

		rec := doJSONWithCookies(t, srv, http.MethodGet, "/api/auth/me", nil, cookies)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
		}

		var resp struct {
			Sub string `json:"sub"`
		}
		decodeBody(t, rec, &resp)
		if resp.Sub != "U123" {
			t.Errorf("expected sub U123, got %q", resp.Sub)
		}
	})

	t.Run("rejects a request without cookies", func(t *testing.T) {
		srv, _ := newAuthServer(t)

		rec := doJSON(t, srv, http.MethodGet, "/api/auth/me", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
		}
	})
}

func TestLogoutEndpoint(t *testing.T) {
	srv, _ := newAuthServer(t)
	cookies := openSession(t, srv, "U123")

	rec := doJSONWithCookies(t, srv, http.MethodPost, "/api/auth/logout", nil, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	// Cookies are cleared
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token_id" || c.Name == "token_secret" {
			if c.Value != "" || c.MaxAge >= 0 {
				t.Errorf("expected cookie %s to be cleared, got value=%q maxAge=%d", c.Name, c.Value, c.MaxAge)
			}
		}
	}

	// The old session no longer validates
	rec = doJSONWithCookies(t, srv, http.MethodGet, "/api/auth/me", nil, cookies)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d after logout, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestDuplicatesRequireAuth(t *testing.T) {
	srv, _ := newAuthServer(t)

	t.Run("rejects a request without a session", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/duplicates", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
		}
	})

	t.Run("rejects a forged session", func(t *testing.T) {
		rec := doJSONWithCookies(t, srv, http.MethodGet, "/api/duplicates", nil, []*http.Cookie{
			{Name: "token_id", Value: "forged"},
			{Name: "token_secret", Value: "forged"},
		})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
		}
	})

	t.Run("accepts a valid session and attributes the actor", func(t *testing.T) {
		cookies := openSession(t, srv, "U789")

		rec := doJSONWithCookies(t, srv, http.MethodPost, "/api/duplicates/detect", nil, cookies)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
		}
	})
}
