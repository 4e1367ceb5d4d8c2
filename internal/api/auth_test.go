package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"job-portal/internal/auth"
)

func loginBody(email, password string) *strings.Reader {
	return strings.NewReader(`{"email":"` + email + `","password":"` + password + `"}`)
}

func tokenCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	return nil
}

func TestLoginSuccess(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Config{}, "")
	rec := env.do(t, http.MethodPost, "/api/admin/login", loginBody("admin@example.com", testPassword), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	cookie := tokenCookie(rec)
	if cookie == nil {
		t.Fatal("token cookie not set")
	}
	if !cookie.HttpOnly {
		t.Error("cookie must be HttpOnly")
	}
	if cookie.SameSite != http.SameSiteStrictMode {
		t.Errorf("samesite = %v, want strict", cookie.SameSite)
	}
	if cookie.Secure {
		t.Error("cookie secure without secure_cookies config")
	}

	body := decodeBody(t, rec)
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("token missing from response body")
	}
	if _, err := env.tokens.Verify(token); err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if body["message"] != "Login successful" {
		t.Fatalf("message = %v", body["message"])
	}
}

func TestLoginSecureCookie(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Config{SecureCookies: true}, "")
	rec := env.do(t, http.MethodPost, "/api/admin/login", loginBody("admin@example.com", testPassword), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	cookie := tokenCookie(rec)
	if cookie == nil || !cookie.Secure {
		t.Fatal("cookie must be Secure when configured")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Config{}, "")
	rec := env.do(t, http.MethodPost, "/api/admin/login", loginBody("admin@example.com", "wrong"), nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "Invalid email or password" {
		t.Fatalf("body = %v", body)
	}
}

func TestLoginUnknownEmailSameMessage(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Config{}, "")
	rec := env.do(t, http.MethodPost, "/api/admin/login", loginBody("ghost@example.com", "whatever"), nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "Invalid email or password" {
		t.Fatalf("body = %v, unknown email must not be distinguishable", body)
	}
}

func TestLoginMissingFields(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Config{}, "")
	rec := env.do(t, http.MethodPost, "/api/admin/login", strings.NewReader(`{"email":"a@b.c"}`), nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeBody(t, rec)
	fields, ok := body["errors"].([]any)
	if !ok || len(fields) != 1 || fields[0] != "password" {
		t.Fatalf("errors = %v, want [password]", body["errors"])
	}
}

func TestLoginBadJSON(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Config{}, "")
	rec := env.do(t, http.MethodPost, "/api/admin/login", strings.NewReader("{broken"), nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDevRoutesHiddenByDefault(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Config{}, "")
	rec := env.do(t, http.MethodPost, "/api/admin/seed", loginBody("new@example.com", "pw"), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 when dev routes disabled", rec.Code)
	}
}

func TestSeedAdmin(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Config{DevRoutes: true}, "")
	rec := env.do(t, http.MethodPost, "/api/admin/seed", strings.NewReader(`{"email":"new@example.com","password":"pw"}`), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["message"] != "Admin created" {
		t.Fatalf("body = %v", body)
	}

	created := env.admins.byEmail["new@example.com"]
	if created == nil {
		t.Fatal("admin not stored")
	}
	if created.Username != "admin" {
		t.Fatalf("username = %q, want default admin", created.Username)
	}
	if created.PasswordHash == "pw" || created.PasswordHash == "" {
		t.Fatal("password stored without hashing")
	}
}

func TestSeedAdminDuplicate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Config{DevRoutes: true}, "")
	rec := env.do(t, http.MethodPost, "/api/admin/seed", strings.NewReader(`{"email":"admin@example.com","password":"pw"}`), nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "Admin already exists" {
		t.Fatalf("body = %v", body)
	}
}

func TestResetPassword(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Config{DevRoutes: true}, "")
	rec := env.do(t, http.MethodPost, "/api/admin/reset-password", loginBody("admin@example.com", "brand-new"), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	updated := env.admins.byEmail["admin@example.com"]
	if !auth.CheckPassword("brand-new", updated.PasswordHash) {
		t.Fatal("new password does not verify")
	}

	rec = env.do(t, http.MethodPost, "/api/admin/login", loginBody("admin@example.com", "brand-new"), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login with new password = %d, want 200", rec.Code)
	}
}
