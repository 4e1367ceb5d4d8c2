package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"job-portal/internal/model"
)

type stubAdminStore struct {
	admin *model.Admin
	err   error
}

func (s stubAdminStore) GetAdminByID(ctx context.Context, id uint) (*model.Admin, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.admin, nil
}

func newRequireAdminHandler(t *testing.T, store AdminStore) (*Manager, http.Handler) {
	t.Helper()

	m, err := NewManager(Config{Secret: "test-secret"})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		admin, ok := AdminFrom(r.Context())
		if !ok || admin == nil {
			t.Error("admin missing from context")
		}
		w.WriteHeader(http.StatusOK)
	})
	return m, RequireAdmin(m, store, next)
}

func assertUnauthorized(t *testing.T, rec *httptest.ResponseRecorder, wantMessage string) {
	t.Helper()

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["message"] != wantMessage {
		t.Fatalf("message = %q, want %q", body["message"], wantMessage)
	}
}

func TestRequireAdminNoToken(t *testing.T) {
	t.Parallel()

	_, handler := newRequireAdminHandler(t, stubAdminStore{admin: &model.Admin{ID: 1}})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assertUnauthorized(t, rec, "Not authorized: no token provided")
}

func TestRequireAdminCookie(t *testing.T) {
	t.Parallel()

	m, handler := newRequireAdminHandler(t, stubAdminStore{admin: &model.Admin{ID: 7}})
	token, err := m.Issue(7)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRequireAdminBearer(t *testing.T) {
	t.Parallel()

	m, handler := newRequireAdminHandler(t, stubAdminStore{admin: &model.Admin{ID: 7}})
	token, err := m.Issue(7)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRequireAdminCookieBeatsHeader(t *testing.T) {
	t.Parallel()

	m, handler := newRequireAdminHandler(t, stubAdminStore{admin: &model.Admin{ID: 7}})
	token, err := m.Issue(7)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 when cookie valid", rec.Code)
	}
}

func TestRequireAdminInvalidToken(t *testing.T) {
	t.Parallel()

	_, handler := newRequireAdminHandler(t, stubAdminStore{admin: &model.Admin{ID: 1}})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assertUnauthorized(t, rec, "Not authorized: token invalid")
}

func TestRequireAdminAdminGone(t *testing.T) {
	t.Parallel()

	m, handler := newRequireAdminHandler(t, stubAdminStore{err: model.ErrNotFound})
	token, err := m.Issue(9)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assertUnauthorized(t, rec, "Not authorized: admin not found")
}
