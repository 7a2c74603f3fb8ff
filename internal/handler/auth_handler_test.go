package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/skillxl/backend/internal/service"
	"github.com/skillxl/backend/pkg/auth"
)

// --- helpers ---

type mockAdminAuthService struct {
	loginFunc           func(ctx context.Context, email, password string) (*service.Session, error)
	loginWithGoogleFunc func(ctx context.Context, info *service.GoogleUserInfo) (*service.Session, error)
}

func (m *mockAdminAuthService) Login(ctx context.Context, email, password string) (*service.Session, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, email, password)
	}
	return nil, service.ErrInvalidCredentials
}

func (m *mockAdminAuthService) LoginWithGoogle(ctx context.Context, info *service.GoogleUserInfo) (*service.Session, error) {
	if m.loginWithGoogleFunc != nil {
		return m.loginWithGoogleFunc(ctx, info)
	}
	return nil, service.ErrInvalidCredentials
}

func newTestAuthHandler(svc service.AdminAuthService) *AuthHandler {
	return NewAuthHandler(svc, AuthConfig{
		GoogleClientID:     "google-client-id",
		GoogleClientSecret: "google-secret",
		BackendURL:         "http://localhost:5000",
		FrontendURL:        "http://localhost:3000/",
	})
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// --- Tests ---

func TestAuthHandler_GoogleLoginURL_SetsStateCookie(t *testing.T) {
	h := newTestAuthHandler(&mockAdminAuthService{})
	req := httptest.NewRequest("GET", "/api/admin/google/login", nil)
	rec := httptest.NewRecorder()

	h.GoogleLoginURL(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	// oauth_state クッキーが設定され、URL の state と一致すること
	stateCookie := findCookie(rec, oauthStateCookieName)
	if stateCookie == nil || stateCookie.Value == "" {
		t.Fatal("expected non-empty oauth_state cookie")
	}
	u, err := url.Parse(body["url"])
	if err != nil {
		t.Fatalf("invalid url: %v", err)
	}
	if got := u.Query().Get("state"); got != stateCookie.Value {
		t.Errorf("state mismatch: url=%q cookie=%q", got, stateCookie.Value)
	}
	if got := u.Query().Get("redirect_uri"); got != "http://localhost:5000/api/admin/google/callback" {
		t.Errorf("unexpected redirect_uri %q", got)
	}
}

func TestAuthHandler_GoogleLoginURL_Disabled(t *testing.T) {
	h := NewAuthHandler(&mockAdminAuthService{}, AuthConfig{FrontendURL: "http://localhost:3000"})
	rec := httptest.NewRecorder()
	h.GoogleLoginURL(rec, httptest.NewRequest("GET", "/api/admin/google/login", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestAuthHandler_GoogleCallback_InvalidState(t *testing.T) {
	h := newTestAuthHandler(&mockAdminAuthService{})
	req := httptest.NewRequest("GET", "/api/admin/google/callback?state=wrong&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookieName, Value: "right"})
	rec := httptest.NewRecorder()

	h.GoogleCallback(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "http://localhost:3000/admin?error=invalid_state" {
		t.Errorf("unexpected redirect %q", loc)
	}
}

func TestAuthHandler_GoogleCallback_NoStateCookie(t *testing.T) {
	h := newTestAuthHandler(&mockAdminAuthService{})
	req := httptest.NewRequest("GET", "/api/admin/google/callback?state=abc&code=abc", nil)
	rec := httptest.NewRecorder()

	h.GoogleCallback(rec, req)

	if loc := rec.Header().Get("Location"); !strings.HasSuffix(loc, "error=invalid_state") {
		t.Errorf("unexpected redirect %q", loc)
	}
}

func TestAuthHandler_GoogleCallback_FullFlow(t *testing.T) {
	// トークンエンドポイントと userinfo をモックする
	google := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/token":
			_, _ = w.Write([]byte(`{"access_token":"at","token_type":"Bearer","expires_in":3600}`))
		case "/userinfo":
			if r.Header.Get("Authorization") != "Bearer at" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"id":"g-1","email":"admin@skillxl.com","verified_email":true,"name":"Admin"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer google.Close()

	var gotInfo *service.GoogleUserInfo
	svc := &mockAdminAuthService{
		loginWithGoogleFunc: func(ctx context.Context, info *service.GoogleUserInfo) (*service.Session, error) {
			gotInfo = info
			return &service.Session{Email: info.Email, Token: "session-token", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	h := newTestAuthHandler(svc)
	h.googleConfig.Endpoint = oauth2.Endpoint{AuthURL: google.URL + "/auth", TokenURL: google.URL + "/token"}
	h.userInfoURL = google.URL + "/userinfo"

	req := httptest.NewRequest("GET", "/api/admin/google/callback?state=s1&code=c1", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookieName, Value: "s1"})
	rec := httptest.NewRecorder()

	h.GoogleCallback(rec, req)

	if loc := rec.Header().Get("Location"); loc != "http://localhost:3000/admin" {
		t.Fatalf("unexpected redirect %q", loc)
	}
	if gotInfo == nil || gotInfo.Email != "admin@skillxl.com" || !gotInfo.EmailVerified {
		t.Errorf("unexpected user info %+v", gotInfo)
	}
	c := findCookie(rec, auth.SessionCookieName())
	if c == nil || c.Value != "session-token" {
		t.Errorf("expected session cookie, got %+v", c)
	}
}

func TestAuthHandler_GoogleCallback_NotAuthorized(t *testing.T) {
	google := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/token" {
			_, _ = w.Write([]byte(`{"access_token":"at","token_type":"Bearer"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"g-2","email":"someone@gmail.com","verified_email":true}`))
	}))
	defer google.Close()

	h := newTestAuthHandler(&mockAdminAuthService{})
	h.googleConfig.Endpoint = oauth2.Endpoint{TokenURL: google.URL + "/token"}
	h.userInfoURL = google.URL + "/userinfo"

	req := httptest.NewRequest("GET", "/api/admin/google/callback?state=s1&code=c1", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookieName, Value: "s1"})
	rec := httptest.NewRecorder()
	h.GoogleCallback(rec, req)

	if loc := rec.Header().Get("Location"); !strings.HasSuffix(loc, "error=not_authorized") {
		t.Errorf("unexpected redirect %q", loc)
	}
	if findCookie(rec, auth.SessionCookieName()) != nil {
		t.Error("session cookie must not be set")
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	exp := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	svc := &mockAdminAuthService{
		loginFunc: func(ctx context.Context, email, password string) (*service.Session, error) {
			if email != "admin@skillxl.com" || password != "pw" {
				return nil, service.ErrInvalidCredentials
			}
			return &service.Session{Email: email, Token: "tok", ExpiresAt: exp}, nil
		},
	}
	h := newTestAuthHandler(svc)

	req := httptest.NewRequest("POST", "/api/admin/login", strings.NewReader(`{"email":"admin@skillxl.com","password":"pw"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body sessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Token != "tok" || body.Email != "admin@skillxl.com" || !body.ExpiresAt.Equal(exp) {
		t.Errorf("unexpected body %+v", body)
	}
	if c := findCookie(rec, auth.SessionCookieName()); c == nil || c.Value != "tok" || !c.HttpOnly {
		t.Errorf("expected HttpOnly session cookie, got %+v", c)
	}
}

func TestAuthHandler_Login_Errors(t *testing.T) {
	h := newTestAuthHandler(&mockAdminAuthService{})

	tests := []struct {
		name string
		body string
		want int
	}{
		{"invalid json", `{`, http.StatusBadRequest},
		{"missing password", `{"email":"a@b.com"}`, http.StatusBadRequest},
		{"wrong credentials", `{"email":"a@b.com","password":"x"}`, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Login(rec, httptest.NewRequest("POST", "/api/admin/login", strings.NewReader(tt.body)))
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestAuthHandler_LogoutClearsCookie(t *testing.T) {
	h := newTestAuthHandler(&mockAdminAuthService{})
	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest("POST", "/api/admin/logout", nil))

	c := findCookie(rec, auth.SessionCookieName())
	if c == nil || c.MaxAge >= 0 {
		t.Errorf("expected expired session cookie, got %+v", c)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	h := newTestAuthHandler(&mockAdminAuthService{})

	rec := httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest("GET", "/api/admin/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without admin, got %d", rec.Code)
	}

	req := httptest.NewRequest("GET", "/api/admin/me", nil)
	req = req.WithContext(auth.WithAdminEmail(req.Context(), "admin@skillxl.com"))
	rec = httptest.NewRecorder()
	h.Me(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "admin@skillxl.com") {
		t.Errorf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}
