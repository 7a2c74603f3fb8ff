package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSessionManager_IssueVerify(t *testing.T) {
	m := NewSessionManager(testSecret, time.Hour)
	token, exp, err := m.Issue("admin@skillxl.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if time.Until(exp) > time.Hour || time.Until(exp) < 59*time.Minute {
		t.Errorf("unexpected expiry %v", exp)
	}

	email, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if email != "admin@skillxl.com" {
		t.Errorf("expected admin@skillxl.com, got %q", email)
	}
}

func TestSessionManager_Verify_Expired(t *testing.T) {
	m := NewSessionManager(testSecret, time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, _ := m.Issue("admin@skillxl.com")

	m.now = time.Now
	if _, err := m.Verify(token); err != ErrInvalidSession {
		t.Errorf("expected ErrInvalidSession for expired token, got %v", err)
	}
}

func TestSessionManager_Verify_WrongSecret(t *testing.T) {
	token, _, _ := NewSessionManager("another-secret-that-is-long-enough!!", time.Hour).Issue("a@b.com")
	if _, err := NewSessionManager(testSecret, time.Hour).Verify(token); err != ErrInvalidSession {
		t.Errorf("expected ErrInvalidSession, got %v", err)
	}
}

func TestSessionManager_Verify_RejectsNoneAlg(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: "attacker@example.com",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewSessionManager(testSecret, time.Hour).Verify(token); err != ErrInvalidSession {
		t.Errorf("expected ErrInvalidSession for alg=none, got %v", err)
	}
}

func TestSessionCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "tok", time.Now().Add(time.Hour), true)
	cookie := rec.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, SessionCookieName()+"=tok") || !strings.Contains(cookie, "HttpOnly") || !strings.Contains(cookie, "Secure") {
		t.Errorf("unexpected cookie %q", cookie)
	}

	rec = httptest.NewRecorder()
	ClearSessionCookie(rec, false)
	resp := &http.Response{Header: rec.Header()}
	cookies := resp.Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("expected expiring cookie, got %+v", cookies)
	}
}

func TestSessionSecretBytes_PadsShortSecrets(t *testing.T) {
	if got := len(SessionSecretBytes("short")); got != minSecretLen {
		t.Errorf("expected %d bytes, got %d", minSecretLen, got)
	}
}
