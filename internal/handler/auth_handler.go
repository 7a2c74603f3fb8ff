package handler

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/skillxl/backend/internal/service"
	"github.com/skillxl/backend/pkg/auth"
)

const (
	oauthStateCookieName = "oauth_state"
	googleUserInfoURL    = "https://www.googleapis.com/oauth2/v2/userinfo"
	dashboardPath        = "/admin"
)

// generateOAuthState は CSRF 対策用のランダム state 文字列を生成する
func generateOAuthState() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}

// setStateCookie は state を HttpOnly クッキーに保存する
func setStateCookie(w http.ResponseWriter, state string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10 minutes
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}

// verifyOAuthState は state クッキーとクエリパラメータを照合する
func verifyOAuthState(r *http.Request) bool {
	cookie, err := r.Cookie(oauthStateCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	return cookie.Value == r.URL.Query().Get("state")
}

// clearStateCookie は state クッキーを削除する
func clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Expires:  time.Unix(0, 0),
	})
}

// AuthHandler は管理者認証関連の HTTP ハンドラ
type AuthHandler struct {
	authService   service.AdminAuthService
	googleConfig  *oauth2.Config
	userInfoURL   string
	frontendURL   string
	secureCookies bool
}

// AuthConfig は AuthHandler の設定
type AuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	BackendURL         string
	FrontendURL        string
	SecureCookies      bool
}

// NewAuthHandler は AuthHandler を生成する。Google のクライアント設定が空なら Google ログインは無効
func NewAuthHandler(authService service.AdminAuthService, cfg AuthConfig) *AuthHandler {
	h := &AuthHandler{
		authService:   authService,
		userInfoURL:   googleUserInfoURL,
		frontendURL:   strings.TrimRight(cfg.FrontendURL, "/"),
		secureCookies: cfg.SecureCookies,
	}
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		h.googleConfig = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  strings.TrimRight(cfg.BackendURL, "/") + "/api/admin/google/callback",
			Scopes:       []string{"openid", "email"},
			Endpoint:     google.Endpoint,
		}
	}
	return h
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login はメールアドレスとパスワードで管理者ログインする（POST /api/admin/login）
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email_and_password_required")
		return
	}

	sess, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	if err != nil {
		slog.Error("admin login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "login_failed")
		return
	}

	auth.SetSessionCookie(w, sess.Token, sess.ExpiresAt, h.secureCookies)
	writeJSON(w, http.StatusOK, sessionResponse{Token: sess.Token, Email: sess.Email, ExpiresAt: sess.ExpiresAt})
}

// Logout はセッションクッキーを削除する（POST /api/admin/logout）
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.secureCookies)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Me はログイン中の管理者を返す（GET /api/admin/me）
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.AdminEmailFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"email": email})
}

// googleUserInfo は Google userinfo API のレスポンス
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// GoogleLoginURL は Google OAuth の認証 URL を返す（GET /api/admin/google/login）
func (h *AuthHandler) GoogleLoginURL(w http.ResponseWriter, r *http.Request) {
	if h.googleConfig == nil {
		writeError(w, http.StatusNotFound, "google_login_disabled")
		return
	}
	state := generateOAuthState()
	setStateCookie(w, state, h.secureCookies)
	writeJSON(w, http.StatusOK, map[string]string{"url": h.googleConfig.AuthCodeURL(state)})
}

// GoogleCallback は OAuth コールバックを処理する（GET /api/admin/google/callback）
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.googleConfig == nil {
		h.redirectError(w, r, "google_login_disabled")
		return
	}
	if !verifyOAuthState(r) {
		clearStateCookie(w)
		h.redirectError(w, r, "invalid_state")
		return
	}
	clearStateCookie(w)

	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectError(w, r, "no_code")
		return
	}

	token, err := h.googleConfig.Exchange(r.Context(), code)
	if err != nil {
		slog.Warn("google token exchange failed", "error", err)
		h.redirectError(w, r, "exchange_failed")
		return
	}

	client := h.googleConfig.Client(r.Context(), token)
	resp, err := client.Get(h.userInfoURL)
	if err != nil {
		h.redirectError(w, r, "userinfo_failed")
		return
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if resp.StatusCode != http.StatusOK || json.NewDecoder(resp.Body).Decode(&info) != nil {
		h.redirectError(w, r, "decode_failed")
		return
	}

	sess, err := h.authService.LoginWithGoogle(r.Context(), &service.GoogleUserInfo{
		Sub:           info.ID,
		Email:         info.Email,
		EmailVerified: info.VerifiedEmail,
		Name:          info.Name,
	})
	if err != nil {
		h.redirectError(w, r, "not_authorized")
		return
	}

	auth.SetSessionCookie(w, sess.Token, sess.ExpiresAt, h.secureCookies)
	http.Redirect(w, r, h.frontendURL+dashboardPath, http.StatusFound)
}

func (h *AuthHandler) redirectError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, h.frontendURL+dashboardPath+"?error="+code, http.StatusFound)
}
