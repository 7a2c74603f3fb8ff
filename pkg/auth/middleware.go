package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKey string

const adminEmailKey contextKey = "admin_email"

// AdminEmailFromContext は context から管理者メールアドレスを取得する
func AdminEmailFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(adminEmailKey).(string)
	return v, ok
}

// WithAdminEmail は context に管理者メールアドレスをセットする
func WithAdminEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, adminEmailKey, email)
}

// TokenFromRequest は Authorization: Bearer ヘッダー、なければセッションクッキーからトークンを取り出す
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := r.Cookie(SessionCookieName()); err == nil {
		return cookie.Value
	}
	return ""
}

// RequireAuth は認証必須ミドルウェア。セッションを検証し、許可リストに含まれる管理者だけを通す
func RequireAuth(sessions *SessionManager, admins Allowlist) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			email, err := sessions.Verify(token)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "invalid_session")
				return
			}
			if !admins.Allows(email) {
				writeAuthError(w, http.StatusForbidden, "forbidden")
				return
			}

			ctx := WithAdminEmail(r.Context(), email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}

// DevAdminEmail は開発用のダミー管理者（AUTH_REQUIRED=false 時に使用）
const DevAdminEmail = "dev-admin@localhost"

// DevAuth は開発用ミドルウェア。ダミー管理者を context にセットする
func DevAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithAdminEmail(r.Context(), DevAdminEmail)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
