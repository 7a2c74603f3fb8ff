package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/skillxl/backend/pkg/auth"
)

// ErrInvalidCredentials は管理者ログインに失敗した場合のエラー
var ErrInvalidCredentials = errors.New("invalid credentials")

// GoogleUserInfo は Google OAuth から取得するユーザー情報
type GoogleUserInfo struct {
	Sub           string
	Email         string
	EmailVerified bool
	Name          string
}

// Session は発行済みの管理者セッション
type Session struct {
	Email     string
	Token     string
	ExpiresAt time.Time
}

// AdminAuthService は管理者認証のビジネスロジックのインターフェース
type AdminAuthService interface {
	// Login はメールアドレスとパスワードで管理者を認証しセッションを発行する
	Login(ctx context.Context, email, password string) (*Session, error)
	// LoginWithGoogle は Google で確認済みのメールアドレスに対してセッションを発行する
	LoginWithGoogle(ctx context.Context, info *GoogleUserInfo) (*Session, error)
}

// AdminAuthServiceImpl は AdminAuthService の実装
type AdminAuthServiceImpl struct {
	admins       auth.Allowlist
	passwordHash []byte
	sessions     *auth.SessionManager
}

// NewAdminAuthService は AdminAuthServiceImpl を生成する。passwordHash が空ならパスワードログインは無効
func NewAdminAuthService(admins auth.Allowlist, passwordHash string, sessions *auth.SessionManager) AdminAuthService {
	return &AdminAuthServiceImpl{
		admins:       admins,
		passwordHash: []byte(passwordHash),
		sessions:     sessions,
	}
}

func (s *AdminAuthServiceImpl) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if len(s.passwordHash) == 0 || email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	// ハッシュ比較は許可リストの判定結果に関わらず常に行う
	hashErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if !s.admins.Allows(email) || hashErr != nil {
		slog.Warn("admin login failed", "email", email)
		return nil, ErrInvalidCredentials
	}
	return s.issue(email, "password")
}

func (s *AdminAuthServiceImpl) LoginWithGoogle(ctx context.Context, info *GoogleUserInfo) (*Session, error) {
	if info == nil || !info.EmailVerified || !s.admins.Allows(info.Email) {
		email := ""
		if info != nil {
			email = info.Email
		}
		slog.Warn("google admin login rejected", "email", email)
		return nil, ErrInvalidCredentials
	}
	return s.issue(info.Email, "google")
}

func (s *AdminAuthServiceImpl) issue(email, method string) (*Session, error) {
	token, exp, err := s.sessions.Issue(strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	slog.Info("admin logged in", "email", email, "method", method)
	return &Session{Email: strings.ToLower(email), Token: token, ExpiresAt: exp}, nil
}
