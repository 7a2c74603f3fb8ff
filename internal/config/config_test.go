package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := FromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.True(t, cfg.AuthRequired)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
	assert.Equal(t, TransportBrevo, cfg.Mail.Transport)
	assert.Equal(t, MissingCredentialsFail, cfg.Mail.OnMissingCredentials)
	assert.True(t, cfg.Mail.VerifyMX)
	assert.Equal(t, 5*time.Second, cfg.Mail.MXTimeout)
	assert.Equal(t, 587, cfg.Mail.SMTPPort)
	assert.Equal(t, "https://api.brevo.com/v3", cfg.Mail.BrevoBaseURL)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/leads.db")
	t.Setenv("AUTH_REQUIRED", "false")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("MAIL_TRANSPORT", "smtp")
	t.Setenv("MAIL_ON_MISSING_CREDENTIALS", "mock")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("EMAIL_USER", "support@example.com")
	t.Setenv("ADMIN_EMAILS", " a@example.com, ,b@example.com ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, "/tmp/leads.db", cfg.StoreDSN())
	assert.False(t, cfg.AuthRequired)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, TransportSMTP, cfg.Mail.Transport)
	assert.Equal(t, MissingCredentialsMock, cfg.Mail.OnMissingCredentials)
	assert.Equal(t, "smtp.example.com", cfg.Mail.SMTPHost)
	assert.Equal(t, 465, cfg.Mail.SMTPPort)
	assert.Equal(t, "support@example.com", cfg.Mail.SenderEmail)
	assert.Equal(t, " a@example.com, ,b@example.com ", cfg.AdminEmails)
}

func TestLoad_RejectsUnknownValues(t *testing.T) {
	cases := map[string]string{
		"STORE_DRIVER":                "mysql",
		"MAIL_TRANSPORT":              "sendgrid",
		"MAIL_ON_MISSING_CREDENTIALS": "ignore",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := FromViper(newViper())
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestConfig_StoreDSN_Postgres(t *testing.T) {
	cfg := &Config{StoreDriver: "postgres", DatabaseURL: "postgres://x", SQLitePath: "ignored.db"}
	assert.Equal(t, "postgres://x", cfg.StoreDSN())
}

func TestConfig_GoogleLoginEnabled(t *testing.T) {
	assert.False(t, (&Config{GoogleClientID: "id"}).GoogleLoginEnabled())
	assert.True(t, (&Config{GoogleClientID: "id", GoogleClientSecret: "s"}).GoogleLoginEnabled())
}

func TestLoad_ProductionRequiresSessionSecret(t *testing.T) {
	cases := map[string]string{
		"default": "",
		"dev":     DevSessionSecret,
		"short":   "too-short-secret",
	}
	for name, secret := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("ENV", "production")
			if secret != "" {
				t.Setenv("SESSION_SECRET", secret)
			}
			_, err := FromViper(newViper())
			assert.ErrorContains(t, err, "SESSION_SECRET")
		})
	}

	t.Run("strong", func(t *testing.T) {
		t.Setenv("ENV", "production")
		t.Setenv("SESSION_SECRET", "8f3c1e0b9a7d4c2e6f5a1b3d9c8e7f6a")
		cfg, err := FromViper(newViper())
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})
}

func TestLoad_DevelopmentKeepsDefaultSecret(t *testing.T) {
	cfg, err := FromViper(newViper())
	require.NoError(t, err)
	assert.Equal(t, DevSessionSecret, cfg.SessionSecret)
}

func TestLoad_TrustedProxyCount(t *testing.T) {
	cfg, err := FromViper(newViper())
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.TrustedProxyCount)

	t.Setenv("TRUSTED_PROXY_COUNT", "2")
	cfg, err = FromViper(newViper())
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.TrustedProxyCount)

	t.Setenv("TRUSTED_PROXY_COUNT", "-1")
	_, err = FromViper(newViper())
	assert.ErrorContains(t, err, "TRUSTED_PROXY_COUNT")
}
