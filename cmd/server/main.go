package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skillxl/backend/internal/config"
	"github.com/skillxl/backend/internal/handler"
	"github.com/skillxl/backend/internal/logging"
	"github.com/skillxl/backend/internal/mail"
	"github.com/skillxl/backend/internal/metrics"
	"github.com/skillxl/backend/internal/model"
	"github.com/skillxl/backend/internal/repository"
	"github.com/skillxl/backend/internal/service"
	"github.com/skillxl/backend/pkg/auth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("INFO")
		logging.Fatal("invalid configuration", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := repository.Open(ctx, cfg.StoreDriver, cfg.StoreDSN())
	if err != nil {
		logging.Fatal("failed to open submission store", "driver", cfg.StoreDriver, "error", err)
	}
	defer closeStore()

	m := metrics.New()

	sender := mail.NewSender(cfg.Mail, slog.Default())
	// nil interface, not a typed nil, disables the MX check
	var validator service.DomainValidator
	if cfg.Mail.VerifyMX {
		validator = mail.NewMXValidator(nil, cfg.Mail.MXTimeout, slog.Default())
	}

	submissionService := service.NewSubmissionService(repo, m)
	replyService := service.NewReplyService(repo, sender, validator, service.ReplyOptions{
		SenderName:  cfg.Mail.SenderName,
		SenderEmail: cfg.Mail.SenderEmail,
	}, m)

	admins := auth.NewAllowlist(auth.ParseAdminEmails(cfg.AdminEmails))
	sessions := auth.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL)
	adminAuthService := service.NewAdminAuthService(admins, cfg.AdminPasswordHash, sessions)

	requireAdmin := auth.RequireAuth(sessions, admins)
	if !cfg.AuthRequired {
		slog.Warn("AUTH_REQUIRED=false, admin endpoints are open", "admin", auth.DevAdminEmail)
		requireAdmin = auth.DevAuth
	}

	router := handler.NewRouter(handler.Routes{
		Base:        handler.New(repo, cfg.FrontendURL),
		Submissions: handler.NewSubmissionHandler(submissionService),
		Replies:     handler.NewReplyHandler(replyService),
		Forms:       handler.NewFormHandler(model.Forms),
		Auth: handler.NewAuthHandler(adminAuthService, handler.AuthConfig{
			GoogleClientID:     cfg.GoogleClientID,
			GoogleClientSecret: cfg.GoogleClientSecret,
			BackendURL:         cfg.BackendURL,
			FrontendURL:        cfg.FrontendURL,
			SecureCookies:      cfg.IsProduction(),
		}),
		Metrics:      m,
		RequireAdmin: requireAdmin,
		RateLimit:    handler.NewRateLimiter(ctx, cfg.RateLimitPerMinute, cfg.TrustedProxyCount, m).Middleware,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// replies wait on the mail transport
		WriteTimeout: cfg.Mail.SendTimeout + cfg.Mail.MXTimeout + 10*time.Second,
	}

	go func() {
		slog.Info("server listening",
			"addr", server.Addr,
			"store", cfg.StoreDriver,
			"mail_transport", sender.Transport(),
			"verify_mx", cfg.Mail.VerifyMX,
			"auth_required", cfg.AuthRequired,
			"google_login", cfg.GoogleLoginEnabled(),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
