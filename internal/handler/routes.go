package handler

import (
	"net/http"

	"github.com/skillxl/backend/internal/metrics"
)

// Routes bundles everything NewRouter mounts.
type Routes struct {
	Base        *Handler
	Submissions *SubmissionHandler
	Replies     *ReplyHandler
	Forms       *FormHandler
	Auth        *AuthHandler
	Metrics     *metrics.Metrics

	// RequireAdmin guards the admin API (auth.RequireAuth or auth.DevAuth).
	RequireAdmin func(http.Handler) http.Handler
	// RateLimit guards public write endpoints. Nil disables limiting.
	RateLimit func(http.Handler) http.Handler
}

// NewRouter registers every route and wraps the mux in the shared middleware.
func NewRouter(rt Routes) http.Handler {
	limited := rt.RateLimit
	if limited == nil {
		limited = func(next http.Handler) http.Handler { return next }
	}
	admin := rt.RequireAdmin

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", rt.Base.Liveness)
	mux.HandleFunc("GET /api/health", rt.Base.Health)
	mux.Handle("GET /metrics", rt.Metrics.Handler())

	mux.HandleFunc("GET /api/forms", rt.Forms.List)
	mux.HandleFunc("GET /api/forms/{key}", rt.Forms.Get)
	mux.Handle("POST /api/submit", limited(http.HandlerFunc(rt.Submissions.Submit)))

	mux.Handle("POST /api/admin/login", limited(http.HandlerFunc(rt.Auth.Login)))
	mux.HandleFunc("POST /api/admin/logout", rt.Auth.Logout)
	mux.HandleFunc("GET /api/admin/google/login", rt.Auth.GoogleLoginURL)
	mux.HandleFunc("GET /api/admin/google/callback", rt.Auth.GoogleCallback)
	mux.Handle("GET /api/admin/me", admin(http.HandlerFunc(rt.Auth.Me)))

	mux.Handle("GET /api/submissions", admin(http.HandlerFunc(rt.Submissions.List)))
	mux.Handle("PUT /api/submissions/{id}", admin(http.HandlerFunc(rt.Submissions.UpdateStatus)))
	mux.Handle("POST /api/reply", admin(http.HandlerFunc(rt.Replies.Reply)))

	var h http.Handler = mux
	h = LimitBody(MaxRequestBody)(h)
	h = RequestLogger(rt.Metrics)(h)
	h = SecurityHeaders(h)
	return rt.Base.CORS(h)
}
