package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/usapupgrade/certs/internal/certs/render"
	"github.com/usapupgrade/certs/internal/certs/service"
	"github.com/usapupgrade/certs/internal/certs/store"
	"github.com/usapupgrade/certs/pkg/httpx"
	"github.com/usapupgrade/certs/pkg/jwtx"
	"github.com/usapupgrade/certs/pkg/slogx"

	_ "github.com/usapupgrade/certs/api/certs" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// LearnerRole is the role claim the identity provider puts on signed-in
// learners' tokens.
const LearnerRole = "authenticated"

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	limits       httpx.RateLimits
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store                    store.Store
	CertificateService       *service.CertificateService
	CertificationNameService *service.CertificationNameService
	ProgressService          *service.ProgressService
	LearnerService           *service.LearnerService
	Renderer                 *render.Renderer
}

func NewRouter(
	verifier jwtx.Verifier,
	limits httpx.RateLimits,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		limits:       limits,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerVerification()
	r.registerCertificates()
	r.registerCertificationName()
	r.registerProgress()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			UsapUpgrade Certificates API
//	@version		0.1.0
//	@description	Issues, renders and verifies course completion certificates.
//	@description
//	@description				Learner endpoints take the Supabase access token of the signed-in learner.
//	@description				Verification is public.
//
//	@contact.name				UsapUpgrade
//	@contact.url				https://usapupgrade.com
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Supabase access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// learner wraps h for endpoints acting on the signed-in learner.
func (r *Router) learner(h http.Handler, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireRole(LearnerRole),
		httpx.RateLimitByUser(limit),
		ProvisionLearner(r.LearnerService),
	)
}

func (r *Router) registerVerification() {
	h := &VerifyHandler{
		CertificateService: r.CertificateService,
		Renderer:           r.Renderer,
	}

	// Verification is public and polled by employers; generous limit by IP.
	r.Mux.Handle("GET /v1/certificates/verify",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
	r.Mux.Handle("POST /v1/certificates/verify",
		httpx.Chain(http.HandlerFunc(h.HandlePost),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)

	// Rendering costs more than a lookup.
	r.Mux.Handle("GET /v1/certificates/{id}/pdf",
		httpx.Chain(http.HandlerFunc(h.HandlePDF),
			httpx.RateLimitByIP(r.limits.Moderate),
		),
	)
}

func (r *Router) registerCertificates() {
	h := &CertificatesHandler{
		CertificateService: r.CertificateService,
		Renderer:           r.Renderer,
	}

	r.Mux.Handle("GET /v1/certificates/me", r.learner(http.HandlerFunc(h.HandleStatus), r.limits.Lenient))
	r.Mux.Handle("POST /v1/certificates", r.learner(http.HandlerFunc(h.HandleIssue), r.limits.Strict))
	r.Mux.Handle("GET /v1/certificates/me/pdf", r.learner(http.HandlerFunc(h.HandlePDF), r.limits.Moderate))
}

func (r *Router) registerCertificationName() {
	h := &CertificationNameHandler{CertificationNameService: r.CertificationNameService}

	r.Mux.Handle("GET /v1/certification-name", r.learner(http.HandlerFunc(h.HandleGet), r.limits.Lenient))
	r.Mux.Handle("PUT /v1/certification-name", r.learner(http.HandlerFunc(h.HandlePut), r.limits.Strict))
}

func (r *Router) registerProgress() {
	h := &ProgressHandler{ProgressService: r.ProgressService}

	r.Mux.Handle("POST /v1/progress/lessons/{lessonID}", r.learner(h, r.limits.Moderate))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.limits.Lenient),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(r.limits.Lenient),
		),
	)
}
