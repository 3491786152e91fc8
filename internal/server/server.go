// Package server exposes the listing services over HTTP.
package server

import (
	"net/http"

	goahttp "goa.design/goa/v3/http"
	"goa.design/goa/v3/http/middleware"

	"makemystay/internal/config"
	"makemystay/internal/metrics"
	"makemystay/internal/services"
)

const apiPrefix = "/api/v1"

// Deps are the services the routes dispatch to.
type Deps struct {
	Auth       *services.AuthService
	Identity   *services.IdentityResolver
	Contacts   *services.ContactService
	Properties *services.PropertyService
	Images     *services.ImageService
	Health     *services.HealthService
}

// Server routes HTTP requests to the services.
type Server struct {
	cfg        *config.Config
	mux        goahttp.Muxer
	auth       *services.AuthService
	identity   *services.IdentityResolver
	contacts   *services.ContactService
	properties *services.PropertyService
	images     *services.ImageService
	health     *services.HealthService
	limiter    *RateLimiter
	handler    http.Handler
}

// New mounts every route and wraps the muxer in the middleware chain.
func New(cfg *config.Config, deps Deps) *Server {
	s := &Server{
		cfg:        cfg,
		mux:        goahttp.NewMuxer(),
		auth:       deps.Auth,
		identity:   deps.Identity,
		contacts:   deps.Contacts,
		properties: deps.Properties,
		images:     deps.Images,
		health:     deps.Health,
	}
	if cfg.RateLimit.Enabled {
		s.limiter = NewRateLimiter(cfg.RateLimit)
	}

	s.mount()

	var inner http.Handler = s.mux
	inner = middleware.PopulateRequestContext()(inner)
	inner = middleware.RequestID()(inner)

	// /metrics bypasses the muxer so scrapes are not counted as API traffic
	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			metrics.Handler().ServeHTTP(w, r)
			return
		}
		inner.ServeHTTP(w, r)
	})

	// Security -> CORS -> Recovery -> Logging -> Prometheus -> Handler
	s.handler = securityHeaders(cors(recovery(requestLogging(metrics.PrometheusMiddleware(root))), cfg), cfg)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) mount() {
	s.mux.Handle(http.MethodGet, "/", s.handleHealth)
	s.mux.Handle(http.MethodGet, "/health", s.handleHealth)

	s.mux.Handle(http.MethodPost, apiPrefix+"/auth/signup", s.rateLimited(s.handleSignup))
	s.mux.Handle(http.MethodPost, apiPrefix+"/auth/login", s.rateLimited(s.handleLogin))
	s.mux.Handle(http.MethodGet, apiPrefix+"/auth/me", s.rateLimited(s.requireAuth(s.handleMe)))

	s.mux.Handle(http.MethodGet, apiPrefix+"/realty/contacts", s.handleListContacts)
	s.mux.Handle(http.MethodPost, apiPrefix+"/realty/contacts", s.requireAuth(s.handleCreateContact))
	s.mux.Handle(http.MethodGet, apiPrefix+"/realty/contacts/{contact_id}", s.handleGetContact)
	s.mux.Handle(http.MethodPut, apiPrefix+"/realty/contacts/{contact_id}", s.requireAuth(s.handleUpdateContact))
	s.mux.Handle(http.MethodDelete, apiPrefix+"/realty/contacts/{contact_id}", s.requireAuth(s.handleDeleteContact))

	s.mux.Handle(http.MethodGet, apiPrefix+"/realty/properties", s.handleListProperties)
	s.mux.Handle(http.MethodPost, apiPrefix+"/realty/properties", s.requireAuth(s.handleCreateProperty))
	s.mux.Handle(http.MethodGet, apiPrefix+"/realty/properties/{property_id}", s.handleGetProperty)
	s.mux.Handle(http.MethodPut, apiPrefix+"/realty/properties/{property_id}", s.requireAuth(s.handleUpdateProperty))
	s.mux.Handle(http.MethodDelete, apiPrefix+"/realty/properties/{property_id}", s.requireAuth(s.handleDeleteProperty))

	s.mux.Handle(http.MethodGet, apiPrefix+"/realty/properties/{property_id}/images", s.handleListImages)
	s.mux.Handle(http.MethodPost, apiPrefix+"/realty/properties/{property_id}/images", s.requireAuth(s.handleCreateImage))
	s.mux.Handle(http.MethodGet, apiPrefix+"/realty/images/{image_id}", s.handleGetImage)
	s.mux.Handle(http.MethodPut, apiPrefix+"/realty/images/{image_id}", s.requireAuth(s.handleUpdateImage))
	s.mux.Handle(http.MethodDelete, apiPrefix+"/realty/images/{image_id}", s.requireAuth(s.handleDeleteImage))
}

func (s *Server) rateLimited(next http.HandlerFunc) http.HandlerFunc {
	if s.limiter == nil {
		return next
	}
	return s.limiter.Middleware(next)
}

// handleHealth answers 503 with the same body shape when the database is unreachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	result, err := s.health.Check(r.Context())
	if err != nil {
		writeJSON(w, r, http.StatusServiceUnavailable, result)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}
