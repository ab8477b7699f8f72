// Package web serves the three-step checkout flow over HTTP.
//
// Every page is a plain GET: selection state travels in the query string,
// so the server keeps no per-session flow state. The only server-side
// write is the optional funnel event log.
package web

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/kanolab/patternshop/internal/catalog"
	"github.com/kanolab/patternshop/internal/store"
	"github.com/kanolab/patternshop/internal/wire"
)

// SessionCookie carries the anonymous funnel token. It identifies a
// browser across steps for event correlation and nothing else.
const SessionCookie = "ps_session"

// DefaultBasePath mounts the flow under the prototype version prefix.
const DefaultBasePath = "/v0"

// Config assembles a Server. Registry is required; everything else has a
// usable zero value.
type Config struct {
	Registry *catalog.Registry

	// Events, when set, receives a funnel event per step view. Nil
	// disables recording entirely.
	Events *store.Store

	// BasePath mounts the flow somewhere other than DefaultBasePath.
	BasePath string

	Log *slog.Logger

	// NewToken overrides session token generation, for tests.
	NewToken func() string
}

// Server renders the category index and the per-category flow pages.
type Server struct {
	registry *catalog.Registry
	events   *store.Store
	links    wire.LinkBuilder
	log      *slog.Logger
	tmpl     *template.Template
	newToken func() string
	router   chi.Router
}

// New builds a Server and its routes.
func New(cfg Config) (*Server, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	base := cfg.BasePath
	if base == "" {
		base = DefaultBasePath
	}
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	newToken := cfg.NewToken
	if newToken == nil {
		newToken = func() string { return uuid.Must(uuid.NewV7()).String() }
	}

	s := &Server{
		registry: cfg.Registry,
		events:   cfg.Events,
		links:    wire.LinkBuilder{BasePath: base},
		log:      log,
		tmpl:     tmpl,
		newToken: newToken,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleRoot)
	r.Route(base, func(r chi.Router) {
		r.Get("/", s.handleIndex)
		r.Route("/{category}", func(r chi.Router) {
			r.Get("/products", s.category(s.handleProducts))
			r.Get("/shipping", s.category(s.handleShipping))
			r.Get("/confirm", s.category(s.handleConfirm))
		})
	})
	s.router = r
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.links.IndexLink(), http.StatusFound)
}
