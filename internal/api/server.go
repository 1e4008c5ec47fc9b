// Package api implements the HTTP route layer: bearer-token auth,
// session-cookie forwarding, and JSON endpoints over the resolution
// engine and validation chains.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/superior-tools/crm-resolver/internal/resolve"
	"github.com/superior-tools/crm-resolver/internal/validate"
	"github.com/superior-tools/crm-resolver/pkg/fence"
)

// Options configures the route layer.
type Options struct {
	// Secret is the bearer token every /api route requires.
	Secret string
	// Concurrency bounds the engine and validator fan-outs.
	Concurrency int
	// TrackStates filters lead searches on the name-search and
	// validation endpoints.
	TrackStates []int
	// ContractStatuses filters contract lookups on the by-lead and
	// validation endpoints.
	ContractStatuses []string
}

// Server holds the wired handlers.
type Server struct {
	client    fence.Client
	engine    *resolve.Engine
	validator *validate.Validator
	opts      Options
}

// NewServer wires the engine and validator on top of the CRM client.
func NewServer(client fence.Client, opts Options) *Server {
	return &Server{
		client: client,
		engine: resolve.NewEngine(client, resolve.WithConcurrency(opts.Concurrency)),
		validator: validate.New(client,
			validate.WithTrackStates(opts.TrackStates),
			validate.WithContractStatuses(opts.ContractStatuses),
			validate.WithConcurrency(opts.Concurrency),
		),
		opts: opts,
	}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(requestLogger)
	r.Use(recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Cookie"},
	}))

	r.Get("/health", handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Post("/run", s.handleRun)
		r.Get("/leads/search", s.handleLeadSearch)
		r.Post("/leads/match", s.handleLeadMatch)
		r.Get("/contracts/by-lead", s.handleContractsByLead)
		r.Get("/contracts/{id}", s.handleContractDetail)
		r.Get("/jobs/{id}", s.handleJob)
		r.Get("/validate/by-job-id", s.handleValidateByJobID)
		r.Get("/validate/by-lead-name", s.handleValidateByLeadName)
		r.Post("/validate/batch", s.handleValidateBatch)
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
