// Package api exposes the HTTP surface of the prover service: registry
// management (identity commitments, root, merkle proofs) and proof
// generation for the supported circuits.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/kamiyo-ai/kamiyo-zk/log"
	"github.com/kamiyo-ai/kamiyo-zk/prover"
	"github.com/kamiyo-ai/kamiyo-zk/registry"
)

// APIConfig type represents the configuration for the API HTTP server.
// It includes the host, port, the agent registry and the proving engine.
type APIConfig struct {
	Host     string
	Port     int
	Registry *registry.Registry
	Engine   *prover.Engine
}

// API type represents the API HTTP server.
type API struct {
	router   *chi.Mux
	registry *registry.Registry
	engine   *prover.Engine
}

// New creates a new API instance with the given configuration and starts the
// HTTP server.
func New(conf *APIConfig) (*API, error) {
	if conf == nil {
		return nil, fmt.Errorf("missing API configuration")
	}
	if conf.Registry == nil {
		return nil, fmt.Errorf("missing registry instance")
	}
	if conf.Engine == nil {
		return nil, fmt.Errorf("missing prover engine instance")
	}
	a := &API{
		registry: conf.Registry,
		engine:   conf.Engine,
	}

	// Initialize router
	a.initRouter()
	go func() {
		log.Infow("Starting API server", "host", conf.Host, "port", conf.Port)
		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", conf.Host, conf.Port), a.router); err != nil {
			log.Fatalf("failed to start the API server: %v", err)
		}
	}()
	return a, nil
}

// Router returns the chi router for testing purposes
func (a *API) Router() *chi.Mux {
	return a.router
}

// registerHandlers registers all the API handlers.
func (a *API) registerHandlers() {
	log.Infow("register handler", "endpoint", PingEndpoint, "method", "GET")
	a.router.Get(PingEndpoint, func(w http.ResponseWriter, r *http.Request) {
		httpWriteOK(w)
	})
	log.Infow("register handler", "endpoint", AgentsEndpoint, "method", "POST")
	a.router.Post(AgentsEndpoint, a.registerAgent)
	log.Infow("register handler", "endpoint", AgentsRootEndpoint, "method", "GET")
	a.router.Get(AgentsRootEndpoint, a.registryRoot)
	log.Infow("register handler", "endpoint", AgentsProofEndpoint, "method", "GET")
	a.router.Get(AgentsProofEndpoint, a.registryProof)
	log.Infow("register handler", "endpoint", ProofsEndpoint, "method", "POST")
	a.router.Post(ProofsEndpoint, a.generateProof)
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() {
	// Create the router with a basic middleware stack
	a.router = chi.NewRouter()
	a.router.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}).Handler)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Throttle(100))
	a.router.Use(middleware.ThrottleBacklog(5000, 40000, 60*time.Second))
	a.router.Use(middleware.Timeout(45 * time.Second))

	// Register the API handlers
	a.registerHandlers()
}
