package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mlorentedev/sidehustler/internal/handler"
	"github.com/mlorentedev/sidehustler/internal/middleware"
)

const defaultMaxBodyBytes = 64 * 1024

// Backend is the command set the HTTP API exposes.
type Backend interface {
	handler.Greeter
	handler.KeyManager
	handler.ModelLister
	handler.Transformer
	handler.ProviderProber
	handler.PromptLister
}

// Options tunes the router. Zero values fall back to defaults.
type Options struct {
	Token string
	// CORSOrigins lists the browser origins allowed to call the API. Empty
	// admits only requests that carry no Origin header.
	CORSOrigins    []string
	Version        string
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	// RateLimit caps transform requests per client per minute. Zero disables it.
	RateLimit int
}

// NewRouter wires handlers with the full middleware chain.
func NewRouter(b Backend, events handler.Subscriber, opts Options) http.Handler {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 120 * time.Second
	}

	var rl *middleware.RateLimiter
	if opts.RateLimit > 0 {
		rl = middleware.NewRateLimiter(opts.RateLimit, time.Minute)
	}

	r := chi.NewRouter()
	r.Use(middleware.Stack(opts.CORSOrigins, opts.Token, opts.MaxBodyBytes)...)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}` + "\n"))
	})

	r.Get("/api/health", handler.Health(b, opts.Version))
	r.Handle("/metrics", promhttp.Handler())
	r.Get(middleware.EventsPath, handler.Events(events))

	r.Group(func(r chi.Router) {
		// Longer than the provider client timeout.
		r.Use(middleware.Timeout(opts.RequestTimeout + 5*time.Second))

		r.Post("/api/greet", handler.Greet(b))
		r.Put("/api/credentials", handler.SaveCredentials(b))
		r.Get("/api/credentials", handler.LoadCredentials(b))
		r.Delete("/api/credentials", handler.ClearCredentials(b))
		r.Get("/api/credentials/status", handler.CredentialStatus(b))
		r.Get("/api/models", handler.Models(b))
		r.Get("/api/prompts", handler.Prompts(b))
		r.With(middleware.RateLimit(rl)).Post("/api/transform", handler.Transform(b))
	})

	return r
}
