// Package server exposes the oracle over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/fortunegram/fortunegram"
	"github.com/fortunegram/fortunegram/choices"
	"github.com/fortunegram/fortunegram/corpse"
	"github.com/fortunegram/fortunegram/internal/randx"
	"github.com/fortunegram/fortunegram/oracles"
	"github.com/fortunegram/fortunegram/readings"
)

const maxBodyBytes = 1 << 20

// Config wires the handlers. Limiter guards fortune generation only.
type Config struct {
	Resolver *oracles.Resolver
	Corpse   *corpse.Generator
	Tables   *readings.Tables
	Choices  *choices.Vocabulary
	RNG      randx.Source
	Limiter  *fortunegram.RateLimiterConfig
	Logger   *zap.Logger
}

type server struct {
	resolver *oracles.Resolver
	corpse   *corpse.Generator
	tables   *readings.Tables
	choices  *choices.Vocabulary
	rng      randx.Source
	logger   *zap.Logger
}

// NewRouter builds the HTTP surface.
func NewRouter(cfg Config) (http.Handler, error) {
	if cfg.Resolver == nil || cfg.Corpse == nil || cfg.Tables == nil || cfg.Choices == nil || cfg.Limiter == nil {
		return nil, errors.New("server: resolver, corpse generator, tables, choices and limiter are required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.RNG == nil {
		cfg.RNG = randx.NewFromTime()
	}
	if cfg.Limiter.Logger == nil {
		cfg.Limiter.Logger = cfg.Logger
	}

	s := &server{
		resolver: cfg.Resolver,
		corpse:   cfg.Corpse,
		tables:   cfg.Tables,
		choices:  cfg.Choices,
		rng:      cfg.RNG,
		logger:   cfg.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(accessLog(cfg.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)

	r.Route("/api", func(r chi.Router) {
		r.With(fortunegram.RateLimit(cfg.Limiter)).Post("/generate-fortune", s.generateFortune)
		r.Post("/generate-corpse-section", s.generateCorpseSection)

		r.Get("/oracles", s.listOracles)
		r.Get("/timelines", s.listTimelines)
		r.Get("/energies", s.listEnergies)
		r.Get("/numbers/{digit}", s.numberByDigit)
		r.Get("/runes/{name}", s.runeByName)
		r.Get("/tarot/{name}", s.cardByName)
		r.Get("/draw/{kind}", s.draw)
	})

	return r, nil
}

func (s *server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("failed to write response body", zap.Error(err))
	}
}

func (s *server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}
