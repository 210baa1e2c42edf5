package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/fortunegram/fortunegram/corpse"
	"github.com/fortunegram/fortunegram/oracles"
)

// timestampLayout matches JavaScript's Date.toISOString.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type errorResponse struct {
	Error string `json:"error"`
}

type failureResponse struct {
	Error   string `json:"error"`
	Success bool   `json:"success"`
}

type fortuneResponse struct {
	Success   bool   `json:"success"`
	Fortune   string `json:"fortune"`
	Oracle    string `json:"oracle"`
	Timestamp string `json:"timestamp"`
}

type corpseRequest struct {
	Section     string `json:"section"`
	Persona     string `json:"persona"`
	Description string `json:"description"`
	Timeline    string `json:"timeline"`
	Energy      string `json:"energy"`
}

type corpseResponse struct {
	ASCII string `json:"ascii"`
}

type timelinesResponse struct {
	Timelines []string `json:"timelines"`
}

type energiesResponse struct {
	Energies []string `json:"energies"`
}

type oraclesResponse struct {
	Oracles []oracles.Oracle `json:"oracles"`
	Default string           `json:"default"`
	Offline bool             `json:"offline"`
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) generateFortune(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.With(zap.String("request_id", middleware.GetReqID(r.Context())))

	var req oracles.Request
	if err := decodeBody(w, r, &req); err != nil {
		logger.Warn("undecodable fortune request", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, failureResponse{Error: oracles.GenericFailureMessage()})
		return
	}

	fortune, err := s.resolver.Resolve(r.Context(), req)
	if err != nil {
		var unsupported *oracles.UnsupportedOracleError
		var genErr *oracles.GenerationError
		switch {
		case errors.As(err, &unsupported):
			s.writeError(w, http.StatusNotImplemented, unsupported.Error())
		case errors.As(err, &genErr):
			s.writeJSON(w, http.StatusInternalServerError, failureResponse{Error: genErr.UserMessage()})
		default:
			logger.Error("fortune resolution failed", zap.Error(err))
			s.writeJSON(w, http.StatusInternalServerError, failureResponse{Error: oracles.GenericFailureMessage()})
		}
		return
	}

	s.writeJSON(w, http.StatusOK, fortuneResponse{
		Success:   true,
		Fortune:   fortune.Text,
		Oracle:    fortune.Oracle,
		Timestamp: fortune.GeneratedAt.UTC().Format(timestampLayout),
	})
}

func (s *server) generateCorpseSection(w http.ResponseWriter, r *http.Request) {
	var req corpseRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.logger.Warn("undecodable corpse request", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to generate section")
		return
	}

	ascii, err := s.corpse.Section(req.Section, corpse.Prompt{
		Persona:     req.Persona,
		Description: req.Description,
		Timeline:    req.Timeline,
		Energy:      req.Energy,
	})
	switch {
	case errors.Is(err, corpse.ErrSectionRequired):
		s.writeError(w, http.StatusBadRequest, "Section required")
	case errors.Is(err, corpse.ErrInvalidSection):
		s.writeError(w, http.StatusBadRequest, "Invalid section")
	case err != nil:
		s.logger.Error("corpse section generation failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to generate section")
	default:
		s.writeJSON(w, http.StatusOK, corpseResponse{ASCII: ascii})
	}
}

// listOracles returns every supported oracle, or a random handful when
// ?suggest=n is given.
func (s *server) listOracles(w http.ResponseWriter, r *http.Request) {
	list := oracles.All()
	n, ok := s.suggestCount(w, r)
	if !ok {
		return
	}
	if n > 0 {
		list = oracles.Suggest(s.rng, n)
	}

	s.writeJSON(w, http.StatusOK, oraclesResponse{
		Oracles: list,
		Default: oracles.DefaultOracle,
		Offline: s.resolver.Offline(),
	})
}

func (s *server) listTimelines(w http.ResponseWriter, r *http.Request) {
	list := s.choices.Timelines
	n, ok := s.suggestCount(w, r)
	if !ok {
		return
	}
	if n > 0 {
		list = s.choices.SuggestTimelines(s.rng, n)
	}
	s.writeJSON(w, http.StatusOK, timelinesResponse{Timelines: list})
}

func (s *server) listEnergies(w http.ResponseWriter, r *http.Request) {
	list := s.choices.Energies
	n, ok := s.suggestCount(w, r)
	if !ok {
		return
	}
	if n > 0 {
		list = s.choices.SuggestEnergies(s.rng, n)
	}
	s.writeJSON(w, http.StatusOK, energiesResponse{Energies: list})
}

// suggestCount parses ?suggest=n. It returns 0 when the parameter is absent
// and writes a 400 when it is not a positive integer.
func (s *server) suggestCount(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("suggest")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid suggest count %q", raw))
		return 0, false
	}
	return n, true
}

func (s *server) numberByDigit(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "digit")
	n, err := strconv.Atoi(raw)
	if err != nil {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("no number %q", raw))
		return
	}
	num, ok := s.tables.Number(n)
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("no number %q", raw))
		return
	}
	s.writeJSON(w, http.StatusOK, num)
}

func (s *server) runeByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rn, ok := s.tables.Rune(name)
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("no rune %q", name))
		return
	}
	s.writeJSON(w, http.StatusOK, rn)
}

func (s *server) cardByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	card, ok := s.tables.Card(name)
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("no card %q", name))
		return
	}
	s.writeJSON(w, http.StatusOK, card)
}

func (s *server) draw(w http.ResponseWriter, r *http.Request) {
	switch kind := chi.URLParam(r, "kind"); kind {
	case "number":
		s.writeJSON(w, http.StatusOK, s.tables.DrawNumber(s.rng))
	case "rune":
		s.writeJSON(w, http.StatusOK, s.tables.DrawRune(s.rng))
	case "card":
		s.writeJSON(w, http.StatusOK, s.tables.DrawCard(s.rng))
	default:
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("nothing to draw for %q", kind))
	}
}
