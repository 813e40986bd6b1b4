package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/models"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/projection"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/scheduler"
)

// Modes accepted by POST /api/jobs
const (
	ModeStart = "start"
	ModeQueue = "queue"
)

// Board is the full picture of the shop at one instant
type Board struct {
	State      models.State          `json:"state"`
	Projection projection.Projection `json:"projection"`
	Status     string                `json:"status"`
}

// MutationResponse is the reply to every intent
type MutationResponse struct {
	Result     scheduler.Result      `json:"result"`
	Projection projection.Projection `json:"projection"`
	Warning    string                `json:"warning,omitempty"`
}

// AddJobRequest is the body of POST /api/jobs
type AddJobRequest struct {
	Service string `json:"service"`
	Speed   string `json:"speed"`
	Mode    string `json:"mode"`
}

// StartParallelRequest is the body of POST /api/parallel
type StartParallelRequest struct {
	Service string `json:"service"`
}

func (s *server) board() Board {
	st, p := s.shop.Read()
	observeShop(st, p)
	return Board{State: st, Projection: p, Status: p.StatusText()}
}

func (s *server) handleServices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"services": s.shop.Catalog().List()})
}

func (s *server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.board())
}

func (s *server) handleProjection(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.board().Projection)
}

func (s *server) handleAddJob(w http.ResponseWriter, r *http.Request) {
	var req AddJobRequest
	if !s.decode(w, r, &req) {
		return
	}
	if !s.knownService(w, req.Service) {
		return
	}
	speed := models.ParseSpeed(req.Speed)

	switch strings.ToLower(strings.TrimSpace(req.Mode)) {
	case "", ModeStart:
		res, err := s.shop.StartSequential(req.Service, speed)
		s.reply(w, r, "start", res, err)
	case ModeQueue:
		res, err := s.shop.EnqueueSequential(req.Service, speed)
		s.reply(w, r, "enqueue", res, err)
	default:
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("mode must be %q or %q", ModeStart, ModeQueue))
	}
}

func (s *server) handleStartParallel(w http.ResponseWriter, r *http.Request) {
	var req StartParallelRequest
	if !s.decode(w, r, &req) {
		return
	}
	if !s.knownService(w, req.Service) {
		return
	}
	res, err := s.shop.StartParallel(req.Service)
	s.reply(w, r, "start-parallel", res, err)
}

func (s *server) simple(intent string, fn func() (scheduler.Result, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := fn()
		s.reply(w, r, intent, res, err)
	}
}

func (s *server) byID(intent string, fn func(string) (scheduler.Result, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := fn(chi.URLParam(r, "id"))
		s.reply(w, r, intent, res, err)
	}
}

// reply answers an intent. A change that could not be saved is still a success, reported
// with a warning; unknown ids answer 200 with changed=false.
func (s *server) reply(w http.ResponseWriter, r *http.Request, intent string, res scheduler.Result, err error) {
	var saveErr *scheduler.SaveError
	saveFailed := errors.As(err, &saveErr)
	observeIntent(intent, res.Changed, saveFailed)
	logIntent(r, intent, res.Changed, err)

	if err != nil && !saveFailed {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := MutationResponse{Result: res, Projection: s.board().Projection}
	if saveFailed {
		resp.Warning = saveErr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// knownService rejects ids missing from the catalog, listing the valid ones
func (s *server) knownService(w http.ResponseWriter, id string) bool {
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "service is required")
		return false
	}
	if _, ok := s.shop.Catalog().Lookup(id); ok {
		return true
	}
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error: fmt.Sprintf("unknown service %q", id),
		Code:  http.StatusBadRequest,
		Valid: s.shop.Catalog().IDs(),
	})
	return false
}
