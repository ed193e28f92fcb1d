package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mitchellh/mapstructure"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	espalier "github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/algebra/relation"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
	"github.com/aretw0/espalier/pkg/schema"
)

//go:embed openapi.yaml
var openapiSpec []byte

// Server exposes scheduling and evaluation over HTTP. Nested schedules are
// keyed by a structural fingerprint and kept in a ScheduleCache, so repeated
// evaluations of the same diagram skip the scheduling step.
type Server struct {
	logger *slog.Logger
	cache  ports.ScheduleCache

	registry  *prometheus.Registry
	schedules *prometheus.CounterVec
	evals     prometheus.Counter
	cacheHits prometheus.Counter
	evalTime  prometheus.Histogram
}

// NewServer creates a Server backed by the given schedule cache.
func NewServer(logger *slog.Logger, cache ports.ScheduleCache) *Server {
	s := &Server{
		logger:   logger,
		cache:    cache,
		registry: prometheus.NewRegistry(),
		schedules: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "espalier_schedules_total",
			Help: "Schedules computed, by strategy.",
		}, []string{"strategy"}),
		evals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "espalier_evaluations_total",
			Help: "Diagram evaluations served.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "espalier_schedule_cache_hits_total",
			Help: "Evaluations that reused a cached schedule.",
		}),
		evalTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "espalier_evaluation_seconds",
			Help:    "Wall time of diagram evaluations.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	s.registry.MustRegister(s.schedules, s.evals, s.cacheHits, s.evalTime)
	return s
}

// Handler builds the chi router for the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.getHealth)
	r.Get("/version", s.getVersion)
	r.Get("/openapi.yaml", s.getOpenAPI)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Post("/schedule", s.postSchedule)
	r.Get("/schedule/{key}", s.getSchedule)
	r.Delete("/schedule/{key}", s.deleteSchedule)
	r.Post("/eval", s.postEval)

	return r
}

// ScheduleRequest is the body of POST /schedule and POST /eval.
type ScheduleRequest struct {
	Diagram  schema.Document `json:"diagram"`
	Strategy string          `json:"strategy,omitempty"`
	Options  map[string]any  `json:"options,omitempty"`
}

// ScheduleResponse is the body returned by POST /schedule.
type ScheduleResponse struct {
	Key        string          `json:"key"`
	Strategy   string          `json:"strategy"`
	Composites int             `json:"composites"`
	Width      int             `json:"width"`
	Schedule   json.RawMessage `json:"schedule"`
}

// EvalResponse is the body returned by POST /eval.
type EvalResponse struct {
	Key    string  `json:"key"`
	Arity  int     `json:"arity"`
	Tuples [][]int `json:"tuples"`
}

// scheduleOptions is the decoded form of ScheduleRequest.Options.
type scheduleOptions struct {
	Elimination      string `mapstructure:"elimination"`
	Supernodes       string `mapstructure:"supernodes"`
	EliminationOrder []int  `mapstructure:"elimination_order"`
	BoxOrder         []int  `mapstructure:"box_order"`
}

func (s *Server) getHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "espalier",
		"version": espalier.Version,
	})
}

func (s *Server) getOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/yaml")
	w.Write(openapiSpec)
}

func (s *Server) postSchedule(w http.ResponseWriter, r *http.Request) {
	var req ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	n, key, strategy, status, err := s.schedule(r.Context(), &req)
	if err != nil {
		writeError(w, status, err)
		return
	}

	payload, err := schema.EncodeNested(n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, ScheduleResponse{
		Key:        key,
		Strategy:   string(strategy),
		Composites: n.NumComposites(),
		Width:      espalier.Width(n),
		Schedule:   payload,
	})
}

func (s *Server) getSchedule(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	n, err := s.cache.Get(r.Context(), key)
	if errors.Is(err, domain.ErrScheduleNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	payload, err := schema.EncodeNested(n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, ScheduleResponse{
		Key:        key,
		Composites: n.NumComposites(),
		Width:      espalier.Width(n),
		Schedule:   payload,
	})
}

func (s *Server) deleteSchedule(w http.ResponseWriter, r *http.Request) {
	if err := s.cache.Delete(r.Context(), chi.URLParam(r, "key")); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) postEval(w http.ResponseWriter, r *http.Request) {
	var req ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Diagram.Generators == nil {
		writeError(w, http.StatusUnprocessableEntity, fmt.Errorf("diagram has no generators section"))
		return
	}

	n, key, _, status, err := s.schedule(r.Context(), &req)
	if err != nil {
		writeError(w, status, err)
		return
	}

	alg := relation.Algebra{Size: req.Diagram.Generators.Size}
	generators := make([]relation.Relation, 0, len(req.Diagram.Boxes))
	for i, tuples := range req.Diagram.GeneratorVector() {
		arity := len(req.Diagram.Boxes[i].Ports)
		rel, err := relation.New(arity, tuples...)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		generators = append(generators, rel)
	}

	start := time.Now()
	result, err := espalier.Eval(alg.Combine, n, generators)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.evals.Inc()
	s.evalTime.Observe(time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, EvalResponse{
		Key:    key,
		Arity:  result.Arity(),
		Tuples: result.Tuples(),
	})
}

// schedule resolves the request to a nested schedule, consulting the cache
// first. On a miss it computes, nests, and stores the schedule.
func (s *Server) schedule(ctx context.Context, req *ScheduleRequest) (*domain.Nested, string, espalier.Strategy, int, error) {
	if err := req.Diagram.Validate(); err != nil {
		return nil, "", "", http.StatusUnprocessableEntity, err
	}

	var opts scheduleOptions
	if err := mapstructure.Decode(req.Options, &opts); err != nil {
		return nil, "", "", http.StatusBadRequest, fmt.Errorf("invalid options: %w", err)
	}

	strategy := espalier.Strategy(req.Strategy)
	if strategy == "" {
		strategy = espalier.StrategyTreeDecomposition
	}

	d, err := req.Diagram.Diagram()
	if err != nil {
		return nil, "", "", http.StatusUnprocessableEntity, err
	}

	key := schema.Fingerprint(d, string(strategy), opts.Elimination, opts.Supernodes)
	if n, err := s.cache.Get(ctx, key); err == nil {
		s.cacheHits.Inc()
		return n, key, strategy, 0, nil
	} else if !errors.Is(err, domain.ErrScheduleNotFound) {
		s.logger.Warn("schedule cache lookup failed", "err", err)
	}

	scheduled, err := espalier.Schedule(d, strategy, buildOptions(opts)...)
	if err != nil {
		return nil, "", "", http.StatusUnprocessableEntity, err
	}
	n, err := espalier.Nest(scheduled)
	if err != nil {
		return nil, "", "", http.StatusInternalServerError, err
	}
	s.schedules.WithLabelValues(string(strategy)).Inc()

	if err := s.cache.Put(ctx, key, n); err != nil {
		s.logger.Warn("schedule cache store failed", "err", err)
	}
	return n, key, strategy, 0, nil
}

func buildOptions(opts scheduleOptions) []espalier.Option {
	var out []espalier.Option
	if opts.Elimination != "" {
		out = append(out, espalier.WithElimination(ports.EliminationPolicy(opts.Elimination)))
	}
	if opts.Supernodes != "" {
		out = append(out, espalier.WithSupernodes(ports.SupernodePolicy(opts.Supernodes)))
	}
	if len(opts.EliminationOrder) > 0 {
		out = append(out, espalier.WithEliminationOrder(opts.EliminationOrder...))
	}
	if len(opts.BoxOrder) > 0 {
		order := make([]domain.BoxID, len(opts.BoxOrder))
		for i, b := range opts.BoxOrder {
			order[i] = domain.BoxID(b)
		}
		out = append(out, espalier.WithOrder(order...))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	type line struct {
		Field  string `json:"field,omitempty"`
		Reason string `json:"reason"`
	}
	resp := struct {
		Error   string `json:"error"`
		Details []line `json:"details,omitempty"`
	}{Error: err.Error()}
	for _, e := range schema.ValidationErrors(err) {
		var ve *schema.ValidationError
		if errors.As(e, &ve) {
			resp.Details = append(resp.Details, line{Field: ve.Field, Reason: ve.Reason})
		}
	}
	writeJSON(w, status, resp)
}
