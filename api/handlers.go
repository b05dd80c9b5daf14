/*
handlers.go - HTTP API handlers for the deal analysis engine

PURPOSE:
  Exposes the analysis engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Analysis:
    POST   /api/analyze/{strategy}  Run a single strategy analyzer
    POST   /api/analyze/verdict     Ranked verdict across all strategies
    POST   /api/amortization        Amortization schedule + summary
    POST   /api/projection          Multi-year projection + tax + exit
    POST   /api/sensitivity         One-variable sensitivity sweep

  Scenarios:
    GET    /api/scenarios           List saved scenarios
    POST   /api/scenarios           Save a scenario
    GET    /api/scenarios/{id}      Fetch one scenario
    DELETE /api/scenarios/{id}      Delete a scenario

  Misc:
    GET    /api/health              Liveness

RESULT CACHING:
  The engine is deterministic, so a response is fully determined by
  the endpoint plus the request body. Analysis responses are cached
  under a SHA-256 of both; a hit writes the stored JSON straight back.
  Scenario endpoints are never cached.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input (with the offending field)
  - 404: Scenario not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phuslu/log"

	"github.com/warp/deal-engine/engine"
	"github.com/warp/deal-engine/factory"
	"github.com/warp/deal-engine/store/cache"
	"github.com/warp/deal-engine/store/sqlite"
	"github.com/warp/deal-engine/strategy"
)

// resultCacheTTL bounds how long a cached analysis body is served.
const resultCacheTTL = 15 * time.Minute

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Factory *factory.AssumptionsFactory
	Cache   cache.Cache
	Log     log.Logger
}

// NewHandler creates a handler over the given store and cache.
func NewHandler(store *sqlite.Store, c cache.Cache) *Handler {
	return &Handler{
		Store:   store,
		Factory: factory.NewAssumptionsFactory(),
		Cache:   c,
		Log:     log.DefaultLogger,
	}
}

// =============================================================================
// ANALYSIS HANDLERS
// =============================================================================

// AnalyzeStrategy runs a single strategy analyzer.
// POST /api/analyze/{strategy}
func (h *Handler) AnalyzeStrategy(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "strategy")
	if name == "verdict" {
		h.AnalyzeVerdict(w, r)
		return
	}

	s := engine.Strategy(name)
	if !validStrategy(s) {
		writeError(w, http.StatusBadRequest, ErrorResponse{
			Error: "Unknown strategy: " + name,
			Kind:  "invalid_input",
			Field: "strategy",
		})
		return
	}

	h.cached(w, r, "analyze:"+name, func(req factory.AnalysisRequest) (any, error) {
		a, err := h.Factory.Build(req)
		if err != nil {
			return nil, err
		}
		return strategy.Analyze(a, s)
	})
}

// AnalyzeVerdict ranks all applicable strategies.
// POST /api/analyze/verdict
func (h *Handler) AnalyzeVerdict(w http.ResponseWriter, r *http.Request) {
	h.cached(w, r, "verdict", func(req factory.AnalysisRequest) (any, error) {
		a, err := h.Factory.Build(req)
		if err != nil {
			return nil, err
		}
		return strategy.RunVerdict(a)
	})
}

// Amortization returns the full payment schedule for the financed loan.
// POST /api/amortization
func (h *Handler) Amortization(w http.ResponseWriter, r *http.Request) {
	h.cached(w, r, "amortization", func(req factory.AnalysisRequest) (any, error) {
		a, err := h.Factory.Build(req)
		if err != nil {
			return nil, err
		}
		return engine.Amortize(engine.LoanTermsFor(a))
	})
}

// Projection returns the hold-period projection with tax and exit
// analysis.
// POST /api/projection
func (h *Handler) Projection(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "Failed to read body", Details: err.Error()})
		return
	}
	key := cacheKey("projection", body)
	if h.serveCached(w, r, key) {
		return
	}

	var req ProjectionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	a, err := h.Factory.Build(req.Assumptions)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	years := req.Years
	if years <= 0 {
		years = a.HoldYears
	}

	loan, err := engine.Amortize(engine.LoanTermsFor(a))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	metrics, err := engine.ComputeOperatingMetrics(a, loan.MonthlyPayment)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	proj, err := engine.BuildProjection(a, metrics, loan, years)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	cfg := engine.DepreciationConfigFor(a)
	tax, err := engine.BuildTaxProjection(cfg, proj, loan)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	exit, err := engine.AnalyzeExit(a, cfg, loan, years)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	h.writeAndCache(w, r, key, ProjectionResponse{
		Projection: proj,
		Tax:        tax,
		Exit:       exit,
	})
}

// Sensitivity sweeps one variable across a range.
// POST /api/sensitivity
func (h *Handler) Sensitivity(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "Failed to read body", Details: err.Error()})
		return
	}
	key := cacheKey("sensitivity", body)
	if h.serveCached(w, r, key) {
		return
	}

	var req SensitivityRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	a, err := h.Factory.Build(req.Assumptions)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	min, max := req.Min, req.Max
	if rateVariable(req.Variable) {
		// Wire rates are [0,100] percent; the engine sweeps fractions.
		min, max = min/100, max/100
	}
	samples := req.Samples
	if samples <= 0 {
		samples = engine.DefaultSensitivitySamples
	}

	result, err := engine.RunSensitivity(a, req.Variable, min, max, samples)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	if rateVariable(req.Variable) {
		for i := range result.Points {
			result.Points[i].Value *= 100
		}
		if result.BreakEvenValue.Valid {
			result.BreakEvenValue.Value *= 100
		}
	}

	h.writeAndCache(w, r, key, result)
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns all saved scenarios, newest first.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios, err := h.Store.ListScenarios(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to list scenarios", Details: err.Error()})
		return
	}

	dtos := make([]ScenarioSummaryDTO, len(scenarios))
	for i, sc := range scenarios {
		dtos[i] = toScenarioSummary(sc)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveScenario validates, analyzes, and persists a named deal. The
// stored metrics snapshot is the analysis result at save time.
// POST /api/scenarios
func (h *Handler) SaveScenario(w http.ResponseWriter, r *http.Request) {
	var req SaveScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "Scenario name is required", Kind: "invalid_input", Field: "name"})
		return
	}
	if req.Strategy == "" {
		req.Strategy = engine.StrategyLongTermRental
	}
	if !validStrategy(req.Strategy) {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "Unknown strategy: " + string(req.Strategy), Kind: "invalid_input", Field: "strategy"})
		return
	}

	a, err := h.Factory.Build(req.Assumptions)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	result, err := strategy.Analyze(a, req.Strategy)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	assumptionsJSON, err := json.Marshal(req.Assumptions)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to encode assumptions", Details: err.Error()})
		return
	}
	metricsJSON, err := json.Marshal(result)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to encode metrics", Details: err.Error()})
		return
	}

	saved, err := h.Store.SaveScenario(r.Context(), sqlite.Scenario{
		ID:              req.ID,
		Name:            req.Name,
		Strategy:        req.Strategy,
		AssumptionsJSON: string(assumptionsJSON),
		MetricsJSON:     string(metricsJSON),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to save scenario", Details: err.Error()})
		return
	}

	h.Log.Info().Str("scenario_id", saved.ID).Str("strategy", string(saved.Strategy)).Msg("scenario saved")
	writeJSON(w, http.StatusCreated, scenarioDTO(saved))
}

// GetScenario fetches one saved scenario with its documents.
// GET /api/scenarios/{id}
func (h *Handler) GetScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sc, err := h.Store.GetScenario(r.Context(), id)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scenarioDTO(sc))
}

// DeleteScenario removes a saved scenario.
// DELETE /api/scenarios/{id}
func (h *Handler) DeleteScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Store.DeleteScenario(r.Context(), id); err != nil {
		h.writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Health reports liveness.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// =============================================================================
// CACHING PLUMBING
// =============================================================================

// cached wraps the common analysis flow: read body, serve a cache hit,
// otherwise decode + compute + store.
func (h *Handler) cached(w http.ResponseWriter, r *http.Request, prefix string, compute func(factory.AnalysisRequest) (any, error)) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "Failed to read body", Details: err.Error()})
		return
	}
	key := cacheKey(prefix, body)
	if h.serveCached(w, r, key) {
		return
	}

	var req factory.AnalysisRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	result, err := compute(req)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	h.writeAndCache(w, r, key, result)
}

func cacheKey(prefix string, body []byte) string {
	sum := sha256.Sum256(body)
	return "deal:" + prefix + ":" + hex.EncodeToString(sum[:])
}

// serveCached writes a stored response body when present.
func (h *Handler) serveCached(w http.ResponseWriter, r *http.Request, key string) bool {
	if h.Cache == nil {
		return false
	}
	stored, ok := h.Cache.Get(r.Context(), key)
	if !ok {
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "hit")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(stored))
	return true
}

// writeAndCache serializes once, stores the exact bytes, and sends them.
func (h *Handler) writeAndCache(w http.ResponseWriter, r *http.Request, key string, data any) {
	encoded, err := json.Marshal(data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to encode response", Details: err.Error()})
		return
	}
	if h.Cache != nil {
		h.Cache.Set(r.Context(), key, string(encoded), resultCacheTTL)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(encoded)
}

// =============================================================================
// HELPERS
// =============================================================================

func validStrategy(s engine.Strategy) bool {
	for _, known := range engine.AllStrategies {
		if s == known {
			return true
		}
	}
	return false
}

func rateVariable(v engine.SensitivityVariable) bool {
	switch v {
	case engine.VarInterestRate, engine.VarVacancyRate, engine.VarDownPayment:
		return true
	}
	return false
}

func scenarioDTO(sc sqlite.Scenario) ScenarioDTO {
	dto := ScenarioDTO{
		ID:        sc.ID,
		Name:      sc.Name,
		Strategy:  sc.Strategy,
		CreatedAt: sc.CreatedAt.Format(time.RFC3339),
		UpdatedAt: sc.UpdatedAt.Format(time.RFC3339),
	}
	// Stored documents are JSON; inline them rather than double-encode.
	var assumptions, metrics any
	if json.Unmarshal([]byte(sc.AssumptionsJSON), &assumptions) == nil {
		dto.Assumptions = assumptions
	}
	if json.Unmarshal([]byte(sc.MetricsJSON), &metrics) == nil {
		dto.Metrics = metrics
	}
	return dto
}

// writeEngineError maps domain errors onto HTTP statuses.
func (h *Handler) writeEngineError(w http.ResponseWriter, err error) {
	var invalid *engine.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		writeError(w, http.StatusBadRequest, ErrorResponse{
			Error: invalid.Error(),
			Kind:  "invalid_input",
			Field: invalid.Field,
		})
	case engine.IsNotFound(err):
		writeError(w, http.StatusNotFound, ErrorResponse{Error: err.Error(), Kind: "not_found"})
	case engine.IsClientError(err):
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: "invalid_input"})
	default:
		h.Log.Error().Err(err).Msg("analysis failed")
		writeError(w, http.StatusInternalServerError, ErrorResponse{Error: "Analysis failed", Details: err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, resp ErrorResponse) {
	writeJSON(w, status, resp)
}
