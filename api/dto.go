/*
dto.go - Request/response data structures for the REST API

PURPOSE:
  Wire-level shapes for requests and responses. Engine types mostly
  serialize directly (decimal.Decimal marshals as a JSON number,
  engine.Ratio marshals as number-or-null); the DTOs here cover the
  envelopes around them.

SEE ALSO:
  - handlers.go: Where these are produced and consumed
  - factory/assumptions.go: AnalysisRequest, the shared input contract
*/
package api

import (
	"time"

	"github.com/warp/deal-engine/engine"
	"github.com/warp/deal-engine/factory"
	"github.com/warp/deal-engine/store/sqlite"
)

// ErrorResponse is the JSON body for every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

// ProjectionRequest asks for a multi-year hold analysis.
type ProjectionRequest struct {
	Assumptions factory.AnalysisRequest `json:"assumptions"`
	Years       int                     `json:"years,omitempty"`
}

// ProjectionResponse bundles the hold-period outputs.
type ProjectionResponse struct {
	Projection *engine.Projection           `json:"projection"`
	Tax        []engine.AnnualTaxProjection `json:"tax"`
	Exit       *engine.ExitAnalysis         `json:"exit"`
}

// SensitivityRequest asks for a one-variable sweep. Min and max use
// wire units: dollars for money variables, [0,100] percent for rates.
type SensitivityRequest struct {
	Assumptions factory.AnalysisRequest    `json:"assumptions"`
	Variable    engine.SensitivityVariable `json:"variable"`
	Min         float64                    `json:"min"`
	Max         float64                    `json:"max"`
	Samples     int                        `json:"samples,omitempty"`
}

// SaveScenarioRequest persists a named deal.
type SaveScenarioRequest struct {
	ID          string                  `json:"id,omitempty"`
	Name        string                  `json:"name"`
	Strategy    engine.Strategy         `json:"strategy"`
	Assumptions factory.AnalysisRequest `json:"assumptions"`
}

// ScenarioDTO is a saved scenario with its stored documents inlined.
type ScenarioDTO struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Strategy    engine.Strategy `json:"strategy"`
	Assumptions any             `json:"assumptions,omitempty"`
	Metrics     any             `json:"metrics,omitempty"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

// ScenarioSummaryDTO is the list view: no document bodies.
type ScenarioSummaryDTO struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Strategy  engine.Strategy `json:"strategy"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

func toScenarioSummary(sc sqlite.Scenario) ScenarioSummaryDTO {
	return ScenarioSummaryDTO{
		ID:        sc.ID,
		Name:      sc.Name,
		Strategy:  sc.Strategy,
		CreatedAt: sc.CreatedAt.Format(time.RFC3339),
		UpdatedAt: sc.UpdatedAt.Format(time.RFC3339),
	}
}
