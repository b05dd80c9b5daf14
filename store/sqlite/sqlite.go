/*
Package sqlite provides SQLite-backed persistence for saved analysis
scenarios.

PURPOSE:
  The engine itself is pure and stateless; the only durable state in
  the system is the scenario library - named sets of deal assumptions
  a user wants to revisit, stored alongside a snapshot of the metrics
  computed when the scenario was saved.

KEY TABLE:
  scenarios: One row per saved deal. Assumptions and metrics are
  stored as JSON documents; the engine is the source of truth for
  their shape, and re-analysis always recomputes from assumptions
  rather than trusting the stored metrics snapshot.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better
  concurrency: multiple readers don't block and crash recovery is
  cheaper.

USAGE:
  store, err := sqlite.New("./data/deals.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - api/handlers.go: The scenario CRUD endpoints built on this store
  - store/cache: Transient analysis-result caching (Redis/in-memory)
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/deal-engine/engine"
)

// Scenario is a saved deal: the raw request assumptions plus a
// snapshot of the metrics computed at save time.
type Scenario struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Strategy        engine.Strategy `json:"strategy"`
	AssumptionsJSON string          `json:"-"`
	MetricsJSON     string          `json:"-"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Store persists scenarios in SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scenarios (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		strategy TEXT NOT NULL,
		assumptions_json TEXT NOT NULL,
		metrics_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scenarios_strategy ON scenarios(strategy);
	CREATE INDEX IF NOT EXISTS idx_scenarios_updated ON scenarios(updated_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveScenario inserts a new scenario, or updates the existing row
// when the ID is already present. A missing ID gets a generated UUID.
// Returns the stored scenario with timestamps filled in.
func (s *Store) SaveScenario(ctx context.Context, sc Scenario) (Scenario, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if sc.ID == "" {
		sc.ID = uuid.NewString()
		sc.CreatedAt = now
	}
	if sc.CreatedAt.IsZero() {
		sc.CreatedAt = now
	}
	sc.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scenarios (id, name, strategy, assumptions_json, metrics_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			strategy = excluded.strategy,
			assumptions_json = excluded.assumptions_json,
			metrics_json = excluded.metrics_json,
			updated_at = excluded.updated_at
	`, sc.ID, sc.Name, string(sc.Strategy), sc.AssumptionsJSON, sc.MetricsJSON,
		sc.CreatedAt.Format(time.RFC3339), sc.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return Scenario{}, fmt.Errorf("save scenario: %w", err)
	}
	return sc, nil
}

// GetScenario fetches a scenario by ID. Returns
// engine.ErrScenarioNotFound when no row exists.
func (s *Store) GetScenario(ctx context.Context, id string) (Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, strategy, assumptions_json, metrics_json, created_at, updated_at
		FROM scenarios WHERE id = ?
	`, id)

	sc, err := scanScenario(row)
	if err == sql.ErrNoRows {
		return Scenario{}, fmt.Errorf("scenario %s: %w", id, engine.ErrScenarioNotFound)
	}
	if err != nil {
		return Scenario{}, fmt.Errorf("get scenario: %w", err)
	}
	return sc, nil
}

// ListScenarios returns all scenarios, most recently updated first.
func (s *Store) ListScenarios(ctx context.Context) ([]Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, strategy, assumptions_json, metrics_json, created_at, updated_at
		FROM scenarios ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	defer rows.Close()

	scenarios := []Scenario{}
	for rows.Next() {
		sc, err := scanScenario(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scenario: %w", err)
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, rows.Err()
}

// DeleteScenario removes a scenario by ID. Returns
// engine.ErrScenarioNotFound when nothing was deleted.
func (s *Store) DeleteScenario(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM scenarios WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete scenario: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete scenario: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("scenario %s: %w", id, engine.ErrScenarioNotFound)
	}
	return nil
}

// Reset drops all saved scenarios. Dev/demo only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM scenarios`)
	if err != nil {
		return fmt.Errorf("reset scenarios: %w", err)
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanScenario(row scanner) (Scenario, error) {
	var sc Scenario
	var strategy, createdAt, updatedAt string
	if err := row.Scan(&sc.ID, &sc.Name, &strategy, &sc.AssumptionsJSON, &sc.MetricsJSON, &createdAt, &updatedAt); err != nil {
		return Scenario{}, err
	}
	sc.Strategy = engine.Strategy(strategy)
	sc.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	sc.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return sc, nil
}
