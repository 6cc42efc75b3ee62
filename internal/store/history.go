package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/soyeahso/scoredeck/internal/domain"
	"github.com/soyeahso/scoredeck/internal/sim"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// History records evaluations and simulation runs for the dashboard's
// history views.
type History interface {
	RecordEvaluation(eval *domain.Evaluation) error
	ListEvaluations(limit int) ([]domain.Evaluation, error)
	RecordRun(result *sim.Result) error
	GetRun(id string) (*sim.Result, error)
	ListRuns(limit int) ([]sim.Result, error)
}

// SQLiteHistory implements History backed by SQLite.
type SQLiteHistory struct {
	db *DB
}

// NewSQLiteHistory creates a history store using the given database.
func NewSQLiteHistory(db *DB) *SQLiteHistory {
	return &SQLiteHistory{db: db}
}

// RecordEvaluation persists a single evaluation.
func (h *SQLiteHistory) RecordEvaluation(eval *domain.Evaluation) error {
	createdAt := eval.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := h.db.sql.Exec(
		`INSERT INTO evaluations
		   (id, age, annual_income, employment_years, debt_to_income,
		    ml_score, verdict, final_score, rationale, recommendations,
		    cached, latency_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		eval.ID,
		eval.Applicant.Age, eval.Applicant.AnnualIncome,
		eval.Applicant.EmploymentYears, eval.Applicant.DebtToIncome,
		eval.MLScore,
		eval.Decision.Verdict, eval.Decision.FinalScore,
		eval.Decision.Rationale, eval.Decision.Recommendations,
		eval.Cached, eval.LatencyMS,
		createdAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording evaluation %s: %w", eval.ID, err)
	}
	return nil
}

// ListEvaluations returns the most recent evaluations, newest first.
// Limit of 0 defaults to 50.
func (h *SQLiteHistory) ListEvaluations(limit int) ([]domain.Evaluation, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := h.db.sql.Query(
		`SELECT id, age, annual_income, employment_years, debt_to_income,
		        ml_score, verdict, final_score, rationale, recommendations,
		        cached, latency_ms, created_at
		 FROM evaluations ORDER BY rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing evaluations: %w", err)
	}
	defer rows.Close()

	var evals []domain.Evaluation
	for rows.Next() {
		var (
			eval      domain.Evaluation
			recs      sql.NullString
			createdAt string
		)
		if err := rows.Scan(
			&eval.ID,
			&eval.Applicant.Age, &eval.Applicant.AnnualIncome,
			&eval.Applicant.EmploymentYears, &eval.Applicant.DebtToIncome,
			&eval.MLScore,
			&eval.Decision.Verdict, &eval.Decision.FinalScore,
			&eval.Decision.Rationale, &recs,
			&eval.Cached, &eval.LatencyMS, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scanning evaluation: %w", err)
		}
		eval.Decision.Recommendations = recs.String
		eval.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		evals = append(evals, eval)
	}
	return evals, rows.Err()
}

// RecordRun persists a finished simulation run. The full result is stored
// as JSON alongside summary columns used for listing.
func (h *SQLiteHistory) RecordRun(result *sim.Result) error {
	blob, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding run %s: %w", result.RunID, err)
	}

	_, err = h.db.sql.Exec(
		`INSERT INTO simulation_runs
		   (id, seed, requested, evaluated, approved, failed,
		    approval_rate, mean_ml_score, result, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.RunID, result.Seed, result.Requested,
		result.Summary.Evaluated, result.Summary.Approved, result.Summary.Failed,
		result.Summary.ApprovalRate, result.Summary.MeanMLScore,
		string(blob),
		result.StartedAt.UTC().Format(time.RFC3339Nano),
		result.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", result.RunID, err)
	}
	return nil
}

// GetRun returns a stored simulation run by ID.
func (h *SQLiteHistory) GetRun(id string) (*sim.Result, error) {
	var blob string
	err := h.db.sql.QueryRow(
		`SELECT result FROM simulation_runs WHERE id = ?`, id,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", id, err)
	}

	var result sim.Result
	if err := json.Unmarshal([]byte(blob), &result); err != nil {
		return nil, fmt.Errorf("decoding run %s: %w", id, err)
	}
	return &result, nil
}

// ListRuns returns the most recent simulation runs, newest first, with
// evaluations omitted. Limit of 0 defaults to 20.
func (h *SQLiteHistory) ListRuns(limit int) ([]sim.Result, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := h.db.sql.Query(
		`SELECT id, seed, requested, evaluated, approved, failed,
		        approval_rate, mean_ml_score, started_at, finished_at
		 FROM simulation_runs ORDER BY rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []sim.Result
	for rows.Next() {
		var (
			r                    sim.Result
			startedAt, finishedAt string
		)
		if err := rows.Scan(
			&r.RunID, &r.Seed, &r.Requested,
			&r.Summary.Evaluated, &r.Summary.Approved, &r.Summary.Failed,
			&r.Summary.ApprovalRate, &r.Summary.MeanMLScore,
			&startedAt, &finishedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finishedAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
