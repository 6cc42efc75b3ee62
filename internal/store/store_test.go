package store

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/scoredeck/internal/domain"
	"github.com/soyeahso/scoredeck/internal/logging"
	"github.com/soyeahso/scoredeck/internal/sim"
)

func testLog() *logging.Logger {
	return logging.New(io.Discard, "silent")
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:", testLog())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleEvaluation(id string) *domain.Evaluation {
	return &domain.Evaluation{
		ID: id,
		Applicant: domain.Applicant{
			Age: 41, AnnualIncome: 62000, EmploymentYears: 7.5, DebtToIncome: 0.28,
		},
		MLScore: 0.81,
		Decision: domain.Decision{
			Verdict:         domain.DecisionApproved,
			FinalScore:      "0.78",
			Rationale:       "stable income, low leverage",
			Recommendations: "offer standard terms",
		},
		LatencyMS: 230,
		CreatedAt: time.Now(),
	}
}

func sampleRun(id string) *sim.Result {
	now := time.Now()
	return &sim.Result{
		RunID:     id,
		Seed:      42,
		Requested: 3,
		Evaluations: []*domain.Evaluation{
			sampleEvaluation(id + "-e1"),
			sampleEvaluation(id + "-e2"),
		},
		Errors: []string{"runtime throttled"},
		Summary: sim.Summary{
			Evaluated: 2, Approved: 2, ApprovalRate: 1.0, MeanMLScore: 0.81, Failed: 1,
		},
		StartedAt:  now.Add(-time.Second),
		FinishedAt: now,
	}
}

func TestOpenCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	db, err := Open(path, testLog())
	require.NoError(t, err)
	defer db.Close()

	assert.NotNil(t, db.SQL())
}

func TestMigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	db, err := Open(path, testLog())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening must not re-apply migrations
	db, err = Open(path, testLog())
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.SQL().QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, len(migrations), count)
}

func TestEvaluationRoundTrip(t *testing.T) {
	h := NewSQLiteHistory(openTestDB(t))

	want := sampleEvaluation("eval-1")
	require.NoError(t, h.RecordEvaluation(want))

	got, err := h.ListEvaluations(10)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, want.ID, got[0].ID)
	assert.Equal(t, want.Applicant, got[0].Applicant)
	assert.Equal(t, want.MLScore, got[0].MLScore)
	assert.Equal(t, want.Decision, got[0].Decision)
	assert.Equal(t, want.LatencyMS, got[0].LatencyMS)
	assert.WithinDuration(t, want.CreatedAt, got[0].CreatedAt, time.Second)
}

func TestListEvaluationsNewestFirst(t *testing.T) {
	h := NewSQLiteHistory(openTestDB(t))

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, h.RecordEvaluation(sampleEvaluation(id)))
	}

	got, err := h.ListEvaluations(2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}

func TestRunRoundTrip(t *testing.T) {
	h := NewSQLiteHistory(openTestDB(t))

	want := sampleRun("run-1")
	require.NoError(t, h.RecordRun(want))

	got, err := h.GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, want.RunID, got.RunID)
	assert.Equal(t, want.Seed, got.Seed)
	assert.Equal(t, want.Summary, got.Summary)
	assert.Len(t, got.Evaluations, 2)
	assert.Equal(t, want.Errors, got.Errors)
}

func TestGetRunNotFound(t *testing.T) {
	h := NewSQLiteHistory(openTestDB(t))

	_, err := h.GetRun("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListRunsOmitsEvaluations(t *testing.T) {
	h := NewSQLiteHistory(openTestDB(t))

	require.NoError(t, h.RecordRun(sampleRun("run-1")))
	require.NoError(t, h.RecordRun(sampleRun("run-2")))

	runs, err := h.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].RunID)
	assert.Empty(t, runs[0].Evaluations)
	assert.Equal(t, 2, runs[0].Summary.Evaluated)
}

func TestMemoryHistory(t *testing.T) {
	var h History = NewMemoryHistory()

	require.NoError(t, h.RecordEvaluation(sampleEvaluation("a")))
	require.NoError(t, h.RecordEvaluation(sampleEvaluation("b")))

	evals, err := h.ListEvaluations(1)
	require.NoError(t, err)
	require.Len(t, evals, 1)
	assert.Equal(t, "b", evals[0].ID)

	require.NoError(t, h.RecordRun(sampleRun("run-1")))

	run, err := h.GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), run.Seed)

	_, err = h.GetRun("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	runs, err := h.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Empty(t, runs[0].Evaluations)
}
