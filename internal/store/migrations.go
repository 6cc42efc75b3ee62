package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create evaluations",
		SQL: `
			CREATE TABLE evaluations (
				id                TEXT PRIMARY KEY,
				age               REAL NOT NULL,
				annual_income     REAL NOT NULL,
				employment_years  REAL NOT NULL,
				debt_to_income    REAL NOT NULL,
				ml_score          REAL NOT NULL,
				verdict           TEXT NOT NULL,
				final_score       TEXT NOT NULL DEFAULT '',
				rationale         TEXT NOT NULL DEFAULT '',
				recommendations   TEXT,
				cached            INTEGER NOT NULL DEFAULT 0,
				latency_ms        INTEGER NOT NULL DEFAULT 0,
				created_at        TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_evaluations_created ON evaluations (created_at DESC);
			CREATE INDEX idx_evaluations_verdict ON evaluations (verdict);
		`,
	},
	{
		Version: 2,
		Name:    "create simulation runs",
		SQL: `
			CREATE TABLE simulation_runs (
				id             TEXT PRIMARY KEY,
				seed           INTEGER NOT NULL,
				requested      INTEGER NOT NULL,
				evaluated      INTEGER NOT NULL,
				approved       INTEGER NOT NULL,
				failed         INTEGER NOT NULL,
				approval_rate  REAL NOT NULL,
				mean_ml_score  REAL NOT NULL,
				result         TEXT NOT NULL,
				started_at     TEXT NOT NULL,
				finished_at    TEXT NOT NULL
			);

			CREATE INDEX idx_runs_started ON simulation_runs (started_at DESC);
		`,
	},
}
