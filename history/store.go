// Package history keeps a log of finished deploy runs in SQLite.
package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/redbadger/webdeploy/model"
	"github.com/redbadger/webdeploy/pipeline"
)

const schema = `CREATE TABLE IF NOT EXISTS runs (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	configuration TEXT NOT NULL,
	settings_file TEXT NOT NULL,
	username      TEXT NOT NULL,
	server        TEXT NOT NULL,
	app_name      TEXT NOT NULL,
	status        TEXT NOT NULL,
	stage         TEXT NOT NULL DEFAULT '',
	reason        TEXT NOT NULL DEFAULT '',
	started_at    TIMESTAMP NOT NULL,
	finished_at   TIMESTAMP NOT NULL
)`

// Run is one row of the history
type Run struct {
	ID      int64
	Summary pipeline.Summary
}

// Store records run summaries
type Store struct {
	DB *sql.DB
}

// Open opens the database at dsn, creating it and its directory when needed.
// Use ":memory:" for a throwaway store.
func Open(dsn string) (*Store, error) {
	if dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0700); err != nil {
			return nil, errors.Wrap(err, "creating history directory")
		}
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// a single connection keeps ":memory:" databases alive between statements
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating runs table")
	}
	return &Store{DB: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.DB.Close()
}

// Add stores a finished run
func (s *Store) Add(ctx context.Context, sum pipeline.Summary) (int64, error) {
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO runs (configuration, settings_file, username, server, app_name, status, stage, reason, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sum.Configuration, sum.SettingsFile, sum.Username, sum.Server, sum.AppName,
		string(sum.Outcome.Status), string(sum.Outcome.Stage), sum.Outcome.Reason,
		sum.Started.UTC(), sum.Finished.UTC(),
	)
	if err != nil {
		return 0, errors.Wrap(err, "insert run")
	}
	return res.LastInsertId()
}

// List returns the most recent runs first, at most limit of them
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, configuration, settings_file, username, server, app_name, status, stage, reason, started_at, finished_at
		 FROM runs ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                 Run
			status, stage     string
			started, finished time.Time
		)
		err := rows.Scan(&r.ID, &r.Summary.Configuration, &r.Summary.SettingsFile, &r.Summary.Username,
			&r.Summary.Server, &r.Summary.AppName, &status, &stage, &r.Summary.Outcome.Reason, &started, &finished)
		if err != nil {
			return nil, errors.Wrap(err, "scan run")
		}
		r.Summary.Outcome.Status = model.Status(status)
		r.Summary.Outcome.Stage = model.Stage(stage)
		r.Summary.Started = started
		r.Summary.Finished = finished
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Recorder writes every finished run to a Store
type Recorder struct {
	pipeline.NopListener
	Store *Store
}

// RunFinished implements pipeline.Listener. A failure to record is logged and
// does not change the outcome of the run.
func (r Recorder) RunFinished(sum pipeline.Summary) {
	id, err := r.Store.Add(context.Background(), sum)
	if err != nil {
		log.WithError(err).Warn("could not record run history")
		return
	}
	log.WithField("id", id).Debug("recorded run")
}
