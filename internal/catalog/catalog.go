// Package catalog records batch runs and per-acquisition outcomes in a
// SQLite database so repeated runs can skip work that already succeeded.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Status is the terminal outcome of one acquisition within a run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA temp_store=MEMORY",
	"PRAGMA foreign_keys=ON",
}

// ErrRunNotFound is returned when a run id has no row.
var ErrRunNotFound = errors.New("run not found")

type Catalog struct {
	*sql.DB
}

// Open opens (or creates) the catalog at path and applies migrations.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	// One writer; batch workers serialise through the pool.
	db.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", p, err)
		}
	}

	c := &Catalog{DB: db}
	if err := c.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	InputRoot  string
	OutputRoot string
	Version    string
	ConfigJSON string
}

type SectionImage struct {
	Section int
	Path    string
}

type AcquisitionRecord struct {
	RunID       string
	Label       string
	InputDir    string
	OutputDir   string
	Status      Status
	Stage       string
	Error       string
	RangeBins   int
	Pulses      int
	TimeWindows int
	StartedAt   time.Time
	FinishedAt  time.Time
	Images      []SectionImage
}

// StartRun inserts a run row. An empty ID is replaced with a new UUID.
func (c *Catalog) StartRun(ctx context.Context, r Run) (Run, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.ConfigJSON == "" {
		r.ConfigJSON = "{}"
	}
	_, err := c.ExecContext(ctx, `
		INSERT INTO runs (id, started_at_ns, input_root, output_root, version, config_json)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt.UnixNano(), r.InputRoot, r.OutputRoot, r.Version, r.ConfigJSON)
	if err != nil {
		return Run{}, fmt.Errorf("insert run %s: %w", r.ID, err)
	}
	return r, nil
}

func (c *Catalog) FinishRun(ctx context.Context, id string, at time.Time) error {
	res, err := c.ExecContext(ctx, `UPDATE runs SET finished_at_ns = ? WHERE id = ?`, at.UnixNano(), id)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

// GetRun loads a run by id.
func (c *Catalog) GetRun(ctx context.Context, id string) (Run, error) {
	var (
		r        Run
		started  int64
		finished sql.NullInt64
	)
	err := c.QueryRowContext(ctx, `
		SELECT id, started_at_ns, finished_at_ns, input_root, output_root, version, config_json
		FROM runs WHERE id = ?`, id).
		Scan(&r.ID, &started, &finished, &r.InputRoot, &r.OutputRoot, &r.Version, &r.ConfigJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run %s: %w", id, err)
	}
	r.StartedAt = time.Unix(0, started).UTC()
	if finished.Valid {
		r.FinishedAt = time.Unix(0, finished.Int64).UTC()
	}
	return r, nil
}

// RecordAcquisition stores an outcome and its rendered images atomically.
func (c *Catalog) RecordAcquisition(ctx context.Context, rec AcquisitionRecord) error {
	tx, err := c.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO acquisitions (run_id, label, input_dir, output_dir, status, stage, error,
			range_bins, pulses, time_windows, started_at_ns, finished_at_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Label, rec.InputDir, rec.OutputDir, string(rec.Status), rec.Stage, rec.Error,
		rec.RangeBins, rec.Pulses, rec.TimeWindows, rec.StartedAt.UnixNano(), rec.FinishedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("insert acquisition %s: %w", rec.Label, err)
	}

	for _, img := range rec.Images {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO section_images (run_id, label, section, path) VALUES (?, ?, ?, ?)`,
			rec.RunID, rec.Label, img.Section, img.Path)
		if err != nil {
			return fmt.Errorf("insert section %d of %s: %w", img.Section, rec.Label, err)
		}
	}
	return tx.Commit()
}

// Acquisitions lists the outcomes of a run ordered by label.
func (c *Catalog) Acquisitions(ctx context.Context, runID string) ([]AcquisitionRecord, error) {
	rows, err := c.QueryContext(ctx, `
		SELECT run_id, label, input_dir, output_dir, status, stage, error,
			range_bins, pulses, time_windows, started_at_ns, finished_at_ns
		FROM acquisitions WHERE run_id = ? ORDER BY label`, runID)
	if err != nil {
		return nil, fmt.Errorf("query acquisitions: %w", err)
	}
	defer rows.Close()

	var out []AcquisitionRecord
	for rows.Next() {
		var (
			rec               AcquisitionRecord
			status            string
			started, finished int64
		)
		if err := rows.Scan(&rec.RunID, &rec.Label, &rec.InputDir, &rec.OutputDir, &status,
			&rec.Stage, &rec.Error, &rec.RangeBins, &rec.Pulses, &rec.TimeWindows,
			&started, &finished); err != nil {
			return nil, err
		}
		rec.Status = Status(status)
		rec.StartedAt = time.Unix(0, started).UTC()
		rec.FinishedAt = time.Unix(0, finished).UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range out {
		imgs, err := c.sectionImages(ctx, runID, out[i].Label)
		if err != nil {
			return nil, err
		}
		out[i].Images = imgs
	}
	return out, nil
}

func (c *Catalog) sectionImages(ctx context.Context, runID, label string) ([]SectionImage, error) {
	rows, err := c.QueryContext(ctx, `
		SELECT section, path FROM section_images
		WHERE run_id = ? AND label = ? ORDER BY section`, runID, label)
	if err != nil {
		return nil, fmt.Errorf("query section images: %w", err)
	}
	defer rows.Close()

	var imgs []SectionImage
	for rows.Next() {
		var img SectionImage
		if err := rows.Scan(&img.Section, &img.Path); err != nil {
			return nil, err
		}
		imgs = append(imgs, img)
	}
	return imgs, rows.Err()
}

// CompletedLabels returns the labels that succeeded in any earlier run
// writing to outputRoot.
func (c *Catalog) CompletedLabels(ctx context.Context, outputRoot string) (map[string]bool, error) {
	rows, err := c.QueryContext(ctx, `
		SELECT DISTINCT a.label FROM acquisitions a
		JOIN runs r ON r.id = a.run_id
		WHERE r.output_root = ? AND a.status = ?`, outputRoot, string(StatusSucceeded))
	if err != nil {
		return nil, fmt.Errorf("query completed labels: %w", err)
	}
	defer rows.Close()

	done := make(map[string]bool)
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		done[label] = true
	}
	return done, rows.Err()
}
