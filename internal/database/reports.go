package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kamilpajak/runalyze/internal/analysis"
	"github.com/kamilpajak/runalyze/internal/classify"
)

// reportColumns is the standard column list for report queries.
const reportColumns = `id, run_id, details, total, passed, failed, aborted, tally, created_at`

// SaveReport stores a completed report. History is append-only: the same run
// analyzed twice yields two rows.
func (db *DB) SaveReport(ctx context.Context, r *analysis.Report) error {
	details, err := json.Marshal(r.Details)
	if err != nil {
		return fmt.Errorf("failed to encode details: %w", err)
	}
	tally, err := json.Marshal(r.Tally)
	if err != nil {
		return fmt.Errorf("failed to encode tally: %w", err)
	}

	unclassified := 0
	if r.Tally != nil {
		unclassified = r.Tally.Count(classify.Unclassified)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO reports (id, run_id, run_name, details, total, passed, failed, aborted, tally, unclassified, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		r.ID, r.RunID, r.Details.Name, details,
		r.Totals.Total, r.Totals.Passed, r.Totals.Failed, r.Totals.Aborted,
		tally, unclassified, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

// scanReport scans a row into a Report and decodes its JSON columns.
func scanReport(row pgx.Row) (*analysis.Report, error) {
	var r analysis.Report
	var details, tally []byte
	err := row.Scan(
		&r.ID, &r.RunID, &details,
		&r.Totals.Total, &r.Totals.Passed, &r.Totals.Failed, &r.Totals.Aborted,
		&tally, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(details, &r.Details); err != nil {
		return nil, fmt.Errorf("failed to decode details: %w", err)
	}
	r.Tally = &classify.Tally{}
	if err := json.Unmarshal(tally, r.Tally); err != nil {
		return nil, fmt.Errorf("failed to decode tally: %w", err)
	}
	return &r, nil
}

// GetReport retrieves a report by ID. It returns nil when none exists.
func (db *DB) GetReport(ctx context.Context, id uuid.UUID) (*analysis.Report, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE id = $1`,
		id,
	)
	r, err := scanReport(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return r, err
}

// ListReportsParams contains parameters for listing reports.
type ListReportsParams struct {
	Limit  int
	Offset int
	RunID  *int
}

// ListReports returns stored reports, newest first.
func (db *DB) ListReports(ctx context.Context, params ListReportsParams) ([]analysis.Report, error) {
	if params.Limit <= 0 {
		params.Limit = 50
	}

	var rows pgx.Rows
	var err error

	if params.RunID != nil {
		rows, err = db.pool.Query(ctx,
			`SELECT `+reportColumns+` FROM reports
			 WHERE run_id = $1
			 ORDER BY created_at DESC
			 LIMIT $2 OFFSET $3`,
			*params.RunID, params.Limit, params.Offset,
		)
	} else {
		rows, err = db.pool.Query(ctx,
			`SELECT `+reportColumns+` FROM reports
			 ORDER BY created_at DESC
			 LIMIT $1 OFFSET $2`,
			params.Limit, params.Offset,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := []analysis.Report{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *r)
	}
	return reports, rows.Err()
}

// CountReports returns the number of stored reports.
func (db *DB) CountReports(ctx context.Context) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reports`).Scan(&count)
	return count, err
}

// DeleteReport deletes a report by ID.
func (db *DB) DeleteReport(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	return err
}

// DeleteReportsBefore deletes reports created before the given time.
func (db *DB) DeleteReportsBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := db.pool.Exec(ctx, `DELETE FROM reports WHERE created_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
