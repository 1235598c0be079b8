package results

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/maskprime/internal/design"
	"github.com/roach88/maskprime/internal/trial"
)

// Results returns a subject's outcomes in presentation order.
// Returns an empty slice (not nil) if the subject has no results.
func (s *Store) Results(ctx context.Context, subjectID string) ([]trial.Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT subject_id, image, category, trial_type, stimulus_id, trial, response, rt_ms
		FROM trial_results
		WHERE subject_id = ?
		ORDER BY seq ASC
	`, subjectID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	out := []trial.Result{}
	for rows.Next() {
		var (
			r        trial.Result
			category string
			response sql.NullString
			rt       sql.NullInt64
		)
		if err := rows.Scan(&r.SubjectID, &r.Image, &category, &r.TrialType, &r.StimulusID,
			&r.Trial, &response, &rt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.Category = design.Category(category)
		if response.Valid {
			r.Responded = true
			r.Response = response.String
			r.RT = int(rt.Int64)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return out, nil
}

// Subjects returns every recorded subject id in binary order.
func (s *Store) Subjects(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT subject_id FROM sessions ORDER BY subject_id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query subjects: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subjects: %w", err)
	}
	return out, nil
}
