package results

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/maskprime/internal/config"
	"github.com/roach88/maskprime/internal/trial"
)

// WriteSession records the per-session draws.
// Uses ON CONFLICT DO NOTHING: a subject's first write wins.
func (s *Store) WriteSession(ctx context.Context, sess config.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions
		(subject_id, cat_key, dog_key, refresh_ns, practice_size, main_size)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(subject_id) DO NOTHING
	`,
		sess.SubjectID,
		sess.Keys.Cat,
		sess.Keys.Dog,
		int64(sess.Timings.RefreshInterval),
		sess.Practice,
		sess.Main,
	)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// AppendResult stores one trial outcome at presentation position seq.
// Duplicate (subject, seq) writes are silently ignored.
//
// Note: The session row must exist (foreign key constraint).
func (s *Store) AppendResult(ctx context.Context, seq int, r trial.Result) error {
	var response sql.NullString
	var rt sql.NullInt64
	if r.Responded {
		response = sql.NullString{String: r.Response, Valid: true}
		rt = sql.NullInt64{Int64: int64(r.RT), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trial_results
		(subject_id, seq, image, category, trial_type, stimulus_id, trial, response, rt_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(subject_id, seq) DO NOTHING
	`,
		r.SubjectID,
		seq,
		r.Image,
		string(r.Category),
		r.TrialType,
		r.StimulusID,
		r.Trial,
		response,
		rt,
	)
	if err != nil {
		return fmt.Errorf("append result %d: %w", seq, err)
	}
	return nil
}

// Record implements session.Recorder.
func (s *Store) Record(ctx context.Context, seq int, r trial.Result) error {
	return s.AppendResult(ctx, seq, r)
}
