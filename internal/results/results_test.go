package results

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/maskprime/internal/config"
	"github.com/roach88/maskprime/internal/design"
	"github.com/roach88/maskprime/internal/trial"
)

func sampleRows() []trial.Result {
	return []trial.Result{
		{
			TrialSpec: design.TrialSpec{
				Image:      "stimuli/cat/prac/prac00000.png",
				Category:   design.CategoryCat,
				TrialType:  "Practice Trial",
				StimulusID: "Cat00000",
				Trial:      0,
			},
			SubjectID: "subj-1",
		},
		{
			TrialSpec: design.TrialSpec{
				Image:      "stimuli/dog/img/img00000.png",
				Category:   design.CategoryDog,
				TrialType:  "Image Trial",
				StimulusID: "Dog00000",
				Trial:      1,
			},
			SubjectID: "subj-1",
			Response:  "f",
			RT:        300,
			Responded: true,
		},
	}
}

func sampleSession() config.Session {
	return config.Session{
		SubjectID: "subj-1",
		Keys:      design.KeyAssignment{Cat: "f", Dog: "j"},
		Timings:   config.PhaseTimings{RefreshInterval: time.Second / 60},
		Practice:  1,
		Main:      1,
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestWriteCSV_Golden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRows()))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "result_table", buf.Bytes())
}

func TestWriteCSV_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "Image,Category,Trial_Type,Stimulus_ID,Trial,Subject_ID,Response,RT\n", buf.String())
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	path, err := WriteFile(dir, "subj-1", sampleRows())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "adv_ex_subj-1.csv"), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	want, err := os.ReadFile("testdata/golden/result_table.golden")
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestOpen_Pragmas(t *testing.T) {
	s := openTestStore(t)

	tests := map[string]string{
		"journal_mode": "wal",
		"synchronous":  "1",
		"busy_timeout": "5000",
		"foreign_keys": "1",
		"user_version": "1",
	}
	for name, want := range tests {
		got, err := s.pragma(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "iteration %d", i)
		require.NoError(t, s.Close())
	}
}

func TestOpen_IndexesTrials(t *testing.T) {
	s := openTestStore(t)

	var name string
	err := s.db.QueryRow(
		`SELECT name FROM sqlite_master WHERE type = 'index' AND tbl_name = 'trial_results' AND name = ?`,
		"idx_trial_results_trial",
	).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "idx_trial_results_trial", name)
}

func TestOpen_RejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.db.Exec("PRAGMA user_version = 2")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema version 2")
}

func TestOpen_Memory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	fk, err := s.pragma("foreign_keys")
	require.NoError(t, err)
	assert.Equal(t, "1", fk)
}

func TestStore_RoundTripInPresentationOrder(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.WriteSession(ctx, sampleSession()))

	rows := sampleRows()
	// Written out of order; read back by seq.
	require.NoError(t, s.AppendResult(ctx, 2, rows[1]))
	require.NoError(t, s.Record(ctx, 1, rows[0]))

	got, err := s.Results(ctx, "subj-1")
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestStore_AppendResultIdempotent(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.WriteSession(ctx, sampleSession()))

	rows := sampleRows()
	require.NoError(t, s.AppendResult(ctx, 1, rows[0]))
	require.NoError(t, s.AppendResult(ctx, 1, rows[1]))

	got, err := s.Results(ctx, "subj-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rows[0], got[0])
}

func TestStore_AppendResultRequiresSession(t *testing.T) {
	s := openTestStore(t)
	err := s.AppendResult(context.Background(), 1, sampleRows()[0])
	assert.Error(t, err)
}

func TestStore_Subjects(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	got, err := s.Subjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	for _, id := range []string{"b", "a", "c"} {
		sess := sampleSession()
		sess.SubjectID = id
		require.NoError(t, s.WriteSession(ctx, sess))
	}

	got, err = s.Subjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestStore_ResultsUnknownSubject(t *testing.T) {
	got, err := openTestStore(t).Results(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
