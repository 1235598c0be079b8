package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/maskprime/internal/config"
	"github.com/roach88/maskprime/internal/design"
	"github.com/roach88/maskprime/internal/results"
	"github.com/roach88/maskprime/internal/trial"
)

func seedDatabase(t *testing.T, path string, subjects ...string) {
	t.Helper()
	ctx := context.Background()
	st, err := results.Open(path)
	require.NoError(t, err)
	defer st.Close()

	for _, id := range subjects {
		require.NoError(t, st.WriteSession(ctx, config.Session{
			SubjectID: id,
			Keys:      design.KeyAssignment{Cat: "f", Dog: "j"},
		}))
		require.NoError(t, st.AppendResult(ctx, 1, trial.Result{
			TrialSpec: design.TrialSpec{
				Image:      "stimuli/cat/img/img00000.png",
				Category:   design.CategoryCat,
				TrialType:  "Image Trial",
				StimulusID: "Cat00000",
				Trial:      1,
			},
			SubjectID: id,
			Response:  "f",
			RT:        412,
			Responded: true,
		}))
	}
}

func TestExport_Subject(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "results.db")
	seedDatabase(t, db, "s1", "s2")

	out, err := execute(t, "export", "--db", db, "--out", dir, "s2")
	require.NoError(t, err)
	assert.Contains(t, out, "adv_ex_s2.csv")

	data, err := os.ReadFile(filepath.Join(dir, "adv_ex_s2.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Image,Category,Trial_Type,Stimulus_ID,Trial,Subject_ID,Response,RT\n"+
		"stimuli/cat/img/img00000.png,Cat,Image Trial,Cat00000,1,s2,f,412\n", string(data))

	_, err = os.Stat(filepath.Join(dir, "adv_ex_s1.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestExport_All(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "results.db")
	seedDatabase(t, db, "s1", "s2")

	_, err := execute(t, "export", "--db", db, "--out", dir, "--all")
	require.NoError(t, err)

	for _, id := range []string{"s1", "s2"} {
		_, err := os.Stat(filepath.Join(dir, results.FileName(id)))
		assert.NoError(t, err, id)
	}
}

func TestExport_Errors(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "results.db")
	seedDatabase(t, db, "s1")

	tests := []struct {
		name string
		args []string
	}{
		{"no subjects", []string{"export", "--db", db, "--out", dir}},
		{"subjects and all", []string{"export", "--db", db, "--out", dir, "--all", "s1"}},
		{"missing database", []string{"export", "--db", filepath.Join(dir, "nope.db"), "--out", dir, "s1"}},
		{"unknown subject", []string{"export", "--db", db, "--out", dir, "ghost"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}
