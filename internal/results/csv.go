package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/roach88/maskprime/internal/trial"
)

// Header is the column order of the result table.
var Header = []string{"Image", "Category", "Trial_Type", "Stimulus_ID", "Trial", "Subject_ID", "Response", "RT"}

// FileName is the result file name for a subject.
func FileName(subjectID string) string {
	return "adv_ex_" + subjectID + ".csv"
}

// WriteCSV writes the header and one row per result.
func WriteCSV(w io.Writer, rows []trial.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Image,
			string(r.Category),
			r.TrialType,
			r.StimulusID,
			strconv.Itoa(r.Trial),
			r.SubjectID,
			r.ResponseField(),
			r.RTField(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write trial %d: %w", r.Trial, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the subject's result table into dir, creating dir if
// needed, and returns the file path.
func WriteFile(dir, subjectID string, rows []trial.Result) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}

	path := filepath.Join(dir, FileName(subjectID))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create result file: %w", err)
	}

	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close result file: %w", err)
	}
	return path, nil
}
