package harness

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/maskprime/internal/results"
)

// RunWithGolden executes a scenario and compares its result table against
// a golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the table doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	return result, AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares the given result's table against a golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	table, err := Table(result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, table)

	return nil
}

// Table renders the result rows as the CSV result table.
func Table(result *Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := results.WriteCSV(&buf, result.Rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
