package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/maskprime/internal/trial"
)

// AssertionError is returned when an expect clause fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Trial    int            // Trial number the clause names
	Expected string         // Human-readable expected outcome
	Actual   string         // Human-readable actual outcome
	Rows     []trial.Result // All rows for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Expectation failed: trial %d\n", e.Trial)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nRows:\n")
	for i, r := range e.Rows {
		fmt.Fprintf(&buf, "  [%d] trial=%d %s response=%s rt=%s\n",
			i+1, r.Trial, r.StimulusID, r.ResponseField(), r.RTField())
	}

	return buf.String()
}

// EvaluateExpectations checks every clause against result.Rows and returns
// one message per failure.
func EvaluateExpectations(result *Result, clauses []ExpectClause) []string {
	var errs []string
	for _, c := range clauses {
		if err := checkClause(result, c); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func checkClause(result *Result, c ExpectClause) error {
	fail := func(expected, actual string) error {
		return &AssertionError{Trial: c.Trial, Expected: expected, Actual: actual, Rows: result.Rows}
	}

	row, ok := findRow(result.Rows, c.Trial)
	if !ok {
		return fail("a recorded row", "no row")
	}

	if c.Missing {
		if row.Responded {
			return fail("no response", fmt.Sprintf("key %s after %d ms", row.Response, row.RT))
		}
		return nil
	}

	if (c.Key != "" || c.Response != "" || c.RT != nil) && !row.Responded {
		return fail("a response", "no response")
	}

	if c.Key != "" && row.Response != c.Key {
		return fail("key "+c.Key, "key "+row.Response)
	}

	if c.Response != "" {
		want := category(c.Response)
		got, _ := result.Keys.Meaning(row.Response)
		if got != want {
			return fail("response "+string(want), fmt.Sprintf("response %s (key %s)", got, row.Response))
		}
	}

	if c.RT != nil && row.RT != *c.RT {
		return fail(fmt.Sprintf("rt %d ms", *c.RT), fmt.Sprintf("rt %d ms", row.RT))
	}

	return nil
}

func findRow(rows []trial.Result, number int) (trial.Result, bool) {
	for _, r := range rows {
		if r.Trial == number {
			return r, true
		}
	}
	return trial.Result{}, false
}
