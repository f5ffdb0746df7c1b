package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/fxbgp/internal/canon"
)

// Snapshot renders a scenario outcome as the document stored in golden
// files:
//
//	{"result": {...}, "scenario": "name"}          on success
//	{"contradiction": {...}, "scenario": "name"}   on failure
func Snapshot(scenarioName string, result *Result) map[string]any {
	doc := map[string]any{"scenario": scenarioName}
	switch {
	case result.Contradiction != nil:
		doc["contradiction"] = result.Contradiction.Document()
	case result.Outcome != nil:
		doc["result"] = result.Outcome.Document()
	}
	return doc
}

// MarshalSnapshot returns the canonical JSON of Snapshot.
func MarshalSnapshot(scenarioName string, result *Result) ([]byte, error) {
	return canon.Marshal(Snapshot(scenarioName, result))
}

// RunWithGolden executes a scenario and compares its outcome against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if the scenario cannot be run.
// Test failure (via goldie) occurs if the outcome doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already computed result against a golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
