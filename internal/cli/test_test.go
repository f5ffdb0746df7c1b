package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scenariosDir = filepath.Join("..", "..", "testdata", "scenarios")

func executeTest(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewTestCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// copyScenario copies one checked-in scenario into a fresh directory.
func copyScenario(t *testing.T, name string) (string, string) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(scenariosDir, name+".yaml"))
	require.NoError(t, err)
	dir := t.TempDir()
	path := filepath.Join(dir, name+".yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return dir, path
}

func TestTestCommandAllScenarios(t *testing.T) {
	out, err := executeTest(t, "text", scenariosDir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ row_then_column")
	assert.Contains(t, out, "✓ named_subject_row_conflict")
	assert.Contains(t, out, "Test Summary: 6 passed, 0 failed, 6 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommandJSON(t *testing.T) {
	out, err := executeTest(t, "json", scenariosDir)
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 6, resp.Data.Passed)
	assert.Equal(t, 0, resp.Data.Failed)
	assert.Len(t, resp.Data.Scenarios, 6)
}

func TestTestCommandFilter(t *testing.T) {
	out, err := executeTest(t, "text", scenariosDir, "--filter", "row_*")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ row_then_column")
	assert.NotContains(t, out, "root_container")
	assert.Contains(t, out, "1 total")

	_, err = executeTest(t, "text", scenariosDir, "--filter", "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandSingleFile(t *testing.T) {
	out, err := executeTest(t, "text", filepath.Join(scenariosDir, "root_container.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
}

func TestTestCommandUpdateGolden(t *testing.T) {
	for _, name := range []string{"row_then_column", "named_subject_row_conflict"} {
		t.Run(name, func(t *testing.T) {
			dir, path := copyScenario(t, name)

			out, err := executeTest(t, "text", path, "--update")
			require.NoError(t, err, out)
			assert.Contains(t, out, "(golden updated)")

			written, err := os.ReadFile(filepath.Join(dir, "golden", name+".golden"))
			require.NoError(t, err)
			want, err := os.ReadFile(filepath.Join("..", "harness", "testdata", "golden", name+".golden"))
			require.NoError(t, err)
			assert.Equal(t, string(want), string(written))

			// Matching golden passes
			out, err = executeTest(t, "text", dir)
			require.NoError(t, err, out)

			// Drifted golden fails
			require.NoError(t, os.WriteFile(filepath.Join(dir, "golden", name+".golden"), []byte(`{}`), 0644))
			out, err = executeTest(t, "text", dir)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.Contains(t, out, "outcome does not match golden file")
		})
	}
}

func TestTestCommandFailingScenario(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wrong.yaml"), []byte(`
name: wrong
triples:
  - ["?s", "?p", "?o"]
expect:
  roles:
    "?s": ContainerTable
`), 0644))

	out, err := executeTest(t, "text", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong")
	assert.Contains(t, out, "roles[?s]: expected ContainerTable, got Subject")
	assert.Contains(t, out, "Test Summary: 0 passed, 1 failed, 1 total")
}

func TestTestCommandFailingScenarioJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: broken\n"), 0644))

	out, err := executeTest(t, "json", dir)
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
}

func TestTestCommandEmptyDirectory(t *testing.T) {
	out, err := executeTest(t, "text", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTestCommandMissingPath(t *testing.T) {
	out, err := executeTest(t, "text", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "scenario path not found")
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := executeTest(t, "text")
	require.Error(t, err)
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("scenarios", "golden", "row_then_column.golden"),
		goldenFilePath(filepath.Join("scenarios", "row_then_column.yaml")))
}
