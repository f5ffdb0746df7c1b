package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fxbgp/internal/config"
	"github.com/roach88/fxbgp/internal/fxerr"
	"github.com/roach88/fxbgp/internal/term"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fxbgp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, term.DataNamespace, cfg.Naming.Namespace)
	assert.Equal(t, term.RDFNamespace+"_", cfg.Naming.RowIndexPrefix)
	assert.Equal(t, []string{term.RDFType}, cfg.Naming.TypePredicates)
	assert.Equal(t, term.FXRoot, cfg.Naming.RootType)
	assert.Empty(t, cfg.Naming.Tables)
	assert.Empty(t, cfg.Schema.Path)
	assert.False(t, cfg.Infer.StrictSubjects)
	assert.Equal(t, slog.LevelInfo, cfg.Log.SlogLevel())
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
naming:
  namespace: "http://example.org/data/"
  tables:
    - name: People
      columns: [name, Age]
    - name: Orders
infer:
  strict_subjects: true
log:
  level: debug
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/data/", cfg.Naming.Namespace)
	require.Len(t, cfg.Naming.Tables, 2)
	assert.Equal(t, "People", cfg.Naming.Tables[0].Name, "table names keep their case")
	assert.Equal(t, []string{"name", "Age"}, cfg.Naming.Tables[0].Columns)
	assert.Equal(t, map[string][]string{
		"People": {"name", "Age"},
		"Orders": nil,
	}, cfg.Naming.Columns())
	assert.True(t, cfg.Infer.StrictSubjects)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("FXBGP_NAMING_NAMESPACE", "http://env.example/")
	t.Setenv("FXBGP_INFER_STRICT_SUBJECTS", "true")
	t.Setenv("FXBGP_SCHEMA_PATH", "/tmp/source.db")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://env.example/", cfg.Naming.Namespace)
	assert.True(t, cfg.Infer.StrictSubjects)
	assert.Equal(t, "/tmp/source.db", cfg.Schema.Path)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, fxerr.HasCode(err, fxerr.CodeConfigLoadReadFailure))
}

func TestLoad_ValidationCalledAtLoadTime(t *testing.T) {
	path := writeConfig(t, `
log:
  level: loud
`)

	_, err := config.Load(path)
	require.Error(t, err)
	assert.True(t, fxerr.HasCode(err, fxerr.CodeConfigValidateInvalidValue))
	assert.Contains(t, err.Error(), "log.level")
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &config.Config{
		Naming: config.NamingConfig{
			Namespace:      "not-an-iri",
			RowIndexPrefix: term.RDFNamespace + "_",
			RootType:       term.FXRoot,
			Tables: []config.TableConfig{
				{Name: ""},
				{Name: "a/b"},
				{Name: "T", Columns: []string{"ok", ""}},
				{Name: "T"},
			},
		},
		Log: config.LogConfig{Level: "info"},
	}

	errs := cfg.Validate()
	messages := make([]string, len(errs))
	for i, err := range errs {
		messages[i] = err.Error()
	}

	assert.Len(t, errs, 6)
	assert.Contains(t, messages[0], "naming.namespace")
	assert.Contains(t, messages[1], "naming.type_predicates must not be empty")
	assert.Contains(t, messages[2], "naming.tables[0].name must not be empty")
	assert.Contains(t, messages[3], "must be a local name")
	assert.Contains(t, messages[4], "naming.tables[2].columns[1]")
	assert.Contains(t, messages[5], "declared twice")
}

func TestValidate_Valid(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Validate())
}
