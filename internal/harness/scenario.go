package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/fxbgp/internal/infer"
	"github.com/roach88/fxbgp/internal/role"
)

// Scenario is one inference test case loaded from YAML.
type Scenario struct {
	// Name identifies the scenario and its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description"`

	// Prefixes extend the default rdf, xsd, fx and xyz prefixes.
	Prefixes map[string]string `yaml:"prefixes,omitempty"`

	// Conventions configure the naming oracle.
	Conventions Conventions `yaml:"conventions,omitempty"`

	// Triples is the pattern, one [subject, predicate, object] per entry.
	Triples [][3]string `yaml:"triples"`

	// Expect is the outcome the run must produce.
	Expect Expect `yaml:"expect"`
}

// Conventions mirrors naming.Options plus the engine's strict mode.
type Conventions struct {
	Namespace      string              `yaml:"namespace,omitempty"`
	RowIndexPrefix string              `yaml:"row_index_prefix,omitempty"`
	TypePredicates []string            `yaml:"type_predicates,omitempty"`
	RootType       string              `yaml:"root_type,omitempty"`
	Tables         map[string][]string `yaml:"tables,omitempty"`
	StrictSubjects bool                `yaml:"strict_subjects,omitempty"`
}

// Expect holds either role expectations or a contradiction expectation.
type Expect struct {
	// Roles maps node terms to role names (subset match).
	Roles map[string]string `yaml:"roles,omitempty"`

	// Stats, when set, must equal the run's stats exactly.
	Stats *ExpectStats `yaml:"stats,omitempty"`

	// Contradiction, when set, requires the run to fail.
	Contradiction *ExpectContradiction `yaml:"contradiction,omitempty"`
}

// ExpectStats is the expected work counters of a run.
type ExpectStats struct {
	Passes    int `yaml:"passes"`
	Proposals int `yaml:"proposals"`
	Changes   int `yaml:"changes"`
}

// ExpectContradiction describes the contradiction a failing run reports.
// Empty fields are not checked, except Kind which is required.
type ExpectContradiction struct {
	Kind     string `yaml:"kind"`
	Node     string `yaml:"node,omitempty"`
	Triple   *int   `yaml:"triple,omitempty"`
	Position string `yaml:"position,omitempty"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml and *.yml file in dir, sorted by path.
func LoadScenarios(dir string) ([]*Scenario, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if prev, ok := seen[s.Name]; ok {
			return nil, fmt.Errorf("%s: scenario %q already defined in %s", path, s.Name, prev)
		}
		seen[s.Name] = path
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if len(s.Triples) == 0 {
		return fmt.Errorf("triples list is required and must be non-empty")
	}

	e := s.Expect
	if e.Contradiction == nil && e.Roles == nil && e.Stats == nil {
		return fmt.Errorf("expect must name roles, stats or a contradiction")
	}

	if e.Contradiction != nil {
		if e.Roles != nil || e.Stats != nil {
			return fmt.Errorf("expect: contradiction cannot be combined with roles or stats")
		}
		switch infer.ContradictionKind(e.Contradiction.Kind) {
		case infer.UnrecognizedEntity, infer.TypeConflict:
		case "":
			return fmt.Errorf("expect.contradiction: kind is required")
		default:
			return fmt.Errorf("expect.contradiction: unknown kind %q", e.Contradiction.Kind)
		}
		switch e.Contradiction.Position {
		case "", "subject", "predicate", "object":
		default:
			return fmt.Errorf("expect.contradiction: unknown position %q", e.Contradiction.Position)
		}
	}

	for node, name := range e.Roles {
		if _, err := role.ParseRole(name); err != nil {
			return fmt.Errorf("expect.roles[%s]: %w", node, err)
		}
	}

	return nil
}
