// Package harness runs role-inference scenarios as executable contract
// tests.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: row_then_column
//	description: "A table reaches a column through one of its rows"
//	prefixes:
//	  ex: http://example.org/
//	conventions:
//	  namespace: http://example.org/
//	  tables:
//	    Table1: [colA]
//	  strict_subjects: false
//	triples:
//	  - ["?x", "rdf:_1", "?row"]
//	  - ["?row", "ex:colA", "?v"]
//	expect:
//	  roles:
//	    "?x": ContainerTable
//	    "?row": ContainerRow
//	  stats: { passes: 3, proposals: 18, changes: 6 }
//
// A scenario that must fail names the contradiction instead:
//
//	expect:
//	  contradiction:
//	    kind: type-conflict
//	    node: ex:Row5
//	    triple: 1
//	    position: object
//
// Role expectations are a subset match: nodes not listed are not checked.
// Node keys and contradiction nodes use the same term notation as triples.
//
// # Determinism
//
// Every run uses a fixed run id and a discarding logger, so the document
// produced for golden comparison depends only on the scenario.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/row_then_column.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        fmt.Println(e)
//	    }
//	}
//
// In tests, compare against testdata/golden/{name}.golden with:
//
//	err := harness.RunWithGolden(t, scenario)
//
// Regenerate golden files with:
//
//	go test ./internal/harness -update
package harness
