package infer

import "github.com/google/uuid"

// RunIDGenerator produces the id that correlates log records of one run.
// Implemented by UUIDGenerator (production) and testutil.FixedRunIDs (tests).
type RunIDGenerator interface {
	Generate() string
}

// UUIDGenerator generates time-sortable UUIDv7 run ids.
//
// Thread-safety: UUIDGenerator is stateless and safe for concurrent use.
type UUIDGenerator struct{}

// Generate returns a new hyphenated UUIDv7.
func (UUIDGenerator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
