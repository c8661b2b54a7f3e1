package postgres

import (
	"github.com/oklog/ulid/v2"
)

// ULIDGenerator issues lexicographically sortable IDs so wallet rows order
// by creation time without a separate sequence.
type ULIDGenerator struct{}

// NewULIDGenerator creates a ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate returns a new ULID string.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
