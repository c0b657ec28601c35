package orgtree

import "github.com/google/uuid"

// IDGenerator mints identifiers for entities newly introduced by a parse or
// an import. The engines never invent their own identifier scheme.
type IDGenerator interface {
	NewID() uuid.UUID
}

type uuidGenerator struct{}

func (uuidGenerator) NewID() uuid.UUID { return uuid.New() }

// NewUUIDGenerator returns the default random-UUID generator.
func NewUUIDGenerator() IDGenerator { return uuidGenerator{} }
