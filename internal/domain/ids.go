package domain

import "github.com/google/uuid"

// IDGenerator hands out ids for groups and attributes.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues version 7 UUIDs: a millisecond timestamp followed by
// random bits, so ids created in the same millisecond still differ.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
