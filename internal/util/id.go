package util

import "github.com/google/uuid"

// NewID returns a unique request identifier.
func NewID() string {
	return uuid.NewString()
}
