package nmos

import "github.com/google/uuid"

// NewID returns a fresh identifier for a resource, grain or subscription.
func NewID() string {
	return uuid.NewString()
}
