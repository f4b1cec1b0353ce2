package core

import "github.com/google/uuid"

// NewID generates a unique identifier for runs and evaluation records.
func NewID() string { return uuid.NewString() }
