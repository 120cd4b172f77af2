package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewID returns a fresh object identifier in its hex form.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidID reports whether id has the shape of an object identifier
// (24 hex characters). It says nothing about whether a record exists.
func ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

// Now returns the current time in UTC truncated to the store's
// millisecond resolution.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
