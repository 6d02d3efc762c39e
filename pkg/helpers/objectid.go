package helpers

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID returns a new 24-char hex ObjectID string.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsValidID reports whether s is a well-formed ObjectID hex string.
func IsValidID(s string) bool {
	return primitive.IsValidObjectID(s)
}
