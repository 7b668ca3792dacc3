// Package authz holds the ownership check used by every mutating entry point.
package authz

import "github.com/google/uuid"

// IsOwner reports whether callerID names ownerID.
func IsOwner(ownerID uuid.UUID, callerID string) bool {
	caller, err := uuid.Parse(callerID)
	if err != nil {
		return false
	}
	return caller == ownerID && ownerID != uuid.Nil
}

// RequireOwner returns denied unless callerID owns the resource.
func RequireOwner(ownerID uuid.UUID, callerID string, denied error) error {
	if !IsOwner(ownerID, callerID) {
		return denied
	}
	return nil
}
