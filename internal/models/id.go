package models

import "github.com/google/uuid"

// ensureID assigns a fresh UUID when the caller did not set one. IDs are
// generated application-side so every supported database sees the same
// insert shape.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
