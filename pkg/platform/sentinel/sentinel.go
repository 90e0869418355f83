// Package sentinel defines the errors the storage and registry layers
// use to report resource facts. Callers match with errors.Is and decide
// at the service boundary which domain error a fact becomes; a missing
// case is a 404 on the API but a no-op for the audit worker.
package sentinel

import "errors"

var (
	// ErrNotFound reports that the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict reports that the entity already exists or that the
	// write collided with a concurrent one.
	ErrConflict = errors.New("conflict")
)
