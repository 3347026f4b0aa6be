package service

import "github.com/google/uuid"

// isUUID reports whether id can be looked up in a uuid column. Anything else
// is treated as an unknown record rather than sent to the database.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
