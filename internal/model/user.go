// internal/model/user.go
package model

import "time"

// User is the internal row for an identity-provider account. ID is the
// provider's subject.
type User struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
