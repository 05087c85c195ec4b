package model

import "time"

// User represents an application user record as stored in the `users` table.
// Each field corresponds to a column in the database. The json tags are
// omitted here because these structs are used internally by the repository
// layer; handlers define separate response types with appropriate JSON tags.
// The password hash must never leave the repository/handler boundary in a
// response body.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Name         – display name shown on the public recipe feed.
//	Email        – unique email address used as the login key.
//	PasswordHash – bcrypt hashed password.
//	CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	CreatedAt    time.Time // users.created_at
}
