// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios without inspecting
// driver-specific error strings themselves.
package repository

import "errors"

// ErrEmailExists is returned when a user insert violates the unique email
// constraint. Handlers translate this into an HTTP 400 response with the
// "user already exists" message.
var ErrEmailExists = errors.New("email already exists")

// ErrRecipeNotFound is returned when no recipe matches both the requested id
// and the acting user's id. Non-existence and ownership by another user are
// deliberately indistinguishable so that the API never leaks whether a
// foreign recipe id exists. Handlers translate this into HTTP 404.
var ErrRecipeNotFound = errors.New("recipe not found")
