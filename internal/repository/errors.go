// Package repository defines sentinel error values shared by the data
// access layer. Higher layers translate these into their own failure
// kinds: the identity service folds ErrNotFound into its generic
// authentication error so a missing account is indistinguishable from a
// wrong password, while ErrEmailExists surfaces as a registration
// conflict.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert violates the unique email
// constraint. Email uniqueness is enforced by the database, not by the
// application; this sentinel makes the violation distinguishable from
// other persistence failures.
var ErrEmailExists = errors.New("email already exists")
