// Package model defines the records shared by the repository, service and
// handler layers.
package model

import "time"

// Recognized role values.  The storage layer keeps role as an open string;
// these constants are the closed set consulted at authorization points.
const (
    RoleUser  = "user"
    RoleAdmin = "admin"
)

// User mirrors the 'users' table.  The identifier is an opaque UUID
// assigned once at registration and never reused.  PasswordHash holds the
// bcrypt output and must never be serialized back to clients; handlers
// build separate response types instead of exposing this struct.
//
// Fields:
//  ID           – users.id (UUID string, immutable after creation)
//  Name         – users.name (display name)
//  Email        – users.email (unique, matched exactly as stored)
//  Role         – users.role (open string tag, e.g. "user"/"admin")
//  PasswordHash – users.password_hash (bcrypt, never the raw password)
//  Age          – users.age (optional)
//  CreatedAt    – users.created_at
//  UpdatedAt    – users.updated_at
type User struct {
    ID           string
    Name         string
    Email        string
    Role         string
    PasswordHash string
    Age          *int
    CreatedAt    time.Time
    UpdatedAt    time.Time
}
