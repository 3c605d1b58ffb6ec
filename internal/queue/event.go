// Package queue defines message payloads exchanged over the message broker
// together with the publisher and the background consumer that drains them.
package queue

// UserRegisteredEvent is published when a registration succeeds. It carries
// enough information for downstream consumers to log or notify without
// querying the primary database. The password hash is never part of any
// event payload.
type UserRegisteredEvent struct {
    UserID       string `json:"user_id"`
    Name         string `json:"name"`
    Email        string `json:"email"`
    Role         string `json:"role"`
    RegisteredAt string `json:"registered_at"`
}
