package domain

import "time"

type ID string

// User is created at registration and never mutated or deleted afterwards.
// Email is matched case-sensitively, exactly as stored.
type User struct {
	ID           ID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
