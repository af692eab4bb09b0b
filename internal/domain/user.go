package domain

import "time"

// User represents an authenticated principal of the catalog.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
}
