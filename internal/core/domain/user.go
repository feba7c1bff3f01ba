package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Balance   int64      `json:"balance"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Identity is what the identity collaborator yields for a verified credential.
type Identity struct {
	UserID  uuid.UUID
	IsAdmin bool
}
