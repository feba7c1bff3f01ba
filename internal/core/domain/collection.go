package domain

import (
	"time"

	"github.com/google/uuid"
)

type Collection struct {
	ID        uuid.UUID `json:"id"`
	CreatorID uuid.UUID `json:"creator_id"`
	Title     string    `json:"title"`
	SaveCount int64     `json:"save_count"`
	LikeCount int64     `json:"like_count"`
	ViewCount int64     `json:"view_count"`
	CreatedAt time.Time `json:"created_at"`
}

// MembershipKind names a per-(user, collection) record that drives a counter.
type MembershipKind string

const (
	MembershipSave MembershipKind = "save"
	MembershipLike MembershipKind = "like"
)

var membershipNamespaces = map[MembershipKind]uuid.UUID{
	MembershipSave: uuid.MustParse("b2e7a4a0-1c55-4f0e-8a43-3d2c9f6e7d10"),
	MembershipLike: uuid.MustParse("0d9c6e1f-7b2a-4c83-a6f4-58e1b0c2d9e3"),
}

func MembershipID(kind MembershipKind, userID, collectionID uuid.UUID) uuid.UUID {
	return pairID(membershipNamespaces[kind], userID, collectionID)
}

type Membership struct {
	ID           uuid.UUID      `json:"id"`
	Kind         MembershipKind `json:"kind"`
	UserID       uuid.UUID      `json:"user_id"`
	CollectionID uuid.UUID      `json:"collection_id"`
	CreatedAt    time.Time      `json:"created_at"`
}

type ToggleResult struct {
	CollectionID uuid.UUID `json:"collection_id"`
	Active       bool      `json:"active"`
	Count        int64     `json:"count"`
}
