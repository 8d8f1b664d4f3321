package plant

import (
	"time"
)

// Plant — профиль растения пользователя
type Plant struct {
	ID           int        `json:"id"`
	UserID       int        `json:"user_id"`
	Name         string     `json:"name"`
	Species      string     `json:"species,omitempty"`
	Location     string     `json:"location,omitempty"` // подоконник, балкон, сад
	Hemisphere   string     `json:"hemisphere,omitempty" enum:"north,south"`
	AcquiredAt   *time.Time `json:"acquired_at,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	Version      int        `json:"version"`
	LastModified time.Time  `json:"last_modified"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// SearchCriteria критерии поиска растений
type SearchCriteria struct {
	Species  string
	Location string
	Limit    int
	Offset   int
}
