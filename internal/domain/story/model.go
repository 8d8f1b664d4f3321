package story

import "time"

// Story — короткая публикация о растении; живет 24 часа, после чего
// исчезает из ленты и подбирается фоновой очисткой
type Story struct {
	ID        string     `json:"id"`
	UserID    int        `json:"user_id"`
	PlantID   int        `json:"plant_id"`
	Caption   string     `json:"caption,omitempty"`
	PhotoID   string     `json:"photo_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	ViewCount int        `json:"view_count"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Expired сообщает, истек ли срок жизни истории на момент now
func (s *Story) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
