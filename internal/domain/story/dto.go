package story

type CreateRequest struct {
	PlantID int    `json:"plant_id" minimum:"1"`
	Caption string `json:"caption,omitempty" maxLength:"500"`
	PhotoID string `json:"photo_id,omitempty"`
}

type FeedQuery struct {
	Cursor string
	Limit  int
}

type FeedResponse struct {
	Stories    []Story `json:"stories"`
	NextCursor string  `json:"next_cursor,omitempty"`
	HasMore    bool    `json:"has_more"`
}
