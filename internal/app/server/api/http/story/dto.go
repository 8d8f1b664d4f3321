package story

import (
	"time"

	"leafwise/internal/domain/story"
)

type createInput struct {
	Body story.CreateRequest
}

type createOutput struct {
	Body createResponse
}

type createResponse struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
}

type feedInput struct {
	Cursor string `query:"cursor" doc:"Позиция предыдущей страницы"`
	Limit  int    `query:"limit" minimum:"0" maximum:"100"`
}

type feedOutput struct {
	Body story.FeedResponse
}

type idInput struct {
	ID string `path:"id" doc:"ID истории"`
}

type viewOutput struct {
	Body *story.Story
}

type deleteOutput struct {
	Body statusResponse
}

type statusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
