package plantid

import "context"

type Repository interface {
	Save(ctx context.Context, ident *Identification) error
	History(ctx context.Context, userID int, limit int) ([]Identification, error)
	Get(ctx context.Context, userID int, id string) (*Identification, error)
}

// Identifier — модель распознавания вида по фотографии
type Identifier interface {
	IdentifyPlant(ctx context.Context, image []byte, mimeType string) ([]Candidate, error)
	ModelName() string
}
