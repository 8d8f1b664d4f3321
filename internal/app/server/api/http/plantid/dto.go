package plantid

import "leafwise/internal/domain/plantid"

type identifyInput struct {
	Body plantid.IdentifyRequest
}

type identifyOutput struct {
	Body *plantid.Identification
}

type historyInput struct {
	Limit int `query:"limit" minimum:"0" maximum:"100"`
}

type historyOutput struct {
	Body plantid.HistoryResponse
}

type findInput struct {
	ID string `path:"id" doc:"ID результата распознавания"`
}
