package plant

import "leafwise/internal/domain/plant"

type listOutput struct {
	Body plant.ListResponse
}

type createInput struct {
	Body plant.CreateRequest
}

type output struct {
	Body response
}

type response struct {
	ID     int    `json:"id,omitempty"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type findInput struct {
	ID int `path:"id" example:"1" doc:"ID растения"`
}

type findOutput struct {
	Body findResponse
}

type findResponse struct {
	Status string       `json:"status"`
	Plant  *plant.Plant `json:"plant"`
	Error  string       `json:"error,omitempty"`
}

type updateInput struct {
	ID   int `path:"id" example:"1" doc:"ID растения"`
	Body plant.UpdateRequest
}

type searchInput struct {
	Species  string `query:"species" doc:"Фильтр по виду (подстрока)"`
	Location string `query:"location" doc:"Фильтр по расположению (подстрока)"`
	Limit    int    `query:"limit" minimum:"1" maximum:"200" doc:"Размер страницы"`
	Offset   int    `query:"offset" minimum:"0"`
}

type searchOutput struct {
	Body plant.ListResponse
}
