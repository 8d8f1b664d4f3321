package seasonal

import "leafwise/internal/domain/seasonal"

type plantInput struct {
	ID int `path:"id" example:"1" doc:"ID растения"`
}

type forecastOutput struct {
	Body *seasonal.Forecast
}

type overlayOutput struct {
	Body *seasonal.OverlayPayload
}
