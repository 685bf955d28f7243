package api

import (
	"luas-schedule/models/entities"
	"luas-schedule/services/poller"
	"luas-schedule/services/sensors"
	"luas-schedule/services/stops"
)

type addStopRequest struct {
	Line string `json:"line"`
	Stop string `json:"stop"`
}

type linesResponse struct {
	Lines []string `json:"lines"`
}

type forecastResponse struct {
	Forecast *entities.ForecastRecord `json:"forecast"`
	Status   poller.Status            `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Impl struct {
	stopService   stops.Service
	sensorService sensors.Service
}
