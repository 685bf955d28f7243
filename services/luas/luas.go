package luas

import (
	"context"
	"fmt"
	"luas-schedule/models/constants"
	"luas-schedule/models/entities"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"gopkg.in/resty.v1"
)

func New(baseURL string, timeout time.Duration, clock clockwork.Clock, location *time.Location) *Impl {
	if location == nil {
		location = time.Local
	}

	return &Impl{
		baseURL:  baseURL,
		timeout:  timeout,
		client:   resty.New().SetRetryCount(0),
		clock:    clock,
		location: location,
	}
}

// FetchForecast performs one request/response/parse cycle for a stop.
func (service *Impl) FetchForecast(ctx context.Context, stopCode string, stopName string) (entities.ForecastRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, service.timeout)
	defer cancel()

	log.Debug().
		Str(constants.LogStopCode, stopCode).
		Str(constants.LogURL, service.baseURL).
		Msg("Fetching Luas forecast")

	resp, err := service.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"action":  forecastAction,
			"stop":    stopCode,
			"encrypt": "false",
		}).
		Get(service.baseURL)
	if err != nil {
		return entities.ForecastRecord{}, &UpdateFailedError{Kind: FetchFailure, Err: err}
	}

	if !resp.IsSuccess() {
		return entities.ForecastRecord{}, &UpdateFailedError{
			Kind: FetchFailure,
			Err:  fmt.Errorf("API request failed with status: %d", resp.StatusCode()),
		}
	}

	now := service.clock.Now().In(service.location)
	return ParseForecast(resp.Body(), stopCode, stopName, now)
}
