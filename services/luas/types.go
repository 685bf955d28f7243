package luas

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"luas-schedule/models/entities"
	"time"

	"github.com/jonboulle/clockwork"
	"gopkg.in/resty.v1"
)

const (
	forecastAction = "forecast"
	inbound        = "inbound"
	outbound       = "outbound"

	// one year; larger due times are not forecasts
	maxDueMinutes = 24 * 60 * 365
)

type FailureKind int

const (
	FetchFailure FailureKind = iota
	ParseFailure
)

func (k FailureKind) String() string {
	if k == ParseFailure {
		return "parse failure"
	}
	return "fetch failure"
}

var (
	ErrFetchFailed = errors.New("error communicating with Luas API")
	ErrParseFailed = errors.New("error parsing Luas XML response")
)

// UpdateFailedError is the single error returned by a failed fetch cycle.
type UpdateFailedError struct {
	Kind FailureKind
	Err  error
}

func (e *UpdateFailedError) Error() string {
	if e.Kind == ParseFailure {
		return fmt.Sprintf("%v: %v", ErrParseFailed, e.Err)
	}
	return fmt.Sprintf("%v: %v", ErrFetchFailed, e.Err)
}

func (e *UpdateFailedError) Unwrap() error {
	return e.Err
}

func (e *UpdateFailedError) Is(target error) bool {
	switch target {
	case ErrFetchFailed:
		return e.Kind == FetchFailure
	case ErrParseFailed:
		return e.Kind == ParseFailure
	}
	return false
}

type forecastXML struct {
	XMLName    xml.Name
	Stop       string         `xml:"stop,attr"`
	StopAbv    string         `xml:"stopAbv,attr"`
	Messages   []string       `xml:"message"`
	Directions []directionXML `xml:"direction"`
}

type directionXML struct {
	Name  string    `xml:"name,attr"`
	Trams []tramXML `xml:"tram"`
}

type tramXML struct {
	DueMins     string `xml:"dueMins,attr"`
	Destination string `xml:"destination,attr"`
}

type Service interface {
	FetchForecast(ctx context.Context, stopCode string, stopName string) (entities.ForecastRecord, error)
}

type Impl struct {
	baseURL  string
	timeout  time.Duration
	client   *resty.Client
	clock    clockwork.Clock
	location *time.Location
}
