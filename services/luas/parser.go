package luas

import (
	"encoding/xml"
	"fmt"
	"luas-schedule/models/entities"
	"luas-schedule/utils/dates"
	"strconv"
	"strings"
	"time"
)

// ParseForecast turns a forecast document into a record, using now as the
// base of every estimated arrival time.
func ParseForecast(body []byte, stopCode string, stopName string, now time.Time) (entities.ForecastRecord, error) {
	var doc forecastXML
	if err := xml.Unmarshal(body, &doc); err != nil {
		return entities.ForecastRecord{}, &UpdateFailedError{Kind: ParseFailure, Err: err}
	}

	record := entities.ForecastRecord{
		StopDisplayName: stopName,
		StopCode:        stopCode,
		Inbound:         []entities.TramArrival{},
		Outbound:        []entities.TramArrival{},
		FetchedAt:       now,
	}
	if doc.Stop != "" {
		record.StopDisplayName = doc.Stop
	}
	if doc.StopAbv != "" {
		record.StopCode = doc.StopAbv
	}
	if len(doc.Messages) > 0 {
		record.ServiceMessage = doc.Messages[0]
	}

	for _, direction := range doc.Directions {
		trams := make([]entities.TramArrival, 0, len(direction.Trams))
		for _, tram := range direction.Trams {
			trams = append(trams, NewTramArrival(tram.DueMins, tram.Destination, now))
		}

		name := strings.ToLower(direction.Name)
		if strings.Contains(name, inbound) {
			record.Inbound = trams
		} else if strings.Contains(name, outbound) {
			record.Outbound = trams
		}
	}

	return record, nil
}

// NewTramArrival derives the due label and arrival clock time of a tram from
// the raw dueMins value.
func NewTramArrival(dueMins string, destination string, now time.Time) entities.TramArrival {
	arrival := entities.TramArrival{
		Destination:   destination,
		DueLabel:      entities.DueUnknown,
		DueMinutesRaw: dueMins,
	}

	if dueMins == entities.DueNow {
		arrival.DueLabel = entities.DueNow
		arrival.EstimatedArrivalClockTime = dates.ClockTimeAfter(now, 0)
		return arrival
	}

	if minutes, ok := parseMinutes(dueMins); ok {
		arrival.DueLabel = fmt.Sprintf("%s min", dueMins)
		arrival.EstimatedArrivalClockTime = dates.ClockTimeAfter(now, minutes)
	}

	return arrival
}

func parseMinutes(value string) (int, bool) {
	if value == "" {
		return 0, false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return 0, false
		}
	}

	minutes, err := strconv.Atoi(value)
	if err != nil || minutes > maxDueMinutes {
		return 0, false
	}
	return minutes, true
}
