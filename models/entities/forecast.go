package entities

import "time"

const (
	DueNow     = "DUE"
	DueUnknown = "Unknown"
)

type TramArrival struct {
	Destination               string `json:"destination"`
	DueLabel                  string `json:"due"`
	DueMinutesRaw             string `json:"dueMins"`
	EstimatedArrivalClockTime string `json:"arrivalTime"`
}

type ForecastRecord struct {
	StopDisplayName string        `json:"stop"`
	StopCode        string        `json:"stopCode"`
	ServiceMessage  string        `json:"message"`
	Inbound         []TramArrival `json:"inbound"`
	Outbound        []TramArrival `json:"outbound"`
	FetchedAt       time.Time     `json:"lastUpdated"`
}

// Clone returns a copy that shares no slice with the receiver.
func (r ForecastRecord) Clone() ForecastRecord {
	clone := r
	clone.Inbound = append(make([]TramArrival, 0, len(r.Inbound)), r.Inbound...)
	clone.Outbound = append(make([]TramArrival, 0, len(r.Outbound)), r.Outbound...)
	return clone
}
