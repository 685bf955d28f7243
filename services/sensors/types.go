package sensors

import (
	"luas-schedule/models/entities"
	"luas-schedule/pkg/observer"
	"sync"

	"github.com/jonboulle/clockwork"
)

const (
	Inbound  = "inbound"
	Outbound = "outbound"

	noTrams = "No trams"

	iconInbound  = "mdi:tram"
	iconOutbound = "mdi:tram-side"
	iconStatus   = "mdi:information-outline"
)

type SensorState struct {
	UniqueID   string         `json:"uniqueId"`
	Name       string         `json:"name"`
	Icon       string         `json:"icon"`
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes"`
}

type Service interface {
	observer.Observer
	Sensors(stopCode string) []SensorState
	Sensor(uniqueID string) (SensorState, bool)
}

type stopData struct {
	stopCode  string
	stopName  string
	record    entities.ForecastRecord
	stale     bool
	lastError string
}

type Impl struct {
	clock clockwork.Clock
	mu    sync.RWMutex
	stops map[string]*stopData
}
