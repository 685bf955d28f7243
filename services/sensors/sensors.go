package sensors

import (
	"fmt"
	"luas-schedule/models/entities"
	"luas-schedule/pkg/observer"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jonboulle/clockwork"
)

func New(clock clockwork.Clock) *Impl {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Impl{clock: clock, stops: map[string]*stopData{}}
}

func (service *Impl) OnNotify(e observer.Event) {
	service.mu.Lock()
	defer service.mu.Unlock()

	switch e.E {
	case observer.ForecastEvent:
		if e.Forecast == nil {
			return
		}
		service.stops[e.StopCode] = &stopData{
			stopCode: e.StopCode,
			stopName: e.StopName,
			record:   e.Forecast.Clone(),
		}
	case observer.UpdateFailedEvent:
		// Entities only exist once a forecast was received.
		if data, found := service.stops[e.StopCode]; found {
			data.stale = true
			if e.Err != nil {
				data.lastError = e.Err.Error()
			}
		}
	case observer.UnloadEvent:
		delete(service.stops, e.StopCode)
	}
}

// Sensors returns the next inbound, next outbound and status sensors of a
// stop, or nothing when the stop has no forecast yet.
func (service *Impl) Sensors(stopCode string) []SensorState {
	service.mu.RLock()
	defer service.mu.RUnlock()

	data, found := service.stops[stopCode]
	if !found {
		return nil
	}
	return []SensorState{
		service.nextTram(data, Inbound),
		service.nextTram(data, Outbound),
		service.status(data),
	}
}

func (service *Impl) Sensor(uniqueID string) (SensorState, bool) {
	service.mu.RLock()
	codes := make([]string, 0, len(service.stops))
	for code := range service.stops {
		codes = append(codes, code)
	}
	service.mu.RUnlock()
	sort.Strings(codes)

	for _, code := range codes {
		for _, sensor := range service.Sensors(code) {
			if sensor.UniqueID == uniqueID {
				return sensor, true
			}
		}
	}
	return SensorState{}, false
}

func (service *Impl) nextTram(data *stopData, direction string) SensorState {
	trams := data.record.Inbound
	icon := iconInbound
	if direction == Outbound {
		trams = data.record.Outbound
		icon = iconOutbound
	}

	state := noTrams
	var next entities.TramArrival
	if len(trams) > 0 {
		next = trams[0]
		state = next.DueLabel
	}

	attributes := service.commonAttributes(data)
	attributes["destination"] = next.Destination
	attributes["arrival_time"] = next.EstimatedArrivalClockTime
	attributes["direction"] = direction
	attributes["message"] = data.record.ServiceMessage
	attributes["all_trams"] = append([]entities.TramArrival{}, trams...)

	return SensorState{
		UniqueID:   fmt.Sprintf("%s_%s_next", data.stopCode, direction),
		Name:       fmt.Sprintf("%s %s Next", data.stopName, titleCase(direction)),
		Icon:       icon,
		State:      state,
		Attributes: attributes,
	}
}

func (service *Impl) status(data *stopData) SensorState {
	attributes := service.commonAttributes(data)
	attributes["inbound_count"] = len(data.record.Inbound)
	attributes["outbound_count"] = len(data.record.Outbound)

	return SensorState{
		UniqueID:   fmt.Sprintf("%s_status", data.stopCode),
		Name:       fmt.Sprintf("%s Status", data.stopName),
		Icon:       iconStatus,
		State:      data.record.ServiceMessage,
		Attributes: attributes,
	}
}

func (service *Impl) commonAttributes(data *stopData) map[string]any {
	attributes := map[string]any{
		"stop_name":    data.stopName,
		"stop_code":    data.stopCode,
		"last_updated": humanize.RelTime(data.record.FetchedAt, service.clock.Now(), "ago", "from now"),
		"stale":        data.stale,
	}
	if data.lastError != "" {
		attributes["last_error"] = data.lastError
	}
	return attributes
}

func titleCase(value string) string {
	if value == "" {
		return value
	}
	return strings.ToUpper(value[:1]) + value[1:]
}
