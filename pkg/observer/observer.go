package observer

import "luas-schedule/models/entities"

type EventType int

const (
	ForecastEvent     EventType = 1
	UpdateFailedEvent EventType = 2
	UnloadEvent       EventType = 3
)

type Event struct {
	E        EventType
	StopCode string
	StopName string
	Forecast *entities.ForecastRecord
	Err      error
}

func NewForecastEvent(stopCode string, stopName string, record entities.ForecastRecord) Event {
	return Event{E: ForecastEvent, StopCode: stopCode, StopName: stopName, Forecast: &record}
}

type Observer interface {
	OnNotify(Event)
}

// Func adapts a plain function to an Observer.
type Func func(Event)

func (f Func) OnNotify(e Event) {
	f(e)
}

type Notifier interface {
	Subscribe(Observer) int
	Unsubscribe(int)
}
