package poller

import (
	"context"
	"errors"
	"luas-schedule/models/entities"
	"luas-schedule/pkg/observer"
	"luas-schedule/services/luas"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/patrickmn/go-cache"
)

const (
	DefaultInterval = 1 * time.Minute
	forecastKey     = "forecast"
)

type State int

const (
	Uninitialized State = iota
	Refreshing
	Ready
	Stale
)

var stateNames = map[State]string{
	Uninitialized: "uninitialized",
	Refreshing:    "refreshing",
	Ready:         "ready",
	Stale:         "stale",
}

func (s State) String() string {
	return stateNames[s]
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

var (
	ErrAlreadyStarted    = errors.New("poller already started")
	ErrNotStarted        = errors.New("poller not started")
	ErrStopped           = errors.New("poller is stopped")
	ErrRefreshInProgress = errors.New("a refresh is already in progress")
)

type Config struct {
	StopCode string
	StopName string
	Interval time.Duration
	Clock    clockwork.Clock
}

type Status struct {
	StopCode          string    `json:"stopCode"`
	StopName          string    `json:"stopName"`
	State             State     `json:"state"`
	LastUpdateSuccess bool      `json:"lastUpdateSuccess"`
	LastError         string    `json:"lastError,omitempty"`
	LastAttemptAt     time.Time `json:"lastAttemptAt"`
	LastSuccessAt     time.Time `json:"lastSuccessAt"`
}

type Service interface {
	observer.Notifier
	Start(ctx context.Context) error
	Stop()
	Current() (entities.ForecastRecord, bool)
	LastError() error
	Status() Status
	RefreshNow(ctx context.Context) error
	OnChange(callback func(observer.Event)) func()
}

type Impl struct {
	config    Config
	fetcher   luas.Service
	scheduler gocron.Scheduler
	cache     *cache.Cache

	mu            sync.RWMutex
	state         State
	lastErr       error
	lastAttemptAt time.Time
	lastSuccessAt time.Time
	started       bool
	stopped       bool
	job           gocron.Job
	ctx           context.Context
	cancel        context.CancelFunc

	// held for the whole duration of a refresh
	refreshMu sync.Mutex

	observersMu    sync.Mutex
	observers      map[int]observer.Observer
	nextObserverID int
	pending        []pendingEvent

	// held while events are handed to observers
	deliverMu sync.Mutex
}

type pendingEvent struct {
	event     observer.Event
	observers []observer.Observer
}
