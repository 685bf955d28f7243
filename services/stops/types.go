package stops

import (
	"context"
	"errors"
	"luas-schedule/models/constants"
	"luas-schedule/models/entities"
	"luas-schedule/pkg/observer"
	"luas-schedule/repositories/stopentries"
	"luas-schedule/services/assets"
	"luas-schedule/services/luas"
	"luas-schedule/services/poller"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
)

var (
	ErrUnknownLine       = errors.New("unknown Luas line")
	ErrUnknownStop       = errors.New("unknown Luas stop")
	ErrAlreadyConfigured = errors.New("stop is already configured")
	ErrNotConfigured     = errors.New("stop is not configured")
)

type Entry struct {
	entities.StopEntry
	Loaded bool           `json:"loaded"`
	Status *poller.Status `json:"status,omitempty"`
}

type Service interface {
	Lines() []string
	StopsForLine(line string) ([]constants.Stop, error)
	Add(line string, stopCode string) (entities.StopEntry, error)
	Remove(stopCode string) error
	Restore() error
	Entries() ([]Entry, error)
	Poller(stopCode string) (poller.Service, bool)
	RegisterObserver(o observer.Observer)
	Count() int
	Shutdown()
}

type Impl struct {
	scheduler  gocron.Scheduler
	repository stopentries.Repository
	fetcher    luas.Service
	installer  assets.Service
	interval   time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	pollers   map[string]*poller.Impl
	pending   map[string]entities.StopEntry
	adding    map[string]struct{}
	observers []observer.Observer
	retryJob  gocron.Job
}
