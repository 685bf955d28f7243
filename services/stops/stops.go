package stops

import (
	"context"
	"errors"
	"fmt"
	"luas-schedule/models/constants"
	"luas-schedule/models/entities"
	"luas-schedule/pkg/observer"
	"luas-schedule/repositories/stopentries"
	"luas-schedule/services/assets"
	"luas-schedule/services/luas"
	"luas-schedule/services/poller"
	"strings"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

func New(scheduler gocron.Scheduler,
	repository stopentries.Repository,
	fetcher luas.Service,
	installer assets.Service,
	interval time.Duration) (*Impl, error) {
	ctx, cancel := context.WithCancel(context.Background())
	service := &Impl{
		scheduler:  scheduler,
		repository: repository,
		fetcher:    fetcher,
		installer:  installer,
		interval:   interval,
		ctx:        ctx,
		cancel:     cancel,
		pollers:    map[string]*poller.Impl{},
		pending:    map[string]entities.StopEntry{},
		adding:     map[string]struct{}{},
	}

	if service.interval <= 0 {
		service.interval = poller.DefaultInterval
	}

	job, errJob := scheduler.NewJob(
		gocron.DurationJob(service.interval),
		gocron.NewTask(func() { service.retryPending() }),
		gocron.WithName("Retry failed stop setups"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if errJob != nil {
		cancel()
		return nil, errJob
	}
	service.retryJob = job

	return service, nil
}

func (service *Impl) Lines() []string {
	var names []string
	for _, line := range constants.GetLines() {
		names = append(names, line.Name)
	}
	return names
}

func (service *Impl) StopsForLine(line string) ([]constants.Stop, error) {
	for _, l := range constants.GetLines() {
		if l.Name == line {
			return l.Stops, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLine, line)
}

// lookup resolves the wizard choice. An empty line searches every line.
func (service *Impl) lookup(line string, stopCode string) (entities.StopEntry, error) {
	stopCode = strings.ToUpper(strings.TrimSpace(stopCode))

	lines := constants.GetLines()
	if line != "" {
		stops, err := service.StopsForLine(line)
		if err != nil {
			return entities.StopEntry{}, err
		}
		lines = []constants.Line{{Name: line, Stops: stops}}
	}

	for _, l := range lines {
		for _, stop := range l.Stops {
			if stop.Code == stopCode {
				return entities.StopEntry{StopCode: stop.Code, StopName: stop.Name, Line: l.Name}, nil
			}
		}
	}
	return entities.StopEntry{}, fmt.Errorf("%w: %q", ErrUnknownStop, stopCode)
}

// Add completes the selection wizard: the stop is polled once and, when that
// first refresh succeeds, saved and kept polling.
func (service *Impl) Add(line string, stopCode string) (entities.StopEntry, error) {
	entry, err := service.lookup(line, stopCode)
	if err != nil {
		return entry, err
	}

	if errReserve := service.reserve(entry.StopCode); errReserve != nil {
		return entry, errReserve
	}
	defer service.release(entry.StopCode)

	if _, errGet := service.repository.Get(entry.StopCode); errGet == nil {
		return entry, ErrAlreadyConfigured
	} else if !errors.Is(errGet, stopentries.ErrNotFound) {
		return entry, errGet
	}

	p, err := service.setup(entry)
	if err != nil {
		return entry, err
	}

	if errCreate := service.repository.Create(entry); errCreate != nil {
		p.Stop()
		if errors.Is(errCreate, stopentries.ErrAlreadyExists) {
			return entry, ErrAlreadyConfigured
		}
		return entry, errCreate
	}

	service.mu.Lock()
	service.pollers[entry.StopCode] = p
	service.mu.Unlock()

	log.Info().
		Str(constants.LogStopCode, entry.StopCode).
		Str(constants.LogStopName, entry.StopName).
		Str(constants.LogLine, entry.Line).
		Msg("Stop configured")
	return entry, nil
}

func (service *Impl) reserve(stopCode string) error {
	service.mu.Lock()
	defer service.mu.Unlock()

	_, loaded := service.pollers[stopCode]
	_, pending := service.pending[stopCode]
	_, adding := service.adding[stopCode]
	if loaded || pending || adding {
		return ErrAlreadyConfigured
	}
	service.adding[stopCode] = struct{}{}
	return nil
}

func (service *Impl) release(stopCode string) {
	service.mu.Lock()
	defer service.mu.Unlock()
	delete(service.adding, stopCode)
}

func (service *Impl) setup(entry entities.StopEntry) (*poller.Impl, error) {
	if err := service.installer.Install(); err != nil {
		log.Error().Err(err).Msg("Failed to install Luas Schedule card, continuing...")
	}

	p := poller.New(service.scheduler, service.fetcher, poller.Config{
		StopCode: entry.StopCode,
		StopName: entry.StopName,
		Interval: service.interval,
	})

	service.mu.Lock()
	for _, o := range service.observers {
		p.Subscribe(o)
	}
	service.mu.Unlock()

	if err := p.Start(service.ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// Remove unloads a stop and forgets its entry.
func (service *Impl) Remove(stopCode string) error {
	stopCode = strings.ToUpper(strings.TrimSpace(stopCode))

	service.mu.Lock()
	p := service.pollers[stopCode]
	delete(service.pollers, stopCode)
	delete(service.pending, stopCode)
	service.mu.Unlock()

	if p != nil {
		p.Stop()
	}

	if err := service.repository.Delete(stopCode); err != nil {
		if errors.Is(err, stopentries.ErrNotFound) {
			return ErrNotConfigured
		}
		return err
	}

	log.Info().Str(constants.LogStopCode, stopCode).Msg("Stop removed")
	return nil
}

// Restore loads every saved entry. Entries whose first refresh fails are
// retried on the next interval.
func (service *Impl) Restore() error {
	entries, err := service.repository.FetchAll()
	if err != nil {
		return err
	}

	for _, entry := range entries {
		service.mu.Lock()
		_, loaded := service.pollers[entry.StopCode]
		service.mu.Unlock()
		if loaded {
			continue
		}
		service.load(entry)
	}

	log.Info().Int(constants.LogStopNumber, service.Count()).Msg("Stops restored")
	return nil
}

func (service *Impl) load(entry entities.StopEntry) {
	p, err := service.setup(entry)

	service.mu.Lock()
	defer service.mu.Unlock()

	if err != nil {
		service.pending[entry.StopCode] = entry
		log.Warn().Err(err).
			Str(constants.LogStopCode, entry.StopCode).
			Msg("Stop setup failed, will retry")
		return
	}
	delete(service.pending, entry.StopCode)
	service.pollers[entry.StopCode] = p
}

func (service *Impl) retryPending() {
	service.mu.Lock()
	entries := make([]entities.StopEntry, 0, len(service.pending))
	for _, entry := range service.pending {
		entries = append(entries, entry)
	}
	service.mu.Unlock()

	for _, entry := range entries {
		service.mu.Lock()
		_, stillPending := service.pending[entry.StopCode]
		service.mu.Unlock()
		if !stillPending || service.ctx.Err() != nil {
			continue
		}

		p, err := service.setup(entry)
		if err != nil {
			log.Debug().Err(err).Str(constants.LogStopCode, entry.StopCode).Msg("Stop setup retry failed")
			continue
		}

		service.mu.Lock()
		if _, stillPending = service.pending[entry.StopCode]; !stillPending {
			service.mu.Unlock()
			p.Stop()
			continue
		}
		delete(service.pending, entry.StopCode)
		service.pollers[entry.StopCode] = p
		service.mu.Unlock()

		log.Info().Str(constants.LogStopCode, entry.StopCode).Msg("Stop setup succeeded after retry")
	}
}

func (service *Impl) Entries() ([]Entry, error) {
	saved, err := service.repository.FetchAll()
	if err != nil {
		return nil, err
	}

	service.mu.Lock()
	defer service.mu.Unlock()

	entries := make([]Entry, 0, len(saved))
	for _, entry := range saved {
		e := Entry{StopEntry: entry}
		if p, found := service.pollers[entry.StopCode]; found {
			status := p.Status()
			e.Loaded = true
			e.Status = &status
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (service *Impl) Poller(stopCode string) (poller.Service, bool) {
	service.mu.Lock()
	defer service.mu.Unlock()

	p, found := service.pollers[strings.ToUpper(stopCode)]
	if !found {
		return nil, false
	}
	return p, true
}

// RegisterObserver subscribes o to every current and future stop poller.
func (service *Impl) RegisterObserver(o observer.Observer) {
	service.mu.Lock()
	defer service.mu.Unlock()

	service.observers = append(service.observers, o)
	for _, p := range service.pollers {
		p.Subscribe(o)
	}
}

func (service *Impl) Count() int {
	service.mu.Lock()
	defer service.mu.Unlock()
	return len(service.pollers)
}

func (service *Impl) Shutdown() {
	service.cancel()
	if service.retryJob != nil {
		if err := service.scheduler.RemoveJob(service.retryJob.ID()); err != nil {
			log.Debug().Err(err).Msg("Cannot remove retry job, continuing...")
		}
	}

	service.mu.Lock()
	pollers := service.pollers
	service.pollers = map[string]*poller.Impl{}
	service.pending = map[string]entities.StopEntry{}
	service.mu.Unlock()

	for _, p := range pollers {
		p.Stop()
	}
}
