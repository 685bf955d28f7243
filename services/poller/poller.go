package poller

import (
	"context"
	"fmt"
	"luas-schedule/models/constants"
	"luas-schedule/models/entities"
	"luas-schedule/pkg/observer"
	"luas-schedule/services/luas"
	"sort"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

func New(scheduler gocron.Scheduler, fetcher luas.Service, config Config) *Impl {
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}

	return &Impl{
		config:    config,
		fetcher:   fetcher,
		scheduler: scheduler,
		cache:     cache.New(cache.NoExpiration, 0),
		state:     Uninitialized,
		observers: map[int]observer.Observer{},
	}
}

// Start performs the first refresh synchronously and, once it succeeded,
// schedules the periodic ones. A failing first refresh fails Start.
func (service *Impl) Start(ctx context.Context) error {
	service.mu.Lock()
	if service.started {
		service.mu.Unlock()
		return ErrAlreadyStarted
	}
	service.started = true
	service.ctx, service.cancel = context.WithCancel(ctx)
	lifetime := service.ctx
	service.mu.Unlock()

	if err := service.refresh(lifetime); err != nil {
		service.Stop()
		return fmt.Errorf("first refresh of stop %s failed: %w", service.config.StopCode, err)
	}

	job, err := service.scheduler.NewJob(
		gocron.DurationJob(service.config.Interval),
		gocron.NewTask(func() { service.scheduledRefresh() }),
		gocron.WithName(fmt.Sprintf("Refresh Luas %s", service.config.StopName)),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		service.Stop()
		return err
	}

	service.mu.Lock()
	if service.stopped {
		service.mu.Unlock()
		service.removeJob(job)
		return ErrStopped
	}
	service.job = job
	service.mu.Unlock()

	log.Info().
		Str(constants.LogStopCode, service.config.StopCode).
		Str(constants.LogStopName, service.config.StopName).
		Msgf("Polling every %v", service.config.Interval)
	return nil
}

// Stop removes the periodic job, cancels any in-flight request and waits for
// it to return. Subscribers receive a final UnloadEvent.
func (service *Impl) Stop() {
	service.mu.Lock()
	if service.stopped {
		service.mu.Unlock()
		return
	}
	service.stopped = true
	job, cancel := service.job, service.cancel
	service.mu.Unlock()

	if job != nil {
		service.removeJob(job)
	}
	if cancel != nil {
		cancel()
	}

	service.refreshMu.Lock()
	//nolint:staticcheck // Waits for the in-flight refresh.
	service.refreshMu.Unlock()

	service.observersMu.Lock()
	service.enqueueLocked(observer.Event{E: observer.UnloadEvent, StopCode: service.config.StopCode, StopName: service.config.StopName})
	service.observers = map[int]observer.Observer{}
	service.observersMu.Unlock()
	service.deliver()

	log.Info().
		Str(constants.LogStopCode, service.config.StopCode).
		Msg("Polling stopped")
}

func (service *Impl) removeJob(job gocron.Job) {
	if err := service.scheduler.RemoveJob(job.ID()); err != nil {
		log.Debug().Err(err).
			Str(constants.LogStopCode, service.config.StopCode).
			Msg("Cannot remove refresh job, continuing...")
	}
}

func (service *Impl) Current() (entities.ForecastRecord, bool) {
	if x, found := service.cache.Get(forecastKey); found {
		return x.(entities.ForecastRecord).Clone(), true
	}
	return entities.ForecastRecord{}, false
}

func (service *Impl) LastError() error {
	service.mu.RLock()
	defer service.mu.RUnlock()
	return service.lastErr
}

func (service *Impl) Status() Status {
	service.mu.RLock()
	defer service.mu.RUnlock()

	status := Status{
		StopCode:          service.config.StopCode,
		StopName:          service.config.StopName,
		State:             service.state,
		LastUpdateSuccess: service.lastErr == nil && !service.lastSuccessAt.IsZero(),
		LastAttemptAt:     service.lastAttemptAt,
		LastSuccessAt:     service.lastSuccessAt,
	}
	if service.lastErr != nil {
		status.LastError = service.lastErr.Error()
	}
	return status
}

// RefreshNow runs a refresh outside of the schedule. It is rejected while
// another refresh is running.
func (service *Impl) RefreshNow(ctx context.Context) error {
	service.mu.RLock()
	started, stopped, lifetime := service.started, service.stopped, service.ctx
	service.mu.RUnlock()

	if stopped {
		return ErrStopped
	}
	if !started {
		return ErrNotStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stopAfter := context.AfterFunc(lifetime, cancel)
	defer stopAfter()

	return service.refresh(ctx)
}

func (service *Impl) scheduledRefresh() {
	service.mu.RLock()
	lifetime := service.ctx
	service.mu.RUnlock()

	_ = service.refresh(lifetime)
}

// refresh runs one fetch cycle. The refresh lock only covers the fetch and
// the state update; subscribers are notified once it is released.
func (service *Impl) refresh(ctx context.Context) error {
	if !service.refreshMu.TryLock() {
		log.Debug().
			Str(constants.LogStopCode, service.config.StopCode).
			Msg("Refresh already running, skipped")
		return ErrRefreshInProgress
	}

	err := service.fetchAndStore(ctx)
	service.refreshMu.Unlock()

	service.deliver()
	return err
}

func (service *Impl) fetchAndStore(ctx context.Context) error {
	service.mu.Lock()
	if service.stopped {
		service.mu.Unlock()
		return ErrStopped
	}
	previous := service.state
	service.state = Refreshing
	service.lastAttemptAt = service.config.Clock.Now()
	service.mu.Unlock()

	record, err := service.fetcher.FetchForecast(ctx, service.config.StopCode, service.config.StopName)

	service.mu.Lock()
	if service.stopped {
		service.state = previous
		service.mu.Unlock()
		return ErrStopped
	}
	if err != nil {
		_, hasData := service.cache.Get(forecastKey)
		if hasData {
			service.state = Stale
		} else {
			service.state = Uninitialized
		}
		service.lastErr = err
		service.mu.Unlock()

		service.logFailure(previous, err)
		service.enqueue(observer.Event{E: observer.UpdateFailedEvent, StopCode: service.config.StopCode, StopName: service.config.StopName, Err: err})
		return err
	}

	service.cache.Set(forecastKey, record, cache.NoExpiration)
	service.state = Ready
	service.lastErr = nil
	service.lastSuccessAt = record.FetchedAt
	service.mu.Unlock()

	logEvent := log.Debug()
	if previous == Stale {
		logEvent = log.Info()
	}
	logEvent.
		Str(constants.LogStopCode, service.config.StopCode).
		Int(constants.LogInboundCount, len(record.Inbound)).
		Int(constants.LogOutboundCount, len(record.Outbound)).
		Msg("Forecast refreshed")

	service.enqueue(observer.NewForecastEvent(service.config.StopCode, service.config.StopName, record.Clone()))
	return nil
}

func (service *Impl) logFailure(previous State, err error) {
	logEvent := log.Error()
	if previous == Stale {
		logEvent = log.Debug()
	}
	logEvent.Err(err).
		Str(constants.LogStopCode, service.config.StopCode).
		Str(constants.LogState, previous.String()).
		Msg("Forecast refresh failed, keeping last known forecast")
}

func (service *Impl) Subscribe(o observer.Observer) int {
	service.observersMu.Lock()
	defer service.observersMu.Unlock()

	service.nextObserverID++
	service.observers[service.nextObserverID] = o
	return service.nextObserverID
}

func (service *Impl) Unsubscribe(id int) {
	service.observersMu.Lock()
	defer service.observersMu.Unlock()

	delete(service.observers, id)
}

// OnChange subscribes callback and returns the function that unsubscribes it.
func (service *Impl) OnChange(callback func(observer.Event)) func() {
	id := service.Subscribe(observer.Func(callback))
	return func() { service.Unsubscribe(id) }
}

func (service *Impl) enqueue(e observer.Event) {
	service.observersMu.Lock()
	defer service.observersMu.Unlock()
	service.enqueueLocked(e)
}

// enqueueLocked queues e for the observers subscribed right now.
func (service *Impl) enqueueLocked(e observer.Event) {
	ids := make([]int, 0, len(service.observers))
	for id := range service.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	observers := make([]observer.Observer, 0, len(ids))
	for _, id := range ids {
		observers = append(observers, service.observers[id])
	}
	service.pending = append(service.pending, pendingEvent{event: e, observers: observers})
}

func (service *Impl) dequeue() (pendingEvent, bool) {
	service.observersMu.Lock()
	defer service.observersMu.Unlock()

	if len(service.pending) == 0 {
		return pendingEvent{}, false
	}
	next := service.pending[0]
	service.pending = service.pending[1:]
	return next, true
}

func (service *Impl) hasPending() bool {
	service.observersMu.Lock()
	defer service.observersMu.Unlock()
	return len(service.pending) > 0
}

// deliver hands queued events to observers in queue order, one event at a
// time. When another call is already delivering, including an observer
// calling back into the poller, the events are left to it.
func (service *Impl) deliver() {
	for {
		if !service.deliverMu.TryLock() {
			return
		}
		for {
			next, found := service.dequeue()
			if !found {
				break
			}
			for _, o := range next.observers {
				o.OnNotify(next.event)
			}
		}
		service.deliverMu.Unlock()

		if !service.hasPending() {
			return
		}
	}
}
