package api

import (
	"context"
	"encoding/json"
	"errors"
	"luas-schedule/models/entities"
	"luas-schedule/repositories/stopentries"
	"luas-schedule/services/luas"
	"luas-schedule/services/sensors"
	"luas-schedule/services/stops"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepository struct {
	mu      sync.Mutex
	entries map[string]entities.StopEntry
}

func (repo *memoryRepository) Create(entry entities.StopEntry) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, found := repo.entries[entry.StopCode]; found {
		return stopentries.ErrAlreadyExists
	}
	repo.entries[entry.StopCode] = entry
	return nil
}

func (repo *memoryRepository) Delete(stopCode string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, found := repo.entries[stopCode]; !found {
		return stopentries.ErrNotFound
	}
	delete(repo.entries, stopCode)
	return nil
}

func (repo *memoryRepository) Get(stopCode string) (entities.StopEntry, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	entry, found := repo.entries[stopCode]
	if !found {
		return entry, stopentries.ErrNotFound
	}
	return entry, nil
}

func (repo *memoryRepository) FetchAll() ([]entities.StopEntry, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	var entries []entities.StopEntry
	for _, entry := range repo.entries {
		entries = append(entries, entry)
	}
	return entries, nil
}

func (repo *memoryRepository) Count() int64 {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return int64(len(repo.entries))
}

type fakeFetcher struct {
	failing sync.Map
}

func (f *fakeFetcher) FetchForecast(_ context.Context, stopCode string, stopName string) (entities.ForecastRecord, error) {
	if _, failing := f.failing.Load(stopCode); failing {
		return entities.ForecastRecord{}, &luas.UpdateFailedError{Kind: luas.FetchFailure, Err: errors.New("unreachable")}
	}
	return entities.ForecastRecord{
		StopDisplayName: stopName,
		StopCode:        stopCode,
		ServiceMessage:  "Normal Service",
		Inbound:         []entities.TramArrival{{Destination: "Tallaght", DueLabel: "2 min", DueMinutesRaw: "2", EstimatedArrivalClockTime: "10:02"}},
		Outbound:        []entities.TramArrival{},
		FetchedAt:       time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC),
	}, nil
}

type noopInstaller struct{}

func (noopInstaller) Install() error  { return nil }
func (noopInstaller) Installed() bool { return true }

func newRouter(t *testing.T, fetcher *fakeFetcher) *mux.Router {
	t.Helper()
	scheduler, err := gocron.NewScheduler()
	require.NoError(t, err)
	scheduler.Start()
	t.Cleanup(func() { _ = scheduler.Shutdown() })

	repo := &memoryRepository{entries: map[string]entities.StopEntry{}}
	stopService, err := stops.New(scheduler, repo, fetcher, noopInstaller{}, time.Hour)
	require.NoError(t, err)
	t.Cleanup(stopService.Shutdown)

	sensorService := sensors.New(nil)
	stopService.RegisterObserver(sensorService)

	router := mux.NewRouter()
	New(stopService, sensorService).Register(router)
	return router
}

func do(router *mux.Router, method string, target string, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestLines(t *testing.T) {
	router := newRouter(t, &fakeFetcher{})

	response := do(router, http.MethodGet, "/lines", "")
	require.Equal(t, http.StatusOK, response.Code)
	assert.JSONEq(t, `{"lines":["Luas Red Line","Luas Green Line"]}`, response.Body.String())

	response = do(router, http.MethodGet, "/lines/Luas%20Green%20Line/stops", "")
	require.Equal(t, http.StatusOK, response.Code)
	var lineStops []map[string]string
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &lineStops))
	assert.Equal(t, map[string]string{"code": "BRO", "name": "Broombridge"}, lineStops[0])

	response = do(router, http.MethodGet, "/lines/Luas%20Blue%20Line/stops", "")
	assert.Equal(t, http.StatusNotFound, response.Code)
}

func TestAddStop(t *testing.T) {
	fetcher := &fakeFetcher{}
	router := newRouter(t, fetcher)

	response := do(router, http.MethodPost, "/stops", `{"line":"Luas Red Line","stop":"con"}`)
	require.Equal(t, http.StatusCreated, response.Code)
	assert.Contains(t, response.Body.String(), `"Connolly"`)

	response = do(router, http.MethodPost, "/stops", `{"stop":"CON"}`)
	assert.Equal(t, http.StatusConflict, response.Code)

	response = do(router, http.MethodPost, "/stops", `{"stop":"XYZ"}`)
	assert.Equal(t, http.StatusBadRequest, response.Code)

	response = do(router, http.MethodPost, "/stops", `{"stop":`)
	assert.Equal(t, http.StatusBadRequest, response.Code)

	fetcher.failing.Store("STS", true)
	response = do(router, http.MethodPost, "/stops", `{"stop":"STS"}`)
	assert.Equal(t, http.StatusBadGateway, response.Code)

	response = do(router, http.MethodGet, "/stops", "")
	require.Equal(t, http.StatusOK, response.Code)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, true, entries[0]["loaded"])
}

func TestForecastAndSensors(t *testing.T) {
	router := newRouter(t, &fakeFetcher{})

	response := do(router, http.MethodGet, "/stops/CON/forecast", "")
	assert.Equal(t, http.StatusNotFound, response.Code)

	require.Equal(t, http.StatusCreated, do(router, http.MethodPost, "/stops", `{"stop":"CON"}`).Code)

	response = do(router, http.MethodGet, "/stops/con/forecast", "")
	require.Equal(t, http.StatusOK, response.Code)
	var forecast struct {
		Forecast entities.ForecastRecord `json:"forecast"`
		Status   struct {
			State string `json:"state"`
		} `json:"status"`
	}
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &forecast))
	assert.Equal(t, "CON", forecast.Forecast.StopCode)
	assert.Equal(t, "Tallaght", forecast.Forecast.Inbound[0].Destination)
	assert.Equal(t, "ready", forecast.Status.State)

	response = do(router, http.MethodGet, "/stops/CON/sensors", "")
	require.Equal(t, http.StatusOK, response.Code)
	var states []sensors.SensorState
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &states))
	require.Len(t, states, 3)
	assert.Equal(t, "CON_inbound_next", states[0].UniqueID)
	assert.Equal(t, "2 min", states[0].State)

	response = do(router, http.MethodGet, "/stops/ABB/sensors", "")
	assert.Equal(t, http.StatusNotFound, response.Code)
}

func TestRefresh(t *testing.T) {
	fetcher := &fakeFetcher{}
	router := newRouter(t, fetcher)

	assert.Equal(t, http.StatusNotFound, do(router, http.MethodPost, "/stops/CON/refresh", "").Code)
	require.Equal(t, http.StatusCreated, do(router, http.MethodPost, "/stops", `{"stop":"CON"}`).Code)

	assert.Equal(t, http.StatusOK, do(router, http.MethodPost, "/stops/CON/refresh", "").Code)

	fetcher.failing.Store("CON", true)
	assert.Equal(t, http.StatusBadGateway, do(router, http.MethodPost, "/stops/CON/refresh", "").Code)

	response := do(router, http.MethodGet, "/stops/CON/forecast", "")
	require.Equal(t, http.StatusOK, response.Code)
	assert.Contains(t, response.Body.String(), `"state":"stale"`)
}

func TestRemoveStop(t *testing.T) {
	router := newRouter(t, &fakeFetcher{})
	require.Equal(t, http.StatusCreated, do(router, http.MethodPost, "/stops", `{"stop":"CON"}`).Code)

	assert.Equal(t, http.StatusNoContent, do(router, http.MethodDelete, "/stops/CON", "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodDelete, "/stops/CON", "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/stops/CON/sensors", "").Code)
}
