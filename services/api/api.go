package api

import (
	"encoding/json"
	"errors"
	"luas-schedule/models/constants"
	"luas-schedule/services/luas"
	"luas-schedule/services/poller"
	"luas-schedule/services/sensors"
	"luas-schedule/services/stops"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

func New(stopService stops.Service, sensorService sensors.Service) *Impl {
	return &Impl{stopService: stopService, sensorService: sensorService}
}

func (service *Impl) Register(router *mux.Router) {
	router.HandleFunc("/lines", service.getLines).Methods(http.MethodGet)
	router.HandleFunc("/lines/{line}/stops", service.getLineStops).Methods(http.MethodGet)
	router.HandleFunc("/stops", service.getStops).Methods(http.MethodGet)
	router.HandleFunc("/stops", service.addStop).Methods(http.MethodPost)
	router.HandleFunc("/stops/{code}", service.removeStop).Methods(http.MethodDelete)
	router.HandleFunc("/stops/{code}/forecast", service.getForecast).Methods(http.MethodGet)
	router.HandleFunc("/stops/{code}/sensors", service.getSensors).Methods(http.MethodGet)
	router.HandleFunc("/stops/{code}/refresh", service.refresh).Methods(http.MethodPost)
}

func (service *Impl) getLines(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, linesResponse{Lines: service.stopService.Lines()})
}

func (service *Impl) getLineStops(w http.ResponseWriter, r *http.Request) {
	lineStops, err := service.stopService.StopsForLine(mux.Vars(r)["line"])
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, lineStops)
}

func (service *Impl) getStops(w http.ResponseWriter, _ *http.Request) {
	entries, err := service.stopService.Entries()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (service *Impl) addStop(w http.ResponseWriter, r *http.Request) {
	var request addStopRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	entry, err := service.stopService.Add(request.Line, request.Stop)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (service *Impl) removeStop(w http.ResponseWriter, r *http.Request) {
	if err := service.stopService.Remove(stopCode(r)); err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (service *Impl) getForecast(w http.ResponseWriter, r *http.Request) {
	p, found := service.stopService.Poller(stopCode(r))
	if !found {
		writeError(w, http.StatusNotFound, stops.ErrNotConfigured)
		return
	}

	record, found := p.Current()
	if !found {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, forecastResponse{Forecast: &record, Status: p.Status()})
}

func (service *Impl) getSensors(w http.ResponseWriter, r *http.Request) {
	states := service.sensorService.Sensors(stopCode(r))
	if len(states) == 0 {
		writeError(w, http.StatusNotFound, stops.ErrNotConfigured)
		return
	}
	writeJSON(w, http.StatusOK, states)
}

func (service *Impl) refresh(w http.ResponseWriter, r *http.Request) {
	code := stopCode(r)
	p, found := service.stopService.Poller(code)
	if !found {
		writeError(w, http.StatusNotFound, stops.ErrNotConfigured)
		return
	}

	if err := p.RefreshNow(r.Context()); err != nil {
		log.Warn().Err(err).Str(constants.LogStopCode, code).Msg("Manual refresh failed")
		writeError(w, statusOf(err), err)
		return
	}

	record, _ := p.Current()
	writeJSON(w, http.StatusOK, forecastResponse{Forecast: &record, Status: p.Status()})
}

func stopCode(r *http.Request) string {
	return strings.ToUpper(mux.Vars(r)["code"])
}

func statusOf(err error) int {
	var updateErr *luas.UpdateFailedError
	switch {
	case errors.Is(err, stops.ErrUnknownLine), errors.Is(err, stops.ErrUnknownStop):
		return http.StatusBadRequest
	case errors.Is(err, stops.ErrNotConfigured), errors.Is(err, poller.ErrStopped):
		return http.StatusNotFound
	case errors.Is(err, stops.ErrAlreadyConfigured), errors.Is(err, poller.ErrRefreshInProgress):
		return http.StatusConflict
	case errors.As(err, &updateErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Cannot encode response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
