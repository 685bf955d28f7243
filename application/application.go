package application

import (
	"context"
	"errors"
	"luas-schedule/models/constants"
	"luas-schedule/models/entities"
	stopEntriesRepo "luas-schedule/repositories/stopentries"
	telegramRepo "luas-schedule/repositories/telegram"
	"luas-schedule/services/api"
	"luas-schedule/services/assets"
	"luas-schedule/services/health"
	"luas-schedule/services/luas"
	"luas-schedule/services/sensors"
	"luas-schedule/services/stops"
	"luas-schedule/services/telegram"
	databases "luas-schedule/utils/databases"
	"luas-schedule/utils/insights"
	"strings"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func New() (*Impl, error) {
	db := databases.New(viper.GetString(constants.SqliteURL))
	if errDB := db.Run(); errDB != nil {
		return nil, errDB
	}

	errMigration := db.Migrate(&entities.StopEntry{}, &entities.TelegramUser{})
	if errMigration != nil {
		return nil, errMigration
	}

	location, err := time.LoadLocation(viper.GetString(constants.Timezone))
	if err != nil {
		return nil, err
	}

	scheduler, errScheduler := gocron.NewScheduler(gocron.WithLocation(location))
	if errScheduler != nil {
		return nil, errScheduler
	}

	probes := insights.NewProbes(viper.GetInt(constants.ProbePort), db.IsConnected)
	clock := clockwork.NewRealClock()

	// Repositories
	stopRepo := stopEntriesRepo.New(db)
	telegramRepo := telegramRepo.New(db)

	luasService := luas.New(viper.GetString(constants.LuasAPIURL),
		viper.GetDuration(constants.LuasFetchTimeout), clock, location)
	assetService := assets.New(viper.GetString(constants.HomeAssistantConfigDir),
		viper.GetBool(constants.RegisterCard))

	stopService, errStops := stops.New(scheduler, stopRepo, luasService, assetService,
		viper.GetDuration(constants.LuasRefreshInterval))
	if errStops != nil {
		return nil, errStops
	}

	sensorService := sensors.New(clock)
	stopService.RegisterObserver(sensorService)

	chatIDs, errChats := telegram.ParseChatIDs(viper.GetString(constants.TelegramChatIDs))
	if errChats != nil {
		return nil, errChats
	}
	var telegramService telegram.Service
	tgService, errTg := telegram.New(viper.GetString(constants.TelegramBotToken), chatIDs, telegramRepo)
	switch {
	case errors.Is(errTg, telegram.ErrTokenIsMissing):
		log.Info().Msg("Telegram bot token not set, alerts disabled")
	case errTg != nil:
		return nil, errTg
	default:
		telegramService = tgService
		stopService.RegisterObserver(telegramService)
	}

	healthService, errHealth := health.New(scheduler, stopService.Count)
	if errHealth != nil {
		return nil, errHealth
	}

	api.New(stopService, sensorService).Register(probes.Router())

	return &Impl{
		scheduler:       scheduler,
		healthService:   healthService,
		stopService:     stopService,
		telegramService: telegramService,
		db:              db,
		probes:          probes,
	}, nil
}

func (app *Impl) Run() {
	app.scheduler.Start()

	if err := app.stopService.Restore(); err != nil {
		log.Error().Err(err).Msg("Cannot restore configured stops, continuing...")
	}
	app.bootstrapStops()

	if app.telegramService != nil {
		if err := app.telegramService.ListenAndDispatch(); err != nil {
			log.Error().Err(err).Msg("Telegram commands unavailable, alerts still sent")
		}
	}

	for _, job := range app.scheduler.Jobs() {
		scheduledTime, err := job.NextRun()
		if err == nil {
			log.Info().Msgf("%v scheduled at %v", job.Name(), scheduledTime)
		}
	}

	app.probes.ListenAndServe()
}

// bootstrapStops adds the stops listed in the configuration that are not
// saved yet.
func (app *Impl) bootstrapStops() {
	for _, code := range strings.Split(viper.GetString(constants.LuasStops), ",") {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}

		_, err := app.stopService.Add("", code)
		switch {
		case err == nil, errors.Is(err, stops.ErrAlreadyConfigured):
		default:
			log.Error().Err(err).Str(constants.LogStopCode, code).Msg("Cannot configure stop, continuing...")
		}
	}
}

func (app *Impl) Shutdown() {
	if app.telegramService != nil {
		app.telegramService.Shutdown()
	}
	app.stopService.Shutdown()
	if err := app.scheduler.Shutdown(); err != nil {
		log.Error().Err(err).Msg("Cannot shutdown scheduler, continuing...")
	}
	if err := app.probes.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("Cannot shutdown probes, continuing...")
	}
	app.db.Shutdown()
	log.Info().Msgf("Application is no longer running")
}
