package main

import (
	"context"
	"luas-schedule/application"
	"luas-schedule/models/constants"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func init() {
	initConfig()
	initLog()
}

func initLog() {
	zerolog.SetGlobalLevel(constants.LogLevelFallback)

	logLevel, err := zerolog.ParseLevel(viper.GetString(constants.LogLevel))
	if err != nil {
		log.Warn().Err(err).Msgf("Log level not set, continue with %s...", constants.LogLevelFallback)
	} else {
		zerolog.SetGlobalLevel(logLevel)
		log.Debug().Msgf("Logger level set to '%s'", logLevel)
	}
}

func initConfig() {
	viper.SetConfigFile(constants.ConfigFileName)

	for configName, defaultValue := range constants.GetDefaultConfigValues() {
		viper.SetDefault(configName, defaultValue)
	}

	err := viper.ReadInConfig()
	if err != nil {
		log.Debug().Str(constants.LogFileName, constants.ConfigFileName).Msgf("Failed to read config file, continue...")
	}

	viper.AutomaticEnv()

	defaults := constants.GetDefaultConfigValues()
	for _, key := range []string{constants.LuasFetchTimeout, constants.LuasRefreshInterval} {
		if viper.GetDuration(key) <= 0 {
			log.Warn().Msgf("%s must be a positive duration, continue with %v...", key, defaults[key])
			viper.Set(key, defaults[key])
		}
	}
}

func main() {
	app, err := application.New()
	if err != nil {
		log.Fatal().Err(err).Msgf("Shutting down after failing to instantiate application")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.Run()
	log.Info().
		Str(constants.LogURL, viper.GetString(constants.LuasAPIURL)).
		Str(constants.LogTimezone, viper.GetString(constants.Timezone)).
		Dur(constants.LogInterval, viper.GetDuration(constants.LuasRefreshInterval)).
		Msgf("%s v%s is now polling Luas forecasts. Press CTRL-C to exit.", constants.ExternalName, constants.Version)
	<-ctx.Done()

	log.Info().Msgf("Gracefully shutting down %s...", constants.ExternalName)
	app.Shutdown()
}
