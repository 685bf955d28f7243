package constants

import (
	"time"

	"github.com/rs/zerolog"
)

const (
	ConfigFileName = ".env"

	ExternalName = "Luas Schedule"
	Version      = "0.3.0"

	// Zerolog values from [trace, debug, info, warn, error, fatal, panic].
	LogLevel = "LOG_LEVEL"

	// Probe and API port.
	ProbePort = "PROBE_PORT"

	// SQLITE_URL URL.
	SqliteURL = "SQLITE_URL"

	// IANA timezone used to render arrival clock times and run jobs.
	Timezone = "TIMEZONE"

	// Luas forecast endpoint.
	LuasAPIURL = "LUAS_API_URL"

	// Timeout of one fetch cycle. Duration type.
	LuasFetchTimeout = "LUAS_FETCH_TIMEOUT"

	// Delay between two refreshes of a stop. Duration type.
	LuasRefreshInterval = "LUAS_REFRESH_INTERVAL"

	// Comma separated stop codes configured at boot, e.g. "CON,STS".
	LuasStops = "LUAS_STOPS"

	// Cron tab to health.
	HealthCronTab = "HEALTH_CRON_TAB"

	// Home Assistant configuration directory, the card is copied under its www folder.
	HomeAssistantConfigDir = "HA_CONFIG_DIR"

	// Boolean; registers the card as a dashboard resource.
	RegisterCard = "LUAS_REGISTER_CARD"

	// TELEGRAM BOT, alerts are disabled when empty.
	TelegramBotToken = "TELEGRAM_BOT_TOKEN"

	// Comma separated chat IDs receiving service message alerts.
	TelegramChatIDs = "TELEGRAM_CHAT_IDS"

	defaultProbePort           = 9090
	defaultSqliteURL           = "luas-schedule.db"
	defaultTimezone            = "Europe/Dublin"
	defaultLuasAPIURL          = "http://luasforecasts.rpa.ie/xml/get.ashx"
	defaultLuasFetchTimeout    = 10 * time.Second
	defaultLuasRefreshInterval = 1 * time.Minute
	defaultLuasStops           = ""
	defaultHealthCrontab       = "*/15 * * * *"
	defaultHomeAssistantConfig = "/config"
	defaultRegisterCard        = false
	defaultTelegramBotToken    = ""
	defaultTelegramChatIDs     = ""
	defaultLogLevel            = zerolog.InfoLevel
)

func GetDefaultConfigValues() map[string]any {
	return map[string]any{
		LogLevel:               defaultLogLevel.String(),
		ProbePort:              defaultProbePort,
		SqliteURL:              defaultSqliteURL,
		Timezone:               defaultTimezone,
		LuasAPIURL:             defaultLuasAPIURL,
		LuasFetchTimeout:       defaultLuasFetchTimeout,
		LuasRefreshInterval:    defaultLuasRefreshInterval,
		LuasStops:              defaultLuasStops,
		HealthCronTab:          defaultHealthCrontab,
		HomeAssistantConfigDir: defaultHomeAssistantConfig,
		RegisterCard:           defaultRegisterCard,
		TelegramBotToken:       defaultTelegramBotToken,
		TelegramChatIDs:        defaultTelegramChatIDs,
	}
}
