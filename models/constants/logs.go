package constants

import "github.com/rs/zerolog"

const (
	LogFileName      = "fileName"
	LogStopCode      = "stopCode"
	LogStopName      = "stopName"
	LogLine          = "line"
	LogURL           = "url"
	LogTimezone      = "timezone"
	LogInterval      = "interval"
	LogState         = "state"
	LogInboundCount  = "inboundCount"
	LogOutboundCount = "outboundCount"
	LogChatID        = "chatID"
	LogCommand       = "cmd"
	LogUsername      = "username"
	LogStopNumber    = "stopNumber"
	LogLevelFallback = zerolog.InfoLevel
)
