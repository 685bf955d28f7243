package application

import (
	"luas-schedule/services/health"
	"luas-schedule/services/stops"
	"luas-schedule/services/telegram"
	databases "luas-schedule/utils/databases"
	"luas-schedule/utils/insights"

	"github.com/go-co-op/gocron/v2"
)

type Application interface {
	Run()
	Shutdown()
}

type Impl struct {
	scheduler       gocron.Scheduler
	healthService   health.Service
	stopService     stops.Service
	telegramService telegram.Service
	db              databases.SqlConnection
	probes          insights.Probes
}
