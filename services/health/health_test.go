package health

import (
	"luas-schedule/models/constants"
	"testing"

	"github.com/go-co-op/gocron/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersJob(t *testing.T) {
	viper.Set(constants.HealthCronTab, "*/15 * * * *")
	t.Cleanup(viper.Reset)

	scheduler, err := gocron.NewScheduler()
	require.NoError(t, err)
	t.Cleanup(func() { _ = scheduler.Shutdown() })

	service, err := New(scheduler, func() int { return 2 })
	require.NoError(t, err)
	require.Len(t, scheduler.Jobs(), 1)
	assert.Equal(t, "Check app running", scheduler.Jobs()[0].Name())

	service.echo()
}

func TestNewRejectsInvalidCronTab(t *testing.T) {
	viper.Set(constants.HealthCronTab, "not a crontab")
	t.Cleanup(viper.Reset)

	scheduler, err := gocron.NewScheduler()
	require.NoError(t, err)
	t.Cleanup(func() { _ = scheduler.Shutdown() })

	_, err = New(scheduler, func() int { return 0 })
	assert.Error(t, err)
}
