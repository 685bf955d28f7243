package assets

import (
	_ "embed"
	"errors"
	"sync"
	"sync/atomic"
)

const (
	CardFileName     = "luas-schedule-card.js"
	CommunityDirName = "dublin-luas-schedule"
	CardURL          = "/hacsfiles/" + CommunityDirName + "/" + CardFileName

	resourcesKey     = "lovelace_resources"
	resourcesVersion = 1
	resourceType     = "module"
)

//go:embed www/luas-schedule-card.js
var cardSource []byte

var ErrMalformedResources = errors.New("lovelace resources file is malformed")

type Service interface {
	Install() error
	Installed() bool
}

type Impl struct {
	configDir string
	register  bool

	once      sync.Once
	err       error
	installed atomic.Bool
}
