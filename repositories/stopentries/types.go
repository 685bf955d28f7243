package stopentries

import (
	"errors"
	"luas-schedule/models/entities"
	"luas-schedule/utils/databases"
)

var (
	ErrAlreadyExists = errors.New("stop entry already exists")
	ErrNotFound      = errors.New("stop entry not found")
)

type Repository interface {
	Create(entry entities.StopEntry) error
	Delete(stopCode string) error
	Get(stopCode string) (entities.StopEntry, error)
	FetchAll() ([]entities.StopEntry, error)
	Count() int64
}

type Impl struct {
	db databases.SqlConnection
}
