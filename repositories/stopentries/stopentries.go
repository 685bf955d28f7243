package stopentries

import (
	"errors"
	"fmt"
	"luas-schedule/models/entities"
	"luas-schedule/utils/databases"

	"gorm.io/gorm"
)

func New(db databases.SqlConnection) *Impl {
	return &Impl{db: db}
}

func (repo *Impl) Create(entry entities.StopEntry) error {
	var existing entities.StopEntry

	result := repo.db.GetDB().Where("stop_code = ?", entry.StopCode).First(&existing)
	if result.Error == nil {
		return ErrAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check stop entry existence: %w", result.Error)
	}

	if err := repo.db.GetDB().Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to create stop entry: %w", err)
	}
	return nil
}

func (repo *Impl) Delete(stopCode string) error {
	result := repo.db.GetDB().Where("stop_code = ?", stopCode).Delete(&entities.StopEntry{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete stop entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *Impl) Get(stopCode string) (entities.StopEntry, error) {
	var existing entities.StopEntry

	result := repo.db.GetDB().Where("stop_code = ?", stopCode).First(&existing)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return existing, ErrNotFound
	}
	return existing, result.Error
}

func (repo *Impl) FetchAll() ([]entities.StopEntry, error) {
	var entries []entities.StopEntry
	result := repo.db.GetDB().Order("created_at").Order("stop_code").Find(&entries)

	return entries, result.Error
}

func (repo *Impl) Count() int64 {
	count := new(int64)
	repo.db.GetDB().Model(&entities.StopEntry{}).Count(count)

	return *count
}
