package telegram

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

func (repo *Impl) FetchAll() ([]entities.TelegramUser, error) {
	var users []entities.TelegramUser
	result := repo.db.GetDB().Order("created_at, chat_id").Find(&users)

	return users, result.Error
}

func (repo *Impl) SaveOrUpdate(user entities.TelegramUser) error {
	var existingUser entities.TelegramUser

	result := repo.db.GetDB().Where("chat_id = ?", user.ChatID).First(&existingUser)
	if result.Error == nil {
		if existingUser.Name == user.Name {
			return nil
		}
		if err := repo.db.GetDB().Model(&existingUser).Update("name", user.Name).Error; err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		return nil
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check user existence: %w", result.Error)
	}

	if err := repo.db.GetDB().Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (repo *Impl) Delete(chatID int64) error {
	result := repo.db.GetDB().Delete(&entities.TelegramUser{}, chatID)
	return result.Error
}
