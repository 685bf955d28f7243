package entities

import "time"

type TelegramUser struct {
	ChatID    int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
