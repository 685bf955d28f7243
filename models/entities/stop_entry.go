package entities

import "time"

type StopEntry struct {
	StopCode  string    `json:"stopCode" gorm:"primaryKey"`
	StopName  string    `json:"stopName"`
	Line      string    `json:"line,omitempty"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null; default:current_timestamp"`
}
