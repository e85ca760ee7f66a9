package models

import (
	"time"

	"gorm.io/gorm"
)

// ErrorLog records a failed GetSelectedText call in watch or listen mode
type ErrorLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
	Source    string         `gorm:"not null;default:''" json:"source"` // "watch", "listen" or "get"
	ErrorMsg  string         `gorm:"not null" json:"error_msg"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
