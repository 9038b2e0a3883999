package model

import "time"

type SecureItem struct {
	Key       string    `gorm:"type:text;primaryKey"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (SecureItem) TableName() string {
	return "secure_items"
}
