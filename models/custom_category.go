package models

import "time"

// CustomCategory is a user-added (category, subcategory, type) triple that
// extends the built-in taxonomy. Defaults are never stored as rows; only user
// additions are persisted and merged with the hardcoded defaults at read time.
type CustomCategory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Category    string    `gorm:"size:64;not null" json:"category"`
	Subcategory string    `gorm:"size:128;not null" json:"subcategory"`
	Type        string    `gorm:"size:16;not null" json:"type"` // income | expense
}
