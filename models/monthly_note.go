package models

import "time"

// MonthlyNote is a free-text reflection for one month, one row per
// (user, month), upserted.
type MonthlyNote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"index;not null;uniqueIndex:idx_note_user_month" json:"user_id"`
	Month     string    `gorm:"size:7;not null;uniqueIndex:idx_note_user_month" json:"month"` // yyyy-MM
	Note      string    `gorm:"type:text" json:"note"`
}
