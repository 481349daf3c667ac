package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoneyTransfer records moving an amount between two payment methods.
// Method references are nullable so a deleted method keeps its history.
type MoneyTransfer struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	UserID       uint            `gorm:"index;not null" json:"user_id"`
	FromMethodID *uint           `gorm:"index" json:"from_method_id"`
	ToMethodID   *uint           `gorm:"index" json:"to_method_id"`
	Amount       decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	Description  string          `gorm:"size:200" json:"description"`
	Date         time.Time       `gorm:"type:date;not null" json:"date"`
}
