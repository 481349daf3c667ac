package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Transaction is a single income or expense record belonging to a user.
// Date carries calendar-day granularity; CreatedAt/UpdatedAt are bookkeeping
// only and never enter report math.
type Transaction struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	UserID          uint            `gorm:"index;not null" json:"user_id"`
	Date            time.Time       `gorm:"type:date;not null;index" json:"date"`
	Type            string          `gorm:"size:16;not null;index" json:"type"` // income | expense
	Category        string          `gorm:"size:64;not null" json:"category"`
	Subcategory     string          `gorm:"size:128;not null" json:"subcategory"`
	Description     string          `gorm:"size:200" json:"description"`
	Amount          decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	PaymentMethodID *uint           `gorm:"index" json:"payment_method_id"`
}
