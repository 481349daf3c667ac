package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is a named balance bucket (cash, bank account, e-wallet).
// Balance is maintained by explicit adjustment writes issued alongside
// transactions and transfers; it is not derived from the transaction table.
type PaymentMethod struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	UserID    uint            `gorm:"index;not null" json:"user_id"`
	Name      string          `gorm:"size:128;not null" json:"name"`
	Balance   decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"balance"`
	Icon      string          `gorm:"size:32;default:wallet" json:"icon"`
}
