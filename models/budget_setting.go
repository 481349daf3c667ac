package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetSetting is a per-user monthly spending cap for one
// (category, subcategory) pair. A zero budget means "no cap configured".
type BudgetSetting struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	UserID        uint            `gorm:"index;not null;uniqueIndex:idx_budget_user_cat_sub" json:"user_id"`
	Category      string          `gorm:"size:64;not null;uniqueIndex:idx_budget_user_cat_sub" json:"category"`
	Subcategory   string          `gorm:"size:128;not null;uniqueIndex:idx_budget_user_cat_sub" json:"subcategory"`
	MonthlyBudget decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"monthly_budget"`
}
