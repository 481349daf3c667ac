package finance

import (
	"sort"

	"github.com/shopspring/decimal"

	"dompetku/models"
)

// RealizationRow is actual spend against one configured budget cap.
type RealizationRow struct {
	Category      string          `json:"category"`
	Subcategory   string          `json:"subcategory"`
	MonthlyBudget decimal.Decimal `json:"monthly_budget"`
	Spent         decimal.Decimal `json:"spent"`
	Remaining     decimal.Decimal `json:"remaining"` // negative when overspent
	Percentage    float64         `json:"percentage"`
	Status        string          `json:"status"`
}

// RealizationReport holds the per-budget rows, most critical first, plus
// aggregate totals.
type RealizationReport struct {
	Rows           []RealizationRow `json:"rows"`
	TotalBudget    decimal.Decimal  `json:"total_budget"`
	TotalSpent     decimal.Decimal  `json:"total_spent"`
	TotalRemaining decimal.Decimal  `json:"total_remaining"`
}

// ComputeRealization compares each configured budget against actual spend in
// the target month (yyyy-MM). Budgets with a zero cap are excluded entirely,
// which also guarantees the percentage division is safe. Thresholds here
// (>=90 danger, >=70 warning) are independent of the monthly summary's
// target-percentage rule.
func ComputeRealization(budgets []models.BudgetSetting, expenses []models.Transaction, month string) RealizationReport {
	spending := make(map[string]decimal.Decimal)
	for _, exp := range expenses {
		if exp.Type != models.TypeExpense || MonthKey(exp.Date) != month {
			continue
		}
		key := exp.Category + "|" + exp.Subcategory
		spending[key] = spending[key].Add(exp.Amount)
	}

	rep := RealizationReport{
		TotalBudget: decimal.Zero,
		TotalSpent:  decimal.Zero,
	}
	hundred := decimal.NewFromInt(100)
	for _, b := range budgets {
		if !b.MonthlyBudget.IsPositive() {
			continue
		}
		spent := spending[b.Category+"|"+b.Subcategory]
		pct := spent.Div(b.MonthlyBudget).Mul(hundred).InexactFloat64()

		status := StatusGood
		if pct >= 90 {
			status = StatusDanger
		} else if pct >= 70 {
			status = StatusWarning
		}

		rep.Rows = append(rep.Rows, RealizationRow{
			Category:      b.Category,
			Subcategory:   b.Subcategory,
			MonthlyBudget: b.MonthlyBudget,
			Spent:         spent,
			Remaining:     b.MonthlyBudget.Sub(spent),
			Percentage:    pct,
			Status:        status,
		})
		rep.TotalBudget = rep.TotalBudget.Add(b.MonthlyBudget)
		rep.TotalSpent = rep.TotalSpent.Add(spent)
	}
	sort.SliceStable(rep.Rows, func(i, j int) bool { return rep.Rows[i].Percentage > rep.Rows[j].Percentage })
	rep.TotalRemaining = rep.TotalBudget.Sub(rep.TotalSpent)
	return rep
}
