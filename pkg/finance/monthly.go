package finance

import (
	"time"

	"github.com/shopspring/decimal"

	"dompetku/models"
)

// Budget status tiers shared by the monthly summary and realization reports.
// The two reports classify with different thresholds on purpose.
const (
	StatusGood    = "good"
	StatusWarning = "warning"
	StatusDanger  = "danger"
)

// MonthKey formats a time as the yyyy-MM key used for notes and realization.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// BudgetStatus classifies one fixed category's spend for a month.
// SpentPercentage is the category's share of total expense, compared against
// the income-derived target percentage. Limit is the rupiah amount the
// category may reach given the month's income.
type BudgetStatus struct {
	Category         string          `json:"category"`
	TargetPercentage float64         `json:"target_percentage"`
	SpentPercentage  float64         `json:"spent_percentage"`
	Spent            decimal.Decimal `json:"spent"`
	Limit            decimal.Decimal `json:"limit"`
	Status           string          `json:"status"`
}

// MonthlySummary is the full aggregation for one calendar month.
type MonthlySummary struct {
	Incomes          []models.Transaction       `json:"incomes"`
	Expenses         []models.Transaction       `json:"expenses"`
	TotalIncome      decimal.Decimal            `json:"total_income"`
	TotalExpense     decimal.Decimal            `json:"total_expense"`
	Balance          decimal.Decimal            `json:"balance"`
	CategorySpending map[string]decimal.Decimal `json:"category_spending"`
	BudgetStatus     []BudgetStatus             `json:"budget_status"`
	MonthNote        string                     `json:"month_note"`
}

// ComputeMonthlySummary folds the given transactions into the summary for the
// month containing targetMonth. The interval test is inclusive on both ends
// at calendar-day granularity. percentages maps fixed categories to their
// target share of income; notes maps yyyy-MM keys to the stored month note.
// The result is recomputed from scratch on every call.
func ComputeMonthlySummary(transactions []models.Transaction, targetMonth time.Time, percentages map[string]float64, notes map[string]string) MonthlySummary {
	start := time.Date(targetMonth.Year(), targetMonth.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	sum := MonthlySummary{
		TotalIncome:      decimal.Zero,
		TotalExpense:     decimal.Zero,
		CategorySpending: make(map[string]decimal.Decimal, len(ExpenseCategories)),
	}
	for _, cat := range ExpenseCategories {
		sum.CategorySpending[cat] = decimal.Zero
	}

	for _, tx := range transactions {
		if !dayWithin(tx.Date, start, end) {
			continue
		}
		switch tx.Type {
		case models.TypeIncome:
			sum.Incomes = append(sum.Incomes, tx)
			sum.TotalIncome = sum.TotalIncome.Add(tx.Amount)
		case models.TypeExpense:
			sum.Expenses = append(sum.Expenses, tx)
			sum.TotalExpense = sum.TotalExpense.Add(tx.Amount)
			if cur, ok := sum.CategorySpending[tx.Category]; ok {
				sum.CategorySpending[tx.Category] = cur.Add(tx.Amount)
			}
		}
	}
	sum.Balance = sum.TotalIncome.Sub(sum.TotalExpense)

	hundred := decimal.NewFromInt(100)
	for _, cat := range ExpenseCategories {
		target := percentages[cat]
		spent := sum.CategorySpending[cat]
		limit := sum.TotalIncome.Mul(decimal.NewFromFloat(target)).Div(hundred)

		spentPct := 0.0
		if sum.TotalExpense.IsPositive() {
			spentPct = spent.Div(sum.TotalExpense).Mul(hundred).InexactFloat64()
		}

		status := StatusGood
		if spentPct > target {
			status = StatusDanger
		} else if spentPct > target*0.8 {
			status = StatusWarning
		}

		sum.BudgetStatus = append(sum.BudgetStatus, BudgetStatus{
			Category:         cat,
			TargetPercentage: target,
			SpentPercentage:  spentPct,
			Spent:            spent,
			Limit:            limit,
			Status:           status,
		})
	}

	sum.MonthNote = notes[MonthKey(start)]
	return sum
}

// TrendPoint is one month of the income/expense/balance bar chart.
type TrendPoint struct {
	Month    string          `json:"month"`     // e.g. "Mar 2024"
	MonthKey string          `json:"month_key"` // yyyy-MM
	Income   decimal.Decimal `json:"income"`
	Expense  decimal.Decimal `json:"expense"`
	Balance  decimal.Decimal `json:"balance"`
}

// MonthlyTrend summarizes the last n calendar months ending at the month of
// now, oldest first.
func MonthlyTrend(transactions []models.Transaction, n int, now time.Time) []TrendPoint {
	if n <= 0 {
		n = 6
	}
	points := make([]TrendPoint, 0, n)
	for i := n - 1; i >= 0; i-- {
		month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		data := ComputeMonthlySummary(transactions, month, BudgetPercentages, nil)
		points = append(points, TrendPoint{
			Month:    shortMonthLabel(month),
			MonthKey: MonthKey(month),
			Income:   data.TotalIncome,
			Expense:  data.TotalExpense,
			Balance:  data.Balance,
		})
	}
	return points
}

// dayWithin reports whether t falls inside [start, end] ignoring time of day.
func dayWithin(t, start, end time.Time) bool {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(start) && !d.After(end)
}
