package finance

import (
	"testing"

	"github.com/shopspring/decimal"

	"dompetku/models"
)

func budget(category, subcategory string, monthly int64) models.BudgetSetting {
	return models.BudgetSetting{
		Category:      category,
		Subcategory:   subcategory,
		MonthlyBudget: decimal.NewFromInt(monthly),
	}
}

func TestRealizationStatusThresholds(t *testing.T) {
	budgets := []models.BudgetSetting{budget("Kebutuhan", "Laundry", 100000)}

	tests := []struct {
		name       string
		spent      int64
		wantPct    float64
		wantStatus string
	}{
		{"at 95 percent", 95000, 95, StatusDanger},
		{"at 90 percent boundary", 90000, 90, StatusDanger},
		{"at 75 percent", 75000, 75, StatusWarning},
		{"at 70 percent boundary", 70000, 70, StatusWarning},
		{"at 50 percent", 50000, 50, StatusGood},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			expenses := []models.Transaction{
				tx("2024-03-10", models.TypeExpense, "Kebutuhan", "Laundry", tc.spent),
			}
			rep := ComputeRealization(budgets, expenses, "2024-03")
			if len(rep.Rows) != 1 {
				t.Fatalf("rows = %d, want 1", len(rep.Rows))
			}
			row := rep.Rows[0]
			if row.Percentage != tc.wantPct {
				t.Errorf("percentage = %f, want %f", row.Percentage, tc.wantPct)
			}
			if row.Status != tc.wantStatus {
				t.Errorf("status = %s, want %s", row.Status, tc.wantStatus)
			}
		})
	}
}

func TestZeroBudgetExcluded(t *testing.T) {
	budgets := []models.BudgetSetting{
		budget("Kebutuhan", "Laundry", 0),
		budget("Kebutuhan", "Bensin motor", 50000),
	}
	expenses := []models.Transaction{
		tx("2024-03-10", models.TypeExpense, "Kebutuhan", "Laundry", 10000),
	}
	rep := ComputeRealization(budgets, expenses, "2024-03")
	if len(rep.Rows) != 1 {
		t.Fatalf("rows = %d, want 1 (zero budget excluded)", len(rep.Rows))
	}
	if rep.Rows[0].Subcategory != "Bensin motor" {
		t.Errorf("remaining row = %s, want Bensin motor", rep.Rows[0].Subcategory)
	}
	if !rep.TotalBudget.Equal(decimal.NewFromInt(50000)) {
		t.Errorf("total budget = %s, want 50000 (zero rows not counted)", rep.TotalBudget)
	}
}

func TestRealizationMonthMatch(t *testing.T) {
	budgets := []models.BudgetSetting{budget("Kebutuhan", "Laundry", 100000)}
	expenses := []models.Transaction{
		tx("2024-03-10", models.TypeExpense, "Kebutuhan", "Laundry", 40000),
		tx("2024-02-28", models.TypeExpense, "Kebutuhan", "Laundry", 99999),
		tx("2024-03-11", models.TypeIncome, IncomeCategory, "Gaji bulanan", 88888),
	}
	rep := ComputeRealization(budgets, expenses, "2024-03")
	if !rep.Rows[0].Spent.Equal(decimal.NewFromInt(40000)) {
		t.Errorf("spent = %s, want 40000 (only march expenses)", rep.Rows[0].Spent)
	}
	if !rep.Rows[0].Remaining.Equal(decimal.NewFromInt(60000)) {
		t.Errorf("remaining = %s, want 60000", rep.Rows[0].Remaining)
	}
}

func TestRealizationKeyIsCategoryAndSubcategory(t *testing.T) {
	budgets := []models.BudgetSetting{budget("Kebutuhan", "Lainnya", 100000)}
	expenses := []models.Transaction{
		tx("2024-03-10", models.TypeExpense, "Kebutuhan", "Lainnya", 30000),
		tx("2024-03-11", models.TypeExpense, "Keinginan", "Lainnya", 50000), // same subcategory, other category
	}
	rep := ComputeRealization(budgets, expenses, "2024-03")
	if !rep.Rows[0].Spent.Equal(decimal.NewFromInt(30000)) {
		t.Errorf("spent = %s, want 30000 (exact category|subcategory match)", rep.Rows[0].Spent)
	}
}

func TestRealizationSortedMostCriticalFirst(t *testing.T) {
	budgets := []models.BudgetSetting{
		budget("Kebutuhan", "Laundry", 100000),
		budget("Keinginan", "Hiburan", 100000),
		budget("Investasi", "Sedekah", 100000),
	}
	expenses := []models.Transaction{
		tx("2024-03-01", models.TypeExpense, "Kebutuhan", "Laundry", 20000),
		tx("2024-03-01", models.TypeExpense, "Keinginan", "Hiburan", 95000),
		tx("2024-03-01", models.TypeExpense, "Investasi", "Sedekah", 75000),
	}
	rep := ComputeRealization(budgets, expenses, "2024-03")
	wantOrder := []string{"Hiburan", "Sedekah", "Laundry"}
	for i, want := range wantOrder {
		if rep.Rows[i].Subcategory != want {
			t.Errorf("rows[%d] = %s, want %s", i, rep.Rows[i].Subcategory, want)
		}
	}
}

func TestRealizationOverspend(t *testing.T) {
	budgets := []models.BudgetSetting{budget("Kebutuhan", "Laundry", 50000)}
	expenses := []models.Transaction{
		tx("2024-03-01", models.TypeExpense, "Kebutuhan", "Laundry", 80000),
	}
	rep := ComputeRealization(budgets, expenses, "2024-03")
	row := rep.Rows[0]
	if !row.Remaining.Equal(decimal.NewFromInt(-30000)) {
		t.Errorf("remaining = %s, want -30000", row.Remaining)
	}
	if row.Percentage != 160 {
		t.Errorf("percentage = %f, want 160", row.Percentage)
	}
	if row.Status != StatusDanger {
		t.Errorf("status = %s, want danger", row.Status)
	}
	if !rep.TotalRemaining.Equal(decimal.NewFromInt(-30000)) {
		t.Errorf("total remaining = %s, want -30000", rep.TotalRemaining)
	}
}
