package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"dompetku/models"
)

var dailyNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestResolveRange(t *testing.T) {
	from := date("2024-02-01")
	to := date("2024-02-10")

	tests := []struct {
		name      string
		filter    string
		from, to  *time.Time
		wantStart string
		wantEnd   string
	}{
		{"last 7 days", Filter7Days, nil, nil, "2024-03-09", "2024-03-15"},
		{"last 30 days", Filter30Days, nil, nil, "2024-02-15", "2024-03-15"},
		{"this month", FilterThisMonth, nil, nil, "2024-03-01", "2024-03-31"},
		{"custom", FilterCustom, &from, &to, "2024-02-01", "2024-02-10"},
		{"custom missing bound falls back", FilterCustom, &from, nil, "2024-03-09", "2024-03-15"},
		{"unknown filter falls back", "whatever", nil, nil, "2024-03-09", "2024-03-15"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rng := ResolveRange(tc.filter, tc.from, tc.to, dailyNow)
			if got := rng.Start.Format("2006-01-02"); got != tc.wantStart {
				t.Errorf("start = %s, want %s", got, tc.wantStart)
			}
			if got := rng.End.Format("2006-01-02"); got != tc.wantEnd {
				t.Errorf("end = %s, want %s", got, tc.wantEnd)
			}
		})
	}
}

func TestDenseSeriesNoExpenses(t *testing.T) {
	rep := ComputeDailySeries(nil, Filter7Days, nil, nil, dailyNow)
	if len(rep.Chart) != 7 {
		t.Fatalf("chart length = %d, want 7", len(rep.Chart))
	}
	for _, p := range rep.Chart {
		if !p.Total.IsZero() {
			t.Errorf("chart[%s].Total = %s, want 0", p.Date, p.Total)
		}
	}
	if !rep.AverageDaily.IsZero() {
		t.Errorf("average daily = %s, want 0", rep.AverageDaily)
	}
	if len(rep.Buckets) != 0 {
		t.Errorf("buckets = %d, want 0", len(rep.Buckets))
	}
}

func TestDenseSeriesCoversEveryDay(t *testing.T) {
	from := date("2024-03-01")
	to := date("2024-03-10")
	expenses := []models.Transaction{
		tx("2024-03-03", models.TypeExpense, "Kebutuhan", "Laundry", 5000),
	}
	rep := ComputeDailySeries(expenses, FilterCustom, &from, &to, dailyNow)
	if len(rep.Chart) != 10 {
		t.Fatalf("chart length = %d, want 10 for a 10-day window", len(rep.Chart))
	}
	nonZero := 0
	for _, p := range rep.Chart {
		if !p.Total.IsZero() {
			nonZero++
		}
	}
	if nonZero != 1 {
		t.Errorf("non-zero chart points = %d, want 1", nonZero)
	}
}

func TestBucketsGroupingAndOrdering(t *testing.T) {
	expenses := []models.Transaction{
		tx("2024-03-14", models.TypeExpense, "Kebutuhan", "Laundry", 10000),
		tx("2024-03-14", models.TypeExpense, "Keinginan", "Jajanan", 25000),
		tx("2024-03-12", models.TypeExpense, "Kebutuhan", "Bensin motor", 30000),
	}
	rep := ComputeDailySeries(expenses, Filter7Days, nil, nil, dailyNow)

	if len(rep.Buckets) != 2 {
		t.Fatalf("buckets = %d, want 2", len(rep.Buckets))
	}
	// newest date first
	if rep.Buckets[0].Date != "2024-03-14" || rep.Buckets[1].Date != "2024-03-12" {
		t.Errorf("bucket order = %s, %s; want 2024-03-14 then 2024-03-12", rep.Buckets[0].Date, rep.Buckets[1].Date)
	}
	// expenses within a day sorted by amount descending
	day := rep.Buckets[0]
	if !day.Expenses[0].Amount.Equal(decimal.NewFromInt(25000)) {
		t.Errorf("largest expense first, got %s", day.Expenses[0].Amount)
	}
	if !day.Total.Equal(decimal.NewFromInt(35000)) {
		t.Errorf("day total = %s, want 35000", day.Total)
	}
	if day.DateFormatted != "14 Maret 2024" {
		t.Errorf("formatted label = %q, want %q", day.DateFormatted, "14 Maret 2024")
	}

	if !rep.TotalExpense.Equal(decimal.NewFromInt(65000)) {
		t.Errorf("total expense = %s, want 65000", rep.TotalExpense)
	}
	// average over days WITH data (2), not the 7-day window
	if !rep.AverageDaily.Equal(decimal.NewFromInt(32500)) {
		t.Errorf("average daily = %s, want 32500", rep.AverageDaily)
	}
	if rep.TransactionCount != 3 {
		t.Errorf("transaction count = %d, want 3", rep.TransactionCount)
	}
}

func TestTodayWidgetIgnoresWindow(t *testing.T) {
	from := date("2024-02-01")
	to := date("2024-02-10")
	expenses := []models.Transaction{
		tx("2024-03-15", models.TypeExpense, "Kebutuhan", "Laundry", 7000), // today, outside window
		tx("2024-02-05", models.TypeExpense, "Kebutuhan", "Laundry", 9000), // inside window
	}
	rep := ComputeDailySeries(expenses, FilterCustom, &from, &to, dailyNow)

	if !rep.TodayTotal.Equal(decimal.NewFromInt(7000)) {
		t.Errorf("today total = %s, want 7000", rep.TodayTotal)
	}
	if rep.TodayCount != 1 {
		t.Errorf("today count = %d, want 1", rep.TodayCount)
	}
	if !rep.TotalExpense.Equal(decimal.NewFromInt(9000)) {
		t.Errorf("window total = %s, want 9000", rep.TotalExpense)
	}
}

func TestIncomeRowsIgnored(t *testing.T) {
	expenses := []models.Transaction{
		tx("2024-03-14", models.TypeIncome, IncomeCategory, "Gaji bulanan", 100000),
		tx("2024-03-14", models.TypeExpense, "Kebutuhan", "Laundry", 5000),
	}
	rep := ComputeDailySeries(expenses, Filter7Days, nil, nil, dailyNow)
	if !rep.TotalExpense.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("total expense = %s, want 5000 (income rows skipped)", rep.TotalExpense)
	}
}
