package finance

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"dompetku/models"
)

// Daily filter kinds accepted by ResolveRange.
const (
	Filter7Days     = "7days"
	Filter30Days    = "30days"
	FilterThisMonth = "thisMonth"
	FilterCustom    = "custom"
)

// DateRange is an inclusive calendar-day window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ResolveRange turns a filter selection into a concrete inclusive window
// anchored at now. A custom filter missing either bound falls back to the
// last 7 days, as does an unknown filter value.
func ResolveRange(filter string, from, to *time.Time, now time.Time) DateRange {
	today := dayOf(now)
	switch filter {
	case Filter30Days:
		return DateRange{Start: today.AddDate(0, 0, -29), End: today}
	case FilterThisMonth:
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return DateRange{Start: start, End: start.AddDate(0, 1, -1)}
	case FilterCustom:
		if from != nil && to != nil {
			return DateRange{Start: dayOf(*from), End: dayOf(*to)}
		}
	}
	return DateRange{Start: today.AddDate(0, 0, -6), End: today}
}

// DailyBucket groups one day's expenses, largest first.
type DailyBucket struct {
	Date          string               `json:"date"` // yyyy-MM-dd
	DateFormatted string               `json:"date_formatted"`
	Total         decimal.Decimal      `json:"total"`
	Expenses      []models.Transaction `json:"expenses"`
}

// ChartPoint is one calendar day of the dense chart series. Days without
// expenses are present with a zero total so charts never show gaps.
type ChartPoint struct {
	Date      string          `json:"date"` // yyyy-MM-dd
	DateLabel string          `json:"date_label"`
	Total     decimal.Decimal `json:"total"`
}

// DailyReport is the full daily-expense aggregation for one window.
type DailyReport struct {
	Buckets          []DailyBucket   `json:"daily_data"`
	Chart            []ChartPoint    `json:"chart_data"`
	TodayTotal       decimal.Decimal `json:"today_total"`
	TodayCount       int             `json:"today_count"`
	TotalExpense     decimal.Decimal `json:"total_expense"`
	AverageDaily     decimal.Decimal `json:"average_daily"`
	TransactionCount int             `json:"transaction_count"`
}

// ComputeDailySeries buckets the given expenses by calendar day inside the
// window and builds the dense chart series. The today widget is always
// anchored at now regardless of the selected window. AverageDaily divides by
// the number of days that actually have expenses, not the window length.
func ComputeDailySeries(expenses []models.Transaction, filter string, from, to *time.Time, now time.Time) DailyReport {
	rng := ResolveRange(filter, from, to, now)

	rep := DailyReport{
		TodayTotal:   decimal.Zero,
		TotalExpense: decimal.Zero,
		AverageDaily: decimal.Zero,
	}

	today := dayOf(now)
	byDay := make(map[string][]models.Transaction)
	for _, exp := range expenses {
		if exp.Type != models.TypeExpense {
			continue
		}
		if dayOf(exp.Date).Equal(today) {
			rep.TodayTotal = rep.TodayTotal.Add(exp.Amount)
			rep.TodayCount++
		}
		if !dayWithin(exp.Date, rng.Start, rng.End) {
			continue
		}
		key := exp.Date.Format("2006-01-02")
		byDay[key] = append(byDay[key], exp)
		rep.TotalExpense = rep.TotalExpense.Add(exp.Amount)
		rep.TransactionCount++
	}

	for key, dayExpenses := range byDay {
		sort.SliceStable(dayExpenses, func(i, j int) bool {
			return dayExpenses[i].Amount.GreaterThan(dayExpenses[j].Amount)
		})
		total := decimal.Zero
		for _, e := range dayExpenses {
			total = total.Add(e.Amount)
		}
		day, _ := time.Parse("2006-01-02", key)
		rep.Buckets = append(rep.Buckets, DailyBucket{
			Date:          key,
			DateFormatted: longDayLabel(day),
			Total:         total,
			Expenses:      dayExpenses,
		})
	}
	sort.Slice(rep.Buckets, func(i, j int) bool { return rep.Buckets[i].Date > rep.Buckets[j].Date })

	for day := rng.Start; !day.After(rng.End); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		total := decimal.Zero
		for _, e := range byDay[key] {
			total = total.Add(e.Amount)
		}
		rep.Chart = append(rep.Chart, ChartPoint{
			Date:      key,
			DateLabel: shortDayLabel(day),
			Total:     total,
		})
	}

	if len(rep.Buckets) > 0 {
		rep.AverageDaily = rep.TotalExpense.Div(decimal.NewFromInt(int64(len(rep.Buckets))))
	}
	return rep
}

// Indonesian month names used for display labels.
var monthNamesID = [12]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

var shortMonthNamesID = [12]string{
	"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
	"Jul", "Agu", "Sep", "Okt", "Nov", "Des",
}

func longDayLabel(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), monthNamesID[t.Month()-1], t.Year())
}

func shortDayLabel(t time.Time) string {
	return fmt.Sprintf("%d %s", t.Day(), shortMonthNamesID[t.Month()-1])
}

func shortMonthLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", shortMonthNamesID[t.Month()-1], t.Year())
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
