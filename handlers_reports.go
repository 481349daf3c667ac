package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"dompetku/models"
	"dompetku/pkg/finance"
)

func loadUserTransactions(userID uint) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := db.Where("user_id = ?", userID).Order("date desc, id desc").Find(&txs).Error
	return txs, err
}

func loadUserNotes(userID uint) (map[string]string, error) {
	var rows []models.MonthlyNote
	if err := db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	notes := make(map[string]string, len(rows))
	for _, n := range rows {
		notes[n.Month] = n.Note
	}
	return notes, nil
}

func parseMonthParam(c *gin.Context) (time.Time, string, bool) {
	month := c.Query("month")
	if month == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), now.Format("2006-01"), true
	}
	t, err := time.Parse("2006-01", month)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be yyyy-MM"})
		return time.Time{}, "", false
	}
	return t, month, true
}

// monthlyReportHandler serves the month summary: totals, per-category
// spending, budget status per the 50/30/15/5 rule, and the month note.
func monthlyReportHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	target, monthKey, ok := parseMonthParam(c)
	if !ok {
		return
	}

	cacheKey := reportCacheKey(user.ID, "monthly", monthKey)
	if payload, hit := cachedReport(cacheKey); hit {
		c.Data(http.StatusOK, "application/json", payload)
		return
	}

	txs, err := loadUserTransactions(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	notes, err := loadUserNotes(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	summary := finance.ComputeMonthlySummary(txs, target, finance.BudgetPercentages, notes)
	payload, err := json.Marshal(summary)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "encode failed"})
		return
	}
	storeReport(cacheKey, payload)
	c.Data(http.StatusOK, "application/json", payload)
}

func dailyReportHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	filter := c.DefaultQuery("filter", finance.Filter7Days)
	var from, to *time.Time
	if v := c.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be yyyy-MM-dd"})
			return
		}
		from = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be yyyy-MM-dd"})
			return
		}
		to = &t
	}

	txs, err := loadUserTransactions(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, finance.ComputeDailySeries(txs, filter, from, to, time.Now()))
}

func realizationReportHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	_, monthKey, ok := parseMonthParam(c)
	if !ok {
		return
	}

	cacheKey := reportCacheKey(user.ID, "realization", monthKey)
	if payload, hit := cachedReport(cacheKey); hit {
		c.Data(http.StatusOK, "application/json", payload)
		return
	}

	var budgets []models.BudgetSetting
	if err := db.Where("user_id = ?", user.ID).Find(&budgets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	txs, err := loadUserTransactions(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	report := finance.ComputeRealization(budgets, txs, monthKey)
	payload, err := json.Marshal(report)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "encode failed"})
		return
	}
	storeReport(cacheKey, payload)
	c.Data(http.StatusOK, "application/json", payload)
}

func trendReportHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	months := 6
	if v := c.Query("months"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 36 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "months must be 1-36"})
			return
		}
		months = n
	}
	txs, err := loadUserTransactions(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, finance.MonthlyTrend(txs, months, time.Now()))
}

// exportReportHandler writes the month's transactions as a downloadable CSV
// or XLSX report: a summary block plus income and expense sections, matching
// the layout users see in the app.
func exportReportHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	target, monthKey, ok := parseMonthParam(c)
	if !ok {
		return
	}
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
		return
	}

	txs, err := loadUserTransactions(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	summary := finance.ComputeMonthlySummary(txs, target, finance.BudgetPercentages, nil)

	base := fmt.Sprintf("Laporan_Keuangan_%s_%s", monthKey, uuid.NewString()[:8])
	if format == "csv" {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", base))
		c.Header("Content-Type", "text/csv; charset=utf-8")
		writeReportCSV(c, monthKey, summary)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", base))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	writeReportXLSX(c, monthKey, summary)
}

func transactionRow(t models.Transaction) []string {
	desc := t.Description
	if desc == "" {
		desc = "-"
	}
	return []string{
		t.Date.Format("2006-01-02"),
		t.Category,
		t.Subcategory,
		desc,
		t.Amount.String(),
	}
}

func writeReportCSV(c *gin.Context, monthKey string, summary finance.MonthlySummary) {
	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"RINGKASAN"})
	_ = w.Write([]string{"Periode", monthKey})
	_ = w.Write([]string{"Total Pemasukan", summary.TotalIncome.String()})
	_ = w.Write([]string{"Total Pengeluaran", summary.TotalExpense.String()})
	_ = w.Write([]string{"Saldo", summary.Balance.String()})
	_ = w.Write(nil)

	header := []string{"Tanggal", "Kategori", "Subkategori", "Deskripsi", "Nominal"}
	_ = w.Write([]string{"PEMASUKAN"})
	_ = w.Write(header)
	for _, t := range summary.Incomes {
		_ = w.Write(transactionRow(t))
	}
	_ = w.Write(nil)
	_ = w.Write([]string{"PENGELUARAN"})
	_ = w.Write(header)
	for _, t := range summary.Expenses {
		_ = w.Write(transactionRow(t))
	}
	w.Flush()
}

func writeReportXLSX(c *gin.Context, monthKey string, summary finance.MonthlySummary) {
	f := excelize.NewFile()
	defer f.Close()

	sheetRows := func(sheet string, txs []models.Transaction) {
		_, _ = f.NewSheet(sheet)
		_ = f.SetSheetRow(sheet, "A1", &[]string{"Tanggal", "Kategori", "Subkategori", "Deskripsi", "Nominal"})
		for i, t := range txs {
			cell := fmt.Sprintf("A%d", i+2)
			amount, _ := t.Amount.Float64()
			_ = f.SetSheetRow(sheet, cell, &[]interface{}{
				t.Date.Format("2006-01-02"), t.Category, t.Subcategory, t.Description, amount,
			})
		}
	}

	summarySheet := "Ringkasan"
	_ = f.SetSheetName("Sheet1", summarySheet)
	totalIncome, _ := summary.TotalIncome.Float64()
	totalExpense, _ := summary.TotalExpense.Float64()
	balance, _ := summary.Balance.Float64()
	_ = f.SetSheetRow(summarySheet, "A1", &[]interface{}{"Keterangan", "Nilai"})
	_ = f.SetSheetRow(summarySheet, "A2", &[]interface{}{"Periode", monthKey})
	_ = f.SetSheetRow(summarySheet, "A3", &[]interface{}{"Total Pemasukan", totalIncome})
	_ = f.SetSheetRow(summarySheet, "A4", &[]interface{}{"Total Pengeluaran", totalExpense})
	_ = f.SetSheetRow(summarySheet, "A5", &[]interface{}{"Saldo", balance})

	sheetRows("Pemasukan", summary.Incomes)
	sheetRows("Pengeluaran", summary.Expenses)

	if err := f.Write(c.Writer); err != nil {
		// headers are already out; the truncated body surfaces the failure
		_ = c.Error(err)
	}
}
