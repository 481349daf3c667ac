package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"

	"dompetku/models"
	"dompetku/pkg/finance"
)

// --- payment methods ---

func listPaymentMethodsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var methods []models.PaymentMethod
	if err := db.Where("user_id = ?", user.ID).Order("created_at asc").Find(&methods).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, methods)
}

func createPaymentMethodHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		Name    string          `json:"name" binding:"required"`
		Balance decimal.Decimal `json:"balance"`
		Icon    string          `json:"icon"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Icon == "" {
		req.Icon = "wallet"
	}
	syncStart("payment_method")
	method := models.PaymentMethod{UserID: user.ID, Name: req.Name, Balance: req.Balance, Icon: req.Icon}
	if err := db.Create(&method).Error; err != nil {
		syncError("payment_method")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	syncComplete("payment_method")
	c.JSON(http.StatusOK, method)
}

// updatePaymentMethodHandler edits name/balance/icon. Balance edits here are
// the manual adjustments the balance model is built around.
func updatePaymentMethodHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var method models.PaymentMethod
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).First(&method).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	var req struct {
		Name    *string          `json:"name"`
		Balance *decimal.Decimal `json:"balance"`
		Icon    *string          `json:"icon"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	syncStart("payment_method")
	if req.Name != nil {
		method.Name = *req.Name
	}
	if req.Balance != nil {
		method.Balance = *req.Balance
	}
	if req.Icon != nil {
		method.Icon = *req.Icon
	}
	if err := db.Save(&method).Error; err != nil {
		syncError("payment_method")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	syncComplete("payment_method")
	c.JSON(http.StatusOK, method)
}

func deletePaymentMethodHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var method models.PaymentMethod
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).First(&method).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	syncStart("payment_method")
	// detach references so transaction and transfer history survives the method
	db.Model(&models.Transaction{}).Where("user_id = ? AND payment_method_id = ?", user.ID, method.ID).Update("payment_method_id", nil)
	db.Model(&models.MoneyTransfer{}).Where("user_id = ? AND from_method_id = ?", user.ID, method.ID).Update("from_method_id", nil)
	db.Model(&models.MoneyTransfer{}).Where("user_id = ? AND to_method_id = ?", user.ID, method.ID).Update("to_method_id", nil)
	if err := db.Delete(&method).Error; err != nil {
		syncError("payment_method")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	syncComplete("payment_method")
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// --- money transfers ---

func listTransfersHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var transfers []models.MoneyTransfer
	q := db.Model(&models.MoneyTransfer{})
	if !isAdmin(c) {
		q = q.Where("user_id = ?", user.ID)
	}
	if err := q.Order("date desc, id desc").Limit(200).Find(&transfers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, transfers)
}

func createTransferHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		FromMethodID uint            `json:"from_method_id" binding:"required"`
		ToMethodID   uint            `json:"to_method_id" binding:"required"`
		Amount       decimal.Decimal `json:"amount" binding:"required"`
		Description  string          `json:"description"`
		Date         string          `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// input-time validation only; transfer rows are never re-checked later
	if req.FromMethodID == req.ToMethodID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot transfer to the same method"})
		return
	}
	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be greater than zero"})
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be yyyy-MM-dd"})
		return
	}
	var from, to models.PaymentMethod
	if err := db.Where("id = ? AND user_id = ?", req.FromMethodID, user.ID).First(&from).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source method not found"})
		return
	}
	if err := db.Where("id = ? AND user_id = ?", req.ToMethodID, user.ID).First(&to).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "destination method not found"})
		return
	}
	if from.Balance.LessThan(req.Amount) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient balance"})
		return
	}

	syncStart("transfer")
	fromID, toID := req.FromMethodID, req.ToMethodID
	transfer := models.MoneyTransfer{
		UserID:       user.ID,
		FromMethodID: &fromID,
		ToMethodID:   &toID,
		Amount:       req.Amount,
		Description:  req.Description,
		Date:         date,
	}
	if err := db.Create(&transfer).Error; err != nil {
		syncError("transfer")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	// balance moves follow as two independent writes, same drift caveat as
	// transaction creation
	balanceSynced := true
	if err := adjustMethodBalance(user.ID, fromID, req.Amount, false); err != nil {
		slog.Warn("transfer source balance adjustment failed", "transfer_id", transfer.ID, "error", err)
		balanceSynced = false
	}
	if err := adjustMethodBalance(user.ID, toID, req.Amount, true); err != nil {
		slog.Warn("transfer destination balance adjustment failed", "transfer_id", transfer.ID, "error", err)
		balanceSynced = false
	}
	syncComplete("transfer")
	c.JSON(http.StatusOK, gin.H{"id": transfer.ID, "balance_synced": balanceSynced})
}

// deleteTransferHandler removes a transfer record. Balances are not touched:
// deleting history does not undo the movement. Admins may delete any
// transfer, owners only their own.
func deleteTransferHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var transfer models.MoneyTransfer
	q := db.Model(&models.MoneyTransfer{}).Where("id = ?", c.Param("id"))
	if !isAdmin(c) {
		q = q.Where("user_id = ?", user.ID)
	}
	if err := q.First(&transfer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	syncStart("transfer")
	if err := db.Delete(&transfer).Error; err != nil {
		syncError("transfer")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	syncComplete("transfer")
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// --- budget settings ---

func listBudgetsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var budgets []models.BudgetSetting
	if err := db.Where("user_id = ?", user.ID).Order("category asc, subcategory asc").Find(&budgets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, budgets)
}

// upsertBudgetHandler creates or replaces the cap for one
// (category, subcategory) pair, enforcing the uniqueness invariant through
// the conflict key.
func upsertBudgetHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		Category      string          `json:"category" binding:"required"`
		Subcategory   string          `json:"subcategory" binding:"required"`
		MonthlyBudget decimal.Decimal `json:"monthly_budget"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.MonthlyBudget.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "monthly_budget cannot be negative"})
		return
	}
	syncStart("budget")
	budget := models.BudgetSetting{
		UserID:        user.ID,
		Category:      req.Category,
		Subcategory:   req.Subcategory,
		MonthlyBudget: req.MonthlyBudget,
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "category"}, {Name: "subcategory"}},
		DoUpdates: clause.AssignmentColumns([]string{"monthly_budget", "updated_at"}),
	}).Create(&budget).Error
	if err != nil {
		syncError("budget")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upsert failed"})
		return
	}
	invalidateReports(user.ID)
	syncComplete("budget")
	c.JSON(http.StatusOK, budget)
}

func deleteBudgetHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	syncStart("budget")
	res := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).Delete(&models.BudgetSetting{})
	if res.Error != nil {
		syncError("budget")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if res.RowsAffected == 0 {
		syncError("budget")
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	invalidateReports(user.ID)
	syncComplete("budget")
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// --- categories ---

// listCategoriesHandler returns the merged default+custom taxonomy. Defaults
// never live in the database; the merge runs on every read.
func listCategoriesHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var custom []models.CustomCategory
	if err := db.Where("user_id = ?", user.ID).Order("category asc").Find(&custom).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"taxonomy": finance.MergeTaxonomy(custom),
		"custom":   custom,
	})
}

func createCategoryHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		Category    string `json:"category" binding:"required"`
		Subcategory string `json:"subcategory" binding:"required"`
		Type        string `json:"type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Type != models.TypeIncome && req.Type != models.TypeExpense {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be income or expense"})
		return
	}
	syncStart("category")
	cat := models.CustomCategory{UserID: user.ID, Category: req.Category, Subcategory: req.Subcategory, Type: req.Type}
	if err := db.Create(&cat).Error; err != nil {
		syncError("category")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	syncComplete("category")
	c.JSON(http.StatusOK, cat)
}

func updateCategoryHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var cat models.CustomCategory
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).First(&cat).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	var req struct {
		Category    string `json:"category" binding:"required"`
		Subcategory string `json:"subcategory" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	syncStart("category")
	cat.Category = req.Category
	cat.Subcategory = req.Subcategory
	if err := db.Save(&cat).Error; err != nil {
		syncError("category")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	syncComplete("category")
	c.JSON(http.StatusOK, cat)
}

func deleteCategoryHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	syncStart("category")
	res := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).Delete(&models.CustomCategory{})
	if res.Error != nil {
		syncError("category")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if res.RowsAffected == 0 {
		syncError("category")
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	syncComplete("category")
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// --- monthly notes ---

func getNoteHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	month := c.Query("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	var note models.MonthlyNote
	if err := db.Where("user_id = ? AND month = ?", user.ID, month).First(&note).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"month": month, "note": ""})
		return
	}
	c.JSON(http.StatusOK, note)
}

func upsertNoteHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		Month string `json:"month" binding:"required"` // yyyy-MM
		Note  string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := time.Parse("2006-01", req.Month); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be yyyy-MM"})
		return
	}
	syncStart("note")
	note := models.MonthlyNote{UserID: user.ID, Month: req.Month, Note: req.Note}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{"note", "updated_at"}),
	}).Create(&note).Error
	if err != nil {
		syncError("note")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upsert failed"})
		return
	}
	invalidateReports(user.ID)
	syncComplete("note")
	c.JSON(http.StatusOK, note)
}
