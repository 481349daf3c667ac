package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"dompetku/models"
	"dompetku/pkg/finance"
)

type transactionRequest struct {
	Date            string          `json:"date" binding:"required"` // yyyy-MM-dd
	Type            string          `json:"type" binding:"required"`
	Category        string          `json:"category"`
	Subcategory     string          `json:"subcategory" binding:"required"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethodID *uint           `json:"payment_method_id"`
}

func (r *transactionRequest) validate() (time.Time, string) {
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return time.Time{}, "date must be yyyy-MM-dd"
	}
	if r.Type != models.TypeIncome && r.Type != models.TypeExpense {
		return time.Time{}, "type must be income or expense"
	}
	if !r.Amount.IsPositive() {
		return time.Time{}, "amount must be greater than zero"
	}
	if len(r.Description) > 200 {
		return time.Time{}, "description too long (max 200)"
	}
	if r.Type == models.TypeIncome {
		// income always carries the single income category
		r.Category = finance.IncomeCategory
	} else if r.Category == "" {
		return time.Time{}, "category required for expense"
	}
	return date, ""
}

// adjustMethodBalance applies a signed balance change to one payment method.
// This is deliberately a second, independent write after the primary
// transaction write: if it fails the transaction stands and the stored
// balance drifts from the transaction sum. Callers report balance_synced so
// clients can see when that happened.
func adjustMethodBalance(userID, methodID uint, amount decimal.Decimal, increase bool) error {
	var method models.PaymentMethod
	if err := db.Where("id = ? AND user_id = ?", methodID, userID).First(&method).Error; err != nil {
		return err
	}
	if increase {
		method.Balance = method.Balance.Add(amount)
	} else {
		method.Balance = method.Balance.Sub(amount)
	}
	return db.Model(&models.PaymentMethod{}).Where("id = ?", method.ID).Update("balance", method.Balance).Error
}

func createTransactionHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, msg := req.validate()
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	if req.PaymentMethodID != nil {
		var method models.PaymentMethod
		if err := db.Where("id = ? AND user_id = ?", *req.PaymentMethodID, user.ID).First(&method).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "payment method not found"})
			return
		}
	}

	syncStart("transaction")
	tx := models.Transaction{
		UserID:          user.ID,
		Date:            date,
		Type:            req.Type,
		Category:        req.Category,
		Subcategory:     req.Subcategory,
		Description:     req.Description,
		Amount:          req.Amount,
		PaymentMethodID: req.PaymentMethodID,
	}
	if err := db.Create(&tx).Error; err != nil {
		syncError("transaction")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	balanceSynced := true
	if req.PaymentMethodID != nil {
		if err := adjustMethodBalance(user.ID, *req.PaymentMethodID, req.Amount, req.Type == models.TypeIncome); err != nil {
			slog.Warn("balance adjustment failed after transaction write", "transaction_id", tx.ID, "method_id", *req.PaymentMethodID, "error", err)
			balanceSynced = false
		}
	}
	invalidateReports(user.ID)
	syncComplete("transaction")
	c.JSON(http.StatusOK, gin.H{"id": tx.ID, "balance_synced": balanceSynced})
}

// listTransactionsHandler lists transactions for the authenticated user (admin sees all)
func listTransactionsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var items []models.Transaction
	q := db.Model(&models.Transaction{})
	if !isAdmin(c) {
		q = q.Where("user_id = ?", user.ID)
	}
	if t := c.Query("type"); t != "" {
		q = q.Where("type = ?", t)
	}
	if err := q.Order("date desc, id desc").Limit(500).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// updateTransactionHandler replaces every user-editable field of a
// transaction. No balance adjustment happens on edit; only create and delete
// touch payment method balances.
func updateTransactionHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var tx models.Transaction
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).First(&tx).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, msg := req.validate()
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	syncStart("transaction")
	tx.Date = date
	tx.Type = req.Type
	tx.Category = req.Category
	tx.Subcategory = req.Subcategory
	tx.Description = req.Description
	tx.Amount = req.Amount
	tx.PaymentMethodID = req.PaymentMethodID
	if err := db.Save(&tx).Error; err != nil {
		syncError("transaction")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	invalidateReports(user.ID)
	syncComplete("transaction")
	c.JSON(http.StatusOK, tx)
}

func deleteTransactionHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var tx models.Transaction
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).First(&tx).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	syncStart("transaction")
	if err := db.Delete(&tx).Error; err != nil {
		syncError("transaction")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}

	// reverse the balance effect of the deleted row, again as an independent write
	balanceSynced := true
	if tx.PaymentMethodID != nil {
		if err := adjustMethodBalance(user.ID, *tx.PaymentMethodID, tx.Amount, tx.Type == models.TypeExpense); err != nil {
			slog.Warn("balance reversal failed after transaction delete", "transaction_id", tx.ID, "error", err)
			balanceSynced = false
		}
	}
	invalidateReports(user.ID)
	syncComplete("transaction")
	c.JSON(http.StatusOK, gin.H{"message": "deleted", "balance_synced": balanceSynced})
}
