package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dompetku/models"
)

// Admin endpoints. adminOnlyMiddleware already gates the group; these
// handlers only implement the operations.

func listUsersHandler(c *gin.Context) {
	var users []models.User
	if err := db.Preload("Role").Order("id asc").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, gin.H{
			"id":         u.ID,
			"username":   u.Username,
			"role":       u.Role.Name,
			"created_at": u.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

func updateUserRoleHandler(c *gin.Context) {
	var user models.User
	if err := db.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var role models.Role
	if err := db.Where("name = ?", req.Role).First(&role).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		return
	}
	if err := db.Model(&user).Update("role_id", role.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": user.ID, "role": role.Name})
}

func deleteUserHandler(c *gin.Context) {
	requester, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var user models.User
	if err := db.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if user.ID == requester.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete own account"})
		return
	}
	// remove the user's rows first so no orphaned financial data remains
	db.Where("user_id = ?", user.ID).Delete(&models.Transaction{})
	db.Where("user_id = ?", user.ID).Delete(&models.MoneyTransfer{})
	db.Where("user_id = ?", user.ID).Delete(&models.PaymentMethod{})
	db.Where("user_id = ?", user.ID).Delete(&models.BudgetSetting{})
	db.Where("user_id = ?", user.ID).Delete(&models.CustomCategory{})
	db.Where("user_id = ?", user.ID).Delete(&models.MonthlyNote{})
	db.Where("user_id = ?", user.ID).Delete(&models.RefreshToken{})
	if err := db.Delete(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
