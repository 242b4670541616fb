package expense

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/suntzu974/papang/internal/app_errors"
	"github.com/suntzu974/papang/internal/delivery/http/controllers/middleware"
	"github.com/suntzu974/papang/internal/models"
	"github.com/suntzu974/papang/pkg/logger"

	"github.com/gin-gonic/gin"
)

type ExpenseService interface {
	CreateExpense(ctx context.Context, userID int64, category string, amount float64, description *string) (*models.Expense, error)
	Expenses(ctx context.Context, userID int64, category string) ([]models.Expense, error)
	UpdateExpense(ctx context.Context, userID, id int64, category string, amount float64, description *string) (*models.Expense, error)
	DeleteExpense(ctx context.Context, userID, id int64) error
	UploadReceipt(ctx context.Context, userID, id int64, filename string, reader io.Reader, size int64, contentType string) (string, error)
}

type ExpenseHandler struct {
	log     logger.Log
	service ExpenseService
}

func NewExpenseHandler(l logger.Log, s ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{
		log:     l,
		service: s,
	}
}

func badRequest(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, app_errors.ErrInvalidCategory),
		errors.Is(err, app_errors.ErrInvalidAmount),
		errors.Is(err, app_errors.ErrDescriptionTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return true
	}
	return false
}

type createExpenseRequest struct {
	Category    string  `json:"category" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	Description *string `json:"description"`
}

func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input createExpenseRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}

	expense, err := h.service.CreateExpense(c.Request.Context(), userID, input.Category, input.Amount, input.Description)
	if err != nil {
		if badRequest(c, err) {
			return
		}
		h.log.ErrorErr("error creating expense", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred."})
		return
	}

	c.JSON(http.StatusCreated, expense)
}

func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	expenses, err := h.service.Expenses(c.Request.Context(), userID, c.Query("category"))
	if err != nil {
		if badRequest(c, err) {
			return
		}
		h.log.ErrorErr("error listing expenses", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred."})
		return
	}

	c.JSON(http.StatusOK, expenses)
}

type updateExpenseRequest struct {
	ID          int64   `json:"id" binding:"required,min=1"`
	Category    string  `json:"category" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	Description *string `json:"description"`
}

func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input updateExpenseRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}

	expense, err := h.service.UpdateExpense(c.Request.Context(), userID, input.ID, input.Category, input.Amount, input.Description)
	if err != nil {
		if badRequest(c, err) {
			return
		}
		if errors.Is(err, app_errors.ErrExpenseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.ErrorErr("error updating expense", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred."})
		return
	}

	c.JSON(http.StatusOK, expense)
}

func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.ParseInt(c.Param("expense_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expense_id"})
		return
	}

	if err := h.service.DeleteExpense(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, app_errors.ErrExpenseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.ErrorErr("error deleting expense", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred."})
		return
	}

	c.Status(http.StatusNoContent)
}
