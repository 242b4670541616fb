package expense

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/suntzu974/papang/internal/app_errors"
	"github.com/suntzu974/papang/internal/delivery/http/controllers/middleware"
	"github.com/suntzu974/papang/internal/models"
	"github.com/suntzu974/papang/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExpenseService struct {
	createFn func(ctx context.Context, userID int64, category string, amount float64, description *string) (*models.Expense, error)
	listFn   func(ctx context.Context, userID int64, category string) ([]models.Expense, error)
	updateFn func(ctx context.Context, userID, id int64, category string, amount float64, description *string) (*models.Expense, error)
	deleteFn func(ctx context.Context, userID, id int64) error
}

func (s *stubExpenseService) CreateExpense(ctx context.Context, userID int64, category string, amount float64, description *string) (*models.Expense, error) {
	return s.createFn(ctx, userID, category, amount, description)
}

func (s *stubExpenseService) Expenses(ctx context.Context, userID int64, category string) ([]models.Expense, error) {
	return s.listFn(ctx, userID, category)
}

func (s *stubExpenseService) UpdateExpense(ctx context.Context, userID, id int64, category string, amount float64, description *string) (*models.Expense, error) {
	return s.updateFn(ctx, userID, id, category, amount, description)
}

func (s *stubExpenseService) DeleteExpense(ctx context.Context, userID, id int64) error {
	return s.deleteFn(ctx, userID, id)
}

func (s *stubExpenseService) UploadReceipt(ctx context.Context, userID, id int64, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	return "", nil
}

func newExpenseContext(t *testing.T, userID int64, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.UserIDCtx, userID)

	return c, w
}

func TestExpenseHandler_CreateExpense(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
	}{
		{
			name:       "success",
			body:       `{"category":"Groceries","amount":42.50,"description":"weekly shop"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "unknown category",
			body:       `{"category":"Gambling","amount":42.50}`,
			serviceErr: app_errors.ErrInvalidCategory,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "non-positive amount",
			body:       `{"category":"Groceries","amount":-1}`,
			serviceErr: app_errors.ErrInvalidAmount,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing fields",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubExpenseService{
				createFn: func(ctx context.Context, userID int64, category string, amount float64, description *string) (*models.Expense, error) {
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &models.Expense{ID: 1, Category: category, Amount: amount, Description: description}, nil
				},
			}
			h := NewExpenseHandler(logger.Discard(), svc)

			c, w := newExpenseContext(t, 7, http.MethodPost, "/v1/expenses", tt.body)
			h.CreateExpense(c)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestExpenseHandler_ListExpenses_PassesCategoryFilter(t *testing.T) {
	var gotUserID int64
	var gotCategory string

	svc := &stubExpenseService{
		listFn: func(ctx context.Context, userID int64, category string) ([]models.Expense, error) {
			gotUserID = userID
			gotCategory = category
			return []models.Expense{{ID: 1, Category: models.CategoryLeisure, Amount: 10}}, nil
		},
	}
	h := NewExpenseHandler(logger.Discard(), svc)

	c, w := newExpenseContext(t, 7, http.MethodGet, "/v1/expenses?category=Leisure", "")
	h.ListExpenses(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), gotUserID)
	assert.Equal(t, "Leisure", gotCategory)

	var got []models.Expense
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 1)
}

func TestExpenseHandler_UpdateExpense_NotFound(t *testing.T) {
	svc := &stubExpenseService{
		updateFn: func(ctx context.Context, userID, id int64, category string, amount float64, description *string) (*models.Expense, error) {
			return nil, app_errors.ErrExpenseNotFound
		},
	}
	h := NewExpenseHandler(logger.Discard(), svc)

	c, w := newExpenseContext(t, 7, http.MethodPut, "/v1/expenses",
		`{"id":99,"category":"Groceries","amount":10}`)
	h.UpdateExpense(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExpenseHandler_DeleteExpense(t *testing.T) {
	tests := []struct {
		name       string
		param      string
		serviceErr error
		wantStatus int
	}{
		{
			name:       "success",
			param:      "3",
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "not found",
			param:      "99",
			serviceErr: app_errors.ErrExpenseNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "malformed id",
			param:      "abc",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubExpenseService{
				deleteFn: func(ctx context.Context, userID, id int64) error {
					return tt.serviceErr
				},
			}
			h := NewExpenseHandler(logger.Discard(), svc)

			c, w := newExpenseContext(t, 7, http.MethodDelete, "/v1/expenses/"+tt.param, "")
			c.Params = gin.Params{{Key: "expense_id", Value: tt.param}}
			h.DeleteExpense(c)
			c.Writer.WriteHeaderNow()

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestExpenseHandler_RequiresAuthentication(t *testing.T) {
	h := NewExpenseHandler(logger.Discard(), &stubExpenseService{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/expenses", nil)

	h.ListExpenses(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
