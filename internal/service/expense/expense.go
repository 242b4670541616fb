package expense

import (
	"context"
	"io"
	"strings"

	"github.com/suntzu974/papang/internal/app_errors"
	"github.com/suntzu974/papang/internal/models"
	"github.com/suntzu974/papang/pkg/logger"
)

const (
	maxDescriptionLen = 255
	maxReceiptSize    = 5 << 20
)

type ExpenseRepo interface {
	CreateExpense(ctx context.Context, userID int64, category string, amount float64, description *string) (*models.Expense, error)
	ExpenseByID(ctx context.Context, userID, id int64) (*models.Expense, error)
	ExpensesByUser(ctx context.Context, userID int64) ([]models.Expense, error)
	ExpensesByCategory(ctx context.Context, userID int64, category string) ([]models.Expense, error)
	UpdateExpense(ctx context.Context, userID, id int64, category string, amount float64, description *string) (*models.Expense, error)
	DeleteExpense(ctx context.Context, userID, id int64) error
	SetReceiptObjectKey(ctx context.Context, userID, id int64, objectKey string) error
}

type ReceiptStorage interface {
	UploadReceipt(ctx context.Context, expenseID int64, filename string, reader io.Reader, size int64, contentType string) (string, error)
	ReceiptURL(ctx context.Context, objectKey string) (string, error)
	DeleteReceipt(ctx context.Context, objectKey string) error
}

type ExpenseService struct {
	log      logger.Log
	repo     ExpenseRepo
	receipts ReceiptStorage
}

func NewExpenseService(l logger.Log, repo ExpenseRepo, receipts ReceiptStorage) *ExpenseService {
	return &ExpenseService{
		log:      l,
		repo:     repo,
		receipts: receipts,
	}
}

func validate(category string, amount float64, description *string) error {
	if !models.ValidCategory(category) {
		return app_errors.ErrInvalidCategory
	}
	if amount <= 0 {
		return app_errors.ErrInvalidAmount
	}
	if description != nil && len(*description) > maxDescriptionLen {
		return app_errors.ErrDescriptionTooLong
	}
	return nil
}

func (s *ExpenseService) CreateExpense(ctx context.Context, userID int64, category string, amount float64, description *string) (*models.Expense, error) {
	if err := validate(category, amount, description); err != nil {
		return nil, err
	}
	return s.repo.CreateExpense(ctx, userID, category, amount, description)
}

// Expenses lists the user's expenses, optionally narrowed to one category.
// Receipt links are presigned fresh on every call.
func (s *ExpenseService) Expenses(ctx context.Context, userID int64, category string) ([]models.Expense, error) {
	var (
		expenses []models.Expense
		err      error
	)
	switch {
	case category == "":
		expenses, err = s.repo.ExpensesByUser(ctx, userID)
	case !models.ValidCategory(category):
		return nil, app_errors.ErrInvalidCategory
	default:
		expenses, err = s.repo.ExpensesByCategory(ctx, userID, category)
	}
	if err != nil {
		return nil, err
	}

	for i := range expenses {
		s.presignReceipt(ctx, &expenses[i])
	}
	return expenses, nil
}

func (s *ExpenseService) presignReceipt(ctx context.Context, e *models.Expense) {
	if e.ReceiptObjectKey == nil || *e.ReceiptObjectKey == "" {
		return
	}
	url, err := s.receipts.ReceiptURL(ctx, *e.ReceiptObjectKey)
	if err != nil {
		s.log.ErrorErr("failed to presign receipt URL", err)
		return
	}
	e.ReceiptURL = &url
}

func (s *ExpenseService) UpdateExpense(ctx context.Context, userID, id int64, category string, amount float64, description *string) (*models.Expense, error) {
	if err := validate(category, amount, description); err != nil {
		return nil, err
	}
	expense, err := s.repo.UpdateExpense(ctx, userID, id, category, amount, description)
	if err != nil {
		return nil, err
	}
	s.presignReceipt(ctx, expense)
	return expense, nil
}

// DeleteExpense removes the row and, if a receipt was attached, its object.
// A failed object removal only leaves an orphan behind, so it is logged
// rather than surfaced.
func (s *ExpenseService) DeleteExpense(ctx context.Context, userID, id int64) error {
	expense, err := s.repo.ExpenseByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteExpense(ctx, userID, id); err != nil {
		return err
	}
	if expense.ReceiptObjectKey != nil && *expense.ReceiptObjectKey != "" {
		if err := s.receipts.DeleteReceipt(ctx, *expense.ReceiptObjectKey); err != nil {
			s.log.ErrorErr("failed to delete receipt object", err)
		}
	}
	return nil
}

// UploadReceipt stores a receipt image for one of the user's expenses,
// persists the object key on the row and returns a presigned link. The
// expense is loaded first so nothing reaches storage unless the caller owns
// it.
func (s *ExpenseService) UploadReceipt(ctx context.Context, userID, id int64, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	expense, err := s.repo.ExpenseByID(ctx, userID, id)
	if err != nil {
		return "", err
	}
	if size > maxReceiptSize {
		return "", app_errors.ErrFileSize
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", app_errors.ErrNotImage
	}

	if expense.ReceiptObjectKey != nil && *expense.ReceiptObjectKey != "" {
		if err := s.receipts.DeleteReceipt(ctx, *expense.ReceiptObjectKey); err != nil {
			s.log.ErrorErr("failed to delete previous receipt", err)
		}
	}

	objectKey, err := s.receipts.UploadReceipt(ctx, id, filename, reader, size, contentType)
	if err != nil {
		return "", err
	}
	if err := s.repo.SetReceiptObjectKey(ctx, userID, id, objectKey); err != nil {
		return "", err
	}
	url, err := s.receipts.ReceiptURL(ctx, objectKey)
	if err != nil {
		return "", err
	}
	return url, nil
}
