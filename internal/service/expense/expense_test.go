package expense

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/suntzu974/papang/internal/app_errors"
	"github.com/suntzu974/papang/internal/models"
	"github.com/suntzu974/papang/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExpenseRepo struct {
	nextID   int64
	expenses map[int64]*models.Expense
	owners   map[int64]int64
}

func newFakeExpenseRepo() *fakeExpenseRepo {
	return &fakeExpenseRepo{
		nextID:   1,
		expenses: make(map[int64]*models.Expense),
		owners:   make(map[int64]int64),
	}
}

func (f *fakeExpenseRepo) CreateExpense(_ context.Context, userID int64, category string, amount float64, description *string) (*models.Expense, error) {
	e := &models.Expense{ID: f.nextID, Category: category, Amount: amount, Description: description}
	f.expenses[e.ID] = e
	f.owners[e.ID] = userID
	f.nextID++
	return e, nil
}

func (f *fakeExpenseRepo) ExpenseByID(_ context.Context, userID, id int64) (*models.Expense, error) {
	e, ok := f.expenses[id]
	if !ok || f.owners[id] != userID {
		return nil, app_errors.ErrExpenseNotFound
	}
	copied := *e
	return &copied, nil
}

func (f *fakeExpenseRepo) ExpensesByUser(_ context.Context, userID int64) ([]models.Expense, error) {
	out := make([]models.Expense, 0)
	for id, e := range f.expenses {
		if f.owners[id] == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeExpenseRepo) ExpensesByCategory(_ context.Context, userID int64, category string) ([]models.Expense, error) {
	out := make([]models.Expense, 0)
	for id, e := range f.expenses {
		if f.owners[id] == userID && e.Category == category {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeExpenseRepo) UpdateExpense(_ context.Context, userID, id int64, category string, amount float64, description *string) (*models.Expense, error) {
	e, ok := f.expenses[id]
	if !ok || f.owners[id] != userID {
		return nil, app_errors.ErrExpenseNotFound
	}
	e.Category = category
	e.Amount = amount
	e.Description = description
	copied := *e
	return &copied, nil
}

func (f *fakeExpenseRepo) DeleteExpense(_ context.Context, userID, id int64) error {
	if _, ok := f.expenses[id]; !ok || f.owners[id] != userID {
		return app_errors.ErrExpenseNotFound
	}
	delete(f.expenses, id)
	delete(f.owners, id)
	return nil
}

func (f *fakeExpenseRepo) SetReceiptObjectKey(_ context.Context, userID, id int64, objectKey string) error {
	e, ok := f.expenses[id]
	if !ok || f.owners[id] != userID {
		return app_errors.ErrExpenseNotFound
	}
	e.ReceiptObjectKey = &objectKey
	return nil
}

type fakeReceiptStorage struct {
	objects map[string][]byte
}

func (f *fakeReceiptStorage) UploadReceipt(_ context.Context, expenseID int64, filename string, reader io.Reader, _ int64, _ string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("receipts/%d/receipt%s", expenseID, filepath.Ext(filename))
	if f.objects == nil {
		f.objects = make(map[string][]byte)
	}
	f.objects[key] = data
	return key, nil
}

func (f *fakeReceiptStorage) ReceiptURL(_ context.Context, objectKey string) (string, error) {
	return "https://minio.local/" + objectKey + "?signed", nil
}

func (f *fakeReceiptStorage) DeleteReceipt(_ context.Context, objectKey string) error {
	delete(f.objects, objectKey)
	return nil
}

func newTestExpenseService() (*ExpenseService, *fakeExpenseRepo, *fakeReceiptStorage) {
	repo := newFakeExpenseRepo()
	receipts := &fakeReceiptStorage{}
	return NewExpenseService(logger.Discard(), repo, receipts), repo, receipts
}

func TestExpenseService_CreateExpense_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestExpenseService()

	longDescription := strings.Repeat("x", 256)

	tests := []struct {
		name        string
		category    string
		amount      float64
		description *string
		wantErr     error
	}{
		{
			name:     "valid",
			category: models.CategoryGroceries,
			amount:   12.50,
		},
		{
			name:     "unknown category",
			category: "Gambling",
			amount:   12.50,
			wantErr:  app_errors.ErrInvalidCategory,
		},
		{
			name:     "zero amount",
			category: models.CategoryLeisure,
			amount:   0,
			wantErr:  app_errors.ErrInvalidAmount,
		},
		{
			name:     "negative amount",
			category: models.CategoryLeisure,
			amount:   -5,
			wantErr:  app_errors.ErrInvalidAmount,
		},
		{
			name:        "description too long",
			category:    models.CategoryHealth,
			amount:      3,
			description: &longDescription,
			wantErr:     app_errors.ErrDescriptionTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateExpense(ctx, 1, tt.category, tt.amount, tt.description)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExpenseService_ExpensesAreUserScoped(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestExpenseService()

	_, err := svc.CreateExpense(ctx, 1, models.CategoryGroceries, 10, nil)
	require.NoError(t, err)
	created, err := svc.CreateExpense(ctx, 1, models.CategoryLeisure, 20, nil)
	require.NoError(t, err)
	_, err = svc.CreateExpense(ctx, 2, models.CategoryGroceries, 30, nil)
	require.NoError(t, err)

	mine, err := svc.Expenses(ctx, 1, "")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	groceries, err := svc.Expenses(ctx, 1, models.CategoryGroceries)
	require.NoError(t, err)
	require.Len(t, groceries, 1)
	assert.Equal(t, 10.0, groceries[0].Amount)

	_, err = svc.Expenses(ctx, 1, "NotACategory")
	assert.ErrorIs(t, err, app_errors.ErrInvalidCategory)

	// Another user cannot touch expenses they do not own.
	_, err = svc.UpdateExpense(ctx, 2, created.ID, models.CategoryLeisure, 25, nil)
	assert.ErrorIs(t, err, app_errors.ErrExpenseNotFound)
	err = svc.DeleteExpense(ctx, 2, created.ID)
	assert.ErrorIs(t, err, app_errors.ErrExpenseNotFound)

	require.NoError(t, svc.DeleteExpense(ctx, 1, created.ID))
	err = svc.DeleteExpense(ctx, 1, created.ID)
	assert.ErrorIs(t, err, app_errors.ErrExpenseNotFound)
}

func TestExpenseService_UploadReceipt(t *testing.T) {
	ctx := context.Background()
	svc, repo, receipts := newTestExpenseService()

	created, err := svc.CreateExpense(ctx, 1, models.CategoryElectronics, 199.99, nil)
	require.NoError(t, err)

	url, err := svc.UploadReceipt(ctx, 1, created.ID, "receipt.png", strings.NewReader("png-bytes"), 9, "image/png")
	require.NoError(t, err)
	assert.Contains(t, url, "receipts/")

	stored := repo.expenses[created.ID]
	require.NotNil(t, stored.ReceiptObjectKey)
	assert.Equal(t, []byte("png-bytes"), receipts.objects[*stored.ReceiptObjectKey])

	_, err = svc.UploadReceipt(ctx, 1, created.ID, "receipt.pdf", strings.NewReader("%PDF"), 4, "application/pdf")
	assert.ErrorIs(t, err, app_errors.ErrNotImage)

	_, err = svc.UploadReceipt(ctx, 1, created.ID, "huge.png", strings.NewReader(""), 10<<20, "image/png")
	assert.ErrorIs(t, err, app_errors.ErrFileSize)
}

func TestExpenseService_UploadReceipt_NonOwnerLeavesObjectIntact(t *testing.T) {
	ctx := context.Background()
	svc, _, receipts := newTestExpenseService()

	created, err := svc.CreateExpense(ctx, 1, models.CategoryGroceries, 10, nil)
	require.NoError(t, err)

	_, err = svc.UploadReceipt(ctx, 1, created.ID, "receipt.png", strings.NewReader("owner-data"), 10, "image/png")
	require.NoError(t, err)

	_, err = svc.UploadReceipt(ctx, 2, created.ID, "evil.png", strings.NewReader("other-data"), 10, "image/png")
	assert.ErrorIs(t, err, app_errors.ErrExpenseNotFound)

	objectKey := fmt.Sprintf("receipts/%d/receipt.png", created.ID)
	assert.Equal(t, []byte("owner-data"), receipts.objects[objectKey])

	// An upload to an expense that does not exist at all must not reach
	// storage either.
	_, err = svc.UploadReceipt(ctx, 2, 999, "evil.png", strings.NewReader("other-data"), 10, "image/png")
	assert.ErrorIs(t, err, app_errors.ErrExpenseNotFound)
	assert.Len(t, receipts.objects, 1)
}

func TestExpenseService_ListPresignsReceiptURLs(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestExpenseService()

	created, err := svc.CreateExpense(ctx, 1, models.CategoryUtilities, 55, nil)
	require.NoError(t, err)
	_, err = svc.UploadReceipt(ctx, 1, created.ID, "bill.png", strings.NewReader("bill"), 4, "image/png")
	require.NoError(t, err)

	// Only the object key is persisted; the link is minted per read.
	stored := repo.expenses[created.ID]
	require.NotNil(t, stored.ReceiptObjectKey)
	assert.Nil(t, stored.ReceiptURL)

	listed, err := svc.Expenses(ctx, 1, "")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.NotNil(t, listed[0].ReceiptURL)
	assert.Equal(t, "https://minio.local/"+*stored.ReceiptObjectKey+"?signed", *listed[0].ReceiptURL)

	updated, err := svc.UpdateExpense(ctx, 1, created.ID, models.CategoryUtilities, 60, nil)
	require.NoError(t, err)
	require.NotNil(t, updated.ReceiptURL)
}

func TestExpenseService_DeleteExpenseRemovesReceiptObject(t *testing.T) {
	ctx := context.Background()
	svc, _, receipts := newTestExpenseService()

	created, err := svc.CreateExpense(ctx, 1, models.CategoryClothing, 80, nil)
	require.NoError(t, err)
	_, err = svc.UploadReceipt(ctx, 1, created.ID, "receipt.jpg", strings.NewReader("jpg"), 3, "image/jpeg")
	require.NoError(t, err)
	require.Len(t, receipts.objects, 1)

	require.NoError(t, svc.DeleteExpense(ctx, 1, created.ID))
	assert.Empty(t, receipts.objects)
}
