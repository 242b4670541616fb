package postgres

import (
	"context"
	"errors"

	"github.com/suntzu974/papang/internal/app_errors"
	"github.com/suntzu974/papang/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const expenseColumns = `id, category, amount, description, receipt_object_key, expense_date`

type ExpensePostgres struct {
	db *pgxpool.Pool
}

func NewExpensePostgres(db *pgxpool.Pool) *ExpensePostgres {
	return &ExpensePostgres{db: db}
}

func scanExpense(row pgx.Row) (*models.Expense, error) {
	var e models.Expense
	err := row.Scan(&e.ID, &e.Category, &e.Amount, &e.Description, &e.ReceiptObjectKey, &e.ExpenseDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrExpenseNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *ExpensePostgres) CreateExpense(ctx context.Context, userID int64, category string, amount float64, description *string) (*models.Expense, error) {
	query := `
		INSERT INTO expenses (user_id, category, amount, description)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + expenseColumns
	return scanExpense(r.db.QueryRow(ctx, query, userID, category, amount, description))
}

func (r *ExpensePostgres) ExpenseByID(ctx context.Context, userID, id int64) (*models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1 AND user_id = $2`
	return scanExpense(r.db.QueryRow(ctx, query, id, userID))
}

func (r *ExpensePostgres) ExpensesByUser(ctx context.Context, userID int64) ([]models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE user_id = $1 ORDER BY expense_date DESC`
	return r.queryExpenses(ctx, query, userID)
}

func (r *ExpensePostgres) ExpensesByCategory(ctx context.Context, userID int64, category string) ([]models.Expense, error) {
	query := `
		SELECT ` + expenseColumns + ` FROM expenses
		WHERE user_id = $1 AND category = $2
		ORDER BY expense_date DESC`
	return r.queryExpenses(ctx, query, userID, category)
}

func (r *ExpensePostgres) queryExpenses(ctx context.Context, query string, args ...any) ([]models.Expense, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]models.Expense, 0)
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.Category, &e.Amount, &e.Description, &e.ReceiptObjectKey, &e.ExpenseDate); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (r *ExpensePostgres) UpdateExpense(ctx context.Context, userID, id int64, category string, amount float64, description *string) (*models.Expense, error) {
	query := `
		UPDATE expenses
		   SET category = $3,
		       amount = $4,
		       description = $5
		 WHERE id = $1 AND user_id = $2
		RETURNING ` + expenseColumns
	return scanExpense(r.db.QueryRow(ctx, query, id, userID, category, amount, description))
}

func (r *ExpensePostgres) DeleteExpense(ctx context.Context, userID, id int64) error {
	query := `DELETE FROM expenses WHERE id = $1 AND user_id = $2`
	cmdTag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrExpenseNotFound
	}
	return nil
}

func (r *ExpensePostgres) SetReceiptObjectKey(ctx context.Context, userID, id int64, objectKey string) error {
	query := `UPDATE expenses SET receipt_object_key = $3 WHERE id = $1 AND user_id = $2`
	cmdTag, err := r.db.Exec(ctx, query, id, userID, objectKey)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrExpenseNotFound
	}
	return nil
}
