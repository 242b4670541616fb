package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/suntzu974/papang/internal/app_errors"
	"github.com/suntzu974/papang/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, name, email, password_hash, email_verified, verification_token,
		password_reset_token, password_reset_expires_at, created_at, updated_at`

type UserPostgres struct {
	db *pgxpool.Pool
}

func NewUserPostgres(db *pgxpool.Pool) *UserPostgres {
	return &UserPostgres{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.EmailVerified,
		&user.VerificationToken,
		&user.PasswordResetToken,
		&user.PasswordResetExpiresAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserPostgres) CreateUser(ctx context.Context, name, email, passwordHash, verificationToken string) (*models.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, verification_token)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, name, email, passwordHash, verificationToken))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, app_errors.ErrUserExists
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

func (r *UserPostgres) UserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *UserPostgres) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

// ConsumeVerificationToken marks the owning user verified and clears the
// token in one statement, so a token can only ever be used once.
func (r *UserPostgres) ConsumeVerificationToken(ctx context.Context, token string) (*models.User, error) {
	query := `
		UPDATE users
		   SET email_verified = TRUE,
		       verification_token = NULL,
		       updated_at = NOW()
		 WHERE verification_token = $1 AND email_verified = FALSE
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, app_errors.ErrUserNotFound) {
			return nil, app_errors.ErrInvalidVerificationToken
		}
		return nil, err
	}
	return user, nil
}

func (r *UserPostgres) SetVerificationToken(ctx context.Context, id int64, token string) error {
	query := `UPDATE users SET verification_token = $2, updated_at = NOW() WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, query, id, token)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrUserNotFound
	}
	return nil
}

func (r *UserPostgres) SetPasswordResetToken(ctx context.Context, id int64, token string, expiresAt time.Time) error {
	query := `
		UPDATE users
		   SET password_reset_token = $2,
		       password_reset_expires_at = $3,
		       updated_at = NOW()
		 WHERE id = $1
	`
	cmdTag, err := r.db.Exec(ctx, query, id, token, expiresAt)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrUserNotFound
	}
	return nil
}

// ConsumeResetToken replaces the password hash and clears the reset token,
// provided the token exists and has not expired yet.
func (r *UserPostgres) ConsumeResetToken(ctx context.Context, token, passwordHash string) (*models.User, error) {
	query := `
		UPDATE users
		   SET password_hash = $2,
		       password_reset_token = NULL,
		       password_reset_expires_at = NULL,
		       updated_at = NOW()
		 WHERE password_reset_token = $1 AND password_reset_expires_at > NOW()
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, token, passwordHash))
	if err != nil {
		if errors.Is(err, app_errors.ErrUserNotFound) {
			return nil, app_errors.ErrInvalidResetToken
		}
		return nil, err
	}
	return user, nil
}

func (r *UserPostgres) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return app_errors.ErrUserNotFound
	}
	return nil
}

func (r *UserPostgres) UpdateName(ctx context.Context, id int64, name string) (*models.User, error) {
	query := `
		UPDATE users SET name = $2, updated_at = NOW() WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, query, id, name))
}
