package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/suntzu974/papang/internal/storage/postgres/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type Storage struct {
	Pool *pgxpool.Pool
	dsn  string
}

func NewPostgresPool(username, password, host, port, dbName string) (*Storage, error) {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s", username, password, host, port, dbName)
	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return &Storage{Pool: pool, dsn: connStr}, nil
}

// RunMigrations applies the embedded goose migrations. goose works on
// database/sql, so a separate pgx stdlib connection is opened for it.
func (p *Storage) RunMigrations(ctx context.Context) error {
	db, err := sql.Open("pgx", p.dsn)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}
	return nil
}

func (p *Storage) Close() {
	if p.Pool != nil {
		p.Pool.Close()
	}
}
