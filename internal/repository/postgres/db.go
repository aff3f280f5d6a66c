package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
)

func New(dsn string) (*sqlx.DB, error) {
	return sqlx.Connect("pgx", dsn)
}

// Migrate applies every pending migration found under dir.
func Migrate(db *sqlx.DB, dir string, logger *zap.Logger) error {
	driver, err := migratepg.WithInstance(db.DB, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("no migrations to apply")
		return nil
	case err != nil:
		return fmt.Errorf("run migrations: %w", err)
	}
	version, _, _ := m.Version()
	logger.Info("migrations applied", zap.Uint("version", version))
	return nil
}

func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// scopeClause renders a ListScope as extra WHERE conditions. hotelCol holds
// the hotel id and activeCond is the predicate for publicly visible rows.
func scopeClause(scope domain.ListScope, hotelCol, activeCond string, args []any) (string, []any) {
	where := ""
	if scope.HotelID != nil {
		args = append(args, *scope.HotelID)
		where += fmt.Sprintf(" AND %s = $%d", hotelCol, len(args))
	}
	if scope.PublicOnly {
		where += " AND " + activeCond
	}
	return where, args
}

// execOne runs a single-row statement and reports sql.ErrNoRows when nothing
// matched.
func execOne(ctx context.Context, db sqlx.ExecerContext, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// scanOne reads the single row produced by a named INSERT ... RETURNING.
func scanOne(rows *sqlx.Rows, dest any) error {
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return sql.ErrNoRows
	}
	return rows.StructScan(dest)
}

type idRows interface {
	Next() bool
	Err() error
	Scan(dest ...any) error
}

// scanID reads the id produced by a named INSERT ... RETURNING id.
func scanID(rows idRows) (int64, error) {
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, err
		}
		return 0, sql.ErrNoRows
	}
	var id int64
	if err := rows.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
