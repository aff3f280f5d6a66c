package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
)

type OneTimeCodeRepository struct {
	db *sqlx.DB
}

func NewOneTimeCodeRepo(db *sqlx.DB) *OneTimeCodeRepository {
	return &OneTimeCodeRepository{db: db}
}

func (r *OneTimeCodeRepository) Upsert(ctx context.Context, code *domain.OneTimeCode) (*domain.OneTimeCode, error) {
	const query = `
        INSERT INTO email_otp (email, code_hash, salt, expires_at, attempts, used)
        VALUES (LOWER($1), $2, $3, $4, 0, false)
        ON CONFLICT (email) DO UPDATE
        SET code_hash = EXCLUDED.code_hash,
            salt = EXCLUDED.salt,
            expires_at = EXCLUDED.expires_at,
            attempts = 0,
            used = false
        RETURNING id, email, code_hash, salt, created_at, expires_at, attempts, used
    `
	var stored domain.OneTimeCode
	if err := r.db.QueryRowxContext(ctx, query, code.Email, code.CodeHash, code.Salt, code.ExpiresAt).StructScan(&stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *OneTimeCodeRepository) UpdateLatest(ctx context.Context, email string, fn func(code *domain.OneTimeCode) error) error {
	const selectQuery = `
        SELECT id, email, code_hash, salt, created_at, expires_at, attempts, used
        FROM email_otp
        WHERE email = LOWER($1)
        ORDER BY created_at DESC
        LIMIT 1
        FOR UPDATE
    `
	const updateQuery = `UPDATE email_otp SET attempts = $2, used = $3 WHERE id = $1`

	var fnErr error
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var code domain.OneTimeCode
		if err := tx.GetContext(ctx, &code, selectQuery, email); err != nil {
			return err
		}
		fnErr = fn(&code)
		_, err := tx.ExecContext(ctx, updateQuery, code.ID, code.Attempts, code.Used)
		return err
	})
	if err != nil {
		return err
	}
	return fnErr
}
