package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/avolkov/accountsvc/internal/common"
	"github.com/avolkov/accountsvc/internal/dbx"
	"github.com/avolkov/accountsvc/internal/server/models"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint
// violations, used to map a duplicate email to common.ErrEmailExists.
const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {

	query :=
		`INSERT INTO accounts (email, name, password_hash, is_verified)
         VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.Email, account.Name, account.PasswordHash, account.Verified).
		Scan(&account.ID, &account.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrEmailExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query :=
		`SELECT id, email, name, password_hash, is_verified, avatar_url, created_at FROM accounts
		 WHERE email = $1
		 `

	return r.scanAccount(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query :=
		`SELECT id, email, name, password_hash, is_verified, avatar_url, created_at FROM accounts
		 WHERE id = $1
		 `

	return r.scanAccount(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) SetVerified(ctx context.Context, email string) error {
	query :=
		`UPDATE accounts SET is_verified = true
		 WHERE email = $1
		 `

	return r.exec(ctx, query, email)
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, email string, passwordHash string) error {
	query :=
		`UPDATE accounts SET password_hash = $2
		 WHERE email = $1
		 `

	return r.exec(ctx, query, email, passwordHash)
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, name string, avatarURL string) (*models.Account, error) {
	query :=
		`UPDATE accounts SET name = $2, avatar_url = NULLIF($3, '')
		 WHERE id = $1
		 RETURNING id, email, name, password_hash, is_verified, avatar_url, created_at
		 `

	return r.scanAccount(r.db.QueryRowContext(ctx, query, id, name, avatarURL))
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}

func (r *PostgresRepository) scanAccount(row *sql.Row) (*models.Account, error) {
	account := &models.Account{}
	var avatar sql.NullString

	err := row.Scan(&account.ID, &account.Email, &account.Name,
		&account.PasswordHash, &account.Verified, &avatar, &account.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	account.AvatarURL = avatar.String
	return account, nil
}
