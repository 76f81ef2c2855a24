package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresCredentialRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCredentialRepository returns a Postgres-backed implementation
// holding one row per gateway session.
func NewPostgresCredentialRepository(pool *pgxpool.Pool) CredentialRepository {
	return &postgresCredentialRepository{pool: pool}
}

func (r *postgresCredentialRepository) Save(ctx context.Context, sessionID, credential string) error {
	const query = `
        INSERT INTO session_credentials (session_id, credential, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (session_id) DO UPDATE SET credential=$2, updated_at=NOW()`

	_, err := r.pool.Exec(ctx, query, sessionID, credential)
	return err
}

func (r *postgresCredentialRepository) Get(ctx context.Context, sessionID string) (string, error) {
	const query = `SELECT credential FROM session_credentials WHERE session_id=$1`

	var credential string
	if err := r.pool.QueryRow(ctx, query, sessionID).Scan(&credential); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNoCredential
		}
		return "", err
	}
	return credential, nil
}

func (r *postgresCredentialRepository) Clear(ctx context.Context, sessionID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM session_credentials WHERE session_id=$1`, sessionID)
	return err
}
