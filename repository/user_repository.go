package repository

import (
	"context"
	"errors"

	"github.com/BigDee2008/FAQForge/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresUserRepository handles database operations for legacy users
type PostgresUserRepository struct {
	db *pgxpool.Pool
}

// NewPostgresUserRepository creates a new user repository
func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// Create inserts a user, returning ErrUsernameTaken on a duplicate username
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.UserRecord) error {
	query := `
		INSERT INTO users (username, password)
		VALUES ($1, $2)
		RETURNING id`

	err := r.db.QueryRow(ctx, query, user.Username, user.Password).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrUsernameTaken
		}
		return err
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*models.UserRecord, error) {
	return r.getOne(ctx, `SELECT id, username, password FROM users WHERE id = $1`, id)
}

// GetByUsername retrieves a user by username
func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*models.UserRecord, error) {
	return r.getOne(ctx, `SELECT id, username, password FROM users WHERE username = $1`, username)
}

func (r *PostgresUserRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.UserRecord, error) {
	user := &models.UserRecord{}
	err := r.db.QueryRow(ctx, query, arg).Scan(&user.ID, &user.Username, &user.Password)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
