package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Sujay149/Kerala-migrates-sub001/internal/domain/entities"
	"github.com/Sujay149/Kerala-migrates-sub001/internal/domain/repositories"
)

type userRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) repositories.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *entities.User) error {
	query := `INSERT INTO users (id, login, email, name, password, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		user.ID, user.Login, user.Email, user.Name, user.Password, user.IsAdmin,
		user.CreatedAt, user.UpdatedAt,
	)
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	query := `SELECT id, login, email, name, password, is_admin, created_at, updated_at
		FROM users WHERE id = $1`

	var user entities.User
	row := r.pool.QueryRow(ctx, query, id)

	err := row.Scan(&user.ID, &user.Login, &user.Email, &user.Name, &user.Password,
		&user.IsAdmin, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*entities.User, error) {
	query := `SELECT id, login, email, name, password, is_admin, created_at, updated_at
		FROM users WHERE login = $1`

	var user entities.User
	row := r.pool.QueryRow(ctx, query, login)

	err := row.Scan(&user.ID, &user.Login, &user.Email, &user.Name, &user.Password,
		&user.IsAdmin, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
