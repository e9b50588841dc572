package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"asset-system/internal/entities"
	apperrors "asset-system/pkg/errors"
)

type UserRepositoryInterface interface {
	FindUser(ctx context.Context, id uint64) (*entities.User, error)
	FindUserByEmail(ctx context.Context, email string) (*entities.User, error)
	CreateUser(ctx context.Context, user entities.User) (uint64, error)
	UpdatePassword(ctx context.Context, id uint64, passwordHash string) error
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) *UserRepository {
	return &UserRepository{storage: storage, logger: logger}
}

const userSelect = `
	SELECT u.id, u.username, u.email, u.password, u.role, u.branch_id, u.is_active,
	       u.created_at, u.updated_at,
	       COALESCE(b.id, 0), COALESCE(b.name, ''), COALESCE(b.code, '')
	FROM users u
	LEFT JOIN branches b ON u.branch_id = b.id
`

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	var b entities.Branch
	var branchID sql.NullInt64

	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.Password, &u.Role, &branchID, &u.IsActive,
		&u.CreatedAt, &u.UpdatedAt,
		&b.ID, &b.Name, &b.Code,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}

	if branchID.Valid {
		v := uint64(branchID.Int64)
		u.BranchID = &v
	}
	if b.ID > 0 {
		u.Branch = &b
	}
	return &u, nil
}

func (r *UserRepository) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	return scanUser(r.storage.QueryRow(ctx, userSelect+` WHERE u.id = $1`, id))
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	return scanUser(r.storage.QueryRow(ctx, userSelect+` WHERE LOWER(u.email) = LOWER($1)`, email))
}

func (r *UserRepository) CreateUser(ctx context.Context, user entities.User) (uint64, error) {
	query := `
		INSERT INTO users (username, email, password, role, branch_id, is_active, created_at, updated_at)
		VALUES ($1, LOWER($2), $3, $4, $5, TRUE, NOW(), NOW())
		RETURNING id
	`
	var newID uint64
	err := r.storage.QueryRow(ctx, query,
		user.Username, user.Email, user.Password, user.Role, user.BranchID,
	).Scan(&newID)
	return newID, err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	result, err := r.storage.Exec(ctx,
		`UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, id,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
