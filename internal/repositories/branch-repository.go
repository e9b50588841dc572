package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"asset-system/internal/entities"
	apperrors "asset-system/pkg/errors"
	"asset-system/pkg/types"
)

var branchFieldMap = map[string]string{
	"id":         "b.id",
	"name":       "b.name",
	"code":       "b.code",
	"is_active":  "b.is_active",
	"created_at": "b.created_at",
}

type BranchRepositoryInterface interface {
	GetBranches(ctx context.Context, filter types.Filter) ([]entities.Branch, uint64, error)
	FindBranch(ctx context.Context, id uint64) (*entities.Branch, error)
	CreateBranch(ctx context.Context, branch entities.Branch) (uint64, error)
	UpdateBranch(ctx context.Context, id uint64, branch entities.Branch) error
	DeleteBranch(ctx context.Context, id uint64) error
	ActiveBranchCode(ctx context.Context, id uint64) (string, error)
}

type BranchRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewBranchRepository(storage *pgxpool.Pool, logger *zap.Logger) *BranchRepository {
	return &BranchRepository{storage: storage, logger: logger}
}

func scanBranch(row pgx.Row) (*entities.Branch, error) {
	var b entities.Branch
	var address sql.NullString

	err := row.Scan(&b.ID, &b.Name, &b.Code, &address, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan branch: %w", err)
	}
	if address.Valid {
		b.Address = &address.String
	}
	return &b, nil
}

func (r *BranchRepository) GetBranches(ctx context.Context, filter types.Filter) ([]entities.Branch, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applySearch := func(b sq.SelectBuilder) sq.SelectBuilder {
		if filter.Search != "" {
			pat := "%" + filter.Search + "%"
			return b.Where(sq.Or{
				sq.ILike{"b.name": pat},
				sq.ILike{"b.code": pat},
			})
		}
		return b
	}

	countBuilder := applySearch(psql.Select("COUNT(b.id)").From("branches AS b"))
	countFilter := filter
	countFilter.WithPagination = false
	countFilter.Sort = nil
	countBuilder = applyListParams(countBuilder, countFilter, branchFieldMap)

	var total uint64
	sqlCount, argsCount, _ := countBuilder.ToSql()
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Branch{}, 0, nil
	}

	baseBuilder := applySearch(psql.Select(
		"b.id", "b.name", "b.code", "b.address", "b.is_active", "b.created_at", "b.updated_at",
	).From("branches AS b"))

	if len(filter.Sort) == 0 {
		baseBuilder = baseBuilder.OrderBy("b.id DESC")
	}
	baseBuilder = applyListParams(baseBuilder, filter, branchFieldMap)

	query, args, err := baseBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	branches := make([]entities.Branch, 0, filter.Limit)
	for rows.Next() {
		branch, err := scanBranch(rows)
		if err != nil {
			return nil, 0, err
		}
		branches = append(branches, *branch)
	}

	return branches, total, nil
}

func (r *BranchRepository) FindBranch(ctx context.Context, id uint64) (*entities.Branch, error) {
	query := `
		SELECT b.id, b.name, b.code, b.address, b.is_active, b.created_at, b.updated_at
		FROM branches b
		WHERE b.id = $1
	`
	return scanBranch(r.storage.QueryRow(ctx, query, id))
}

// ActiveBranchCode returns the identifier prefix code for an active
// branch. Inactive branches are treated as missing so nothing new can
// be registered against them.
func (r *BranchRepository) ActiveBranchCode(ctx context.Context, id uint64) (string, error) {
	var code string
	query := `SELECT code FROM branches WHERE id = $1 AND is_active = TRUE`
	err := r.storage.QueryRow(ctx, query, id).Scan(&code)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperrors.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return strings.ToUpper(code), nil
}

func (r *BranchRepository) CreateBranch(ctx context.Context, branch entities.Branch) (uint64, error) {
	query := `
		INSERT INTO branches (name, code, address, is_active, created_at, updated_at)
		VALUES ($1, UPPER($2), $3, TRUE, NOW(), NOW())
		RETURNING id
	`
	var newID uint64
	err := r.storage.QueryRow(ctx, query, branch.Name, branch.Code, branch.Address).Scan(&newID)
	return newID, err
}

func (r *BranchRepository) UpdateBranch(ctx context.Context, id uint64, branch entities.Branch) error {
	query := `
		UPDATE branches
		SET name = $1, address = $2, is_active = $3, updated_at = NOW()
		WHERE id = $4
	`
	result, err := r.storage.Exec(ctx, query, branch.Name, branch.Address, branch.IsActive, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *BranchRepository) DeleteBranch(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM branches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
