package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"asset-system/internal/entities"
	"asset-system/internal/workflow"
	apperrors "asset-system/pkg/errors"
	"asset-system/pkg/types"
)

var procurementFieldMap = map[string]string{
	"id":               "p.id",
	"procurement_id":   "p.procurement_id",
	"branch_id":        "p.branch_id",
	"asset_id":         "p.asset_id",
	"approval_status":  "p.approval_status",
	"requisition_date": "p.requisition_date",
	"created_at":       "p.created_at",
}

type ProcurementRepositoryInterface interface {
	LastIdentifier(ctx context.Context, tx pgx.Tx, prefix string) (string, error)
	GetProcurements(ctx context.Context, filter types.Filter, branchID *uint64) ([]entities.Procurement, uint64, error)
	FindProcurement(ctx context.Context, id uint64) (*entities.Procurement, error)
	CreateProcurement(ctx context.Context, tx pgx.Tx, procurement entities.Procurement) (uint64, error)
	UpdateProcurement(ctx context.Context, id uint64, procurement entities.Procurement) error
	SetApproval(ctx context.Context, tx pgx.Tx, id uint64, status workflow.ApprovalStatus, approvedBy uint64) error
	DeleteProcurement(ctx context.Context, id uint64) error
}

type ProcurementRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewProcurementRepository(storage *pgxpool.Pool, logger *zap.Logger) *ProcurementRepository {
	return &ProcurementRepository{storage: storage, logger: logger}
}

func (r *ProcurementRepository) LastIdentifier(ctx context.Context, tx pgx.Tx, prefix string) (string, error) {
	if _, err := tx.Exec(ctx, acquireSequenceLock, prefix); err != nil {
		return "", fmt.Errorf("acquire sequence lock: %w", err)
	}

	var last string
	query := `SELECT procurement_id FROM procurements WHERE procurement_id LIKE $1 || '%' ORDER BY procurement_id DESC LIMIT 1`
	err := tx.QueryRow(ctx, query, prefix).Scan(&last)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return last, nil
}

const procurementColumns = `
	p.id, p.procurement_id, p.asset_id, p.branch_id, p.requisition_date,
	p.budget_allocated, p.po_number, p.approval_status, p.approved_by, p.approved_at,
	p.created_by, p.created_at, p.updated_at,
	COALESCE(b.id, 0), COALESCE(b.name, ''), COALESCE(b.code, ''),
	COALESCE(a.id, 0), COALESCE(a.asset_id, ''), COALESCE(a.name, ''), COALESCE(a.current_status, ''),
	COALESCE(au.id, 0), COALESCE(au.username, ''),
	COALESCE(cu.id, 0), COALESCE(cu.username, '')`

const procurementJoins = `
	FROM procurements p
	LEFT JOIN branches b ON p.branch_id = b.id
	LEFT JOIN assets a ON p.asset_id = a.id
	LEFT JOIN users au ON p.approved_by = au.id
	LEFT JOIN users cu ON p.created_by = cu.id`

func scanProcurement(row pgx.Row) (*entities.Procurement, error) {
	var p entities.Procurement
	var b entities.Branch
	var a entities.Asset
	var approver, creator entities.User

	var assetID, approvedBy, createdBy sql.NullInt64
	var budgetAllocated sql.NullFloat64
	var poNumber sql.NullString
	var approvedAt sql.NullTime

	err := row.Scan(
		&p.ID, &p.ProcurementID, &assetID, &p.BranchID, &p.RequisitionDate,
		&budgetAllocated, &poNumber, &p.ApprovalStatus, &approvedBy, &approvedAt,
		&createdBy, &p.CreatedAt, &p.UpdatedAt,
		&b.ID, &b.Name, &b.Code,
		&a.ID, &a.AssetID, &a.Name, &a.CurrentStatus,
		&approver.ID, &approver.Username,
		&creator.ID, &creator.Username,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan procurement: %w", err)
	}

	if assetID.Valid {
		v := uint64(assetID.Int64)
		p.AssetID = &v
	}
	if budgetAllocated.Valid {
		p.BudgetAllocated = &budgetAllocated.Float64
	}
	if poNumber.Valid {
		p.PONumber = &poNumber.String
	}
	if approvedBy.Valid {
		v := uint64(approvedBy.Int64)
		p.ApprovedBy = &v
	}
	if approvedAt.Valid {
		p.ApprovedAt = &approvedAt.Time
	}
	if createdBy.Valid {
		v := uint64(createdBy.Int64)
		p.CreatedBy = &v
	}

	if b.ID > 0 {
		p.Branch = &b
	}
	if a.ID > 0 {
		p.Asset = &a
	}
	if approver.ID > 0 {
		p.Approver = &approver
	}
	if creator.ID > 0 {
		p.Creator = &creator
	}
	return &p, nil
}

func (r *ProcurementRepository) GetProcurements(ctx context.Context, filter types.Filter, branchID *uint64) ([]entities.Procurement, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applyScope := func(b sq.SelectBuilder) sq.SelectBuilder {
		if branchID != nil {
			b = b.Where(sq.Eq{"p.branch_id": *branchID})
		}
		if filter.Search != "" {
			pat := "%" + filter.Search + "%"
			b = b.Where(sq.Or{
				sq.ILike{"p.procurement_id": pat},
				sq.ILike{"p.po_number": pat},
			})
		}
		return b
	}

	countBuilder := applyScope(psql.Select("COUNT(p.id)").From("procurements AS p"))
	countFilter := filter
	countFilter.WithPagination = false
	countFilter.Sort = nil
	countBuilder = applyListParams(countBuilder, countFilter, procurementFieldMap)

	var total uint64
	sqlCount, argsCount, _ := countBuilder.ToSql()
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Procurement{}, 0, nil
	}

	baseBuilder := applyScope(psql.Select(procurementColumns).From("procurements p").
		LeftJoin("branches b ON p.branch_id = b.id").
		LeftJoin("assets a ON p.asset_id = a.id").
		LeftJoin("users au ON p.approved_by = au.id").
		LeftJoin("users cu ON p.created_by = cu.id"))

	if len(filter.Sort) == 0 {
		baseBuilder = baseBuilder.OrderBy("p.id DESC")
	}
	baseBuilder = applyListParams(baseBuilder, filter, procurementFieldMap)

	query, args, err := baseBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	procurements := make([]entities.Procurement, 0, filter.Limit)
	for rows.Next() {
		procurement, err := scanProcurement(rows)
		if err != nil {
			return nil, 0, err
		}
		procurements = append(procurements, *procurement)
	}

	return procurements, total, nil
}

func (r *ProcurementRepository) FindProcurement(ctx context.Context, id uint64) (*entities.Procurement, error) {
	query := `SELECT ` + procurementColumns + procurementJoins + ` WHERE p.id = $1`
	return scanProcurement(r.storage.QueryRow(ctx, query, id))
}

func (r *ProcurementRepository) CreateProcurement(ctx context.Context, tx pgx.Tx, procurement entities.Procurement) (uint64, error) {
	query := `
		INSERT INTO procurements (
			procurement_id, asset_id, branch_id, requisition_date,
			budget_allocated, po_number, approval_status, created_by, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id
	`
	var newID uint64
	err := tx.QueryRow(ctx, query,
		procurement.ProcurementID, procurement.AssetID, procurement.BranchID, procurement.RequisitionDate,
		procurement.BudgetAllocated, procurement.PONumber, procurement.ApprovalStatus, procurement.CreatedBy,
	).Scan(&newID)
	return newID, err
}

func (r *ProcurementRepository) UpdateProcurement(ctx context.Context, id uint64, procurement entities.Procurement) error {
	query := `
		UPDATE procurements
		SET requisition_date = $1, budget_allocated = $2, po_number = $3, updated_at = NOW()
		WHERE id = $4
	`
	result, err := r.storage.Exec(ctx, query,
		procurement.RequisitionDate, procurement.BudgetAllocated, procurement.PONumber, id,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ProcurementRepository) SetApproval(ctx context.Context, tx pgx.Tx, id uint64, status workflow.ApprovalStatus, approvedBy uint64) error {
	var q querier = r.storage
	if tx != nil {
		q = tx
	}
	query := `
		UPDATE procurements
		SET approval_status = $1, approved_by = $2, approved_at = NOW(), updated_at = NOW()
		WHERE id = $3
	`
	result, err := q.Exec(ctx, query, status, approvedBy, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ProcurementRepository) DeleteProcurement(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM procurements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
