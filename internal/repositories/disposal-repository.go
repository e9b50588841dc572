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

var disposalFieldMap = map[string]string{
	"id":              "d.id",
	"disposal_id":     "d.disposal_id",
	"asset_id":        "d.asset_id",
	"disposal_method": "d.disposal_method",
	"status":          "d.status",
	"disposal_date":   "d.disposal_date",
	"created_at":      "d.created_at",
}

type DisposalRepositoryInterface interface {
	LastIdentifier(ctx context.Context, tx pgx.Tx, prefix string) (string, error)
	GetDisposals(ctx context.Context, filter types.Filter) ([]entities.Disposal, uint64, error)
	FindDisposal(ctx context.Context, id uint64) (*entities.Disposal, error)
	CreateDisposal(ctx context.Context, tx pgx.Tx, disposal entities.Disposal) (uint64, error)
	UpdateDisposal(ctx context.Context, id uint64, disposal entities.Disposal) error
	SetApproval(ctx context.Context, tx pgx.Tx, id uint64, status workflow.DisposalStatus, approvedBy uint64) error
	AttachDocument(ctx context.Context, id uint64, kind string, path string) error
	DeleteDisposal(ctx context.Context, id uint64) error
}

var disposalFileColumns = map[string]string{
	"approval":    "approval_document",
	"certificate": "disposal_certificate",
}

type DisposalRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDisposalRepository(storage *pgxpool.Pool, logger *zap.Logger) *DisposalRepository {
	return &DisposalRepository{storage: storage, logger: logger}
}

func (r *DisposalRepository) LastIdentifier(ctx context.Context, tx pgx.Tx, prefix string) (string, error) {
	if _, err := tx.Exec(ctx, acquireSequenceLock, prefix); err != nil {
		return "", fmt.Errorf("acquire sequence lock: %w", err)
	}

	var last string
	query := `SELECT disposal_id FROM disposals WHERE disposal_id LIKE $1 || '%' ORDER BY disposal_id DESC LIMIT 1`
	err := tx.QueryRow(ctx, query, prefix).Scan(&last)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return last, nil
}

const disposalColumns = `
	d.id, d.disposal_id, d.asset_id, d.disposal_date, d.disposal_method,
	d.disposal_value, d.buyer_details, d.reason, d.approval_document, d.disposal_certificate,
	d.status, d.approved_by, d.approved_at, d.created_at, d.updated_at,
	COALESCE(a.id, 0), COALESCE(a.asset_id, ''), COALESCE(a.name, ''), COALESCE(a.current_status, ''),
	COALESCE(au.id, 0), COALESCE(au.username, '')`

const disposalJoins = `
	FROM disposals d
	LEFT JOIN assets a ON d.asset_id = a.id
	LEFT JOIN users au ON d.approved_by = au.id`

func scanDisposal(row pgx.Row) (*entities.Disposal, error) {
	var d entities.Disposal
	var a entities.Asset
	var approver entities.User

	var buyerDetails, reason, approvalDocument, disposalCertificate sql.NullString
	var disposalValue sql.NullFloat64
	var approvedBy sql.NullInt64
	var approvedAt sql.NullTime

	err := row.Scan(
		&d.ID, &d.DisposalID, &d.AssetID, &d.DisposalDate, &d.DisposalMethod,
		&disposalValue, &buyerDetails, &reason, &approvalDocument, &disposalCertificate,
		&d.Status, &approvedBy, &approvedAt, &d.CreatedAt, &d.UpdatedAt,
		&a.ID, &a.AssetID, &a.Name, &a.CurrentStatus,
		&approver.ID, &approver.Username,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan disposal: %w", err)
	}

	if disposalValue.Valid {
		d.DisposalValue = &disposalValue.Float64
	}
	if buyerDetails.Valid {
		d.BuyerDetails = &buyerDetails.String
	}
	if reason.Valid {
		d.Reason = &reason.String
	}
	if approvalDocument.Valid {
		d.ApprovalDocument = &approvalDocument.String
	}
	if disposalCertificate.Valid {
		d.DisposalCertificate = &disposalCertificate.String
	}
	if approvedBy.Valid {
		v := uint64(approvedBy.Int64)
		d.ApprovedBy = &v
	}
	if approvedAt.Valid {
		d.ApprovedAt = &approvedAt.Time
	}

	if a.ID > 0 {
		d.Asset = &a
	}
	if approver.ID > 0 {
		d.Approver = &approver
	}
	return &d, nil
}

func (r *DisposalRepository) GetDisposals(ctx context.Context, filter types.Filter) ([]entities.Disposal, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applySearch := func(b sq.SelectBuilder) sq.SelectBuilder {
		if filter.Search != "" {
			pat := "%" + filter.Search + "%"
			return b.Where(sq.Or{
				sq.ILike{"d.disposal_id": pat},
				sq.ILike{"d.buyer_details": pat},
			})
		}
		return b
	}

	countBuilder := applySearch(psql.Select("COUNT(d.id)").From("disposals AS d"))
	countFilter := filter
	countFilter.WithPagination = false
	countFilter.Sort = nil
	countBuilder = applyListParams(countBuilder, countFilter, disposalFieldMap)

	var total uint64
	sqlCount, argsCount, _ := countBuilder.ToSql()
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Disposal{}, 0, nil
	}

	baseBuilder := applySearch(psql.Select(disposalColumns).From("disposals d").
		LeftJoin("assets a ON d.asset_id = a.id").
		LeftJoin("users au ON d.approved_by = au.id"))

	if len(filter.Sort) == 0 {
		baseBuilder = baseBuilder.OrderBy("d.id DESC")
	}
	baseBuilder = applyListParams(baseBuilder, filter, disposalFieldMap)

	query, args, err := baseBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	disposals := make([]entities.Disposal, 0, filter.Limit)
	for rows.Next() {
		disposal, err := scanDisposal(rows)
		if err != nil {
			return nil, 0, err
		}
		disposals = append(disposals, *disposal)
	}

	return disposals, total, nil
}

func (r *DisposalRepository) FindDisposal(ctx context.Context, id uint64) (*entities.Disposal, error) {
	query := `SELECT ` + disposalColumns + disposalJoins + ` WHERE d.id = $1`
	return scanDisposal(r.storage.QueryRow(ctx, query, id))
}

func (r *DisposalRepository) CreateDisposal(ctx context.Context, tx pgx.Tx, disposal entities.Disposal) (uint64, error) {
	query := `
		INSERT INTO disposals (
			disposal_id, asset_id, disposal_date, disposal_method,
			disposal_value, buyer_details, reason, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id
	`
	var newID uint64
	err := tx.QueryRow(ctx, query,
		disposal.DisposalID, disposal.AssetID, disposal.DisposalDate, disposal.DisposalMethod,
		disposal.DisposalValue, disposal.BuyerDetails, disposal.Reason, disposal.Status,
	).Scan(&newID)
	return newID, err
}

func (r *DisposalRepository) UpdateDisposal(ctx context.Context, id uint64, disposal entities.Disposal) error {
	query := `
		UPDATE disposals
		SET disposal_date = $1, disposal_method = $2, disposal_value = $3,
		    buyer_details = $4, reason = $5, updated_at = NOW()
		WHERE id = $6
	`
	result, err := r.storage.Exec(ctx, query,
		disposal.DisposalDate, disposal.DisposalMethod, disposal.DisposalValue,
		disposal.BuyerDetails, disposal.Reason, id,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *DisposalRepository) SetApproval(ctx context.Context, tx pgx.Tx, id uint64, status workflow.DisposalStatus, approvedBy uint64) error {
	var q querier = r.storage
	if tx != nil {
		q = tx
	}
	query := `
		UPDATE disposals
		SET status = $1, approved_by = $2, approved_at = NOW(), updated_at = NOW()
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

func (r *DisposalRepository) AttachDocument(ctx context.Context, id uint64, kind string, path string) error {
	column, ok := disposalFileColumns[kind]
	if !ok {
		return apperrors.NewBadRequestError(fmt.Sprintf("unknown document kind: %s", kind))
	}
	query := fmt.Sprintf(`UPDATE disposals SET %s = $1, updated_at = NOW() WHERE id = $2`, column)
	result, err := r.storage.Exec(ctx, query, path, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *DisposalRepository) DeleteDisposal(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM disposals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
