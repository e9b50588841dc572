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

	"asset-system/internal/dto"
	"asset-system/internal/entities"
	"asset-system/internal/workflow"
	apperrors "asset-system/pkg/errors"
	"asset-system/pkg/types"
)

var maintenanceFieldMap = map[string]string{
	"id":               "m.id",
	"maintenance_id":   "m.maintenance_id",
	"asset_id":         "m.asset_id",
	"maintenance_type": "m.maintenance_type",
	"status":           "m.status",
	"scheduled_date":   "m.scheduled_date",
	"created_at":       "m.created_at",
}

type MaintenanceRepositoryInterface interface {
	LastIdentifier(ctx context.Context, tx pgx.Tx, prefix string) (string, error)
	GetMaintenances(ctx context.Context, filter types.Filter) ([]entities.Maintenance, uint64, error)
	FindMaintenance(ctx context.Context, id uint64) (*entities.Maintenance, error)
	CreateMaintenance(ctx context.Context, tx pgx.Tx, maintenance entities.Maintenance) (uint64, error)
	UpdateMaintenance(ctx context.Context, id uint64, maintenance entities.Maintenance) error
	SetStatus(ctx context.Context, tx pgx.Tx, id uint64, status workflow.MaintenanceStatus) error
	Complete(ctx context.Context, tx pgx.Tx, id uint64, performedBy uint64, cost *float64, vendorName *string) error
	AttachReport(ctx context.Context, id uint64, path string) error
	DeleteMaintenance(ctx context.Context, id uint64) error
	GetStats(ctx context.Context) (*dto.MaintenanceStatsDTO, error)
}

type MaintenanceRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewMaintenanceRepository(storage *pgxpool.Pool, logger *zap.Logger) *MaintenanceRepository {
	return &MaintenanceRepository{storage: storage, logger: logger}
}

func (r *MaintenanceRepository) LastIdentifier(ctx context.Context, tx pgx.Tx, prefix string) (string, error) {
	if _, err := tx.Exec(ctx, acquireSequenceLock, prefix); err != nil {
		return "", fmt.Errorf("acquire sequence lock: %w", err)
	}

	var last string
	query := `SELECT maintenance_id FROM maintenances WHERE maintenance_id LIKE $1 || '%' ORDER BY maintenance_id DESC LIMIT 1`
	err := tx.QueryRow(ctx, query, prefix).Scan(&last)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return last, nil
}

const maintenanceColumns = `
	m.id, m.maintenance_id, m.asset_id, m.maintenance_type, m.issue_description,
	m.scheduled_date, m.completed_date, m.cost, m.vendor_name, m.maintenance_report_file,
	m.status, m.performed_by, m.created_at, m.updated_at,
	COALESCE(a.id, 0), COALESCE(a.asset_id, ''), COALESCE(a.name, ''), COALESCE(a.current_status, ''),
	COALESCE(pu.id, 0), COALESCE(pu.username, '')`

const maintenanceJoins = `
	FROM maintenances m
	LEFT JOIN assets a ON m.asset_id = a.id
	LEFT JOIN users pu ON m.performed_by = pu.id`

func scanMaintenance(row pgx.Row) (*entities.Maintenance, error) {
	var m entities.Maintenance
	var a entities.Asset
	var performer entities.User

	var issueDescription, vendorName, reportFile sql.NullString
	var scheduledDate, completedDate sql.NullTime
	var cost sql.NullFloat64
	var performedBy sql.NullInt64

	err := row.Scan(
		&m.ID, &m.MaintenanceID, &m.AssetID, &m.MaintenanceType, &issueDescription,
		&scheduledDate, &completedDate, &cost, &vendorName, &reportFile,
		&m.Status, &performedBy, &m.CreatedAt, &m.UpdatedAt,
		&a.ID, &a.AssetID, &a.Name, &a.CurrentStatus,
		&performer.ID, &performer.Username,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan maintenance: %w", err)
	}

	if issueDescription.Valid {
		m.IssueDescription = &issueDescription.String
	}
	if scheduledDate.Valid {
		m.ScheduledDate = &scheduledDate.Time
	}
	if completedDate.Valid {
		m.CompletedDate = &completedDate.Time
	}
	if cost.Valid {
		m.Cost = &cost.Float64
	}
	if vendorName.Valid {
		m.VendorName = &vendorName.String
	}
	if reportFile.Valid {
		m.ReportFile = &reportFile.String
	}
	if performedBy.Valid {
		v := uint64(performedBy.Int64)
		m.PerformedBy = &v
	}

	if a.ID > 0 {
		m.Asset = &a
	}
	if performer.ID > 0 {
		m.Performer = &performer
	}
	return &m, nil
}

func (r *MaintenanceRepository) GetMaintenances(ctx context.Context, filter types.Filter) ([]entities.Maintenance, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applySearch := func(b sq.SelectBuilder) sq.SelectBuilder {
		if filter.Search != "" {
			pat := "%" + filter.Search + "%"
			return b.Where(sq.Or{
				sq.ILike{"m.maintenance_id": pat},
				sq.ILike{"m.vendor_name": pat},
			})
		}
		return b
	}

	countBuilder := applySearch(psql.Select("COUNT(m.id)").From("maintenances AS m"))
	countFilter := filter
	countFilter.WithPagination = false
	countFilter.Sort = nil
	countBuilder = applyListParams(countBuilder, countFilter, maintenanceFieldMap)

	var total uint64
	sqlCount, argsCount, _ := countBuilder.ToSql()
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Maintenance{}, 0, nil
	}

	baseBuilder := applySearch(psql.Select(maintenanceColumns).From("maintenances m").
		LeftJoin("assets a ON m.asset_id = a.id").
		LeftJoin("users pu ON m.performed_by = pu.id"))

	if len(filter.Sort) == 0 {
		baseBuilder = baseBuilder.OrderBy("m.id DESC")
	}
	baseBuilder = applyListParams(baseBuilder, filter, maintenanceFieldMap)

	query, args, err := baseBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	maintenances := make([]entities.Maintenance, 0, filter.Limit)
	for rows.Next() {
		maintenance, err := scanMaintenance(rows)
		if err != nil {
			return nil, 0, err
		}
		maintenances = append(maintenances, *maintenance)
	}

	return maintenances, total, nil
}

func (r *MaintenanceRepository) FindMaintenance(ctx context.Context, id uint64) (*entities.Maintenance, error) {
	query := `SELECT ` + maintenanceColumns + maintenanceJoins + ` WHERE m.id = $1`
	return scanMaintenance(r.storage.QueryRow(ctx, query, id))
}

func (r *MaintenanceRepository) CreateMaintenance(ctx context.Context, tx pgx.Tx, maintenance entities.Maintenance) (uint64, error) {
	query := `
		INSERT INTO maintenances (
			maintenance_id, asset_id, maintenance_type, issue_description,
			scheduled_date, cost, vendor_name, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id
	`
	var newID uint64
	err := tx.QueryRow(ctx, query,
		maintenance.MaintenanceID, maintenance.AssetID, maintenance.MaintenanceType, maintenance.IssueDescription,
		maintenance.ScheduledDate, maintenance.Cost, maintenance.VendorName, maintenance.Status,
	).Scan(&newID)
	return newID, err
}

func (r *MaintenanceRepository) UpdateMaintenance(ctx context.Context, id uint64, maintenance entities.Maintenance) error {
	query := `
		UPDATE maintenances
		SET issue_description = $1, scheduled_date = $2, cost = $3, vendor_name = $4, updated_at = NOW()
		WHERE id = $5
	`
	result, err := r.storage.Exec(ctx, query,
		maintenance.IssueDescription, maintenance.ScheduledDate, maintenance.Cost, maintenance.VendorName, id,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *MaintenanceRepository) SetStatus(ctx context.Context, tx pgx.Tx, id uint64, status workflow.MaintenanceStatus) error {
	var q querier = r.storage
	if tx != nil {
		q = tx
	}
	result, err := q.Exec(ctx,
		`UPDATE maintenances SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *MaintenanceRepository) Complete(ctx context.Context, tx pgx.Tx, id uint64, performedBy uint64, cost *float64, vendorName *string) error {
	var q querier = r.storage
	if tx != nil {
		q = tx
	}
	query := `
		UPDATE maintenances
		SET status = $1, completed_date = NOW(), performed_by = $2,
		    cost = COALESCE($3, cost), vendor_name = COALESCE($4, vendor_name), updated_at = NOW()
		WHERE id = $5
	`
	result, err := q.Exec(ctx, query, workflow.MaintenanceCompleted, performedBy, cost, vendorName, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *MaintenanceRepository) AttachReport(ctx context.Context, id uint64, path string) error {
	result, err := r.storage.Exec(ctx,
		`UPDATE maintenances SET maintenance_report_file = $1, updated_at = NOW() WHERE id = $2`,
		path, id,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *MaintenanceRepository) DeleteMaintenance(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM maintenances WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *MaintenanceRepository) GetStats(ctx context.Context) (*dto.MaintenanceStatsDTO, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'Scheduled'),
		       COUNT(*) FILTER (WHERE status = 'In Progress'),
		       COUNT(*) FILTER (WHERE status = 'Completed'),
		       COALESCE(SUM(cost), 0)
		FROM maintenances
	`
	var stats dto.MaintenanceStatsDTO
	err := r.storage.QueryRow(ctx, query).Scan(
		&stats.TotalMaintenances, &stats.Scheduled, &stats.InProgress,
		&stats.Completed, &stats.TotalCost,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
