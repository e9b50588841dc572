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

var assetFieldMap = map[string]string{
	"id":             "a.id",
	"asset_id":       "a.asset_id",
	"asset_type":     "a.asset_type",
	"name":           "a.name",
	"branch_id":      "a.branch_id",
	"supplier_id":    "a.supplier_id",
	"current_status": "a.current_status",
	"testing_status": "a.testing_status",
	"created_at":     "a.created_at",
	"purchase_value": "a.purchase_value",
}

// assetFileColumns whitelists the attachment slots an upload may target.
var assetFileColumns = map[string]string{
	"invoice":        "invoice_file",
	"dc":             "dc_file",
	"po":             "po_file",
	"testing_report": "testing_report_file",
}

type AssetRepositoryInterface interface {
	LastIdentifier(ctx context.Context, tx pgx.Tx, prefix string) (string, error)
	GetAssets(ctx context.Context, filter types.Filter, branchID *uint64) ([]entities.Asset, uint64, error)
	FindAsset(ctx context.Context, id uint64) (*entities.Asset, error)
	CreateAsset(ctx context.Context, tx pgx.Tx, asset entities.Asset) (uint64, error)
	UpdateAsset(ctx context.Context, id uint64, asset entities.Asset) error
	SetStatus(ctx context.Context, tx pgx.Tx, id uint64, status workflow.AssetStatus) error
	SetTestingResult(ctx context.Context, id uint64, status workflow.TestingStatus, testedBy uint64, remarks *string) error
	AttachFile(ctx context.Context, id uint64, kind string, path string) error
	DeleteAsset(ctx context.Context, id uint64) error
	GetStats(ctx context.Context, branchID *uint64) (*dto.AssetStatsDTO, error)
}

type AssetRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAssetRepository(storage *pgxpool.Pool, logger *zap.Logger) *AssetRepository {
	return &AssetRepository{storage: storage, logger: logger}
}

// LastIdentifier returns the highest generated identifier under prefix,
// or "" when the prefix bucket is empty. It takes an advisory lock tied
// to the caller's transaction so concurrent generations for the same
// prefix serialize instead of racing to the same sequence number.
func (r *AssetRepository) LastIdentifier(ctx context.Context, tx pgx.Tx, prefix string) (string, error) {
	if _, err := tx.Exec(ctx, acquireSequenceLock, prefix); err != nil {
		return "", fmt.Errorf("acquire sequence lock: %w", err)
	}

	var last string
	query := `SELECT asset_id FROM assets WHERE asset_id LIKE $1 || '%' ORDER BY asset_id DESC LIMIT 1`
	err := tx.QueryRow(ctx, query, prefix).Scan(&last)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return last, nil
}

const assetColumns = `
	a.id, a.asset_id, a.asset_type, a.name, a.description, a.serial_number, a.ams_barcode,
	a.quantity, a.branch_id, a.location, a.supplier_id,
	a.po_number, a.po_date, a.invoice_number, a.invoice_date,
	a.invoice_file, a.dc_file, a.po_file, a.purchase_value,
	a.current_status, a.remarks, a.warranty_expiry,
	a.testing_status, a.testing_report_file, a.tested_by, a.tested_at,
	a.created_by, a.updated_by, a.created_at, a.updated_at,
	COALESCE(b.id, 0), COALESCE(b.name, ''), COALESCE(b.code, ''),
	COALESCE(s.id, 0), COALESCE(s.name, ''),
	COALESCE(tu.id, 0), COALESCE(tu.username, ''),
	COALESCE(cu.id, 0), COALESCE(cu.username, '')`

const assetJoins = `
	FROM assets a
	LEFT JOIN branches b ON a.branch_id = b.id
	LEFT JOIN suppliers s ON a.supplier_id = s.id
	LEFT JOIN users tu ON a.tested_by = tu.id
	LEFT JOIN users cu ON a.created_by = cu.id`

func scanAsset(row pgx.Row) (*entities.Asset, error) {
	var a entities.Asset
	var b entities.Branch
	var s entities.Supplier
	var tester, creator entities.User

	var description, serialNumber, amsBarcode, location sql.NullString
	var poNumber, invoiceNumber, invoiceFile, dcFile, poFile, remarks, testingReportFile sql.NullString
	var supplierID, testedBy, createdBy, updatedBy sql.NullInt64
	var poDate, invoiceDate, warrantyExpiry, testedAt sql.NullTime
	var purchaseValue sql.NullFloat64

	err := row.Scan(
		&a.ID, &a.AssetID, &a.AssetType, &a.Name, &description, &serialNumber, &amsBarcode,
		&a.Quantity, &a.BranchID, &location, &supplierID,
		&poNumber, &poDate, &invoiceNumber, &invoiceDate,
		&invoiceFile, &dcFile, &poFile, &purchaseValue,
		&a.CurrentStatus, &remarks, &warrantyExpiry,
		&a.TestingStatus, &testingReportFile, &testedBy, &testedAt,
		&createdBy, &updatedBy, &a.CreatedAt, &a.UpdatedAt,
		&b.ID, &b.Name, &b.Code,
		&s.ID, &s.Name,
		&tester.ID, &tester.Username,
		&creator.ID, &creator.Username,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan asset: %w", err)
	}

	if description.Valid {
		a.Description = &description.String
	}
	if serialNumber.Valid {
		a.SerialNumber = &serialNumber.String
	}
	if amsBarcode.Valid {
		a.AMSBarcode = &amsBarcode.String
	}
	if location.Valid {
		a.Location = &location.String
	}
	if supplierID.Valid {
		v := uint64(supplierID.Int64)
		a.SupplierID = &v
	}
	if poNumber.Valid {
		a.PONumber = &poNumber.String
	}
	if poDate.Valid {
		a.PODate = &poDate.Time
	}
	if invoiceNumber.Valid {
		a.InvoiceNumber = &invoiceNumber.String
	}
	if invoiceDate.Valid {
		a.InvoiceDate = &invoiceDate.Time
	}
	if invoiceFile.Valid {
		a.InvoiceFile = &invoiceFile.String
	}
	if dcFile.Valid {
		a.DCFile = &dcFile.String
	}
	if poFile.Valid {
		a.POFile = &poFile.String
	}
	if purchaseValue.Valid {
		a.PurchaseValue = &purchaseValue.Float64
	}
	if remarks.Valid {
		a.Remarks = &remarks.String
	}
	if warrantyExpiry.Valid {
		a.WarrantyExpiry = &warrantyExpiry.Time
	}
	if testingReportFile.Valid {
		a.TestingReportFile = &testingReportFile.String
	}
	if testedBy.Valid {
		v := uint64(testedBy.Int64)
		a.TestedBy = &v
	}
	if testedAt.Valid {
		a.TestedAt = &testedAt.Time
	}
	if createdBy.Valid {
		v := uint64(createdBy.Int64)
		a.CreatedBy = &v
	}
	if updatedBy.Valid {
		v := uint64(updatedBy.Int64)
		a.UpdatedBy = &v
	}

	if b.ID > 0 {
		a.Branch = &b
	}
	if s.ID > 0 {
		a.Supplier = &s
	}
	if tester.ID > 0 {
		a.Tester = &tester
	}
	if creator.ID > 0 {
		a.Creator = &creator
	}
	return &a, nil
}

func (r *AssetRepository) GetAssets(ctx context.Context, filter types.Filter, branchID *uint64) ([]entities.Asset, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applyScope := func(b sq.SelectBuilder) sq.SelectBuilder {
		if branchID != nil {
			b = b.Where(sq.Eq{"a.branch_id": *branchID})
		}
		if filter.Search != "" {
			pat := "%" + filter.Search + "%"
			b = b.Where(sq.Or{
				sq.ILike{"a.asset_id": pat},
				sq.ILike{"a.name": pat},
				sq.ILike{"a.serial_number": pat},
				sq.ILike{"a.ams_barcode": pat},
			})
		}
		return b
	}

	countBuilder := applyScope(psql.Select("COUNT(a.id)").From("assets AS a"))
	countFilter := filter
	countFilter.WithPagination = false
	countFilter.Sort = nil
	countBuilder = applyListParams(countBuilder, countFilter, assetFieldMap)

	var total uint64
	sqlCount, argsCount, _ := countBuilder.ToSql()
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Asset{}, 0, nil
	}

	baseBuilder := applyScope(psql.Select(assetColumns).From("assets a").
		LeftJoin("branches b ON a.branch_id = b.id").
		LeftJoin("suppliers s ON a.supplier_id = s.id").
		LeftJoin("users tu ON a.tested_by = tu.id").
		LeftJoin("users cu ON a.created_by = cu.id"))

	if len(filter.Sort) == 0 {
		baseBuilder = baseBuilder.OrderBy("a.id DESC")
	}
	baseBuilder = applyListParams(baseBuilder, filter, assetFieldMap)

	query, args, err := baseBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	assets := make([]entities.Asset, 0, filter.Limit)
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, 0, err
		}
		assets = append(assets, *asset)
	}

	return assets, total, nil
}

func (r *AssetRepository) FindAsset(ctx context.Context, id uint64) (*entities.Asset, error) {
	query := `SELECT ` + assetColumns + assetJoins + ` WHERE a.id = $1`
	return scanAsset(r.storage.QueryRow(ctx, query, id))
}

func (r *AssetRepository) CreateAsset(ctx context.Context, tx pgx.Tx, asset entities.Asset) (uint64, error) {
	query := `
		INSERT INTO assets (
			asset_id, asset_type, name, description, serial_number, ams_barcode,
			quantity, branch_id, location, supplier_id,
			po_number, po_date, invoice_number, invoice_date, purchase_value,
			current_status, remarks, warranty_expiry,
			testing_status, created_by, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, NOW(), NOW())
		RETURNING id
	`
	var newID uint64
	err := tx.QueryRow(ctx, query,
		asset.AssetID, asset.AssetType, asset.Name, asset.Description, asset.SerialNumber, asset.AMSBarcode,
		asset.Quantity, asset.BranchID, asset.Location, asset.SupplierID,
		asset.PONumber, asset.PODate, asset.InvoiceNumber, asset.InvoiceDate, asset.PurchaseValue,
		asset.CurrentStatus, asset.Remarks, asset.WarrantyExpiry,
		asset.TestingStatus, asset.CreatedBy,
	).Scan(&newID)
	return newID, err
}

func (r *AssetRepository) UpdateAsset(ctx context.Context, id uint64, asset entities.Asset) error {
	query := `
		UPDATE assets
		SET name = $1, description = $2, serial_number = $3, ams_barcode = $4,
		    quantity = $5, location = $6, supplier_id = $7,
		    po_number = $8, po_date = $9, invoice_number = $10, invoice_date = $11,
		    purchase_value = $12, current_status = $13, remarks = $14,
		    warranty_expiry = $15, updated_by = $16, updated_at = NOW()
		WHERE id = $17
	`
	result, err := r.storage.Exec(ctx, query,
		asset.Name, asset.Description, asset.SerialNumber, asset.AMSBarcode,
		asset.Quantity, asset.Location, asset.SupplierID,
		asset.PONumber, asset.PODate, asset.InvoiceNumber, asset.InvoiceDate,
		asset.PurchaseValue, asset.CurrentStatus, asset.Remarks,
		asset.WarrantyExpiry, asset.UpdatedBy, id,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *AssetRepository) SetStatus(ctx context.Context, tx pgx.Tx, id uint64, status workflow.AssetStatus) error {
	var q querier = r.storage
	if tx != nil {
		q = tx
	}
	result, err := q.Exec(ctx,
		`UPDATE assets SET current_status = $1, updated_at = NOW() WHERE id = $2`,
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

func (r *AssetRepository) SetTestingResult(ctx context.Context, id uint64, status workflow.TestingStatus, testedBy uint64, remarks *string) error {
	query := `
		UPDATE assets
		SET testing_status = $1, tested_by = $2, tested_at = NOW(),
		    remarks = COALESCE($3, remarks), updated_at = NOW()
		WHERE id = $4
	`
	result, err := r.storage.Exec(ctx, query, status, testedBy, remarks, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *AssetRepository) AttachFile(ctx context.Context, id uint64, kind string, path string) error {
	column, ok := assetFileColumns[kind]
	if !ok {
		return apperrors.NewBadRequestError(fmt.Sprintf("unknown attachment kind: %s", kind))
	}
	query := fmt.Sprintf(`UPDATE assets SET %s = $1, updated_at = NOW() WHERE id = $2`, column)
	result, err := r.storage.Exec(ctx, query, path, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *AssetRepository) DeleteAsset(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *AssetRepository) GetStats(ctx context.Context, branchID *uint64) (*dto.AssetStatsDTO, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	builder := psql.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE current_status = 'Working')",
		"COUNT(*) FILTER (WHERE current_status = 'Not Working')",
		"COUNT(*) FILTER (WHERE current_status = 'Obsolete')",
		"COUNT(*) FILTER (WHERE testing_status = 'Pending')",
	).From("assets")
	if branchID != nil {
		builder = builder.Where(sq.Eq{"branch_id": *branchID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var stats dto.AssetStatsDTO
	err = r.storage.QueryRow(ctx, query, args...).Scan(
		&stats.TotalAssets, &stats.WorkingAssets, &stats.NotWorkingAssets,
		&stats.ObsoleteAssets, &stats.PendingTesting,
	)
	if err != nil {
		return nil, err
	}

	typeBuilder := psql.Select("asset_type", "COUNT(*)").From("assets").GroupBy("asset_type")
	if branchID != nil {
		typeBuilder = typeBuilder.Where(sq.Eq{"branch_id": *branchID})
	}
	query, args, err = typeBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats.ByType = make(map[string]uint64)
	for rows.Next() {
		var assetType string
		var count uint64
		if err := rows.Scan(&assetType, &count); err != nil {
			return nil, err
		}
		stats.ByType[assetType] = count
	}

	return &stats, nil
}
