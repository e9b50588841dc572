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
	apperrors "asset-system/pkg/errors"
	"asset-system/pkg/types"
)

var supplierFieldMap = map[string]string{
	"id":         "s.id",
	"name":       "s.name",
	"email":      "s.email",
	"gst_number": "s.gst_number",
	"created_at": "s.created_at",
}

type SupplierRepositoryInterface interface {
	GetSuppliers(ctx context.Context, filter types.Filter) ([]entities.Supplier, uint64, error)
	FindSupplier(ctx context.Context, id uint64) (*entities.Supplier, error)
	CreateSupplier(ctx context.Context, supplier entities.Supplier) (uint64, error)
}

type SupplierRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewSupplierRepository(storage *pgxpool.Pool, logger *zap.Logger) *SupplierRepository {
	return &SupplierRepository{storage: storage, logger: logger}
}

func scanSupplier(row pgx.Row) (*entities.Supplier, error) {
	var s entities.Supplier
	var contactPerson, phoneNumber, email, address, gstNumber sql.NullString

	err := row.Scan(
		&s.ID, &s.Name, &contactPerson, &phoneNumber, &email, &address, &gstNumber,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan supplier: %w", err)
	}

	if contactPerson.Valid {
		s.ContactPerson = &contactPerson.String
	}
	if phoneNumber.Valid {
		s.PhoneNumber = &phoneNumber.String
	}
	if email.Valid {
		s.Email = &email.String
	}
	if address.Valid {
		s.Address = &address.String
	}
	if gstNumber.Valid {
		s.GSTNumber = &gstNumber.String
	}
	return &s, nil
}

func (r *SupplierRepository) GetSuppliers(ctx context.Context, filter types.Filter) ([]entities.Supplier, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applySearch := func(b sq.SelectBuilder) sq.SelectBuilder {
		if filter.Search != "" {
			pat := "%" + filter.Search + "%"
			return b.Where(sq.Or{
				sq.ILike{"s.name": pat},
				sq.ILike{"s.contact_person": pat},
				sq.ILike{"s.gst_number": pat},
			})
		}
		return b
	}

	countBuilder := applySearch(psql.Select("COUNT(s.id)").From("suppliers AS s"))
	countFilter := filter
	countFilter.WithPagination = false
	countFilter.Sort = nil
	countBuilder = applyListParams(countBuilder, countFilter, supplierFieldMap)

	var total uint64
	sqlCount, argsCount, _ := countBuilder.ToSql()
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Supplier{}, 0, nil
	}

	baseBuilder := applySearch(psql.Select(
		"s.id", "s.name", "s.contact_person", "s.phone_number", "s.email", "s.address",
		"s.gst_number", "s.created_at", "s.updated_at",
	).From("suppliers AS s"))

	if len(filter.Sort) == 0 {
		baseBuilder = baseBuilder.OrderBy("s.id DESC")
	}
	baseBuilder = applyListParams(baseBuilder, filter, supplierFieldMap)

	query, args, err := baseBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	suppliers := make([]entities.Supplier, 0, filter.Limit)
	for rows.Next() {
		supplier, err := scanSupplier(rows)
		if err != nil {
			return nil, 0, err
		}
		suppliers = append(suppliers, *supplier)
	}

	return suppliers, total, nil
}

func (r *SupplierRepository) FindSupplier(ctx context.Context, id uint64) (*entities.Supplier, error) {
	query := `
		SELECT s.id, s.name, s.contact_person, s.phone_number, s.email, s.address,
		       s.gst_number, s.created_at, s.updated_at
		FROM suppliers s
		WHERE s.id = $1
	`
	return scanSupplier(r.storage.QueryRow(ctx, query, id))
}

func (r *SupplierRepository) CreateSupplier(ctx context.Context, supplier entities.Supplier) (uint64, error) {
	query := `
		INSERT INTO suppliers (name, contact_person, phone_number, email, address, gst_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id
	`
	var newID uint64
	err := r.storage.QueryRow(ctx, query,
		supplier.Name, supplier.ContactPerson, supplier.PhoneNumber,
		supplier.Email, supplier.Address, supplier.GSTNumber,
	).Scan(&newID)
	return newID, err
}
