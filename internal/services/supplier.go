package services

import (
	"context"

	"go.uber.org/zap"

	"asset-system/internal/authz"
	"asset-system/internal/dto"
	"asset-system/internal/entities"
	"asset-system/internal/repositories"
	apperrors "asset-system/pkg/errors"
	"asset-system/pkg/types"
	"asset-system/pkg/utils"
)

type SupplierService struct {
	supplierRepository repositories.SupplierRepositoryInterface
	logger             *zap.Logger
}

func NewSupplierService(supplierRepository repositories.SupplierRepositoryInterface, logger *zap.Logger) *SupplierService {
	return &SupplierService{supplierRepository: supplierRepository, logger: logger}
}

func (s *SupplierService) GetSuppliers(ctx context.Context, filter types.Filter) ([]dto.SupplierDTO, uint64, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}
	if !authz.Can(actor, authz.Suppliers, authz.ActionView, nil) {
		return nil, 0, apperrors.ErrForbidden
	}

	suppliers, total, err := s.supplierRepository.GetSuppliers(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]dto.SupplierDTO, 0, len(suppliers))
	for i := range suppliers {
		dtos = append(dtos, *toSupplierDTO(&suppliers[i]))
	}
	return dtos, total, nil
}

func (s *SupplierService) FindSupplier(ctx context.Context, id uint64) (*dto.SupplierDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Suppliers, authz.ActionView, nil) {
		return nil, apperrors.ErrForbidden
	}

	supplier, err := s.supplierRepository.FindSupplier(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSupplierDTO(supplier), nil
}

func (s *SupplierService) CreateSupplier(ctx context.Context, payload dto.CreateSupplierDTO) (*dto.SupplierDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Suppliers, authz.ActionCreate, nil) {
		return nil, apperrors.ErrForbidden
	}

	supplier := entities.Supplier{
		Name:          payload.Name,
		ContactPerson: payload.ContactPerson,
		PhoneNumber:   payload.PhoneNumber,
		Email:         payload.Email,
		Address:       payload.Address,
		GSTNumber:     payload.GSTNumber,
	}
	id, err := s.supplierRepository.CreateSupplier(ctx, supplier)
	if err != nil {
		return nil, err
	}

	s.logger.Info("supplier created", zap.Uint64("id", id), zap.String("name", payload.Name))
	created, err := s.supplierRepository.FindSupplier(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSupplierDTO(created), nil
}
