package services

import (
	"context"

	"go.uber.org/zap"

	"asset-system/internal/authz"
	"asset-system/internal/dto"
	"asset-system/internal/repositories"
	apperrors "asset-system/pkg/errors"
	"asset-system/pkg/types"
	"asset-system/pkg/utils"
)

type ReportServiceInterface interface {
	AssetRegister(ctx context.Context, filter types.Filter) ([]dto.AssetDTO, error)
}

type reportService struct {
	assetRepository repositories.AssetRepositoryInterface
	logger          *zap.Logger
}

func NewReportService(assetRepository repositories.AssetRepositoryInterface, logger *zap.Logger) ReportServiceInterface {
	return &reportService{assetRepository: assetRepository, logger: logger}
}

// AssetRegister returns the rows for the asset register export. Reports
// are branch-scoped the same way asset listings are.
func (s *reportService) AssetRegister(ctx context.Context, filter types.Filter) ([]dto.AssetDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Reports, authz.ActionView, actor.BranchID) {
		return nil, apperrors.ErrForbidden
	}

	// Exports ignore pagination.
	filter.WithPagination = false

	assets, total, err := s.assetRepository.GetAssets(ctx, filter, authz.BranchFilter(actor))
	if err != nil {
		return nil, err
	}
	s.logger.Info("asset register exported", zap.Uint64("rows", total))

	dtos := make([]dto.AssetDTO, 0, len(assets))
	for i := range assets {
		dtos = append(dtos, *toAssetDTO(&assets[i]))
	}
	return dtos, nil
}
