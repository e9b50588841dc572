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

type BranchService struct {
	branchRepository repositories.BranchRepositoryInterface
	logger           *zap.Logger
}

func NewBranchService(branchRepository repositories.BranchRepositoryInterface, logger *zap.Logger) *BranchService {
	return &BranchService{branchRepository: branchRepository, logger: logger}
}

func (s *BranchService) GetBranches(ctx context.Context, filter types.Filter) ([]dto.BranchDTO, uint64, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}
	if !authz.Can(actor, authz.Branches, authz.ActionView, nil) {
		return nil, 0, apperrors.ErrForbidden
	}

	branches, total, err := s.branchRepository.GetBranches(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]dto.BranchDTO, 0, len(branches))
	for i := range branches {
		dtos = append(dtos, *toBranchDTO(&branches[i]))
	}
	return dtos, total, nil
}

func (s *BranchService) FindBranch(ctx context.Context, id uint64) (*dto.BranchDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Branches, authz.ActionView, nil) {
		return nil, apperrors.ErrForbidden
	}

	branch, err := s.branchRepository.FindBranch(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBranchDTO(branch), nil
}

func (s *BranchService) CreateBranch(ctx context.Context, payload dto.CreateBranchDTO) (*dto.BranchDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Branches, authz.ActionCreate, nil) {
		return nil, apperrors.ErrForbidden
	}

	branch := entities.Branch{
		Name:     payload.Name,
		Code:     payload.Code,
		Address:  payload.Address,
		IsActive: true,
	}
	id, err := s.branchRepository.CreateBranch(ctx, branch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("branch created", zap.Uint64("id", id), zap.String("code", payload.Code))
	created, err := s.branchRepository.FindBranch(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBranchDTO(created), nil
}

func (s *BranchService) UpdateBranch(ctx context.Context, id uint64, payload dto.UpdateBranchDTO) (*dto.BranchDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Branches, authz.ActionUpdate, nil) {
		return nil, apperrors.ErrForbidden
	}

	branch, err := s.branchRepository.FindBranch(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.Name != nil {
		branch.Name = *payload.Name
	}
	if payload.Address != nil {
		branch.Address = payload.Address
	}
	if payload.IsActive != nil {
		branch.IsActive = *payload.IsActive
	}

	if err := s.branchRepository.UpdateBranch(ctx, id, *branch); err != nil {
		return nil, err
	}

	updated, err := s.branchRepository.FindBranch(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBranchDTO(updated), nil
}

func (s *BranchService) DeleteBranch(ctx context.Context, id uint64) error {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return err
	}
	if !authz.Can(actor, authz.Branches, authz.ActionDelete, nil) {
		return apperrors.ErrForbidden
	}
	return s.branchRepository.DeleteBranch(ctx, id)
}
