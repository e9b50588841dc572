package services

import (
	"context"
	"mime/multipart"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"asset-system/internal/authz"
	"asset-system/internal/dto"
	"asset-system/internal/entities"
	"asset-system/internal/identifier"
	"asset-system/internal/repositories"
	"asset-system/internal/workflow"
	apperrors "asset-system/pkg/errors"
	"asset-system/pkg/filestorage"
	"asset-system/pkg/types"
	"asset-system/pkg/utils"
)

type DisposalService struct {
	disposalRepository repositories.DisposalRepositoryInterface
	assetRepository    repositories.AssetRepositoryInterface
	generator          *identifier.Generator
	txManager          repositories.TxManagerInterface
	fileStorage        filestorage.FileStorageInterface
	logger             *zap.Logger
}

func NewDisposalService(
	disposalRepository repositories.DisposalRepositoryInterface,
	assetRepository repositories.AssetRepositoryInterface,
	generator *identifier.Generator,
	txManager repositories.TxManagerInterface,
	fileStorage filestorage.FileStorageInterface,
	logger *zap.Logger,
) *DisposalService {
	return &DisposalService{
		disposalRepository: disposalRepository,
		assetRepository:    assetRepository,
		generator:          generator,
		txManager:          txManager,
		fileStorage:        fileStorage,
		logger:             logger,
	}
}

func (s *DisposalService) GetDisposals(ctx context.Context, filter types.Filter) ([]dto.DisposalDTO, uint64, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}
	if !authz.Can(actor, authz.Disposals, authz.ActionView, nil) {
		return nil, 0, apperrors.ErrForbidden
	}

	disposals, total, err := s.disposalRepository.GetDisposals(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]dto.DisposalDTO, 0, len(disposals))
	for i := range disposals {
		dtos = append(dtos, *toDisposalDTO(&disposals[i]))
	}
	return dtos, total, nil
}

func (s *DisposalService) FindDisposal(ctx context.Context, id uint64) (*dto.DisposalDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Disposals, authz.ActionView, nil) {
		return nil, apperrors.ErrForbidden
	}

	disposal, err := s.disposalRepository.FindDisposal(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDisposalDTO(disposal), nil
}

// CreateDisposal opens a disposal request for an asset. The asset stays
// untouched until the request is approved.
func (s *DisposalService) CreateDisposal(ctx context.Context, payload dto.CreateDisposalDTO) (*dto.DisposalDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Disposals, authz.ActionCreate, nil) {
		return nil, apperrors.ErrForbidden
	}

	asset, err := s.assetRepository.FindAsset(ctx, payload.AssetID)
	if err != nil {
		return nil, err
	}
	if asset.CurrentStatus == workflow.AssetDisposed {
		return nil, apperrors.ErrConflict
	}

	disposalDate, err := parseDate(payload.DisposalDate)
	if err != nil {
		return nil, err
	}

	disposal := &entities.Disposal{
		AssetID:        payload.AssetID,
		DisposalDate:   disposalDate,
		DisposalMethod: entities.DisposalMethod(payload.DisposalMethod),
		DisposalValue:  payload.DisposalValue,
		BuyerDetails:   payload.BuyerDetails,
		Reason:         payload.Reason,
		Status:         workflow.DisposalPending,
	}

	var newID uint64
	attempt := func() error {
		return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
			disposalID, err := s.generator.Next(ctx, tx, s.disposalRepository, identifier.KindDisposal, asset.BranchID, "")
			if err != nil {
				return err
			}
			disposal.DisposalID = disposalID
			newID, err = s.disposalRepository.CreateDisposal(ctx, tx, *disposal)
			return err
		})
	}
	err = attempt()
	if isUniqueViolation(err) {
		s.logger.Warn("identifier collision, regenerating", zap.String("disposal_id", disposal.DisposalID))
		err = attempt()
	}
	if err != nil {
		return nil, err
	}

	created, err := s.disposalRepository.FindDisposal(ctx, newID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("disposal requested",
		zap.Uint64("id", created.ID),
		zap.String("disposal_id", created.DisposalID),
	)
	return toDisposalDTO(created), nil
}

func (s *DisposalService) UpdateDisposal(ctx context.Context, id uint64, payload dto.UpdateDisposalDTO) (*dto.DisposalDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Disposals, authz.ActionUpdate, nil) {
		return nil, apperrors.ErrForbidden
	}

	disposal, err := s.disposalRepository.FindDisposal(ctx, id)
	if err != nil {
		return nil, err
	}
	// Decided requests are immutable.
	if disposal.Status != workflow.DisposalPending {
		return nil, apperrors.ErrConflict
	}

	if payload.DisposalDate != nil {
		disposalDate, err := parseDate(*payload.DisposalDate)
		if err != nil {
			return nil, err
		}
		disposal.DisposalDate = disposalDate
	}
	if payload.DisposalMethod != nil {
		disposal.DisposalMethod = entities.DisposalMethod(*payload.DisposalMethod)
	}
	if payload.DisposalValue != nil {
		disposal.DisposalValue = payload.DisposalValue
	}
	if payload.BuyerDetails != nil {
		disposal.BuyerDetails = payload.BuyerDetails
	}
	if payload.Reason != nil {
		disposal.Reason = payload.Reason
	}

	if err := s.disposalRepository.UpdateDisposal(ctx, id, *disposal); err != nil {
		return nil, err
	}

	updated, err := s.disposalRepository.FindDisposal(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDisposalDTO(updated), nil
}

// Approve decides a pending disposal. Approval marks the asset itself
// Disposed in the same transaction, so the two records can never
// disagree.
func (s *DisposalService) Approve(ctx context.Context, id uint64, payload dto.ApproveDisposalDTO) (*dto.DisposalDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Disposals, authz.ActionApprove, nil) {
		return nil, apperrors.ErrForbidden
	}

	disposal, err := s.disposalRepository.FindDisposal(ctx, id)
	if err != nil {
		return nil, err
	}

	decision := workflow.DisposalStatus(payload.Status)
	effects, err := workflow.ApproveDisposal(disposal.Status, decision, disposal.AssetID)
	if err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.disposalRepository.SetApproval(ctx, tx, id, decision, actor.ID); err != nil {
			return err
		}
		return applyEffects(ctx, tx, s.assetRepository, effects)
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.disposalRepository.FindDisposal(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("disposal decided",
		zap.Uint64("id", id),
		zap.String("decision", payload.Status),
		zap.Int("effects", len(effects)),
	)
	return toDisposalDTO(updated), nil
}

func (s *DisposalService) AttachDocument(ctx context.Context, id uint64, kind string, fileHeader *multipart.FileHeader) (*dto.DisposalDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Disposals, authz.ActionUpdate, nil) {
		return nil, apperrors.ErrForbidden
	}

	if _, err := s.disposalRepository.FindDisposal(ctx, id); err != nil {
		return nil, err
	}

	path, err := s.fileStorage.Save(fileHeader)
	if err != nil {
		return nil, err
	}
	if err := s.disposalRepository.AttachDocument(ctx, id, kind, path); err != nil {
		return nil, err
	}

	updated, err := s.disposalRepository.FindDisposal(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDisposalDTO(updated), nil
}

func (s *DisposalService) DeleteDisposal(ctx context.Context, id uint64) error {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return err
	}
	if !authz.Can(actor, authz.Disposals, authz.ActionDelete, nil) {
		return apperrors.ErrForbidden
	}
	if _, err := s.disposalRepository.FindDisposal(ctx, id); err != nil {
		return err
	}
	return s.disposalRepository.DeleteDisposal(ctx, id)
}
