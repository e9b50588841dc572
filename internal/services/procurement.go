package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"asset-system/internal/authz"
	"asset-system/internal/dto"
	"asset-system/internal/entities"
	"asset-system/internal/identifier"
	"asset-system/internal/repositories"
	"asset-system/internal/workflow"
	apperrors "asset-system/pkg/errors"
	"asset-system/pkg/types"
	"asset-system/pkg/utils"
)

type ProcurementService struct {
	procurementRepository repositories.ProcurementRepositoryInterface
	generator             *identifier.Generator
	txManager             repositories.TxManagerInterface
	logger                *zap.Logger
}

func NewProcurementService(
	procurementRepository repositories.ProcurementRepositoryInterface,
	generator *identifier.Generator,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) *ProcurementService {
	return &ProcurementService{
		procurementRepository: procurementRepository,
		generator:             generator,
		txManager:             txManager,
		logger:                logger,
	}
}

func (s *ProcurementService) GetProcurements(ctx context.Context, filter types.Filter) ([]dto.ProcurementDTO, uint64, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}
	if !authz.Can(actor, authz.Procurements, authz.ActionView, actor.BranchID) {
		return nil, 0, apperrors.ErrForbidden
	}

	procurements, total, err := s.procurementRepository.GetProcurements(ctx, filter, authz.BranchFilter(actor))
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]dto.ProcurementDTO, 0, len(procurements))
	for i := range procurements {
		dtos = append(dtos, *toProcurementDTO(&procurements[i]))
	}
	return dtos, total, nil
}

func (s *ProcurementService) FindProcurement(ctx context.Context, id uint64) (*dto.ProcurementDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	procurement, err := s.procurementRepository.FindProcurement(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Procurements, authz.ActionView, &procurement.BranchID) {
		return nil, apperrors.ErrForbidden
	}
	return toProcurementDTO(procurement), nil
}

func (s *ProcurementService) CreateProcurement(ctx context.Context, payload dto.CreateProcurementDTO) (*dto.ProcurementDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Procurements, authz.ActionCreate, &payload.BranchID) {
		return nil, apperrors.ErrForbidden
	}

	requisitionDate, err := parseDate(payload.RequisitionDate)
	if err != nil {
		return nil, err
	}

	procurement := &entities.Procurement{
		AssetID:         payload.AssetID,
		BranchID:        payload.BranchID,
		RequisitionDate: requisitionDate,
		BudgetAllocated: payload.BudgetAllocated,
		PONumber:        payload.PONumber,
		ApprovalStatus:  workflow.ApprovalPending,
		CreatedBy:       &actor.ID,
	}

	var newID uint64
	attempt := func() error {
		return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
			procurementID, err := s.generator.Next(ctx, tx, s.procurementRepository, identifier.KindProcurement, payload.BranchID, "")
			if err != nil {
				return err
			}
			procurement.ProcurementID = procurementID
			newID, err = s.procurementRepository.CreateProcurement(ctx, tx, *procurement)
			return err
		})
	}
	err = attempt()
	if isUniqueViolation(err) {
		s.logger.Warn("identifier collision, regenerating", zap.String("procurement_id", procurement.ProcurementID))
		err = attempt()
	}
	if err != nil {
		return nil, err
	}

	created, err := s.procurementRepository.FindProcurement(ctx, newID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("procurement created",
		zap.Uint64("id", created.ID),
		zap.String("procurement_id", created.ProcurementID),
	)
	return toProcurementDTO(created), nil
}

func (s *ProcurementService) UpdateProcurement(ctx context.Context, id uint64, payload dto.UpdateProcurementDTO) (*dto.ProcurementDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	procurement, err := s.procurementRepository.FindProcurement(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Procurements, authz.ActionUpdate, &procurement.BranchID) {
		return nil, apperrors.ErrForbidden
	}
	// Decided requests are immutable.
	if procurement.ApprovalStatus != workflow.ApprovalPending {
		return nil, apperrors.ErrConflict
	}

	if payload.RequisitionDate != nil {
		requisitionDate, err := parseDate(*payload.RequisitionDate)
		if err != nil {
			return nil, err
		}
		procurement.RequisitionDate = requisitionDate
	}
	if payload.BudgetAllocated != nil {
		procurement.BudgetAllocated = payload.BudgetAllocated
	}
	if payload.PONumber != nil {
		procurement.PONumber = payload.PONumber
	}

	if err := s.procurementRepository.UpdateProcurement(ctx, id, *procurement); err != nil {
		return nil, err
	}

	updated, err := s.procurementRepository.FindProcurement(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProcurementDTO(updated), nil
}

// Approve decides a pending procurement request.
func (s *ProcurementService) Approve(ctx context.Context, id uint64, payload dto.ApproveProcurementDTO) (*dto.ProcurementDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	procurement, err := s.procurementRepository.FindProcurement(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Procurements, authz.ActionApprove, &procurement.BranchID) {
		return nil, apperrors.ErrForbidden
	}

	decision := workflow.ApprovalStatus(payload.ApprovalStatus)
	if err := workflow.ApproveProcurement(procurement.ApprovalStatus, decision); err != nil {
		return nil, err
	}

	if err := s.procurementRepository.SetApproval(ctx, nil, id, decision, actor.ID); err != nil {
		return nil, err
	}

	updated, err := s.procurementRepository.FindProcurement(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("procurement decided",
		zap.Uint64("id", id),
		zap.String("decision", payload.ApprovalStatus),
	)
	return toProcurementDTO(updated), nil
}

func (s *ProcurementService) DeleteProcurement(ctx context.Context, id uint64) error {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	procurement, err := s.procurementRepository.FindProcurement(ctx, id)
	if err != nil {
		return err
	}
	if !authz.Can(actor, authz.Procurements, authz.ActionDelete, &procurement.BranchID) {
		return apperrors.ErrForbidden
	}
	return s.procurementRepository.DeleteProcurement(ctx, id)
}
