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

type MaintenanceService struct {
	maintenanceRepository repositories.MaintenanceRepositoryInterface
	assetRepository       repositories.AssetRepositoryInterface
	generator             *identifier.Generator
	txManager             repositories.TxManagerInterface
	fileStorage           filestorage.FileStorageInterface
	logger                *zap.Logger
}

func NewMaintenanceService(
	maintenanceRepository repositories.MaintenanceRepositoryInterface,
	assetRepository repositories.AssetRepositoryInterface,
	generator *identifier.Generator,
	txManager repositories.TxManagerInterface,
	fileStorage filestorage.FileStorageInterface,
	logger *zap.Logger,
) *MaintenanceService {
	return &MaintenanceService{
		maintenanceRepository: maintenanceRepository,
		assetRepository:       assetRepository,
		generator:             generator,
		txManager:             txManager,
		fileStorage:           fileStorage,
		logger:                logger,
	}
}

func (s *MaintenanceService) GetMaintenances(ctx context.Context, filter types.Filter) ([]dto.MaintenanceDTO, uint64, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}
	if !authz.Can(actor, authz.Maintenances, authz.ActionView, nil) {
		return nil, 0, apperrors.ErrForbidden
	}

	maintenances, total, err := s.maintenanceRepository.GetMaintenances(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]dto.MaintenanceDTO, 0, len(maintenances))
	for i := range maintenances {
		dtos = append(dtos, *toMaintenanceDTO(&maintenances[i]))
	}
	return dtos, total, nil
}

func (s *MaintenanceService) FindMaintenance(ctx context.Context, id uint64) (*dto.MaintenanceDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Maintenances, authz.ActionView, nil) {
		return nil, apperrors.ErrForbidden
	}

	maintenance, err := s.maintenanceRepository.FindMaintenance(ctx, id)
	if err != nil {
		return nil, err
	}
	return toMaintenanceDTO(maintenance), nil
}

// CreateMaintenance schedules work on an asset. The identifier takes its
// branch prefix from the asset being serviced.
func (s *MaintenanceService) CreateMaintenance(ctx context.Context, payload dto.CreateMaintenanceDTO) (*dto.MaintenanceDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Maintenances, authz.ActionCreate, nil) {
		return nil, apperrors.ErrForbidden
	}

	asset, err := s.assetRepository.FindAsset(ctx, payload.AssetID)
	if err != nil {
		return nil, err
	}
	if asset.CurrentStatus == workflow.AssetDisposed {
		return nil, apperrors.ErrConflict
	}

	scheduledDate, err := parseDatePtr(payload.ScheduledDate)
	if err != nil {
		return nil, err
	}

	maintenance := &entities.Maintenance{
		AssetID:          payload.AssetID,
		MaintenanceType:  entities.MaintenanceType(payload.MaintenanceType),
		IssueDescription: payload.IssueDescription,
		ScheduledDate:    scheduledDate,
		Cost:             payload.Cost,
		VendorName:       payload.VendorName,
		Status:           workflow.MaintenanceScheduled,
	}

	var newID uint64
	attempt := func() error {
		return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
			maintenanceID, err := s.generator.Next(ctx, tx, s.maintenanceRepository, identifier.KindMaintenance, asset.BranchID, "")
			if err != nil {
				return err
			}
			maintenance.MaintenanceID = maintenanceID
			newID, err = s.maintenanceRepository.CreateMaintenance(ctx, tx, *maintenance)
			return err
		})
	}
	err = attempt()
	if isUniqueViolation(err) {
		s.logger.Warn("identifier collision, regenerating", zap.String("maintenance_id", maintenance.MaintenanceID))
		err = attempt()
	}
	if err != nil {
		return nil, err
	}

	created, err := s.maintenanceRepository.FindMaintenance(ctx, newID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("maintenance scheduled",
		zap.Uint64("id", created.ID),
		zap.String("maintenance_id", created.MaintenanceID),
	)
	return toMaintenanceDTO(created), nil
}

func (s *MaintenanceService) UpdateMaintenance(ctx context.Context, id uint64, payload dto.UpdateMaintenanceDTO) (*dto.MaintenanceDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Maintenances, authz.ActionUpdate, nil) {
		return nil, apperrors.ErrForbidden
	}

	maintenance, err := s.maintenanceRepository.FindMaintenance(ctx, id)
	if err != nil {
		return nil, err
	}
	if maintenance.Status == workflow.MaintenanceCompleted || maintenance.Status == workflow.MaintenanceCancelled {
		return nil, apperrors.ErrConflict
	}

	if payload.IssueDescription != nil {
		maintenance.IssueDescription = payload.IssueDescription
	}
	if payload.ScheduledDate != nil {
		scheduledDate, err := parseDatePtr(payload.ScheduledDate)
		if err != nil {
			return nil, err
		}
		maintenance.ScheduledDate = scheduledDate
	}
	if payload.Cost != nil {
		maintenance.Cost = payload.Cost
	}
	if payload.VendorName != nil {
		maintenance.VendorName = payload.VendorName
	}

	if err := s.maintenanceRepository.UpdateMaintenance(ctx, id, *maintenance); err != nil {
		return nil, err
	}

	updated, err := s.maintenanceRepository.FindMaintenance(ctx, id)
	if err != nil {
		return nil, err
	}
	return toMaintenanceDTO(updated), nil
}

func (s *MaintenanceService) StartMaintenance(ctx context.Context, id uint64) (*dto.MaintenanceDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Maintenances, authz.ActionUpdate, nil) {
		return nil, apperrors.ErrForbidden
	}

	maintenance, err := s.maintenanceRepository.FindMaintenance(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := workflow.StartMaintenance(maintenance.Status); err != nil {
		return nil, err
	}

	if err := s.maintenanceRepository.SetStatus(ctx, nil, id, workflow.MaintenanceInProgress); err != nil {
		return nil, err
	}

	updated, err := s.maintenanceRepository.FindMaintenance(ctx, id)
	if err != nil {
		return nil, err
	}
	return toMaintenanceDTO(updated), nil
}

// CompleteMaintenance closes the record and, when the serviced asset was
// under repair, flips it back to working in the same transaction.
func (s *MaintenanceService) CompleteMaintenance(ctx context.Context, id uint64, payload dto.CompleteMaintenanceDTO) (*dto.MaintenanceDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Maintenances, authz.ActionComplete, nil) {
		return nil, apperrors.ErrForbidden
	}

	maintenance, err := s.maintenanceRepository.FindMaintenance(ctx, id)
	if err != nil {
		return nil, err
	}
	asset, err := s.assetRepository.FindAsset(ctx, maintenance.AssetID)
	if err != nil {
		return nil, err
	}

	effects, err := workflow.CompleteMaintenance(maintenance.Status, asset.ID, asset.CurrentStatus)
	if err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.maintenanceRepository.Complete(ctx, tx, id, actor.ID, payload.Cost, payload.VendorName); err != nil {
			return err
		}
		return applyEffects(ctx, tx, s.assetRepository, effects)
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.maintenanceRepository.FindMaintenance(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("maintenance completed",
		zap.Uint64("id", id),
		zap.Int("effects", len(effects)),
	)
	return toMaintenanceDTO(updated), nil
}

func (s *MaintenanceService) CancelMaintenance(ctx context.Context, id uint64) (*dto.MaintenanceDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Maintenances, authz.ActionUpdate, nil) {
		return nil, apperrors.ErrForbidden
	}

	maintenance, err := s.maintenanceRepository.FindMaintenance(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := workflow.CancelMaintenance(maintenance.Status); err != nil {
		return nil, err
	}

	if err := s.maintenanceRepository.SetStatus(ctx, nil, id, workflow.MaintenanceCancelled); err != nil {
		return nil, err
	}

	updated, err := s.maintenanceRepository.FindMaintenance(ctx, id)
	if err != nil {
		return nil, err
	}
	return toMaintenanceDTO(updated), nil
}

func (s *MaintenanceService) AttachReport(ctx context.Context, id uint64, fileHeader *multipart.FileHeader) (*dto.MaintenanceDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Maintenances, authz.ActionUpdate, nil) {
		return nil, apperrors.ErrForbidden
	}

	if _, err := s.maintenanceRepository.FindMaintenance(ctx, id); err != nil {
		return nil, err
	}

	path, err := s.fileStorage.Save(fileHeader)
	if err != nil {
		return nil, err
	}
	if err := s.maintenanceRepository.AttachReport(ctx, id, path); err != nil {
		return nil, err
	}

	updated, err := s.maintenanceRepository.FindMaintenance(ctx, id)
	if err != nil {
		return nil, err
	}
	return toMaintenanceDTO(updated), nil
}

func (s *MaintenanceService) DeleteMaintenance(ctx context.Context, id uint64) error {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return err
	}
	if !authz.Can(actor, authz.Maintenances, authz.ActionDelete, nil) {
		return apperrors.ErrForbidden
	}
	if _, err := s.maintenanceRepository.FindMaintenance(ctx, id); err != nil {
		return err
	}
	return s.maintenanceRepository.DeleteMaintenance(ctx, id)
}

func (s *MaintenanceService) GetStats(ctx context.Context) (*dto.MaintenanceStatsDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Maintenances, authz.ActionView, nil) {
		return nil, apperrors.ErrForbidden
	}
	return s.maintenanceRepository.GetStats(ctx)
}
