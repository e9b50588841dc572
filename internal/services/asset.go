package services

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

// isUniqueViolation reports a Postgres duplicate-key error. The unique
// index on generated identifiers is the backstop for the advisory lock:
// if two transactions still collide, the losing insert fails with 23505
// and the caller regenerates.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type AssetService struct {
	assetRepository repositories.AssetRepositoryInterface
	generator       *identifier.Generator
	txManager       repositories.TxManagerInterface
	fileStorage     filestorage.FileStorageInterface
	logger          *zap.Logger
}

func NewAssetService(
	assetRepository repositories.AssetRepositoryInterface,
	generator *identifier.Generator,
	txManager repositories.TxManagerInterface,
	fileStorage filestorage.FileStorageInterface,
	logger *zap.Logger,
) *AssetService {
	return &AssetService{
		assetRepository: assetRepository,
		generator:       generator,
		txManager:       txManager,
		fileStorage:     fileStorage,
		logger:          logger,
	}
}

func (s *AssetService) GetAssets(ctx context.Context, filter types.Filter) ([]dto.AssetDTO, uint64, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}
	if !authz.Can(actor, authz.Assets, authz.ActionView, actor.BranchID) {
		return nil, 0, apperrors.ErrForbidden
	}

	assets, total, err := s.assetRepository.GetAssets(ctx, filter, authz.BranchFilter(actor))
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]dto.AssetDTO, 0, len(assets))
	for i := range assets {
		dtos = append(dtos, *toAssetDTO(&assets[i]))
	}
	return dtos, total, nil
}

func (s *AssetService) FindAsset(ctx context.Context, id uint64) (*dto.AssetDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	asset, err := s.assetRepository.FindAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Assets, authz.ActionView, &asset.BranchID) {
		return nil, apperrors.ErrForbidden
	}
	return toAssetDTO(asset), nil
}

func (s *AssetService) CreateAsset(ctx context.Context, payload dto.CreateAssetDTO) (*dto.AssetDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Assets, authz.ActionCreate, &payload.BranchID) {
		return nil, apperrors.ErrForbidden
	}

	asset, err := s.assetFromCreateDTO(payload, actor.ID)
	if err != nil {
		return nil, err
	}

	id, err := s.insertWithGeneratedID(ctx, asset)
	if err != nil {
		return nil, err
	}

	created, err := s.assetRepository.FindAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("asset created",
		zap.Uint64("id", created.ID),
		zap.String("asset_id", created.AssetID),
	)
	return toAssetDTO(created), nil
}

// insertWithGeneratedID generates the identifier and inserts inside one
// transaction. One retry on duplicate identifier.
func (s *AssetService) insertWithGeneratedID(ctx context.Context, asset *entities.Asset) (uint64, error) {
	var newID uint64
	attempt := func() error {
		return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
			assetID, err := s.generator.Next(ctx, tx, s.assetRepository, identifier.KindAsset, asset.BranchID, asset.AssetType)
			if err != nil {
				return err
			}
			asset.AssetID = assetID
			newID, err = s.assetRepository.CreateAsset(ctx, tx, *asset)
			return err
		})
	}

	err := attempt()
	if isUniqueViolation(err) {
		s.logger.Warn("identifier collision, regenerating", zap.String("asset_id", asset.AssetID))
		err = attempt()
	}
	return newID, err
}

func (s *AssetService) assetFromCreateDTO(payload dto.CreateAssetDTO, createdBy uint64) (*entities.Asset, error) {
	category := identifier.Category(payload.AssetType)
	if !identifier.ValidCategory(category) {
		return nil, apperrors.ErrInvalidCategory
	}

	poDate, err := parseDatePtr(payload.PODate)
	if err != nil {
		return nil, err
	}
	invoiceDate, err := parseDatePtr(payload.InvoiceDate)
	if err != nil {
		return nil, err
	}
	warrantyExpiry, err := parseDatePtr(payload.WarrantyExpiry)
	if err != nil {
		return nil, err
	}

	status := workflow.AssetWorking
	if payload.CurrentStatus != nil {
		status = workflow.AssetStatus(*payload.CurrentStatus)
		if !workflow.ValidAssetStatus(status) {
			return nil, apperrors.NewBadRequestError("invalid asset status: " + *payload.CurrentStatus)
		}
	}

	quantity := payload.Quantity
	if quantity == 0 {
		quantity = 1
	}

	return &entities.Asset{
		AssetType:    category,
		Name:         payload.Name,
		Description:  payload.Description,
		SerialNumber: payload.SerialNumber,
		AMSBarcode:   payload.AMSBarcode,
		Quantity:     quantity,
		BranchID:     payload.BranchID,
		Location:     payload.Location,
		SupplierID:   payload.SupplierID,

		PONumber:      payload.PONumber,
		PODate:        poDate,
		InvoiceNumber: payload.InvoiceNumber,
		InvoiceDate:   invoiceDate,
		PurchaseValue: payload.PurchaseValue,

		CurrentStatus:  status,
		Remarks:        payload.Remarks,
		WarrantyExpiry: warrantyExpiry,

		TestingStatus: workflow.TestingPending,
		CreatedBy:     &createdBy,
	}, nil
}

func (s *AssetService) UpdateAsset(ctx context.Context, id uint64, payload dto.UpdateAssetDTO) (*dto.AssetDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	asset, err := s.assetRepository.FindAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Assets, authz.ActionUpdate, &asset.BranchID) {
		return nil, apperrors.ErrForbidden
	}
	if asset.CurrentStatus == workflow.AssetDisposed {
		return nil, apperrors.ErrConflict
	}

	if payload.Name != nil {
		asset.Name = *payload.Name
	}
	if payload.Description != nil {
		asset.Description = payload.Description
	}
	if payload.SerialNumber != nil {
		asset.SerialNumber = payload.SerialNumber
	}
	if payload.AMSBarcode != nil {
		asset.AMSBarcode = payload.AMSBarcode
	}
	if payload.Quantity != nil {
		asset.Quantity = *payload.Quantity
	}
	if payload.Location != nil {
		asset.Location = payload.Location
	}
	if payload.SupplierID != nil {
		asset.SupplierID = payload.SupplierID
	}
	if payload.PONumber != nil {
		asset.PONumber = payload.PONumber
	}
	if payload.PODate != nil {
		poDate, err := parseDatePtr(payload.PODate)
		if err != nil {
			return nil, err
		}
		asset.PODate = poDate
	}
	if payload.InvoiceNumber != nil {
		asset.InvoiceNumber = payload.InvoiceNumber
	}
	if payload.InvoiceDate != nil {
		invoiceDate, err := parseDatePtr(payload.InvoiceDate)
		if err != nil {
			return nil, err
		}
		asset.InvoiceDate = invoiceDate
	}
	if payload.PurchaseValue != nil {
		asset.PurchaseValue = payload.PurchaseValue
	}
	if payload.CurrentStatus != nil {
		status := workflow.AssetStatus(*payload.CurrentStatus)
		if !workflow.ValidAssetStatus(status) || status == workflow.AssetDisposed {
			return nil, apperrors.NewBadRequestError("invalid asset status: " + *payload.CurrentStatus)
		}
		asset.CurrentStatus = status
	}
	if payload.Remarks != nil {
		asset.Remarks = payload.Remarks
	}
	if payload.WarrantyExpiry != nil {
		warrantyExpiry, err := parseDatePtr(payload.WarrantyExpiry)
		if err != nil {
			return nil, err
		}
		asset.WarrantyExpiry = warrantyExpiry
	}
	asset.UpdatedBy = &actor.ID

	if err := s.assetRepository.UpdateAsset(ctx, id, *asset); err != nil {
		return nil, err
	}

	updated, err := s.assetRepository.FindAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAssetDTO(updated), nil
}

// ConfirmTesting records the pass/fail verdict for a delivered asset.
func (s *AssetService) ConfirmTesting(ctx context.Context, id uint64, payload dto.ConfirmTestingDTO) (*dto.AssetDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	asset, err := s.assetRepository.FindAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Assets, authz.ActionConfirmTesting, &asset.BranchID) {
		return nil, apperrors.ErrForbidden
	}

	decision := workflow.TestingStatus(payload.TestingStatus)
	if err := workflow.ConfirmTesting(decision); err != nil {
		return nil, err
	}

	if err := s.assetRepository.SetTestingResult(ctx, id, decision, actor.ID, payload.Remarks); err != nil {
		return nil, err
	}

	updated, err := s.assetRepository.FindAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("asset testing confirmed",
		zap.Uint64("id", id),
		zap.String("verdict", payload.TestingStatus),
	)
	return toAssetDTO(updated), nil
}

func (s *AssetService) AttachFile(ctx context.Context, id uint64, kind string, fileHeader *multipart.FileHeader) (*dto.AssetDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	asset, err := s.assetRepository.FindAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Assets, authz.ActionUpdate, &asset.BranchID) {
		return nil, apperrors.ErrForbidden
	}

	path, err := s.fileStorage.Save(fileHeader)
	if err != nil {
		return nil, err
	}
	if err := s.assetRepository.AttachFile(ctx, id, kind, path); err != nil {
		return nil, err
	}

	updated, err := s.assetRepository.FindAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAssetDTO(updated), nil
}

func (s *AssetService) DeleteAsset(ctx context.Context, id uint64) error {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return err
	}

	asset, err := s.assetRepository.FindAsset(ctx, id)
	if err != nil {
		return err
	}
	if !authz.Can(actor, authz.Assets, authz.ActionDelete, &asset.BranchID) {
		return apperrors.ErrForbidden
	}
	return s.assetRepository.DeleteAsset(ctx, id)
}

func (s *AssetService) GetStats(ctx context.Context) (*dto.AssetStatsDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Assets, authz.ActionView, actor.BranchID) {
		return nil, apperrors.ErrForbidden
	}
	return s.assetRepository.GetStats(ctx, authz.BranchFilter(actor))
}

// BulkImport registers a batch of assets in one transaction, so either
// the whole file lands or none of it does. Identifiers are generated
// row by row inside the same transaction.
func (s *AssetService) BulkImport(ctx context.Context, payload dto.BulkImportAssetsDTO) ([]dto.AssetDTO, error) {
	actor, err := utils.ActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Assets, authz.ActionImport, nil) {
		return nil, apperrors.ErrForbidden
	}

	assets := make([]*entities.Asset, 0, len(payload.Assets))
	for i := range payload.Assets {
		asset, err := s.assetFromCreateDTO(payload.Assets[i], actor.ID)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}

	ids := make([]uint64, 0, len(assets))
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		for _, asset := range assets {
			assetID, err := s.generator.Next(ctx, tx, s.assetRepository, identifier.KindAsset, asset.BranchID, asset.AssetType)
			if err != nil {
				return err
			}
			asset.AssetID = assetID
			id, err := s.assetRepository.CreateAsset(ctx, tx, *asset)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("assets imported", zap.Int("count", len(ids)))
	dtos := make([]dto.AssetDTO, 0, len(ids))
	for _, id := range ids {
		created, err := s.assetRepository.FindAsset(ctx, id)
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, *toAssetDTO(created))
	}
	return dtos, nil
}
