package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"asset-system/internal/authz"
	"asset-system/internal/dto"
	"asset-system/internal/entities"
	"asset-system/internal/workflow"
	apperrors "asset-system/pkg/errors"
)

func newMaintenanceService(maintenances *fakeMaintenanceRepo, assets *fakeAssetRepo) *MaintenanceService {
	return NewMaintenanceService(maintenances, assets, newTestGenerator(), fakeTxManager{}, nil, zap.NewNop())
}

func TestCompleteMaintenance_RestoresAssetUnderRepair(t *testing.T) {
	assets := newFakeAssetRepo(&entities.Asset{
		ID: 10, BranchID: 1, CurrentStatus: workflow.AssetUnderRepair,
	})
	maintenances := newFakeMaintenanceRepo(&entities.Maintenance{
		ID: 1, AssetID: 10, Status: workflow.MaintenanceInProgress,
	})
	svc := newMaintenanceService(maintenances, assets)

	updated, err := svc.CompleteMaintenance(actorCtx(authz.RoleUser, ptr(uint64(1))), 1, dto.CompleteMaintenanceDTO{
		Cost: ptr(2500.0),
	})
	require.NoError(t, err)
	assert.Equal(t, string(workflow.MaintenanceCompleted), updated.Status)
	assert.NotNil(t, updated.CompletedDate)

	require.Len(t, assets.statusCalls, 1)
	assert.Equal(t, workflow.SetAssetStatus{AssetID: 10, Status: workflow.AssetWorking}, assets.statusCalls[0])
}

func TestCompleteMaintenance_WorkingAssetUntouched(t *testing.T) {
	assets := newFakeAssetRepo(&entities.Asset{
		ID: 10, BranchID: 1, CurrentStatus: workflow.AssetWorking,
	})
	maintenances := newFakeMaintenanceRepo(&entities.Maintenance{
		ID: 1, AssetID: 10, Status: workflow.MaintenanceScheduled,
	})
	svc := newMaintenanceService(maintenances, assets)

	updated, err := svc.CompleteMaintenance(actorCtx(authz.RoleUser, ptr(uint64(1))), 1, dto.CompleteMaintenanceDTO{})
	require.NoError(t, err)
	assert.Equal(t, string(workflow.MaintenanceCompleted), updated.Status)
	assert.Empty(t, assets.statusCalls)
}

func TestCompleteMaintenance_AlreadyCompleted(t *testing.T) {
	assets := newFakeAssetRepo(&entities.Asset{ID: 10, BranchID: 1})
	maintenances := newFakeMaintenanceRepo(&entities.Maintenance{
		ID: 1, AssetID: 10, Status: workflow.MaintenanceCompleted,
	})
	svc := newMaintenanceService(maintenances, assets)

	_, err := svc.CompleteMaintenance(actorCtx(authz.RoleAdmin, nil), 1, dto.CompleteMaintenanceDTO{})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestStartMaintenance(t *testing.T) {
	assets := newFakeAssetRepo()
	maintenances := newFakeMaintenanceRepo(&entities.Maintenance{
		ID: 1, AssetID: 10, Status: workflow.MaintenanceScheduled,
	})
	svc := newMaintenanceService(maintenances, assets)

	updated, err := svc.StartMaintenance(actorCtx(authz.RoleUser, ptr(uint64(1))), 1)
	require.NoError(t, err)
	assert.Equal(t, string(workflow.MaintenanceInProgress), updated.Status)

	// Cannot start twice.
	_, err = svc.StartMaintenance(actorCtx(authz.RoleUser, ptr(uint64(1))), 1)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestCancelMaintenance_CompletedCannotBeCancelled(t *testing.T) {
	assets := newFakeAssetRepo()
	maintenances := newFakeMaintenanceRepo(&entities.Maintenance{
		ID: 1, AssetID: 10, Status: workflow.MaintenanceCompleted,
	})
	svc := newMaintenanceService(maintenances, assets)

	_, err := svc.CancelMaintenance(actorCtx(authz.RoleAdmin, nil), 1)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestCreateMaintenance_IdentifierFromAssetBranch(t *testing.T) {
	assets := newFakeAssetRepo(&entities.Asset{
		ID: 10, BranchID: 2, CurrentStatus: workflow.AssetNotWorking,
	})
	svc := newMaintenanceService(newFakeMaintenanceRepo(), assets)

	created, err := svc.CreateMaintenance(actorCtx(authz.RoleUser, ptr(uint64(1))), dto.CreateMaintenanceDTO{
		AssetID:         10,
		MaintenanceType: "Corrective",
	})
	require.NoError(t, err)
	assert.Equal(t, "BLR010125MT001", created.MaintenanceID)
	assert.Equal(t, string(workflow.MaintenanceScheduled), created.Status)
}

func TestCreateMaintenance_DisposedAsset(t *testing.T) {
	assets := newFakeAssetRepo(&entities.Asset{
		ID: 10, BranchID: 1, CurrentStatus: workflow.AssetDisposed,
	})
	svc := newMaintenanceService(newFakeMaintenanceRepo(), assets)

	_, err := svc.CreateMaintenance(actorCtx(authz.RoleUser, ptr(uint64(1))), dto.CreateMaintenanceDTO{
		AssetID:         10,
		MaintenanceType: "Corrective",
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestDeleteMaintenance_AdminOnly(t *testing.T) {
	assets := newFakeAssetRepo()
	maintenances := newFakeMaintenanceRepo(&entities.Maintenance{ID: 1, AssetID: 10})
	svc := newMaintenanceService(maintenances, assets)

	err := svc.DeleteMaintenance(actorCtx(authz.RoleManager, ptr(uint64(1))), 1)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	err = svc.DeleteMaintenance(actorCtx(authz.RoleAdmin, nil), 1)
	require.NoError(t, err)
}
