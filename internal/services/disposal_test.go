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

func newDisposalService(disposals *fakeDisposalRepo, assets *fakeAssetRepo) *DisposalService {
	return NewDisposalService(disposals, assets, newTestGenerator(), fakeTxManager{}, nil, zap.NewNop())
}

func TestApproveDisposal_MarksAssetDisposed(t *testing.T) {
	assets := newFakeAssetRepo(&entities.Asset{
		ID: 10, BranchID: 1, CurrentStatus: workflow.AssetObsolete,
	})
	disposals := newFakeDisposalRepo(&entities.Disposal{
		ID: 1, DisposalID: "HYD010125DS001", AssetID: 10, Status: workflow.DisposalPending,
	})
	svc := newDisposalService(disposals, assets)

	updated, err := svc.Approve(actorCtx(authz.RoleAdmin, nil), 1, dto.ApproveDisposalDTO{Status: "Approved"})
	require.NoError(t, err)
	assert.Equal(t, string(workflow.DisposalApproved), updated.Status)

	require.Len(t, assets.statusCalls, 1)
	assert.Equal(t, workflow.SetAssetStatus{AssetID: 10, Status: workflow.AssetDisposed}, assets.statusCalls[0])

	asset, err := assets.FindAsset(actorCtx(authz.RoleAdmin, nil), 10)
	require.NoError(t, err)
	assert.Equal(t, workflow.AssetDisposed, asset.CurrentStatus)
}

func TestApproveDisposal_RejectionLeavesAssetAlone(t *testing.T) {
	assets := newFakeAssetRepo(&entities.Asset{
		ID: 10, BranchID: 1, CurrentStatus: workflow.AssetObsolete,
	})
	disposals := newFakeDisposalRepo(&entities.Disposal{
		ID: 1, AssetID: 10, Status: workflow.DisposalPending,
	})
	svc := newDisposalService(disposals, assets)

	updated, err := svc.Approve(actorCtx(authz.RoleAdmin, nil), 1, dto.ApproveDisposalDTO{Status: "Rejected"})
	require.NoError(t, err)
	assert.Equal(t, string(workflow.DisposalRejected), updated.Status)
	assert.Empty(t, assets.statusCalls)
}

func TestApproveDisposal_AlreadyDecided(t *testing.T) {
	assets := newFakeAssetRepo(&entities.Asset{ID: 10, BranchID: 1})
	disposals := newFakeDisposalRepo(&entities.Disposal{
		ID: 1, AssetID: 10, Status: workflow.DisposalApproved,
	})
	svc := newDisposalService(disposals, assets)

	_, err := svc.Approve(actorCtx(authz.RoleAdmin, nil), 1, dto.ApproveDisposalDTO{Status: "Approved"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Empty(t, assets.statusCalls)
}

func TestApproveDisposal_ManagerForbidden(t *testing.T) {
	assets := newFakeAssetRepo(&entities.Asset{ID: 10, BranchID: 1})
	disposals := newFakeDisposalRepo(&entities.Disposal{
		ID: 1, AssetID: 10, Status: workflow.DisposalPending,
	})
	svc := newDisposalService(disposals, assets)

	_, err := svc.Approve(actorCtx(authz.RoleManager, ptr(uint64(1))), 1, dto.ApproveDisposalDTO{Status: "Approved"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestCreateDisposal_GeneratesIdentifier(t *testing.T) {
	assets := newFakeAssetRepo(&entities.Asset{
		ID: 10, BranchID: 1, CurrentStatus: workflow.AssetNotWorking,
	})
	svc := newDisposalService(newFakeDisposalRepo(), assets)

	created, err := svc.CreateDisposal(actorCtx(authz.RoleUser, ptr(uint64(1))), dto.CreateDisposalDTO{
		AssetID:        10,
		DisposalDate:   "2025-01-15",
		DisposalMethod: "Scrap",
	})
	require.NoError(t, err)
	assert.Equal(t, "HYD010125DS001", created.DisposalID)
	assert.Equal(t, string(workflow.DisposalPending), created.Status)
}

func TestCreateDisposal_AssetAlreadyDisposed(t *testing.T) {
	assets := newFakeAssetRepo(&entities.Asset{
		ID: 10, BranchID: 1, CurrentStatus: workflow.AssetDisposed,
	})
	svc := newDisposalService(newFakeDisposalRepo(), assets)

	_, err := svc.CreateDisposal(actorCtx(authz.RoleUser, ptr(uint64(1))), dto.CreateDisposalDTO{
		AssetID:        10,
		DisposalDate:   "2025-01-15",
		DisposalMethod: "Scrap",
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestUpdateDisposal_DecidedIsImmutable(t *testing.T) {
	assets := newFakeAssetRepo()
	disposals := newFakeDisposalRepo(&entities.Disposal{
		ID: 1, AssetID: 10, Status: workflow.DisposalRejected,
	})
	svc := newDisposalService(disposals, assets)

	_, err := svc.UpdateDisposal(actorCtx(authz.RoleAdmin, nil), 1, dto.UpdateDisposalDTO{
		Reason: ptr("changed my mind"),
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}
