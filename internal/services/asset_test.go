package services

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"asset-system/internal/authz"
	"asset-system/internal/dto"
	"asset-system/internal/entities"
	"asset-system/internal/identifier"
	"asset-system/internal/workflow"
	apperrors "asset-system/pkg/errors"
	"asset-system/pkg/utils"
)

func actorCtx(role authz.Role, branchID *uint64) context.Context {
	return utils.ActorToCtx(context.Background(), authz.Actor{ID: 7, Role: role, BranchID: branchID})
}

func ptr[T any](v T) *T { return &v }

func newTestGenerator() *identifier.Generator {
	clock := fixedClock{t: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)}
	return identifier.NewGenerator(fakeBranches{1: "HYD", 2: "BLR"}, clock)
}

func newAssetService(repo *fakeAssetRepo) *AssetService {
	return NewAssetService(repo, newTestGenerator(), fakeTxManager{}, nil, zap.NewNop())
}

func TestCreateAsset_GeneratesIdentifier(t *testing.T) {
	repo := newFakeAssetRepo()
	svc := newAssetService(repo)

	created, err := svc.CreateAsset(actorCtx(authz.RoleAdmin, nil), dto.CreateAssetDTO{
		AssetType: "COMPUTER",
		Name:      "Dell Latitude",
		BranchID:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, "HYD010125CP001", created.AssetID)
	assert.Equal(t, string(workflow.AssetWorking), created.CurrentStatus)
	assert.Equal(t, string(workflow.TestingPending), created.TestingStatus)
	assert.Equal(t, 1, created.Quantity)
}

func TestCreateAsset_SequenceContinues(t *testing.T) {
	repo := newFakeAssetRepo(&entities.Asset{
		ID: 1, AssetID: "HYD010125CP007", AssetType: identifier.CategoryComputer, BranchID: 1,
	})
	svc := newAssetService(repo)

	created, err := svc.CreateAsset(actorCtx(authz.RoleAdmin, nil), dto.CreateAssetDTO{
		AssetType: "COMPUTER",
		Name:      "Dell Latitude",
		BranchID:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, "HYD010125CP008", created.AssetID)
}

func TestCreateAsset_RetriesOnDuplicateIdentifier(t *testing.T) {
	repo := newFakeAssetRepo()
	repo.createErrs = []error{&pgconn.PgError{Code: "23505"}}
	svc := newAssetService(repo)

	created, err := svc.CreateAsset(actorCtx(authz.RoleAdmin, nil), dto.CreateAssetDTO{
		AssetType: "OFFICE",
		Name:      "Projector",
		BranchID:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, "HYD010125OF001", created.AssetID)
}

func TestCreateAsset_ForeignBranchForbidden(t *testing.T) {
	svc := newAssetService(newFakeAssetRepo())

	_, err := svc.CreateAsset(actorCtx(authz.RoleUser, ptr(uint64(2))), dto.CreateAssetDTO{
		AssetType: "COMPUTER",
		Name:      "Dell Latitude",
		BranchID:  1,
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestCreateAsset_UnknownCategory(t *testing.T) {
	svc := newAssetService(newFakeAssetRepo())

	_, err := svc.CreateAsset(actorCtx(authz.RoleAdmin, nil), dto.CreateAssetDTO{
		AssetType: "VEHICLE",
		Name:      "Van",
		BranchID:  1,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCategory)
}

func TestGetAssets_ScopedToActorBranch(t *testing.T) {
	repo := newFakeAssetRepo(
		&entities.Asset{ID: 1, AssetID: "HYD010125CP001", BranchID: 1},
		&entities.Asset{ID: 2, AssetID: "BLR010125CP001", BranchID: 2},
	)
	svc := newAssetService(repo)

	list, total, err := svc.GetAssets(actorCtx(authz.RoleUser, ptr(uint64(2))), testFilter())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "BLR010125CP001", list[0].AssetID)

	_, total, err = svc.GetAssets(actorCtx(authz.RoleAdmin, nil), testFilter())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total)
}

func TestGetAssets_BranchlessActorForbidden(t *testing.T) {
	repo := newFakeAssetRepo(
		&entities.Asset{ID: 1, AssetID: "HYD010125CP001", BranchID: 1},
		&entities.Asset{ID: 2, AssetID: "BLR010125CP001", BranchID: 2},
	)
	svc := newAssetService(repo)

	// A non-admin with no branch assignment must not fall through to an
	// unrestricted listing.
	_, _, err := svc.GetAssets(actorCtx(authz.RoleViewer, nil), testFilter())
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.GetStats(actorCtx(authz.RoleViewer, nil))
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestConfirmTesting(t *testing.T) {
	repo := newFakeAssetRepo(&entities.Asset{
		ID: 1, AssetID: "HYD010125CP001", BranchID: 1,
		TestingStatus: workflow.TestingPending,
	})
	svc := newAssetService(repo)

	updated, err := svc.ConfirmTesting(actorCtx(authz.RoleManager, ptr(uint64(1))), 1, dto.ConfirmTestingDTO{
		TestingStatus: "Passed",
	})
	require.NoError(t, err)
	assert.Equal(t, string(workflow.TestingPassed), updated.TestingStatus)
	assert.NotNil(t, updated.TestedAt)
}

func TestConfirmTesting_UserForbidden(t *testing.T) {
	repo := newFakeAssetRepo(&entities.Asset{ID: 1, BranchID: 1})
	svc := newAssetService(repo)

	_, err := svc.ConfirmTesting(actorCtx(authz.RoleUser, ptr(uint64(1))), 1, dto.ConfirmTestingDTO{
		TestingStatus: "Passed",
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestUpdateAsset_DisposedIsImmutable(t *testing.T) {
	repo := newFakeAssetRepo(&entities.Asset{
		ID: 1, BranchID: 1, CurrentStatus: workflow.AssetDisposed,
	})
	svc := newAssetService(repo)

	_, err := svc.UpdateAsset(actorCtx(authz.RoleAdmin, nil), 1, dto.UpdateAssetDTO{
		Name: ptr("renamed"),
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestUpdateAsset_CannotSetDisposedDirectly(t *testing.T) {
	repo := newFakeAssetRepo(&entities.Asset{
		ID: 1, BranchID: 1, CurrentStatus: workflow.AssetWorking,
	})
	svc := newAssetService(repo)

	_, err := svc.UpdateAsset(actorCtx(authz.RoleAdmin, nil), 1, dto.UpdateAssetDTO{
		CurrentStatus: ptr(string(workflow.AssetDisposed)),
	})
	require.Error(t, err)
}

func TestDeleteAsset_AdminOnly(t *testing.T) {
	repo := newFakeAssetRepo(&entities.Asset{ID: 1, BranchID: 1})
	svc := newAssetService(repo)

	err := svc.DeleteAsset(actorCtx(authz.RoleManager, ptr(uint64(1))), 1)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	err = svc.DeleteAsset(actorCtx(authz.RoleAdmin, nil), 1)
	require.NoError(t, err)

	_, err = svc.FindAsset(actorCtx(authz.RoleAdmin, nil), 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBulkImport_AllOrNothing(t *testing.T) {
	repo := newFakeAssetRepo()
	svc := newAssetService(repo)

	created, err := svc.BulkImport(actorCtx(authz.RoleAdmin, nil), dto.BulkImportAssetsDTO{
		Assets: []dto.CreateAssetDTO{
			{AssetType: "COMPUTER", Name: "Laptop 1", BranchID: 1},
			{AssetType: "COMPUTER", Name: "Laptop 2", BranchID: 1},
			{AssetType: "FURNITURE", Name: "Desk", BranchID: 1},
		},
	})
	require.NoError(t, err)
	require.Len(t, created, 3)
	assert.Equal(t, "HYD010125CP001", created[0].AssetID)
	assert.Equal(t, "HYD010125CP002", created[1].AssetID)
	assert.Equal(t, "HYD010125FR001", created[2].AssetID)
}

func TestBulkImport_RequiresAdmin(t *testing.T) {
	svc := newAssetService(newFakeAssetRepo())

	_, err := svc.BulkImport(actorCtx(authz.RoleManager, ptr(uint64(1))), dto.BulkImportAssetsDTO{
		Assets: []dto.CreateAssetDTO{{AssetType: "COMPUTER", Name: "Laptop", BranchID: 1}},
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
