package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"asset-system/internal/authz"
	"asset-system/internal/dto"
	"asset-system/internal/entities"
	"asset-system/internal/workflow"
	apperrors "asset-system/pkg/errors"
)

func newProcurementService(repo *fakeProcurementRepo) *ProcurementService {
	return NewProcurementService(repo, newTestGenerator(), fakeTxManager{}, zap.NewNop())
}

func TestCreateProcurement_GeneratesIdentifier(t *testing.T) {
	svc := newProcurementService(newFakeProcurementRepo())

	created, err := svc.CreateProcurement(actorCtx(authz.RoleUser, ptr(uint64(1))), dto.CreateProcurementDTO{
		BranchID:        1,
		RequisitionDate: "2025-01-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "HYD010125PR001", created.ProcurementID)
	assert.Equal(t, string(workflow.ApprovalPending), created.ApprovalStatus)
}

func TestCreateProcurement_ForeignBranchForbidden(t *testing.T) {
	svc := newProcurementService(newFakeProcurementRepo())

	_, err := svc.CreateProcurement(actorCtx(authz.RoleUser, ptr(uint64(2))), dto.CreateProcurementDTO{
		BranchID:        1,
		RequisitionDate: "2025-01-01",
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestApproveProcurement_ManagerAllowed(t *testing.T) {
	repo := newFakeProcurementRepo(&entities.Procurement{
		ID: 1, BranchID: 1, RequisitionDate: time.Now(),
		ApprovalStatus: workflow.ApprovalPending,
	})
	svc := newProcurementService(repo)

	updated, err := svc.Approve(actorCtx(authz.RoleManager, ptr(uint64(1))), 1, dto.ApproveProcurementDTO{
		ApprovalStatus: "Approved",
	})
	require.NoError(t, err)
	assert.Equal(t, string(workflow.ApprovalApproved), updated.ApprovalStatus)
	assert.NotNil(t, updated.ApprovedAt)
}

func TestApproveProcurement_UserForbidden(t *testing.T) {
	repo := newFakeProcurementRepo(&entities.Procurement{
		ID: 1, BranchID: 1, RequisitionDate: time.Now(),
		ApprovalStatus: workflow.ApprovalPending,
	})
	svc := newProcurementService(repo)

	_, err := svc.Approve(actorCtx(authz.RoleUser, ptr(uint64(1))), 1, dto.ApproveProcurementDTO{
		ApprovalStatus: "Approved",
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestApproveProcurement_AlreadyDecided(t *testing.T) {
	repo := newFakeProcurementRepo(&entities.Procurement{
		ID: 1, BranchID: 1, RequisitionDate: time.Now(),
		ApprovalStatus: workflow.ApprovalRejected,
	})
	svc := newProcurementService(repo)

	_, err := svc.Approve(actorCtx(authz.RoleAdmin, nil), 1, dto.ApproveProcurementDTO{
		ApprovalStatus: "Approved",
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestUpdateProcurement_DecidedIsImmutable(t *testing.T) {
	repo := newFakeProcurementRepo(&entities.Procurement{
		ID: 1, BranchID: 1, RequisitionDate: time.Now(),
		ApprovalStatus: workflow.ApprovalApproved,
	})
	svc := newProcurementService(repo)

	_, err := svc.UpdateProcurement(actorCtx(authz.RoleAdmin, nil), 1, dto.UpdateProcurementDTO{
		PONumber: ptr("PO-99"),
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestGetProcurements_ScopedToActorBranch(t *testing.T) {
	repo := newFakeProcurementRepo(
		&entities.Procurement{ID: 1, BranchID: 1, RequisitionDate: time.Now()},
		&entities.Procurement{ID: 2, BranchID: 2, RequisitionDate: time.Now()},
	)
	svc := newProcurementService(repo)

	list, total, err := svc.GetProcurements(actorCtx(authz.RoleUser, ptr(uint64(1))), testFilter())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, uint64(1), list[0].ID)
}
