package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "asset-system/pkg/errors"
)

func TestApproveProcurement(t *testing.T) {
	tests := []struct {
		name     string
		current  ApprovalStatus
		decision ApprovalStatus
		wantErr  error
	}{
		{"approve pending", ApprovalPending, ApprovalApproved, nil},
		{"reject pending", ApprovalPending, ApprovalRejected, nil},
		{"re-approve approved", ApprovalApproved, ApprovalApproved, apperrors.ErrConflict},
		{"approve rejected", ApprovalRejected, ApprovalApproved, apperrors.ErrConflict},
		{"decision pending is invalid", ApprovalPending, ApprovalPending, apperrors.ErrBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ApproveProcurement(tt.current, tt.decision)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApproveDisposal_ApprovalDisposesAsset(t *testing.T) {
	effects, err := ApproveDisposal(DisposalPending, DisposalApproved, 42)
	require.NoError(t, err)
	require.Len(t, effects, 1)
	assert.Equal(t, SetAssetStatus{AssetID: 42, Status: AssetDisposed}, effects[0])
}

func TestApproveDisposal_RejectionHasNoCascade(t *testing.T) {
	effects, err := ApproveDisposal(DisposalPending, DisposalRejected, 42)
	require.NoError(t, err)
	assert.Empty(t, effects)
}

func TestApproveDisposal_TerminalGuard(t *testing.T) {
	for _, current := range []DisposalStatus{DisposalApproved, DisposalRejected, DisposalCompleted} {
		_, err := ApproveDisposal(current, DisposalApproved, 42)
		assert.ErrorIs(t, err, apperrors.ErrConflict, "current=%s", current)
	}
}

func TestCompleteMaintenance_RepairsAssetUnderRepair(t *testing.T) {
	effects, err := CompleteMaintenance(MaintenanceInProgress, 7, AssetUnderRepair)
	require.NoError(t, err)
	require.Len(t, effects, 1)
	assert.Equal(t, SetAssetStatus{AssetID: 7, Status: AssetWorking}, effects[0])
}

func TestCompleteMaintenance_LeavesOtherStatusesUntouched(t *testing.T) {
	for _, status := range []AssetStatus{AssetWorking, AssetNotWorking, AssetObsolete, AssetDisposed} {
		effects, err := CompleteMaintenance(MaintenanceScheduled, 7, status)
		require.NoError(t, err, "asset status %s", status)
		assert.Empty(t, effects, "asset status %s must not change", status)
	}
}

func TestCompleteMaintenance_TerminalGuard(t *testing.T) {
	for _, current := range []MaintenanceStatus{MaintenanceCompleted, MaintenanceCancelled} {
		_, err := CompleteMaintenance(current, 7, AssetUnderRepair)
		assert.ErrorIs(t, err, apperrors.ErrConflict, "current=%s", current)
	}
}

func TestStartMaintenance(t *testing.T) {
	assert.NoError(t, StartMaintenance(MaintenanceScheduled))
	for _, current := range []MaintenanceStatus{MaintenanceInProgress, MaintenanceCompleted, MaintenanceCancelled} {
		assert.ErrorIs(t, StartMaintenance(current), apperrors.ErrConflict)
	}
}

func TestCancelMaintenance(t *testing.T) {
	assert.NoError(t, CancelMaintenance(MaintenanceScheduled))
	assert.NoError(t, CancelMaintenance(MaintenanceInProgress))
	for _, current := range []MaintenanceStatus{MaintenanceCompleted, MaintenanceCancelled} {
		assert.ErrorIs(t, CancelMaintenance(current), apperrors.ErrConflict)
	}
}

func TestConfirmTesting(t *testing.T) {
	assert.NoError(t, ConfirmTesting(TestingPassed))
	assert.NoError(t, ConfirmTesting(TestingFailed))
	assert.ErrorIs(t, ConfirmTesting(TestingPending), apperrors.ErrBadRequest)
	assert.ErrorIs(t, ConfirmTesting(TestingStatus("Maybe")), apperrors.ErrBadRequest)
}
