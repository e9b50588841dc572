// Package workflow defines the status machines of every record kind and
// the cross-entity cascades they trigger. Transitions return an explicit
// list of effects that the caller applies in the same transaction as the
// primary status write, instead of hiding the cascade inside a handler.
package workflow

import (
	"fmt"

	apperrors "asset-system/pkg/errors"
)

type AssetStatus string

const (
	AssetWorking     AssetStatus = "Working"
	AssetNotWorking  AssetStatus = "Not Working"
	AssetObsolete    AssetStatus = "Obsolete"
	AssetUnderRepair AssetStatus = "Under Repair"
	AssetDisposed    AssetStatus = "Disposed"
)

type TestingStatus string

const (
	TestingPending TestingStatus = "Pending"
	TestingPassed  TestingStatus = "Passed"
	TestingFailed  TestingStatus = "Failed"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "Pending"
	ApprovalApproved ApprovalStatus = "Approved"
	ApprovalRejected ApprovalStatus = "Rejected"
)

type MaintenanceStatus string

const (
	MaintenanceScheduled  MaintenanceStatus = "Scheduled"
	MaintenanceInProgress MaintenanceStatus = "In Progress"
	MaintenanceCompleted  MaintenanceStatus = "Completed"
	MaintenanceCancelled  MaintenanceStatus = "Cancelled"
)

type DisposalStatus string

const (
	DisposalPending   DisposalStatus = "Pending"
	DisposalApproved  DisposalStatus = "Approved"
	DisposalCompleted DisposalStatus = "Completed"
	DisposalRejected  DisposalStatus = "Rejected"
)

// Effect is a secondary state change a transition requires. The service
// applying the transition must execute every effect transactionally with
// the primary update.
type Effect interface {
	effect()
}

// SetAssetStatus flips the linked asset's status.
type SetAssetStatus struct {
	AssetID uint64
	Status  AssetStatus
}

func (SetAssetStatus) effect() {}

// ApproveProcurement validates the Pending -> Approved|Rejected transition.
func ApproveProcurement(current, decision ApprovalStatus) error {
	if decision != ApprovalApproved && decision != ApprovalRejected {
		return fmt.Errorf("%w: approval decision must be Approved or Rejected", apperrors.ErrBadRequest)
	}
	if current != ApprovalPending {
		return fmt.Errorf("%w: procurement already %s", apperrors.ErrConflict, current)
	}
	return nil
}

// ApproveDisposal validates the Pending -> Approved|Rejected transition.
// Approval disposes the linked asset unconditionally, whatever its prior
// status; rejection has no cascade.
func ApproveDisposal(current, decision DisposalStatus, assetID uint64) ([]Effect, error) {
	if decision != DisposalApproved && decision != DisposalRejected {
		return nil, fmt.Errorf("%w: disposal decision must be Approved or Rejected", apperrors.ErrBadRequest)
	}
	if current != DisposalPending {
		return nil, fmt.Errorf("%w: disposal already %s", apperrors.ErrConflict, current)
	}
	if decision == DisposalApproved {
		return []Effect{SetAssetStatus{AssetID: assetID, Status: AssetDisposed}}, nil
	}
	return nil, nil
}

// StartMaintenance validates Scheduled -> In Progress.
func StartMaintenance(current MaintenanceStatus) error {
	if current != MaintenanceScheduled {
		return fmt.Errorf("%w: maintenance is %s, only scheduled work can be started", apperrors.ErrConflict, current)
	}
	return nil
}

// CancelMaintenance validates Scheduled|In Progress -> Cancelled.
func CancelMaintenance(current MaintenanceStatus) error {
	if current != MaintenanceScheduled && current != MaintenanceInProgress {
		return fmt.Errorf("%w: maintenance already %s", apperrors.ErrConflict, current)
	}
	return nil
}

// CompleteMaintenance validates Scheduled|In Progress -> Completed and
// reverts the linked asset to Working, but only when it is Under Repair;
// any other asset status is left untouched.
func CompleteMaintenance(current MaintenanceStatus, assetID uint64, assetStatus AssetStatus) ([]Effect, error) {
	if current != MaintenanceScheduled && current != MaintenanceInProgress {
		return nil, fmt.Errorf("%w: maintenance already %s", apperrors.ErrConflict, current)
	}
	if assetStatus == AssetUnderRepair {
		return []Effect{SetAssetStatus{AssetID: assetID, Status: AssetWorking}}, nil
	}
	return nil, nil
}

// ConfirmTesting validates a testing verdict. Re-confirmation overwrites
// the previous verdict; there is no append-only audit trail.
func ConfirmTesting(decision TestingStatus) error {
	if decision != TestingPassed && decision != TestingFailed {
		return fmt.Errorf("%w: testing verdict must be Passed or Failed", apperrors.ErrBadRequest)
	}
	return nil
}

// ValidAssetStatus reports whether s is a known asset status value.
func ValidAssetStatus(s AssetStatus) bool {
	switch s {
	case AssetWorking, AssetNotWorking, AssetObsolete, AssetUnderRepair, AssetDisposed:
		return true
	}
	return false
}
