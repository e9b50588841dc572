package entities

import (
	"time"

	"asset-system/internal/workflow"
	"asset-system/pkg/types"
)

type Procurement struct {
	ID              uint64
	ProcurementID   string
	AssetID         *uint64
	Asset           *Asset
	BranchID        uint64
	Branch          *Branch
	RequisitionDate time.Time
	BudgetAllocated *float64
	PONumber        *string

	ApprovalStatus workflow.ApprovalStatus
	ApprovedBy     *uint64
	Approver       *User
	ApprovedAt     *time.Time

	CreatedBy *uint64
	Creator   *User

	types.BaseEntity
}
