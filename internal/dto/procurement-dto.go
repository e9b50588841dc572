package dto

type CreateProcurementDTO struct {
	BranchID        uint64   `json:"branch_id" validate:"required"`
	AssetID         *uint64  `json:"asset_id"`
	RequisitionDate string   `json:"requisition_date" validate:"required,datetime=2006-01-02"`
	BudgetAllocated *float64 `json:"budget_allocated" validate:"omitempty,min=0"`
	PONumber        *string  `json:"po_number" validate:"omitempty,max=100"`
}

type UpdateProcurementDTO struct {
	RequisitionDate *string  `json:"requisition_date" validate:"omitempty,datetime=2006-01-02"`
	BudgetAllocated *float64 `json:"budget_allocated" validate:"omitempty,min=0"`
	PONumber        *string  `json:"po_number" validate:"omitempty,max=100"`
}

type ApproveProcurementDTO struct {
	ApprovalStatus string `json:"approval_status" validate:"required,oneof=Approved Rejected"`
}

type ProcurementDTO struct {
	ID              uint64          `json:"id"`
	ProcurementID   string          `json:"procurement_id"`
	Branch          *ShortBranchDTO `json:"branch,omitempty"`
	Asset           *ShortAssetDTO  `json:"asset,omitempty"`
	RequisitionDate string          `json:"requisition_date"`
	BudgetAllocated *float64        `json:"budget_allocated,omitempty"`
	PONumber        *string         `json:"po_number,omitempty"`
	ApprovalStatus  string          `json:"approval_status"`
	Approver        *ShortUserDTO   `json:"approver,omitempty"`
	ApprovedAt      *string         `json:"approved_at,omitempty"`
	Creator         *ShortUserDTO   `json:"creator,omitempty"`
	CreatedAt       *string         `json:"created_at,omitempty"`
}
