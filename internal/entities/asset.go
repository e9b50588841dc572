package entities

import (
	"time"

	"asset-system/internal/identifier"
	"asset-system/internal/workflow"
	"asset-system/pkg/types"
)

// Asset is a physical asset owned by a branch. AssetID is the generated
// human-readable identifier, unique across the table.
type Asset struct {
	ID           uint64
	AssetID      string
	AssetType    identifier.Category
	Name         string
	Description  *string
	SerialNumber *string
	AMSBarcode   *string
	Quantity     int
	BranchID     uint64
	Branch       *Branch
	Location     *string
	SupplierID   *uint64
	Supplier     *Supplier

	PONumber      *string
	PODate        *time.Time
	InvoiceNumber *string
	InvoiceDate   *time.Time
	InvoiceFile   *string
	DCFile        *string
	POFile        *string
	PurchaseValue *float64

	CurrentStatus  workflow.AssetStatus
	Remarks        *string
	WarrantyExpiry *time.Time

	TestingStatus     workflow.TestingStatus
	TestingReportFile *string
	TestedBy          *uint64
	Tester            *User
	TestedAt          *time.Time

	CreatedBy *uint64
	Creator   *User
	UpdatedBy *uint64

	types.BaseEntity
}
