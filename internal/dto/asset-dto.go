package dto

type CreateAssetDTO struct {
	AssetType    string  `json:"asset_type" validate:"required,oneof=HSDC COMPUTER ELECTRICAL OFFICE FURNITURE FIREFIGHTING BUILDING"`
	Name         string  `json:"name" validate:"required,max=255"`
	Description  *string `json:"description"`
	SerialNumber *string `json:"serial_number" validate:"omitempty,max=100"`
	AMSBarcode   *string `json:"ams_barcode" validate:"omitempty,max=50"`
	Quantity     int     `json:"quantity" validate:"omitempty,min=1"`
	BranchID     uint64  `json:"branch_id" validate:"required"`
	Location     *string `json:"location" validate:"omitempty,max=255"`
	SupplierID   *uint64 `json:"supplier_id"`

	PONumber      *string  `json:"po_number" validate:"omitempty,max=100"`
	PODate        *string  `json:"po_date" validate:"omitempty,datetime=2006-01-02"`
	InvoiceNumber *string  `json:"invoice_number" validate:"omitempty,max=100"`
	InvoiceDate   *string  `json:"invoice_date" validate:"omitempty,datetime=2006-01-02"`
	PurchaseValue *float64 `json:"purchase_value" validate:"omitempty,min=0"`

	CurrentStatus  *string `json:"current_status" validate:"omitempty,oneof=Working 'Not Working' Obsolete 'Under Repair'"`
	Remarks        *string `json:"remarks"`
	WarrantyExpiry *string `json:"warranty_expiry" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateAssetDTO struct {
	Name         *string `json:"name" validate:"omitempty,max=255"`
	Description  *string `json:"description"`
	SerialNumber *string `json:"serial_number" validate:"omitempty,max=100"`
	AMSBarcode   *string `json:"ams_barcode" validate:"omitempty,max=50"`
	Quantity     *int    `json:"quantity" validate:"omitempty,min=1"`
	Location     *string `json:"location" validate:"omitempty,max=255"`
	SupplierID   *uint64 `json:"supplier_id"`

	PONumber      *string  `json:"po_number" validate:"omitempty,max=100"`
	PODate        *string  `json:"po_date" validate:"omitempty,datetime=2006-01-02"`
	InvoiceNumber *string  `json:"invoice_number" validate:"omitempty,max=100"`
	InvoiceDate   *string  `json:"invoice_date" validate:"omitempty,datetime=2006-01-02"`
	PurchaseValue *float64 `json:"purchase_value" validate:"omitempty,min=0"`

	CurrentStatus  *string `json:"current_status" validate:"omitempty,oneof=Working 'Not Working' Obsolete 'Under Repair'"`
	Remarks        *string `json:"remarks"`
	WarrantyExpiry *string `json:"warranty_expiry" validate:"omitempty,datetime=2006-01-02"`
}

type ConfirmTestingDTO struct {
	TestingStatus string  `json:"testing_status" validate:"required,oneof=Passed Failed"`
	Remarks       *string `json:"remarks"`
}

type BulkImportAssetsDTO struct {
	Assets []CreateAssetDTO `json:"assets" validate:"required,min=1,dive"`
}

type AssetDTO struct {
	ID           uint64  `json:"id"`
	AssetID      string  `json:"asset_id"`
	AssetType    string  `json:"asset_type"`
	Name         string  `json:"name"`
	Description  *string `json:"description,omitempty"`
	SerialNumber *string `json:"serial_number,omitempty"`
	AMSBarcode   *string `json:"ams_barcode,omitempty"`
	Quantity     int     `json:"quantity"`

	Branch   *ShortBranchDTO   `json:"branch,omitempty"`
	Supplier *ShortSupplierDTO `json:"supplier,omitempty"`
	Location *string           `json:"location,omitempty"`

	PONumber      *string  `json:"po_number,omitempty"`
	PODate        *string  `json:"po_date,omitempty"`
	InvoiceNumber *string  `json:"invoice_number,omitempty"`
	InvoiceDate   *string  `json:"invoice_date,omitempty"`
	InvoiceFile   *string  `json:"invoice_file,omitempty"`
	DCFile        *string  `json:"dc_file,omitempty"`
	POFile        *string  `json:"po_file,omitempty"`
	PurchaseValue *float64 `json:"purchase_value,omitempty"`

	CurrentStatus  string  `json:"current_status"`
	Remarks        *string `json:"remarks,omitempty"`
	WarrantyExpiry *string `json:"warranty_expiry,omitempty"`

	TestingStatus     string        `json:"testing_status"`
	TestingReportFile *string       `json:"testing_report_file,omitempty"`
	Tester            *ShortUserDTO `json:"tester,omitempty"`
	TestedAt          *string       `json:"tested_at,omitempty"`

	Creator   *ShortUserDTO `json:"creator,omitempty"`
	CreatedAt *string       `json:"created_at,omitempty"`
	UpdatedAt *string       `json:"updated_at,omitempty"`
}

type AssetStatsDTO struct {
	TotalAssets      uint64            `json:"total_assets"`
	WorkingAssets    uint64            `json:"working_assets"`
	NotWorkingAssets uint64            `json:"not_working_assets"`
	ObsoleteAssets   uint64            `json:"obsolete_assets"`
	PendingTesting   uint64            `json:"pending_testing"`
	ByType           map[string]uint64 `json:"by_type"`
}
