package dto

type CreateMaintenanceDTO struct {
	AssetID          uint64   `json:"asset_id" validate:"required"`
	MaintenanceType  string   `json:"maintenance_type" validate:"required,oneof=Preventive Corrective Emergency"`
	IssueDescription *string  `json:"issue_description"`
	ScheduledDate    *string  `json:"scheduled_date" validate:"omitempty,datetime=2006-01-02"`
	Cost             *float64 `json:"cost" validate:"omitempty,min=0"`
	VendorName       *string  `json:"vendor_name" validate:"omitempty,max=255"`
}

type UpdateMaintenanceDTO struct {
	IssueDescription *string  `json:"issue_description"`
	ScheduledDate    *string  `json:"scheduled_date" validate:"omitempty,datetime=2006-01-02"`
	Cost             *float64 `json:"cost" validate:"omitempty,min=0"`
	VendorName       *string  `json:"vendor_name" validate:"omitempty,max=255"`
}

type CompleteMaintenanceDTO struct {
	Cost       *float64 `json:"cost" validate:"omitempty,min=0"`
	VendorName *string  `json:"vendor_name" validate:"omitempty,max=255"`
}

type MaintenanceDTO struct {
	ID               uint64         `json:"id"`
	MaintenanceID    string         `json:"maintenance_id"`
	Asset            *ShortAssetDTO `json:"asset,omitempty"`
	MaintenanceType  string         `json:"maintenance_type"`
	IssueDescription *string        `json:"issue_description,omitempty"`
	ScheduledDate    *string        `json:"scheduled_date,omitempty"`
	CompletedDate    *string        `json:"completed_date,omitempty"`
	Cost             *float64       `json:"cost,omitempty"`
	VendorName       *string        `json:"vendor_name,omitempty"`
	ReportFile       *string        `json:"maintenance_report_file,omitempty"`
	Status           string         `json:"status"`
	Performer        *ShortUserDTO  `json:"performer,omitempty"`
	CreatedAt        *string        `json:"created_at,omitempty"`
}

type MaintenanceStatsDTO struct {
	TotalMaintenances uint64  `json:"total_maintenances"`
	Scheduled         uint64  `json:"scheduled"`
	InProgress        uint64  `json:"in_progress"`
	Completed         uint64  `json:"completed"`
	TotalCost         float64 `json:"total_cost"`
}
