package entities

import (
	"time"

	"asset-system/internal/workflow"
	"asset-system/pkg/types"
)

type MaintenanceType string

const (
	MaintenancePreventive MaintenanceType = "Preventive"
	MaintenanceCorrective MaintenanceType = "Corrective"
	MaintenanceEmergency  MaintenanceType = "Emergency"
)

type Maintenance struct {
	ID               uint64
	MaintenanceID    string
	AssetID          uint64
	Asset            *Asset
	MaintenanceType  MaintenanceType
	IssueDescription *string
	ScheduledDate    *time.Time
	CompletedDate    *time.Time
	Cost             *float64
	VendorName       *string
	ReportFile       *string

	Status workflow.MaintenanceStatus

	PerformedBy *uint64
	Performer   *User

	types.BaseEntity
}
