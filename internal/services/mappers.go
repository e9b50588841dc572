package services

import (
	"time"

	"asset-system/internal/dto"
	"asset-system/internal/entities"
	apperrors "asset-system/pkg/errors"
)

const dateLayout = "2006-01-02"

func fmtDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func fmtTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, apperrors.NewBadRequestError("invalid date: " + s)
	}
	return t, nil
}

func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toShortBranchDTO(b *entities.Branch) *dto.ShortBranchDTO {
	if b == nil {
		return nil
	}
	return &dto.ShortBranchDTO{ID: b.ID, Name: b.Name, Code: b.Code}
}

func toShortSupplierDTO(s *entities.Supplier) *dto.ShortSupplierDTO {
	if s == nil {
		return nil
	}
	return &dto.ShortSupplierDTO{ID: s.ID, Name: s.Name}
}

func toShortUserDTO(u *entities.User) *dto.ShortUserDTO {
	if u == nil {
		return nil
	}
	return &dto.ShortUserDTO{ID: u.ID, Username: u.Username}
}

func toShortAssetDTO(a *entities.Asset) *dto.ShortAssetDTO {
	if a == nil {
		return nil
	}
	return &dto.ShortAssetDTO{
		ID:      a.ID,
		AssetID: a.AssetID,
		Name:    a.Name,
		Status:  string(a.CurrentStatus),
	}
}

func toBranchDTO(b *entities.Branch) *dto.BranchDTO {
	return &dto.BranchDTO{
		ID:        b.ID,
		Name:      b.Name,
		Code:      b.Code,
		Address:   b.Address,
		IsActive:  b.IsActive,
		CreatedAt: fmtTime(b.CreatedAt),
	}
}

func toSupplierDTO(s *entities.Supplier) *dto.SupplierDTO {
	return &dto.SupplierDTO{
		ID:            s.ID,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		PhoneNumber:   s.PhoneNumber,
		Email:         s.Email,
		Address:       s.Address,
		GSTNumber:     s.GSTNumber,
		CreatedAt:     fmtTime(s.CreatedAt),
	}
}

func toUserDTO(u *entities.User) *dto.UserDTO {
	return &dto.UserDTO{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     string(u.Role),
		BranchID: u.BranchID,
		Branch:   toShortBranchDTO(u.Branch),
	}
}

func toAssetDTO(a *entities.Asset) *dto.AssetDTO {
	return &dto.AssetDTO{
		ID:           a.ID,
		AssetID:      a.AssetID,
		AssetType:    string(a.AssetType),
		Name:         a.Name,
		Description:  a.Description,
		SerialNumber: a.SerialNumber,
		AMSBarcode:   a.AMSBarcode,
		Quantity:     a.Quantity,

		Branch:   toShortBranchDTO(a.Branch),
		Supplier: toShortSupplierDTO(a.Supplier),
		Location: a.Location,

		PONumber:      a.PONumber,
		PODate:        fmtDate(a.PODate),
		InvoiceNumber: a.InvoiceNumber,
		InvoiceDate:   fmtDate(a.InvoiceDate),
		InvoiceFile:   a.InvoiceFile,
		DCFile:        a.DCFile,
		POFile:        a.POFile,
		PurchaseValue: a.PurchaseValue,

		CurrentStatus:  string(a.CurrentStatus),
		Remarks:        a.Remarks,
		WarrantyExpiry: fmtDate(a.WarrantyExpiry),

		TestingStatus:     string(a.TestingStatus),
		TestingReportFile: a.TestingReportFile,
		Tester:            toShortUserDTO(a.Tester),
		TestedAt:          fmtTime(a.TestedAt),

		Creator:   toShortUserDTO(a.Creator),
		CreatedAt: fmtTime(a.CreatedAt),
		UpdatedAt: fmtTime(a.UpdatedAt),
	}
}

func toProcurementDTO(p *entities.Procurement) *dto.ProcurementDTO {
	return &dto.ProcurementDTO{
		ID:              p.ID,
		ProcurementID:   p.ProcurementID,
		Branch:          toShortBranchDTO(p.Branch),
		Asset:           toShortAssetDTO(p.Asset),
		RequisitionDate: p.RequisitionDate.Format(dateLayout),
		BudgetAllocated: p.BudgetAllocated,
		PONumber:        p.PONumber,
		ApprovalStatus:  string(p.ApprovalStatus),
		Approver:        toShortUserDTO(p.Approver),
		ApprovedAt:      fmtTime(p.ApprovedAt),
		Creator:         toShortUserDTO(p.Creator),
		CreatedAt:       fmtTime(p.CreatedAt),
	}
}

func toMaintenanceDTO(m *entities.Maintenance) *dto.MaintenanceDTO {
	return &dto.MaintenanceDTO{
		ID:               m.ID,
		MaintenanceID:    m.MaintenanceID,
		Asset:            toShortAssetDTO(m.Asset),
		MaintenanceType:  string(m.MaintenanceType),
		IssueDescription: m.IssueDescription,
		ScheduledDate:    fmtDate(m.ScheduledDate),
		CompletedDate:    fmtDate(m.CompletedDate),
		Cost:             m.Cost,
		VendorName:       m.VendorName,
		ReportFile:       m.ReportFile,
		Status:           string(m.Status),
		Performer:        toShortUserDTO(m.Performer),
		CreatedAt:        fmtTime(m.CreatedAt),
	}
}

func toDisposalDTO(d *entities.Disposal) *dto.DisposalDTO {
	return &dto.DisposalDTO{
		ID:                  d.ID,
		DisposalID:          d.DisposalID,
		Asset:               toShortAssetDTO(d.Asset),
		DisposalDate:        d.DisposalDate.Format(dateLayout),
		DisposalMethod:      string(d.DisposalMethod),
		DisposalValue:       d.DisposalValue,
		BuyerDetails:        d.BuyerDetails,
		Reason:              d.Reason,
		ApprovalDocument:    d.ApprovalDocument,
		DisposalCertificate: d.DisposalCertificate,
		Status:              string(d.Status),
		Approver:            toShortUserDTO(d.Approver),
		ApprovedAt:          fmtTime(d.ApprovedAt),
		CreatedAt:           fmtTime(d.CreatedAt),
	}
}
