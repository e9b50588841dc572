package services

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"asset-system/internal/dto"
	"asset-system/internal/entities"
	"asset-system/internal/workflow"
	apperrors "asset-system/pkg/errors"
	"asset-system/pkg/types"
)

func testFilter() types.Filter {
	return types.Filter{Limit: 20, Page: 1, WithPagination: true}
}

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fakeBranches map[uint64]string

func (f fakeBranches) ActiveBranchCode(ctx context.Context, id uint64) (string, error) {
	code, ok := f[id]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return strings.ToUpper(code), nil
}

// fakeAssetRepo is an in-memory stand-in for the asset repository. Only
// the behavior the service tests exercise is implemented.
type fakeAssetRepo struct {
	assets      map[uint64]*entities.Asset
	nextID      uint64
	createErrs  []error
	statusCalls []workflow.SetAssetStatus
}

func newFakeAssetRepo(assets ...*entities.Asset) *fakeAssetRepo {
	r := &fakeAssetRepo{assets: make(map[uint64]*entities.Asset)}
	for _, a := range assets {
		r.assets[a.ID] = a
		if a.ID > r.nextID {
			r.nextID = a.ID
		}
	}
	return r
}

func (r *fakeAssetRepo) LastIdentifier(ctx context.Context, tx pgx.Tx, prefix string) (string, error) {
	last := ""
	for _, a := range r.assets {
		if strings.HasPrefix(a.AssetID, prefix) && a.AssetID > last {
			last = a.AssetID
		}
	}
	return last, nil
}

func (r *fakeAssetRepo) GetAssets(ctx context.Context, filter types.Filter, branchID *uint64) ([]entities.Asset, uint64, error) {
	out := make([]entities.Asset, 0, len(r.assets))
	for _, a := range r.assets {
		if branchID != nil && a.BranchID != *branchID {
			continue
		}
		out = append(out, *a)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeAssetRepo) FindAsset(ctx context.Context, id uint64) (*entities.Asset, error) {
	a, ok := r.assets[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAssetRepo) CreateAsset(ctx context.Context, tx pgx.Tx, asset entities.Asset) (uint64, error) {
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return 0, err
		}
	}
	r.nextID++
	asset.ID = r.nextID
	r.assets[asset.ID] = &asset
	return asset.ID, nil
}

func (r *fakeAssetRepo) UpdateAsset(ctx context.Context, id uint64, asset entities.Asset) error {
	if _, ok := r.assets[id]; !ok {
		return apperrors.ErrNotFound
	}
	asset.ID = id
	r.assets[id] = &asset
	return nil
}

func (r *fakeAssetRepo) SetStatus(ctx context.Context, tx pgx.Tx, id uint64, status workflow.AssetStatus) error {
	a, ok := r.assets[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	a.CurrentStatus = status
	r.statusCalls = append(r.statusCalls, workflow.SetAssetStatus{AssetID: id, Status: status})
	return nil
}

func (r *fakeAssetRepo) SetTestingResult(ctx context.Context, id uint64, status workflow.TestingStatus, testedBy uint64, remarks *string) error {
	a, ok := r.assets[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	a.TestingStatus = status
	a.TestedBy = &testedBy
	now := time.Now()
	a.TestedAt = &now
	if remarks != nil {
		a.Remarks = remarks
	}
	return nil
}

func (r *fakeAssetRepo) AttachFile(ctx context.Context, id uint64, kind string, path string) error {
	if _, ok := r.assets[id]; !ok {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *fakeAssetRepo) DeleteAsset(ctx context.Context, id uint64) error {
	if _, ok := r.assets[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.assets, id)
	return nil
}

func (r *fakeAssetRepo) GetStats(ctx context.Context, branchID *uint64) (*dto.AssetStatsDTO, error) {
	stats := &dto.AssetStatsDTO{ByType: make(map[string]uint64)}
	for _, a := range r.assets {
		if branchID != nil && a.BranchID != *branchID {
			continue
		}
		stats.TotalAssets++
		stats.ByType[string(a.AssetType)]++
	}
	return stats, nil
}

type fakeMaintenanceRepo struct {
	maintenances map[uint64]*entities.Maintenance
	nextID       uint64
}

func newFakeMaintenanceRepo(maintenances ...*entities.Maintenance) *fakeMaintenanceRepo {
	r := &fakeMaintenanceRepo{maintenances: make(map[uint64]*entities.Maintenance)}
	for _, m := range maintenances {
		r.maintenances[m.ID] = m
		if m.ID > r.nextID {
			r.nextID = m.ID
		}
	}
	return r
}

func (r *fakeMaintenanceRepo) LastIdentifier(ctx context.Context, tx pgx.Tx, prefix string) (string, error) {
	last := ""
	for _, m := range r.maintenances {
		if strings.HasPrefix(m.MaintenanceID, prefix) && m.MaintenanceID > last {
			last = m.MaintenanceID
		}
	}
	return last, nil
}

func (r *fakeMaintenanceRepo) GetMaintenances(ctx context.Context, filter types.Filter) ([]entities.Maintenance, uint64, error) {
	out := make([]entities.Maintenance, 0, len(r.maintenances))
	for _, m := range r.maintenances {
		out = append(out, *m)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeMaintenanceRepo) FindMaintenance(ctx context.Context, id uint64) (*entities.Maintenance, error) {
	m, ok := r.maintenances[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMaintenanceRepo) CreateMaintenance(ctx context.Context, tx pgx.Tx, maintenance entities.Maintenance) (uint64, error) {
	r.nextID++
	maintenance.ID = r.nextID
	r.maintenances[maintenance.ID] = &maintenance
	return maintenance.ID, nil
}

func (r *fakeMaintenanceRepo) UpdateMaintenance(ctx context.Context, id uint64, maintenance entities.Maintenance) error {
	if _, ok := r.maintenances[id]; !ok {
		return apperrors.ErrNotFound
	}
	maintenance.ID = id
	r.maintenances[id] = &maintenance
	return nil
}

func (r *fakeMaintenanceRepo) SetStatus(ctx context.Context, tx pgx.Tx, id uint64, status workflow.MaintenanceStatus) error {
	m, ok := r.maintenances[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	m.Status = status
	return nil
}

func (r *fakeMaintenanceRepo) Complete(ctx context.Context, tx pgx.Tx, id uint64, performedBy uint64, cost *float64, vendorName *string) error {
	m, ok := r.maintenances[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	m.Status = workflow.MaintenanceCompleted
	m.PerformedBy = &performedBy
	now := time.Now()
	m.CompletedDate = &now
	if cost != nil {
		m.Cost = cost
	}
	if vendorName != nil {
		m.VendorName = vendorName
	}
	return nil
}

func (r *fakeMaintenanceRepo) AttachReport(ctx context.Context, id uint64, path string) error {
	if _, ok := r.maintenances[id]; !ok {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *fakeMaintenanceRepo) DeleteMaintenance(ctx context.Context, id uint64) error {
	if _, ok := r.maintenances[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.maintenances, id)
	return nil
}

func (r *fakeMaintenanceRepo) GetStats(ctx context.Context) (*dto.MaintenanceStatsDTO, error) {
	return &dto.MaintenanceStatsDTO{TotalMaintenances: uint64(len(r.maintenances))}, nil
}

type fakeDisposalRepo struct {
	disposals map[uint64]*entities.Disposal
	nextID    uint64
}

func newFakeDisposalRepo(disposals ...*entities.Disposal) *fakeDisposalRepo {
	r := &fakeDisposalRepo{disposals: make(map[uint64]*entities.Disposal)}
	for _, d := range disposals {
		r.disposals[d.ID] = d
		if d.ID > r.nextID {
			r.nextID = d.ID
		}
	}
	return r
}

func (r *fakeDisposalRepo) LastIdentifier(ctx context.Context, tx pgx.Tx, prefix string) (string, error) {
	last := ""
	for _, d := range r.disposals {
		if strings.HasPrefix(d.DisposalID, prefix) && d.DisposalID > last {
			last = d.DisposalID
		}
	}
	return last, nil
}

func (r *fakeDisposalRepo) GetDisposals(ctx context.Context, filter types.Filter) ([]entities.Disposal, uint64, error) {
	out := make([]entities.Disposal, 0, len(r.disposals))
	for _, d := range r.disposals {
		out = append(out, *d)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeDisposalRepo) FindDisposal(ctx context.Context, id uint64) (*entities.Disposal, error) {
	d, ok := r.disposals[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDisposalRepo) CreateDisposal(ctx context.Context, tx pgx.Tx, disposal entities.Disposal) (uint64, error) {
	r.nextID++
	disposal.ID = r.nextID
	r.disposals[disposal.ID] = &disposal
	return disposal.ID, nil
}

func (r *fakeDisposalRepo) UpdateDisposal(ctx context.Context, id uint64, disposal entities.Disposal) error {
	if _, ok := r.disposals[id]; !ok {
		return apperrors.ErrNotFound
	}
	disposal.ID = id
	r.disposals[id] = &disposal
	return nil
}

func (r *fakeDisposalRepo) SetApproval(ctx context.Context, tx pgx.Tx, id uint64, status workflow.DisposalStatus, approvedBy uint64) error {
	d, ok := r.disposals[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	d.Status = status
	d.ApprovedBy = &approvedBy
	now := time.Now()
	d.ApprovedAt = &now
	return nil
}

func (r *fakeDisposalRepo) AttachDocument(ctx context.Context, id uint64, kind string, path string) error {
	if _, ok := r.disposals[id]; !ok {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *fakeDisposalRepo) DeleteDisposal(ctx context.Context, id uint64) error {
	if _, ok := r.disposals[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.disposals, id)
	return nil
}

type fakeProcurementRepo struct {
	procurements map[uint64]*entities.Procurement
	nextID       uint64
}

func newFakeProcurementRepo(procurements ...*entities.Procurement) *fakeProcurementRepo {
	r := &fakeProcurementRepo{procurements: make(map[uint64]*entities.Procurement)}
	for _, p := range procurements {
		r.procurements[p.ID] = p
		if p.ID > r.nextID {
			r.nextID = p.ID
		}
	}
	return r
}

func (r *fakeProcurementRepo) LastIdentifier(ctx context.Context, tx pgx.Tx, prefix string) (string, error) {
	last := ""
	for _, p := range r.procurements {
		if strings.HasPrefix(p.ProcurementID, prefix) && p.ProcurementID > last {
			last = p.ProcurementID
		}
	}
	return last, nil
}

func (r *fakeProcurementRepo) GetProcurements(ctx context.Context, filter types.Filter, branchID *uint64) ([]entities.Procurement, uint64, error) {
	out := make([]entities.Procurement, 0, len(r.procurements))
	for _, p := range r.procurements {
		if branchID != nil && p.BranchID != *branchID {
			continue
		}
		out = append(out, *p)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeProcurementRepo) FindProcurement(ctx context.Context, id uint64) (*entities.Procurement, error) {
	p, ok := r.procurements[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProcurementRepo) CreateProcurement(ctx context.Context, tx pgx.Tx, procurement entities.Procurement) (uint64, error) {
	r.nextID++
	procurement.ID = r.nextID
	r.procurements[procurement.ID] = &procurement
	return procurement.ID, nil
}

func (r *fakeProcurementRepo) UpdateProcurement(ctx context.Context, id uint64, procurement entities.Procurement) error {
	if _, ok := r.procurements[id]; !ok {
		return apperrors.ErrNotFound
	}
	procurement.ID = id
	r.procurements[id] = &procurement
	return nil
}

func (r *fakeProcurementRepo) SetApproval(ctx context.Context, tx pgx.Tx, id uint64, status workflow.ApprovalStatus, approvedBy uint64) error {
	p, ok := r.procurements[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	p.ApprovalStatus = status
	p.ApprovedBy = &approvedBy
	now := time.Now()
	p.ApprovedAt = &now
	return nil
}

func (r *fakeProcurementRepo) DeleteProcurement(ctx context.Context, id uint64) error {
	if _, ok := r.procurements[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.procurements, id)
	return nil
}
