package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v uint64) *uint64 { return &v }

func TestCan_AdminIsUnrestricted(t *testing.T) {
	admin := Actor{ID: 1, Role: RoleAdmin}

	assert.True(t, Can(admin, Assets, ActionDelete, ptr(5)))
	assert.True(t, Can(admin, Disposals, ActionApprove, nil))
	assert.True(t, Can(admin, Assets, ActionUpdate, ptr(3)), "admin crosses branch boundaries")
}

func TestCan_BranchScope(t *testing.T) {
	viewer := Actor{ID: 2, Role: RoleViewer, BranchID: ptr(1)}

	assert.True(t, Can(viewer, Assets, ActionView, ptr(1)))
	assert.False(t, Can(viewer, Assets, ActionView, ptr(2)), "other branch is invisible")
	assert.False(t, Can(viewer, Procurements, ActionUpdate, ptr(2)))

	homeless := Actor{ID: 3, Role: RoleUser}
	assert.False(t, Can(homeless, Assets, ActionView, ptr(1)), "no branch affiliation, no scoped access")
}

func TestCan_BranchlessActorFailsClosed(t *testing.T) {
	// nil record branch is the list/stats case: without a branch of
	// their own, non-admins must be denied, not given an org-wide view.
	for _, role := range []Role{RoleManager, RoleAuditor, RoleViewer, RoleUser} {
		branchless := Actor{ID: 8, Role: role}
		assert.False(t, Can(branchless, Assets, ActionView, nil), "role=%s", role)
		assert.False(t, Can(branchless, Procurements, ActionView, nil), "role=%s", role)
		assert.False(t, Can(branchless, Reports, ActionView, nil), "role=%s", role)
	}

	admin := Actor{ID: 1, Role: RoleAdmin}
	assert.True(t, Can(admin, Assets, ActionView, nil), "admin needs no branch")

	// Unscoped kinds stay reachable for branchless actors.
	branchless := Actor{ID: 8, Role: RoleUser}
	assert.True(t, Can(branchless, Maintenances, ActionView, nil))
	assert.True(t, Can(branchless, Suppliers, ActionView, nil))
}

func TestCan_RoleGates(t *testing.T) {
	manager := Actor{ID: 4, Role: RoleManager, BranchID: ptr(1)}
	user := Actor{ID: 5, Role: RoleUser, BranchID: ptr(1)}

	assert.True(t, Can(manager, Procurements, ActionApprove, nil))
	assert.False(t, Can(user, Procurements, ActionApprove, nil))

	assert.True(t, Can(manager, Assets, ActionConfirmTesting, nil))
	assert.False(t, Can(user, Assets, ActionConfirmTesting, nil))

	// Disposal approval is an admin-only function.
	assert.False(t, Can(manager, Disposals, ActionApprove, nil))

	// Deletes are admin-only on every kind.
	for _, kind := range []ObjectKind{Assets, Procurements, Maintenances, Disposals, Branches} {
		assert.False(t, Can(manager, kind, ActionDelete, nil), "kind=%s", kind)
	}
}

func TestCan_MaintenanceAndDisposalAreNotBranchScoped(t *testing.T) {
	user := Actor{ID: 6, Role: RoleUser, BranchID: ptr(1)}

	assert.True(t, Can(user, Maintenances, ActionComplete, nil))
	assert.True(t, Can(user, Disposals, ActionCreate, nil))
}

func TestCan_UnknownActionDenied(t *testing.T) {
	admin := Actor{ID: 1, Role: RoleAdmin}
	assert.False(t, Can(admin, Suppliers, ActionDelete, nil), "no rule means no access, even for admin")
}

func TestBranchFilter(t *testing.T) {
	assert.Nil(t, BranchFilter(Actor{Role: RoleAdmin, BranchID: ptr(1)}), "admin lists every branch")

	f := BranchFilter(Actor{Role: RoleAuditor, BranchID: ptr(7)})
	assert.NotNil(t, f)
	assert.Equal(t, uint64(7), *f)
}
