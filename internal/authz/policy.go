// Package authz holds the declarative access policy: one table mapping
// (object kind, action) to the allowed roles and the branch scope rule,
// consulted by every service instead of ad hoc per-handler checks.
package authz

type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleManager Role = "Manager"
	RoleAuditor Role = "Auditor"
	RoleViewer  Role = "Viewer"
	RoleUser    Role = "User"
)

// Actor is the authenticated principal attached to the request context.
type Actor struct {
	ID       uint64
	Role     Role
	BranchID *uint64
}

type ObjectKind string

const (
	Assets       ObjectKind = "assets"
	Procurements ObjectKind = "procurements"
	Maintenances ObjectKind = "maintenances"
	Disposals    ObjectKind = "disposals"
	Branches     ObjectKind = "branches"
	Suppliers    ObjectKind = "suppliers"
	Reports      ObjectKind = "reports"
)

type Action string

const (
	ActionView           Action = "view"
	ActionCreate         Action = "create"
	ActionUpdate         Action = "update"
	ActionDelete         Action = "delete"
	ActionApprove        Action = "approve"
	ActionComplete       Action = "complete"
	ActionConfirmTesting Action = "confirm_testing"
	ActionImport         Action = "import"
)

type Scope int

const (
	// ScopeAny places no branch restriction on the action.
	ScopeAny Scope = iota
	// ScopeBranch restricts non-admin actors to records of their own branch.
	ScopeBranch
)

// Rule lists the roles allowed to perform an action and the branch scope
// applied to non-admins. An empty Roles slice means any authenticated role.
type Rule struct {
	Roles []Role
	Scope Scope
}

var adminOnly = []Role{RoleAdmin}
var adminOrManager = []Role{RoleAdmin, RoleManager}

// Maintenance and disposal mutations are deliberately role-gated but not
// branch-scoped, matching the head-office approval behavior of the
// upstream system.
var policy = map[ObjectKind]map[Action]Rule{
	Assets: {
		ActionView:           {Scope: ScopeBranch},
		ActionCreate:         {Scope: ScopeBranch},
		ActionUpdate:         {Scope: ScopeBranch},
		ActionDelete:         {Roles: adminOnly},
		ActionConfirmTesting: {Roles: adminOrManager},
		ActionImport:         {Roles: adminOnly},
	},
	Procurements: {
		ActionView:    {Scope: ScopeBranch},
		ActionCreate:  {Scope: ScopeBranch},
		ActionUpdate:  {Scope: ScopeBranch},
		ActionApprove: {Roles: adminOrManager},
		ActionDelete:  {Roles: adminOnly},
	},
	Maintenances: {
		ActionView:     {},
		ActionCreate:   {},
		ActionUpdate:   {},
		ActionComplete: {},
		ActionDelete:   {Roles: adminOnly},
	},
	Disposals: {
		ActionView:    {},
		ActionCreate:  {},
		ActionUpdate:  {},
		ActionApprove: {Roles: adminOnly},
		ActionDelete:  {Roles: adminOnly},
	},
	Branches: {
		ActionView:   {},
		ActionCreate: {Roles: adminOnly},
		ActionUpdate: {Roles: adminOnly},
		ActionDelete: {Roles: adminOnly},
	},
	Suppliers: {
		ActionView:   {},
		ActionCreate: {Roles: adminOrManager},
	},
	Reports: {
		ActionView: {Scope: ScopeBranch},
	},
}

// Can reports whether the actor may perform the action. recordBranchID is
// the branch of the record being touched; pass nil when the action has no
// branch-bound target (or the rule is unscoped).
func Can(actor Actor, kind ObjectKind, action Action, recordBranchID *uint64) bool {
	rules, ok := policy[kind]
	if !ok {
		return false
	}
	rule, ok := rules[action]
	if !ok {
		return false
	}

	if actor.Role == RoleAdmin {
		return true
	}

	if len(rule.Roles) > 0 && !roleAllowed(rule.Roles, actor.Role) {
		return false
	}

	if rule.Scope == ScopeBranch {
		// A non-admin without a branch assignment has no scope to act
		// in; fail closed rather than treating nil as "everywhere".
		if actor.BranchID == nil {
			return false
		}
		if recordBranchID != nil && *actor.BranchID != *recordBranchID {
			return false
		}
	}

	return true
}

// BranchFilter returns the branch a list query must be restricted to, or
// nil when the actor sees all branches. Callers gate with Can first, which
// refuses branch-scoped actions for non-admins carrying no branch, so a
// non-nil result is guaranteed for every non-admin that reaches a query.
func BranchFilter(actor Actor) *uint64 {
	if actor.Role == RoleAdmin {
		return nil
	}
	return actor.BranchID
}

func roleAllowed(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
