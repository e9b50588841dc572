package entities

import (
	"asset-system/internal/authz"
	"asset-system/pkg/types"
)

type User struct {
	ID       uint64
	Username string
	Email    string
	Password string
	Role     authz.Role
	BranchID *uint64
	Branch   *Branch
	IsActive bool

	types.BaseEntity
}

// Actor converts the stored user into the principal the policy engine
// reasons about.
func (u *User) Actor() authz.Actor {
	return authz.Actor{ID: u.ID, Role: u.Role, BranchID: u.BranchID}
}
