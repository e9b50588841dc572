package entities

import "asset-system/pkg/types"

// Branch is an organizational site. Code is the short alphabetic prefix
// used in generated identifiers and must stay stable once assets exist.
type Branch struct {
	ID       uint64
	Name     string
	Code     string
	Address  *string
	IsActive bool

	types.BaseEntity
}
