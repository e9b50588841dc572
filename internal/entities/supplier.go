package entities

import "asset-system/pkg/types"

type Supplier struct {
	ID            uint64
	Name          string
	ContactPerson *string
	PhoneNumber   *string
	Email         *string
	Address       *string
	GSTNumber     *string

	types.BaseEntity
}
