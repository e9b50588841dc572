package entities

import (
	"time"

	"asset-system/internal/workflow"
	"asset-system/pkg/types"
)

type DisposalMethod string

const (
	DisposalSale     DisposalMethod = "Sale"
	DisposalScrap    DisposalMethod = "Scrap"
	DisposalDonation DisposalMethod = "Donation"
	DisposalTransfer DisposalMethod = "Transfer"
	DisposalAuction  DisposalMethod = "Auction"
	DisposalEWaste   DisposalMethod = "e-Waste"
)

type Disposal struct {
	ID                  uint64
	DisposalID          string
	AssetID             uint64
	Asset               *Asset
	DisposalDate        time.Time
	DisposalMethod      DisposalMethod
	DisposalValue       *float64
	BuyerDetails        *string
	Reason              *string
	ApprovalDocument    *string
	DisposalCertificate *string

	Status     workflow.DisposalStatus
	ApprovedBy *uint64
	Approver   *User
	ApprovedAt *time.Time

	types.BaseEntity
}
