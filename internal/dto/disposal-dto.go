package dto

type CreateDisposalDTO struct {
	AssetID        uint64   `json:"asset_id" validate:"required"`
	DisposalDate   string   `json:"disposal_date" validate:"required,datetime=2006-01-02"`
	DisposalMethod string   `json:"disposal_method" validate:"required,oneof=Sale Scrap Donation Transfer Auction e-Waste"`
	DisposalValue  *float64 `json:"disposal_value" validate:"omitempty,min=0"`
	BuyerDetails   *string  `json:"buyer_details"`
	Reason         *string  `json:"reason"`
}

type UpdateDisposalDTO struct {
	DisposalDate   *string  `json:"disposal_date" validate:"omitempty,datetime=2006-01-02"`
	DisposalMethod *string  `json:"disposal_method" validate:"omitempty,oneof=Sale Scrap Donation Transfer Auction e-Waste"`
	DisposalValue  *float64 `json:"disposal_value" validate:"omitempty,min=0"`
	BuyerDetails   *string  `json:"buyer_details"`
	Reason         *string  `json:"reason"`
}

type ApproveDisposalDTO struct {
	Status string `json:"status" validate:"required,oneof=Approved Rejected"`
}

type DisposalDTO struct {
	ID                  uint64         `json:"id"`
	DisposalID          string         `json:"disposal_id"`
	Asset               *ShortAssetDTO `json:"asset,omitempty"`
	DisposalDate        string         `json:"disposal_date"`
	DisposalMethod      string         `json:"disposal_method"`
	DisposalValue       *float64       `json:"disposal_value,omitempty"`
	BuyerDetails        *string        `json:"buyer_details,omitempty"`
	Reason              *string        `json:"reason,omitempty"`
	ApprovalDocument    *string        `json:"approval_document,omitempty"`
	DisposalCertificate *string        `json:"disposal_certificate,omitempty"`
	Status              string         `json:"status"`
	Approver            *ShortUserDTO  `json:"approver,omitempty"`
	ApprovedAt          *string        `json:"approved_at,omitempty"`
	CreatedAt           *string        `json:"created_at,omitempty"`
}
