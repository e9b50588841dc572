package dto

type CreateBranchDTO struct {
	Name    string  `json:"name" validate:"required,max=100"`
	Code    string  `json:"code" validate:"required,alpha,max=10"`
	Address *string `json:"address" validate:"omitempty,max=500"`
}

type UpdateBranchDTO struct {
	Name     *string `json:"name" validate:"omitempty,max=100"`
	Address  *string `json:"address" validate:"omitempty,max=500"`
	IsActive *bool   `json:"is_active"`
}

type BranchDTO struct {
	ID        uint64  `json:"id"`
	Name      string  `json:"name"`
	Code      string  `json:"code"`
	Address   *string `json:"address,omitempty"`
	IsActive  bool    `json:"is_active"`
	CreatedAt *string `json:"created_at,omitempty"`
}
