package dto

type CreateSupplierDTO struct {
	Name          string  `json:"name" validate:"required,max=255"`
	ContactPerson *string `json:"contact_person" validate:"omitempty,max=255"`
	PhoneNumber   *string `json:"phone_number" validate:"omitempty,max=20"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Address       *string `json:"address" validate:"omitempty,max=500"`
	GSTNumber     *string `json:"gst_number" validate:"omitempty,max=20"`
}

type SupplierDTO struct {
	ID            uint64  `json:"id"`
	Name          string  `json:"name"`
	ContactPerson *string `json:"contact_person,omitempty"`
	PhoneNumber   *string `json:"phone_number,omitempty"`
	Email         *string `json:"email,omitempty"`
	Address       *string `json:"address,omitempty"`
	GSTNumber     *string `json:"gst_number,omitempty"`
	CreatedAt     *string `json:"created_at,omitempty"`
}
