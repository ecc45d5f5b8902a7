package customers

// Customer is a storefront customer record.
type Customer struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Company   string `json:"company,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// CreateCustomerRequest is the JSON body for customer creation.
type CreateCustomerRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=40"`
	Company string `json:"company" validate:"max=200"`
	Notes   string `json:"notes" validate:"max=2000"`
}

// UpdateCustomerRequest carries partial updates; nil fields are left alone.
type UpdateCustomerRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=40"`
	Company *string `json:"company,omitempty" validate:"omitempty,max=200"`
	Notes   *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}
