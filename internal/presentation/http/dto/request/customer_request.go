package request

// CreateCustomerRequest represents a customer creation request.
// BirthDate is a calendar date in YYYY-MM-DD form.
type CreateCustomerRequest struct {
	Name      string  `json:"name" binding:"required,min=2,max=255"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     string  `json:"phone" binding:"required,min=8,max=20"`
	CPF       string  `json:"cpf" binding:"required"`
	RG        *string `json:"rg"`
	BirthDate string  `json:"birth_date" binding:"required"`
	ZipCode   *string `json:"zip_code"`
	Address   *string `json:"address"`
	District  *string `json:"district"`
	City      *string `json:"city"`
	Notes     *string `json:"notes"`
}

// UpdateCustomerRequest represents a customer update request
type UpdateCustomerRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=2,max=255"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     *string `json:"phone" binding:"omitempty,min=8,max=20"`
	RG        *string `json:"rg"`
	BirthDate *string `json:"birth_date"`
	ZipCode   *string `json:"zip_code"`
	Address   *string `json:"address"`
	District  *string `json:"district"`
	City      *string `json:"city"`
	Notes     *string `json:"notes"`
}

// CustomerFilterRequest represents customer filter parameters
type CustomerFilterRequest struct {
	Search  string `form:"search"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
	Limit   int    `form:"limit"` // For cursor-based pagination
	Cursor  string `form:"cursor"`
}
