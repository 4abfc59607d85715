// Package resourcedto - các cấu trúc đầu vào cho domain resource.
package resourcedto

// VendorCreateInput đầu vào tạo vendor.
type VendorCreateInput struct {
	OrganizationID string `json:"organizationId" validate:"required,exists=organizations" transform:"str_objectid,required"`
	DepartmentID   string `json:"departmentId" validate:"required,exists=departments" transform:"str_objectid,required"`
	Name           string `json:"name" validate:"required,no_xss"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	Description    string `json:"description"`
}

// VendorUpdateInput đầu vào cập nhật vendor. Tenancy không đổi sau khi tạo.
type VendorUpdateInput struct {
	Name        string `json:"name" validate:"omitempty,no_xss"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

// MaterialCreateInput đầu vào tạo material.
type MaterialCreateInput struct {
	OrganizationID string  `json:"organizationId" validate:"required,exists=organizations" transform:"str_objectid,required"`
	DepartmentID   string  `json:"departmentId" validate:"required,exists=departments" transform:"str_objectid,required"`
	Name           string  `json:"name" validate:"required,no_xss"`
	Unit           string  `json:"unit" validate:"required"`
	Price          float64 `json:"price" validate:"gte=0"`
	Quantity       float64 `json:"quantity" validate:"gte=0"`
	Description    string  `json:"description"`
}

// MaterialUpdateInput đầu vào cập nhật material. Tenancy không đổi sau khi tạo.
type MaterialUpdateInput struct {
	Name        string  `json:"name" validate:"omitempty,no_xss"`
	Unit        string  `json:"unit"`
	Price       float64 `json:"price" validate:"gte=0"`
	Quantity    float64 `json:"quantity" validate:"gte=0"`
	Description string  `json:"description"`
}
