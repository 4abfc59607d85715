// Package tenantdto - các cấu trúc đầu vào cho domain tenant.
package tenantdto

// OrganizationCreateInput đầu vào tạo organization (chỉ platform user).
type OrganizationCreateInput struct {
	Name    string `json:"name" validate:"required,no_xss"`
	Code    string `json:"code" validate:"required,alphanum,uppercase"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	Logo    string `json:"logo" validate:"omitempty,url"`
}

// OrganizationUpdateInput đầu vào cập nhật organization. Code không đổi sau khi tạo.
type OrganizationUpdateInput struct {
	Name    string `json:"name" validate:"omitempty,no_xss"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	Logo    string `json:"logo" validate:"omitempty,url"`
}

// DepartmentCreateInput đầu vào tạo department.
type DepartmentCreateInput struct {
	OrganizationID string `json:"organizationId" validate:"required,exists=organizations" transform:"str_objectid,required"`
	Name           string `json:"name" validate:"required,no_xss"`
	Description    string `json:"description"`
}

// DepartmentUpdateInput đầu vào cập nhật department. Organization không đổi sau khi tạo.
type DepartmentUpdateInput struct {
	Name        string `json:"name" validate:"omitempty,no_xss"`
	Description string `json:"description"`
}
