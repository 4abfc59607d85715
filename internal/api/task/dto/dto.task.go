// Package taskdto - các cấu trúc đầu vào cho domain task.
package taskdto

// TaskCreateInput đầu vào tạo task. Loại task do route quyết định;
// các field variant-specific chỉ được dùng với đúng loại.
type TaskCreateInput struct {
	OrganizationID string   `json:"organizationId" validate:"required,exists=organizations" transform:"str_objectid,required"`
	DepartmentID   string   `json:"departmentId" validate:"required,exists=departments" transform:"str_objectid,required"`
	Title          string   `json:"title" validate:"required,no_xss"`
	Description    string   `json:"description"`
	Status         string   `json:"status"`
	Priority       string   `json:"priority"`
	Watchers       []string `json:"watchers" validate:"omitempty,dive,len=24" transform:"str_objectid_slice,optional"`

	// ProjectTask
	VendorID   string  `json:"vendorId" validate:"omitempty,exists=vendors" transform:"str_objectid_ptr,optional,map=VendorID"`
	TotalCost  float64 `json:"totalCost" validate:"gte=0"`
	PaidAmount float64 `json:"paidAmount" validate:"gte=0"`

	// AssignedTask
	Assignees []string `json:"assignees" validate:"omitempty,max=5,dive,len=24" transform:"str_objectid_slice,optional"`
}

// TaskUpdateInput đầu vào cập nhật task. Tenancy và taskType không đổi sau khi tạo.
type TaskUpdateInput struct {
	Title       string   `json:"title" validate:"omitempty,no_xss"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	Watchers    []string `json:"watchers" validate:"omitempty,dive,len=24"`

	// ProjectTask
	VendorID   string  `json:"vendorId" validate:"omitempty,exists=vendors"`
	TotalCost  float64 `json:"totalCost" validate:"gte=0"`
	PaidAmount float64 `json:"paidAmount" validate:"gte=0"`

	// AssignedTask
	Assignees []string `json:"assignees" validate:"omitempty,max=5,dive,len=24"`
}
