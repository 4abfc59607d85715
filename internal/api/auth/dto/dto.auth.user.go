// Package authdto - các cấu trúc đầu vào cho domain auth.
package authdto

// UserLoginInput đầu vào đăng nhập bằng email + password.
// Hwid định danh thiết bị — mỗi thiết bị giữ một token riêng.
type UserLoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Hwid     string `json:"hwid" validate:"required"`
}

// UserLogoutInput đầu vào đăng xuất người dùng.
type UserLogoutInput struct {
	Hwid string `json:"hwid" validate:"required"`
}

// UserCreateInput đầu vào tạo người dùng.
// Password là plaintext, được hash + salt ở service trước khi lưu.
type UserCreateInput struct {
	OrganizationID string `json:"organizationId" validate:"required,exists=organizations" transform:"str_objectid,required"`
	DepartmentID   string `json:"departmentId" validate:"required,exists=departments" transform:"str_objectid,required"`
	FirstName      string `json:"firstName" validate:"required,no_xss"`
	LastName       string `json:"lastName" validate:"required,no_xss"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,strong_password"`
	Position       string `json:"position"`
	Role           string `json:"role" validate:"omitempty,oneof=Admin Manager User"`
}

// UserUpdateInput đầu vào cập nhật người dùng. Không cho đổi organization qua update;
// chuyển department đi qua đường update có kiểm tra scope ceiling.
type UserUpdateInput struct {
	DepartmentID string `json:"departmentId" validate:"omitempty,exists=departments" transform:"str_objectid,optional"`
	FirstName    string `json:"firstName" validate:"omitempty,no_xss"`
	LastName     string `json:"lastName" validate:"omitempty,no_xss"`
	Position     string `json:"position"`
	Role         string `json:"role" validate:"omitempty,oneof=Admin Manager User"`
}

// UserChangePasswordInput đầu vào đổi password của chính mình.
type UserChangePasswordInput struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,strong_password"`
}
