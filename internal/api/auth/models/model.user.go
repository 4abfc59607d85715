// Package models - model người dùng (User) thuộc domain auth.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	basemodels "work_tracker/internal/api/base/models"
)

// Role vai trò của user trong organization, quyết định dòng tra cứu
// trong bảng phân quyền.
type Role string

const (
	RoleAdmin   Role = "Admin"   // Quản trị organization
	RoleManager Role = "Manager" // Quản lý department
	RoleUser    Role = "User"    // Thành viên thường
)

// ParseRole validate chuỗi role từ bên ngoài
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleUser:
		return Role(s), true
	}
	return "", false
}

// User định nghĩa mô hình người dùng.
// Token chứa token xác thực mới nhất; Tokens chứa danh sách token theo thiết bị (hwid).
// IsPlatformUser đánh dấu user vận hành platform — được tra dòng platform
// trong bảng phân quyền khi thao tác trên Organization.
type User struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OrganizationID primitive.ObjectID `json:"organizationId" bson:"organizationId" index:"single:1;compound:org_dept"`
	DepartmentID   primitive.ObjectID `json:"departmentId" bson:"departmentId" index:"compound:org_dept"`
	FirstName      string             `json:"firstName" bson:"firstName"`
	LastName       string             `json:"lastName" bson:"lastName"`
	Email          string             `json:"email" bson:"email" index:"unique"`
	Password       string             `json:"-" bson:"password,omitempty"`
	Salt           string             `json:"-" bson:"salt,omitempty"`
	Position       string             `json:"position,omitempty" bson:"position,omitempty"`
	Role           Role               `json:"role" bson:"role" default:"User"`
	IsPlatformUser bool               `json:"isPlatformUser" bson:"isPlatformUser"`
	IsSystem       bool               `json:"isSystem" bson:"isSystem"`
	CreatedBy      primitive.ObjectID `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	Token          string             `json:"token,omitempty" bson:"token,omitempty"`
	Tokens         []Token            `json:"-" bson:"tokens,omitempty"`

	basemodels.SoftDeleteFields `bson:",inline"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// Actor là danh tính rút gọn của user cho một request, dùng xuyên suốt
// phân quyền và scope resolver.
type Actor struct {
	ID             primitive.ObjectID
	Role           Role
	OrganizationID primitive.ObjectID
	DepartmentID   primitive.ObjectID
	IsPlatformUser bool
}

// ActorFromUser build Actor từ user document
func ActorFromUser(u *User) Actor {
	return Actor{
		ID:             u.ID,
		Role:           u.Role,
		OrganizationID: u.OrganizationID,
		DepartmentID:   u.DepartmentID,
		IsPlatformUser: u.IsPlatformUser,
	}
}
