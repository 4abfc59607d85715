// Package models - model cho domain tenant (Organization, Department).
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	basemodels "work_tracker/internal/api/base/models"
)

// Organization định nghĩa mô hình tổ chức — gốc của đồ thị tenant.
// Code là định danh nghiệp vụ duy nhất toàn hệ thống, không đổi sau khi tạo.
type Organization struct {
	ID      primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name    string             `json:"name" bson:"name"`
	Code    string             `json:"code" bson:"code" index:"unique"`
	Address string             `json:"address,omitempty" bson:"address,omitempty"`
	Phone   string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Email   string             `json:"email,omitempty" bson:"email,omitempty"`
	Logo    string             `json:"logo,omitempty" bson:"logo,omitempty"`

	// IsSystem đánh dấu organization hệ thống do seed tạo, không xóa được
	IsSystem  bool               `json:"isSystem" bson:"isSystem"`
	CreatedBy primitive.ObjectID `json:"createdBy,omitempty" bson:"createdBy,omitempty"`

	basemodels.SoftDeleteFields `bson:",inline"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}
