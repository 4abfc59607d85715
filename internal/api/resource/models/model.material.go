package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	basemodels "work_tracker/internal/api/base/models"
)

// Material định nghĩa mô hình vật tư thuộc một department.
// Price là đơn giá theo Unit; chi phí sử dụng được tính lúc đọc, không lưu.
type Material struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OrganizationID primitive.ObjectID `json:"organizationId" bson:"organizationId" index:"single:1;compound:org_dept"`
	DepartmentID   primitive.ObjectID `json:"departmentId" bson:"departmentId" index:"compound:org_dept"`
	Name           string             `json:"name" bson:"name"`
	Unit           string             `json:"unit" bson:"unit"`
	Price          float64            `json:"price" bson:"price"`
	Quantity       float64            `json:"quantity" bson:"quantity"`
	Description    string             `json:"description,omitempty" bson:"description,omitempty"`

	CreatedBy primitive.ObjectID `json:"createdBy,omitempty" bson:"createdBy,omitempty"`

	basemodels.SoftDeleteFields `bson:",inline"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}
