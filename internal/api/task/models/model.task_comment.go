package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	basemodels "work_tracker/internal/api/base/models"
)

// TaskComment định nghĩa mô hình bình luận trên một task.
// Mentions cho phép người được nhắc đọc comment trong scope own.
type TaskComment struct {
	ID             primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Parent         primitive.ObjectID   `json:"parent" bson:"parent" index:"single:1;compound:parent_model"`
	ParentModel    string               `json:"parentModel" bson:"parentModel" index:"compound:parent_model"`
	OrganizationID primitive.ObjectID   `json:"organizationId" bson:"organizationId" index:"single:1;compound:org_dept"`
	DepartmentID   primitive.ObjectID   `json:"departmentId" bson:"departmentId" index:"compound:org_dept"`
	Author         primitive.ObjectID   `json:"author" bson:"author" index:"single:1"`
	Content        string               `json:"content" bson:"content"`
	Mentions       []primitive.ObjectID `json:"mentions,omitempty" bson:"mentions,omitempty"`

	basemodels.SoftDeleteFields `bson:",inline"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}
