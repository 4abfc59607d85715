package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	basemodels "work_tracker/internal/api/base/models"
)

// Attachment định nghĩa mô hình file đính kèm. Parent + ParentModel là FK
// đa hình trỏ về một loại task, TaskActivity hoặc TaskComment.
type Attachment struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Parent         primitive.ObjectID `json:"parent" bson:"parent" index:"single:1;compound:parent_model"`
	ParentModel    string             `json:"parentModel" bson:"parentModel" index:"compound:parent_model"`
	OrganizationID primitive.ObjectID `json:"organizationId" bson:"organizationId" index:"single:1;compound:org_dept"`
	DepartmentID   primitive.ObjectID `json:"departmentId" bson:"departmentId" index:"compound:org_dept"`
	UploadedBy     primitive.ObjectID `json:"uploadedBy" bson:"uploadedBy" index:"single:1"`
	FileName       string             `json:"fileName" bson:"fileName"`
	FileType       string             `json:"fileType,omitempty" bson:"fileType,omitempty"`
	Size           int64              `json:"size" bson:"size"`
	URL            string             `json:"url" bson:"url"`

	basemodels.SoftDeleteFields `bson:",inline"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}
