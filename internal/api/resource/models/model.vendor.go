// Package models - model cho domain resource (Vendor, Material).
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	basemodels "work_tracker/internal/api/base/models"
)

// Vendor định nghĩa mô hình nhà cung cấp thuộc một department.
type Vendor struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OrganizationID primitive.ObjectID `json:"organizationId" bson:"organizationId" index:"single:1;compound:org_dept"`
	DepartmentID   primitive.ObjectID `json:"departmentId" bson:"departmentId" index:"compound:org_dept"`
	Name           string             `json:"name" bson:"name"`
	Phone          string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Address        string             `json:"address,omitempty" bson:"address,omitempty"`
	Description    string             `json:"description,omitempty" bson:"description,omitempty"`

	CreatedBy primitive.ObjectID `json:"createdBy,omitempty" bson:"createdBy,omitempty"`

	basemodels.SoftDeleteFields `bson:",inline"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}
