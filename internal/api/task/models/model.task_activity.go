package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	basemodels "work_tracker/internal/api/base/models"
)

// StatusChange ghi lại một lần chuyển trạng thái của task cha
type StatusChange struct {
	From TaskStatus `json:"from" bson:"from"`
	To   TaskStatus `json:"to" bson:"to"`
}

// MaterialUsage một dòng vật tư sử dụng trong hoạt động.
// Chi phí = Price của material × Quantity, tính lúc đọc, không lưu.
type MaterialUsage struct {
	MaterialID primitive.ObjectID `json:"materialId" bson:"materialId"`
	Quantity   float64            `json:"quantity" bson:"quantity"`
}

// TaskActivity định nghĩa mô hình hoạt động trên một task.
// Parent + ParentModel là FK đa hình trỏ về một trong ba loại task.
type TaskActivity struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Parent         primitive.ObjectID `json:"parent" bson:"parent" index:"single:1;compound:parent_model"`
	ParentModel    string             `json:"parentModel" bson:"parentModel" index:"compound:parent_model"`
	OrganizationID primitive.ObjectID `json:"organizationId" bson:"organizationId" index:"single:1;compound:org_dept"`
	DepartmentID   primitive.ObjectID `json:"departmentId" bson:"departmentId" index:"compound:org_dept"`
	Description    string             `json:"description" bson:"description"`
	StatusChange   *StatusChange      `json:"statusChange,omitempty" bson:"statusChange,omitempty"`
	PerformedBy    primitive.ObjectID `json:"performedBy" bson:"performedBy" index:"single:1"`
	MaterialsUsed  []MaterialUsage    `json:"materialsUsed,omitempty" bson:"materialsUsed,omitempty"`
	CreatedBy      primitive.ObjectID `json:"createdBy,omitempty" bson:"createdBy,omitempty"`

	basemodels.SoftDeleteFields `bson:",inline"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// MaterialCostLine một dòng chi phí vật tư đã tính, trả về lúc đọc
type MaterialCostLine struct {
	MaterialID primitive.ObjectID `json:"materialId"`
	Name       string             `json:"name"`
	Unit       string             `json:"unit"`
	Price      float64            `json:"price"`
	Quantity   float64            `json:"quantity"`
	Cost       float64            `json:"cost"`
}

// TaskActivityWithCost là TaskActivity kèm chi phí vật tư derive lúc đọc
type TaskActivityWithCost struct {
	TaskActivity `bson:",inline"`

	MaterialCosts []MaterialCostLine `json:"materialCosts,omitempty" bson:"-"`
	TotalCost     float64            `json:"totalCost" bson:"-"`
}
