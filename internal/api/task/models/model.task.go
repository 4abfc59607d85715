// Package models - model cho domain task (Task, TaskActivity, TaskComment, Attachment).
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	basemodels "work_tracker/internal/api/base/models"
)

// TaskStatus trạng thái của task
type TaskStatus string

const (
	StatusPending    TaskStatus = "Pending"
	StatusInProgress TaskStatus = "InProgress"
	StatusCompleted  TaskStatus = "Completed"
	StatusCancelled  TaskStatus = "Cancelled"
)

// TaskPriority độ ưu tiên của task
type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
	PriorityUrgent TaskPriority = "Urgent"
)

// MaxAssignees giới hạn số người được gán vào một AssignedTask
const MaxAssignees = 5

// RoutineStatusAllowed miền trạng thái thu hẹp của RoutineTask —
// công việc định kỳ không có khái niệm hủy.
var RoutineStatusAllowed = []TaskStatus{StatusPending, StatusInProgress, StatusCompleted}

// RoutinePriorityAllowed miền độ ưu tiên thu hẹp của RoutineTask.
var RoutinePriorityAllowed = []TaskPriority{PriorityLow, PriorityMedium}

// Task định nghĩa mô hình công việc. Ba loại task dùng chung collection tasks,
// phân biệt bằng field taskType (trùng giá trị EntityType):
//   - ProjectTask: có vendor và các field chi phí
//   - RoutineTask: miền status/priority thu hẹp
//   - AssignedTask: có danh sách assignees (tối đa MaxAssignees)
//
// Child entity (activity, comment, attachment) tham chiếu task qua FK đa hình
// parent + parentModel nên taskType không được đổi sau khi tạo.
type Task struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	TaskType       string             `json:"taskType" bson:"taskType" index:"single:1"`
	OrganizationID primitive.ObjectID `json:"organizationId" bson:"organizationId" index:"single:1;compound:org_dept"`
	DepartmentID   primitive.ObjectID `json:"departmentId" bson:"departmentId" index:"compound:org_dept"`
	Title          string             `json:"title" bson:"title"`
	Description    string             `json:"description,omitempty" bson:"description,omitempty"`
	Status         TaskStatus         `json:"status" bson:"status" default:"Pending"`
	Priority       TaskPriority       `json:"priority" bson:"priority" default:"Medium"`
	CreatedBy      primitive.ObjectID `json:"createdBy,omitempty" bson:"createdBy,omitempty" index:"single:1"`
	Watchers       []primitive.ObjectID `json:"watchers,omitempty" bson:"watchers,omitempty"`

	// ProjectTask
	VendorID   *primitive.ObjectID `json:"vendorId,omitempty" bson:"vendorId,omitempty"`
	TotalCost  float64             `json:"totalCost,omitempty" bson:"totalCost,omitempty"`
	PaidAmount float64             `json:"paidAmount,omitempty" bson:"paidAmount,omitempty"`

	// AssignedTask
	Assignees []primitive.ObjectID `json:"assignees,omitempty" bson:"assignees,omitempty" index:"single:1"`

	basemodels.SoftDeleteFields `bson:",inline"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// ValidStatus kiểm tra status có hợp lệ với loại task không
func ValidStatus(taskType basemodels.EntityType, status TaskStatus) bool {
	if taskType == basemodels.EntityRoutineTask {
		for _, s := range RoutineStatusAllowed {
			if s == status {
				return true
			}
		}
		return false
	}
	switch status {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ValidPriority kiểm tra priority có hợp lệ với loại task không
func ValidPriority(taskType basemodels.EntityType, priority TaskPriority) bool {
	if taskType == basemodels.EntityRoutineTask {
		for _, p := range RoutinePriorityAllowed {
			if p == priority {
				return true
			}
		}
		return false
	}
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
