package models

import (
	"testing"

	basemodels "work_tracker/internal/api/base/models"
)

func TestValidStatusPerTaskType(t *testing.T) {
	full := []TaskStatus{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

	// ProjectTask và AssignedTask nhận đủ miền trạng thái
	for _, taskType := range []basemodels.EntityType{basemodels.EntityProjectTask, basemodels.EntityAssignedTask} {
		for _, status := range full {
			if !ValidStatus(taskType, status) {
				t.Errorf("ValidStatus(%s, %s) = false, muốn true", taskType, status)
			}
		}
	}

	// RoutineTask không có khái niệm hủy
	if ValidStatus(basemodels.EntityRoutineTask, StatusCancelled) {
		t.Error("RoutineTask không được nhận status Cancelled")
	}
	for _, status := range RoutineStatusAllowed {
		if !ValidStatus(basemodels.EntityRoutineTask, status) {
			t.Errorf("ValidStatus(RoutineTask, %s) = false, muốn true", status)
		}
	}

	if ValidStatus(basemodels.EntityProjectTask, "Archived") {
		t.Error("Status ngoài miền phải bị từ chối")
	}
}

func TestValidPriorityPerTaskType(t *testing.T) {
	full := []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

	for _, taskType := range []basemodels.EntityType{basemodels.EntityProjectTask, basemodels.EntityAssignedTask} {
		for _, priority := range full {
			if !ValidPriority(taskType, priority) {
				t.Errorf("ValidPriority(%s, %s) = false, muốn true", taskType, priority)
			}
		}
	}

	// RoutineTask chỉ nhận Low và Medium
	for _, priority := range []TaskPriority{PriorityHigh, PriorityUrgent} {
		if ValidPriority(basemodels.EntityRoutineTask, priority) {
			t.Errorf("RoutineTask không được nhận priority %s", priority)
		}
	}
	for _, priority := range RoutinePriorityAllowed {
		if !ValidPriority(basemodels.EntityRoutineTask, priority) {
			t.Errorf("ValidPriority(RoutineTask, %s) = false, muốn true", priority)
		}
	}

	if ValidPriority(basemodels.EntityAssignedTask, "Critical") {
		t.Error("Priority ngoài miền phải bị từ chối")
	}
}
