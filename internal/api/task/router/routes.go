// Package router đăng ký các route thuộc domain task: ba loại task,
// hoạt động, bình luận và file đính kèm.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	authsvc "work_tracker/internal/api/auth/service"
	basemodels "work_tracker/internal/api/base/models"
	apirouter "work_tracker/internal/api/router"
	taskhdl "work_tracker/internal/api/task/handler"
)

// taskRoutePrefixes map loại task sang prefix route của nó
var taskRoutePrefixes = map[basemodels.EntityType]string{
	basemodels.EntityProjectTask:  "/project-task",
	basemodels.EntityRoutineTask:  "/routine-task",
	basemodels.EntityAssignedTask: "/assigned-task",
}

// Register đăng ký tất cả route task lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	for _, taskType := range basemodels.TaskVariants {
		taskHandler, err := taskhdl.NewTaskHandler(taskType)
		if err != nil {
			return fmt.Errorf("failed to create task handler for %s: %w", taskType, err)
		}
		r.RegisterCRUDRoutes(v1, taskRoutePrefixes[taskType], taskHandler, apirouter.ReadWriteConfig, authsvc.ResourceTask)
	}

	activityHandler, err := taskhdl.NewTaskActivityHandler()
	if err != nil {
		return fmt.Errorf("failed to create task activity handler: %w", err)
	}
	r.RegisterCRUDRoutes(v1, "/task-activity", activityHandler, apirouter.ReadWriteConfig, authsvc.ResourceTaskActivity)

	commentHandler, err := taskhdl.NewTaskCommentHandler()
	if err != nil {
		return fmt.Errorf("failed to create task comment handler: %w", err)
	}
	r.RegisterCRUDRoutes(v1, "/task-comment", commentHandler, apirouter.ReadWriteConfig, authsvc.ResourceTaskComment)

	attachmentHandler, err := taskhdl.NewAttachmentHandler()
	if err != nil {
		return fmt.Errorf("failed to create attachment handler: %w", err)
	}
	r.RegisterCRUDRoutes(v1, "/attachment", attachmentHandler, apirouter.ReadWriteConfig, authsvc.ResourceAttachment)

	return nil
}
