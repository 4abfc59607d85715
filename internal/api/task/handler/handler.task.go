// Package taskhdl - handler cho domain task (Task, TaskActivity, TaskComment, Attachment).
package taskhdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	authsvc "work_tracker/internal/api/auth/service"
	basehdl "work_tracker/internal/api/base/handler"
	basemodels "work_tracker/internal/api/base/models"
	basesvc "work_tracker/internal/api/base/service"
	taskdto "work_tracker/internal/api/task/dto"
	models "work_tracker/internal/api/task/models"
	tasksvc "work_tracker/internal/api/task/service"
	tenantsvc "work_tracker/internal/api/tenant/service"
	"work_tracker/internal/common"
)

// TaskHandler xử lý các request quản lý task. Một instance phục vụ một loại task;
// ba loại dùng chung collection tasks, StaticFilter theo taskType giữ cho mọi
// truy vấn của route này chỉ thấy đúng loại của mình.
type TaskHandler struct {
	*basehdl.BaseHandler[models.Task, taskdto.TaskCreateInput, taskdto.TaskUpdateInput]
	taskService *tasksvc.TaskService
	deptService *tenantsvc.DepartmentService
	authz       *authsvc.AuthorizationService
	taskType    basemodels.EntityType
}

// NewTaskHandler tạo instance mới của TaskHandler cho một loại task
func NewTaskHandler(taskType basemodels.EntityType) (*TaskHandler, error) {
	if !basemodels.IsTaskVariant(taskType) {
		return nil, fmt.Errorf("entity type %s không phải là một loại task", taskType)
	}
	taskService, err := tasksvc.NewTaskService()
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %v", err)
	}
	deptService, err := tenantsvc.NewDepartmentService()
	if err != nil {
		return nil, fmt.Errorf("failed to create department service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.Task, taskdto.TaskCreateInput, taskdto.TaskUpdateInput](taskService)
	baseHandler.Lifecycle = basesvc.NewDefaultEntityLifecycle(taskType)
	baseHandler.StaticFilter = bson.M{"taskType": string(taskType)}
	return &TaskHandler{
		BaseHandler: baseHandler,
		taskService: taskService,
		deptService: deptService,
		authz:       authsvc.DefaultAuthorization(),
		taskType:    taskType,
	}, nil
}

// checkVariantFieldsOnCreate chặn các field variant-specific dùng sai loại task
func (h *TaskHandler) checkVariantFieldsOnCreate(input *taskdto.TaskCreateInput) error {
	if h.taskType != basemodels.EntityProjectTask {
		if input.VendorID != "" || input.TotalCost != 0 || input.PaidAmount != 0 {
			return common.NewError(common.ErrCodeValidationInput, "Vendor và các field chi phí chỉ dành cho ProjectTask", common.StatusBadRequest, nil)
		}
	}
	if h.taskType != basemodels.EntityAssignedTask && len(input.Assignees) > 0 {
		return common.NewError(common.ErrCodeValidationInput, "Assignees chỉ dành cho AssignedTask", common.StatusBadRequest, nil)
	}
	return nil
}

// InsertOne override CRUD mặc định: gán taskType theo route, kiểm tra scope
// ceiling, miền status/priority theo loại và các tham chiếu variant-specific.
func (h *TaskHandler) InsertOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input taskdto.TaskCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.checkVariantFieldsOnCreate(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		model, err := h.TransformCreateInputToModel(&input)
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, fmt.Sprintf("Lỗi transform dữ liệu: %v", err), common.StatusBadRequest, err))
			return nil
		}

		actor := h.GetActor(c)
		if err := h.authz.CheckScopeCeiling(actor, model.OrganizationID, model.DepartmentID, authsvc.OpCreate, authsvc.ResourceTask); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		ok, err := h.deptService.BelongsToOrganization(c.Context(), model.DepartmentID, model.OrganizationID)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if !ok {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationReference, "Department không tồn tại hoặc không thuộc organization", common.StatusBadRequest, nil))
			return nil
		}

		if input.Status != "" && !models.ValidStatus(h.taskType, models.TaskStatus(input.Status)) {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, fmt.Sprintf("Status '%s' không hợp lệ với loại task %s", input.Status, h.taskType), common.StatusBadRequest, nil))
			return nil
		}
		if input.Priority != "" && !models.ValidPriority(h.taskType, models.TaskPriority(input.Priority)) {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, fmt.Sprintf("Priority '%s' không hợp lệ với loại task %s", input.Priority, h.taskType), common.StatusBadRequest, nil))
			return nil
		}

		if err := h.taskService.ValidateWatchers(c.Context(), model.OrganizationID, model.Watchers); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		switch h.taskType {
		case basemodels.EntityProjectTask:
			if model.VendorID != nil {
				if err := h.taskService.ValidateVendor(c.Context(), model.OrganizationID, model.DepartmentID, *model.VendorID); err != nil {
					h.HandleResponse(c, nil, err)
					return nil
				}
			}
			if model.PaidAmount > model.TotalCost {
				h.HandleResponse(c, nil, common.NewError(common.ErrCodeBusinessOperation, "Số tiền đã trả không được vượt quá tổng chi phí", common.StatusBadRequest, nil))
				return nil
			}
		case basemodels.EntityAssignedTask:
			if err := h.taskService.ValidateAssignees(c.Context(), model.OrganizationID, model.DepartmentID, model.Assignees); err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
		}

		model.TaskType = string(h.taskType)
		model.CreatedBy = actor.ID
		task, err := h.taskService.InsertOne(h.RequestContext(c), *model)
		h.HandleResponse(c, task, err)
		return nil
	})
}

// UpdateById override CRUD mặc định: tenancy và taskType bất biến, miền
// status/priority theo loại, các tham chiếu mới phải thuộc tenancy của task.
func (h *TaskHandler) UpdateById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParseObjectID(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input taskdto.TaskUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		// Load task trong phạm vi của actor — validation tham chiếu dùng tenancy
		// của task chứ không phải của actor
		filter := h.ApplyScopeFilter(c, bson.M{"_id": id})
		task, err := h.taskService.FindOne(h.RequestContext(c), filter, nil)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		updateSet := make(map[string]interface{})

		if input.Title != "" {
			updateSet["title"] = input.Title
		}
		if input.Description != "" {
			updateSet["description"] = input.Description
		}

		if input.Status != "" {
			if !models.ValidStatus(h.taskType, models.TaskStatus(input.Status)) {
				h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, fmt.Sprintf("Status '%s' không hợp lệ với loại task %s", input.Status, h.taskType), common.StatusBadRequest, nil))
				return nil
			}
			updateSet["status"] = input.Status
		}
		if input.Priority != "" {
			if !models.ValidPriority(h.taskType, models.TaskPriority(input.Priority)) {
				h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, fmt.Sprintf("Priority '%s' không hợp lệ với loại task %s", input.Priority, h.taskType), common.StatusBadRequest, nil))
				return nil
			}
			updateSet["priority"] = input.Priority
		}

		if len(input.Watchers) > 0 {
			watchers, err := parseObjectIDList(input.Watchers)
			if err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
			if err := h.taskService.ValidateWatchers(c.Context(), task.OrganizationID, watchers); err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
			updateSet["watchers"] = watchers
		}

		if h.taskType == basemodels.EntityProjectTask {
			if input.VendorID != "" {
				vendorID, err := primitive.ObjectIDFromHex(input.VendorID)
				if err != nil {
					h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, common.MsgInvalidFormat, common.StatusBadRequest, err))
					return nil
				}
				if err := h.taskService.ValidateVendor(c.Context(), task.OrganizationID, task.DepartmentID, vendorID); err != nil {
					h.HandleResponse(c, nil, err)
					return nil
				}
				updateSet["vendorId"] = vendorID
			}
			if input.TotalCost > 0 {
				updateSet["totalCost"] = input.TotalCost
			}
			if input.PaidAmount > 0 {
				updateSet["paidAmount"] = input.PaidAmount
			}
		} else if input.VendorID != "" || input.TotalCost != 0 || input.PaidAmount != 0 {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Vendor và các field chi phí chỉ dành cho ProjectTask", common.StatusBadRequest, nil))
			return nil
		}

		if h.taskType == basemodels.EntityAssignedTask {
			if len(input.Assignees) > 0 {
				assignees, err := parseObjectIDList(input.Assignees)
				if err != nil {
					h.HandleResponse(c, nil, err)
					return nil
				}
				if err := h.taskService.ValidateAssignees(c.Context(), task.OrganizationID, task.DepartmentID, assignees); err != nil {
					h.HandleResponse(c, nil, err)
					return nil
				}
				updateSet["assignees"] = assignees
			}
		} else if len(input.Assignees) > 0 {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Assignees chỉ dành cho AssignedTask", common.StatusBadRequest, nil))
			return nil
		}

		if len(updateSet) == 0 {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Không có dữ liệu cập nhật", common.StatusBadRequest, nil))
			return nil
		}

		updated, err := h.taskService.UpdateOne(h.RequestContext(c), filter, &basesvc.UpdateData{Set: updateSet}, nil)
		h.HandleResponse(c, updated, err)
		return nil
	})
}

// parseObjectIDList chuyển danh sách hex string sang ObjectID
func parseObjectIDList(raw []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, s := range raw {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, common.NewError(common.ErrCodeValidationFormat, fmt.Sprintf("ID '%s' không đúng định dạng MongoDB ObjectID", s), common.StatusBadRequest, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
