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
	"work_tracker/internal/common"
)

// TaskActivityHandler xử lý các request quản lý hoạt động trên task
type TaskActivityHandler struct {
	*basehdl.BaseHandler[models.TaskActivity, taskdto.TaskActivityCreateInput, taskdto.TaskActivityUpdateInput]
	activityService *tasksvc.TaskActivityService
	authz           *authsvc.AuthorizationService
}

// NewTaskActivityHandler tạo instance mới của TaskActivityHandler
func NewTaskActivityHandler() (*TaskActivityHandler, error) {
	activityService, err := tasksvc.NewTaskActivityService()
	if err != nil {
		return nil, fmt.Errorf("failed to create task activity service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.TaskActivity, taskdto.TaskActivityCreateInput, taskdto.TaskActivityUpdateInput](activityService)
	baseHandler.Lifecycle = basesvc.NewDefaultEntityLifecycle(basemodels.EntityTaskActivity)
	return &TaskActivityHandler{
		BaseHandler:     baseHandler,
		activityService: activityService,
		authz:           authsvc.DefaultAuthorization(),
	}, nil
}

// toMaterialUsages chuyển danh sách usage input sang model
func toMaterialUsages(inputs []taskdto.MaterialUsageInput) ([]models.MaterialUsage, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	usages := make([]models.MaterialUsage, 0, len(inputs))
	for _, in := range inputs {
		materialID, err := primitive.ObjectIDFromHex(in.MaterialID)
		if err != nil {
			return nil, common.NewError(common.ErrCodeValidationFormat, fmt.Sprintf("MaterialID '%s' không đúng định dạng MongoDB ObjectID", in.MaterialID), common.StatusBadRequest, err)
		}
		usages = append(usages, models.MaterialUsage{MaterialID: materialID, Quantity: in.Quantity})
	}
	return usages, nil
}

// InsertOne override CRUD mặc định: activity kế thừa tenancy từ task cha
// (không nhận từ client), vật tư phải thuộc department của task.
func (h *TaskActivityHandler) InsertOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input taskdto.TaskActivityCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		parentModel, ok := basemodels.ParseEntityType(input.ParentModel)
		if !ok || !basemodels.IsTaskVariant(parentModel) {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Loại parent không hợp lệ", common.StatusBadRequest, nil))
			return nil
		}
		parentID, err := primitive.ObjectIDFromHex(input.Parent)
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, common.MsgInvalidFormat, common.StatusBadRequest, err))
			return nil
		}

		tenancy, err := tasksvc.ResolveActiveParent(c.Context(), parentModel, parentID)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		actor := h.GetActor(c)
		if err := h.authz.CheckScopeCeiling(actor, tenancy.OrganizationID, tenancy.DepartmentID, authsvc.OpCreate, authsvc.ResourceTaskActivity); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var statusChange *models.StatusChange
		if input.StatusChange != nil {
			from := models.TaskStatus(input.StatusChange.From)
			to := models.TaskStatus(input.StatusChange.To)
			if !models.ValidStatus(parentModel, from) || !models.ValidStatus(parentModel, to) {
				h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, fmt.Sprintf("Chuyển trạng thái không hợp lệ với loại task %s", parentModel), common.StatusBadRequest, nil))
				return nil
			}
			statusChange = &models.StatusChange{From: from, To: to}
		}

		usages, err := toMaterialUsages(input.MaterialsUsed)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.activityService.ValidateMaterials(c.Context(), tenancy.OrganizationID, tenancy.DepartmentID, usages); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		model := models.TaskActivity{
			Parent:         parentID,
			ParentModel:    string(parentModel),
			OrganizationID: tenancy.OrganizationID,
			DepartmentID:   tenancy.DepartmentID,
			Description:    input.Description,
			StatusChange:   statusChange,
			PerformedBy:    actor.ID,
			MaterialsUsed:  usages,
			CreatedBy:      actor.ID,
		}
		activity, err := h.activityService.InsertOne(h.RequestContext(c), model)
		h.HandleResponse(c, activity, err)
		return nil
	})
}

// FindOneById override CRUD mặc định: trả về activity kèm chi phí vật tư
// derive lúc đọc (price × quantity từng dòng, không lưu).
func (h *TaskActivityHandler) FindOneById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParseObjectID(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		filter := h.ApplyScopeFilter(c, bson.M{"_id": id})
		activity, err := h.activityService.FindOne(h.RequestContext(c), filter, nil)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		withCost, err := h.activityService.WithMaterialCosts(c.Context(), activity)
		h.HandleResponse(c, withCost, err)
		return nil
	})
}

// UpdateById override CRUD mặc định: chỉ cho đổi mô tả và vật tư sử dụng;
// parent, tenancy và status change bất biến sau khi tạo.
func (h *TaskActivityHandler) UpdateById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.ParseObjectID(c, "id")
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input taskdto.TaskActivityUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		filter := h.ApplyScopeFilter(c, bson.M{"_id": id})
		activity, err := h.activityService.FindOne(h.RequestContext(c), filter, nil)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		updateSet := make(map[string]interface{})
		if input.Description != "" {
			updateSet["description"] = input.Description
		}
		if len(input.MaterialsUsed) > 0 {
			usages, err := toMaterialUsages(input.MaterialsUsed)
			if err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
			if err := h.activityService.ValidateMaterials(c.Context(), activity.OrganizationID, activity.DepartmentID, usages); err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
			updateSet["materialsUsed"] = usages
		}

		if len(updateSet) == 0 {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Không có dữ liệu cập nhật", common.StatusBadRequest, nil))
			return nil
		}

		updated, err := h.activityService.UpdateOne(h.RequestContext(c), filter, &basesvc.UpdateData{Set: updateSet}, nil)
		h.HandleResponse(c, updated, err)
		return nil
	})
}
